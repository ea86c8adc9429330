package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/jmylchreest/hueprobe/internal/colour"
	"github.com/jmylchreest/hueprobe/internal/seed"
)

// extractorFlags are the extraction parameters shared by extract and serve.
type extractorFlags struct {
	stride    int
	step      int
	top       int
	algorithm string
	seed      uint64
	seedMode  string
}

func (f *extractorFlags) register(fs *pflag.FlagSet) {
	def := colour.DefaultExtractorConfig()
	fs.IntVar(&f.stride, "stride", def.SampleStride, "sample every Nth pixel")
	fs.IntVar(&f.step, "step", def.BucketStep, "bucket width per channel (1-256)")
	fs.IntVarP(&f.top, "top", "n", def.TopN, "maximum number of colours to report")
	fs.StringVarP(&f.algorithm, "algorithm", "a", string(def.Algorithm), fmt.Sprintf("extraction algorithm (histogram, kmeans; kmeans samples at most %d pixels and widens --stride to stay under it)", colour.KMeansMaxSamples))
	fs.Uint64Var(&f.seed, "seed", def.Seed, "random seed for kmeans (implies --seed-mode manual)")
	fs.StringVar(&f.seedMode, "seed-mode", string(seed.ModeContent), "kmeans seed source (content, path, manual, random)")
}

// resolveSeedMode returns the seed mode, switching to manual when only --seed was given.
func (f *extractorFlags) resolveSeedMode(fs *pflag.FlagSet) (seed.Mode, error) {
	if fs.Changed("seed") && !fs.Changed("seed-mode") {
		return seed.ModeManual, nil
	}
	return seed.ParseMode(f.seedMode)
}

// config validates the flags and returns the extractor configuration.
func (f *extractorFlags) config() (colour.ExtractorConfig, error) {
	alg, err := colour.ParseAlgorithm(f.algorithm)
	if err != nil {
		return colour.ExtractorConfig{}, err
	}

	cfg := colour.ExtractorConfig{
		Algorithm:    alg,
		SampleStride: f.stride,
		BucketStep:   f.step,
		TopN:         f.top,
		Seed:         f.seed,
	}
	if err := cfg.Validate(); err != nil {
		return colour.ExtractorConfig{}, err
	}
	return cfg, nil
}

// Preview modes for terminal colour swatches.
const (
	previewAuto   = "auto"
	previewAlways = "always"
	previewNever  = "never"
)

// resolvePreview decides whether swatches are drawn on w.
// In auto mode they are drawn only when w is a terminal.
func resolvePreview(mode string, w io.Writer) (bool, error) {
	switch strings.ToLower(mode) {
	case previewAlways:
		return true, nil
	case previewNever:
		return false, nil
	case previewAuto, "":
		f, ok := w.(*os.File)
		return ok && term.IsTerminal(int(f.Fd())), nil
	default:
		return false, fmt.Errorf("invalid preview mode: %s (valid: auto, always, never)", mode)
	}
}
