package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/hueprobe/internal/batch"
	"github.com/jmylchreest/hueprobe/internal/colour"
	"github.com/jmylchreest/hueprobe/internal/image"
	"github.com/jmylchreest/hueprobe/internal/seed"
	"github.com/jmylchreest/hueprobe/internal/util/imagecache"
)

// Output formats for extract.
const (
	formatTable = "table"
	formatHex   = "hex"
	formatRGB   = "rgb"
	formatJSON  = "json"
)

type extractOptions struct {
	root *rootOptions
	extractorFlags
	mode seed.Mode

	maxDimension int
	format       string
	preview      string
	output       string
	all          bool
	workers      int
	cacheDir     string
}

func newExtractCmd(root *rootOptions) *cobra.Command {
	opts := &extractOptions{root: root}

	cmd := &cobra.Command{
		Use:   "extract <image|directory|url>...",
		Short: "Extract the dominant colours of one or more images",
		Long: `Extract the dominant colours of an image.

Pixels are sampled at a fixed stride, transparent pixels are skipped and the
rest are grouped into coarse RGB buckets. Each reported colour is the average
of its bucket, ranked by how many sampled pixels fell into it.

A directory argument picks one image at random, or every image with --all.
HTTP(S) URLs are downloaded first, and cached on disk with --cache-dir.

Supported image formats: JPEG, PNG, GIF, WebP, BMP, TIFF

Examples:
  # Top 10 colours as a table
  hueprobe extract wallpaper.jpg

  # Five colours as hex codes
  hueprobe extract -n 5 -f hex wallpaper.png

  # Sample every pixel with finer buckets
  hueprobe extract --stride 1 --step 16 photo.webp

  # Cluster with k-means instead of fixed buckets
  hueprobe extract -a kmeans --seed 42 photo.jpg

  # Every image in a directory, as JSON
  hueprobe extract --all -f json ~/Pictures/wallpapers`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := opts.resolveSeedMode(cmd.Flags())
			if err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			opts.mode = mode
			return runExtract(cmd.Context(), opts, args, cmd.OutOrStdout())
		},
	}

	opts.extractorFlags.register(cmd.Flags())
	cmd.Flags().IntVar(&opts.maxDimension, "max-dimension", 0, "scale images down to this many pixels on the longest side before sampling (0 keeps full resolution)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatTable, "output format (table, hex, rgb, json)")
	cmd.Flags().StringVar(&opts.preview, "preview", previewAuto, "colour swatches in output (auto, always, never)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&opts.all, "all", false, "process every image in a directory")
	cmd.Flags().IntVarP(&opts.workers, "workers", "j", 0, "images processed in parallel (default: number of CPUs)")
	cmd.Flags().StringVar(&opts.cacheDir, "cache-dir", "", "cache downloaded images in this directory")

	return cmd
}

// runExtract executes the extract command.
func runExtract(ctx context.Context, opts *extractOptions, args []string, stdout io.Writer) error {
	logger := opts.root.Logger().Named("extract")

	cfg, err := opts.config()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if opts.mode == "" {
		opts.mode = seed.ModeContent
	}
	if opts.maxDimension < 0 {
		return fmt.Errorf("invalid configuration: %w: max-dimension must be >= 0, got %d", colour.ErrInvalidParameter, opts.maxDimension)
	}

	switch opts.format {
	case formatTable, formatHex, formatRGB, formatJSON:
	default:
		return fmt.Errorf("unsupported format: %s (supported: table, hex, rgb, json)", opts.format)
	}

	var previewTarget io.Writer = stdout
	if opts.output != "" {
		previewTarget = nil
	}
	preview, err := resolvePreview(opts.preview, previewTarget)
	if err != nil {
		return err
	}

	var paths []string
	for _, arg := range args {
		if err := image.ValidateImagePath(arg); err != nil {
			return fmt.Errorf("invalid image path: %w", err)
		}
		resolved, err := image.ResolveImagePaths(arg, opts.all)
		if err != nil {
			return err
		}
		paths = append(paths, resolved...)
	}
	if len(paths) == 0 {
		return errNoImages
	}

	var loaderOpts []image.SmartLoaderOption
	if opts.cacheDir != "" {
		loaderOpts = append(loaderOpts, image.WithCache(imagecache.CacheOptions{CacheDir: opts.cacheDir}))
	}
	loader := image.NewSmartLoader(loaderOpts...)

	logger.Debug("extracting palettes",
		"images", len(paths),
		"algorithm", cfg.Algorithm,
		"stride", cfg.SampleStride,
		"step", cfg.BucketStep,
		"top", cfg.TopN,
		"seed_mode", opts.mode,
	)

	results := batch.Run(ctx, paths, opts.workers, func(ctx context.Context, path string) (colour.Palette, error) {
		return extractOne(ctx, logger, loader, cfg, opts.mode, path, opts.maxDimension)
	})

	failed := batch.Errors(results)
	for _, r := range failed {
		logger.Error("extraction failed", "image", r.Input, "error", r.Err)
	}
	if len(failed) == len(results) {
		if len(results) == 1 {
			return results[0].Err
		}
		return fmt.Errorf("all %d images failed", len(results))
	}

	var ok []batch.Result[colour.Palette]
	for _, r := range results {
		if r.Err == nil {
			ok = append(ok, r)
		}
	}

	output, err := formatResults(ok, opts.format, preview)
	if err != nil {
		return err
	}

	if opts.output != "" {
		if err := os.WriteFile(opts.output, []byte(output), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		logger.Info("wrote palette", "path", opts.output)
	} else if _, err := io.WriteString(stdout, output); err != nil {
		return err
	}

	if len(failed) > 0 {
		return fmt.Errorf("%d of %d images failed", len(failed), len(results))
	}
	return nil
}

// extractOne loads, scales and samples a single image.
// For kmeans the seed is derived per image according to mode.
func extractOne(ctx context.Context, logger hclog.Logger, loader image.Loader, cfg colour.ExtractorConfig, mode seed.Mode, path string, maxDim int) (colour.Palette, error) {
	start := time.Now()

	img, err := loader.Load(ctx, path)
	if err != nil {
		return colour.Palette{}, fmt.Errorf("failed to load image: %w", err)
	}
	bounds := img.Bounds()
	buf := colour.BufferFromImage(image.Fit(img, maxDim))

	if cfg.Algorithm == colour.AlgorithmKMeans {
		if cfg.Seed, err = seed.Calculate(mode, buf, path, cfg.Seed); err != nil {
			return colour.Palette{}, err
		}
	}
	extractor, err := colour.NewExtractor(cfg)
	if err != nil {
		return colour.Palette{}, fmt.Errorf("failed to create extractor: %w", err)
	}

	palette, err := extractor.Extract(buf)
	if err != nil {
		return colour.Palette{}, fmt.Errorf("failed to extract colours: %w", err)
	}

	logger.Debug("extracted palette",
		"image", path,
		"width", bounds.Dx(),
		"height", bounds.Dy(),
		"seed", cfg.Seed,
		"sampled_pixels", palette.SampledPixels,
		"colours", palette.Len(),
		"duration", time.Since(start),
	)
	return palette, nil
}

// formatResults renders every palette in the requested format.
// Headings are only added when there is more than one image.
func formatResults(results []batch.Result[colour.Palette], format string, preview bool) (string, error) {
	if format == formatJSON {
		return formatJSONResults(results)
	}

	var sb strings.Builder
	for i, r := range results {
		if len(results) > 1 {
			if i > 0 {
				sb.WriteString("\n")
			}
			fmt.Fprintf(&sb, "# %s\n", r.Input)
		}

		switch format {
		case formatTable:
			sb.WriteString(formatPaletteTable(r.Value, preview))
		case formatHex:
			sb.WriteString(formatHexLines(r.Value, preview))
		case formatRGB:
			sb.WriteString(formatRGBLines(r.Value, preview))
		}
	}
	return sb.String(), nil
}

// formatJSONResults prints one document for a single image, otherwise an array.
func formatJSONResults(results []batch.Result[colour.Palette]) (string, error) {
	var (
		data []byte
		err  error
	)
	if len(results) == 1 {
		data, err = results[0].Value.ToJSON(results[0].Input)
	} else {
		docs := make([]colour.PaletteJSON, len(results))
		for i, r := range results {
			docs[i] = colour.NewPaletteJSON(r.Input, r.Value)
		}
		data, err = json.MarshalIndent(docs, "", "  ")
	}
	if err != nil {
		return "", fmt.Errorf("failed to convert to JSON: %w", err)
	}
	return string(data) + "\n", nil
}

// formatPaletteTable lists the palette with rank, name and share.
func formatPaletteTable(p colour.Palette, preview bool) string {
	if p.Empty() {
		return "No colours found\n"
	}

	headers := []string{"#", "Hex", "RGB", "Name", "Pixels", "Share"}
	if preview {
		headers = append([]string{"Colour"}, headers...)
	}
	table := NewTable(headers...)
	offset := len(headers) - 6
	table.AlignRight(offset, offset+4, offset+5)

	for i, c := range colour.Label(p) {
		row := []string{
			strconv.Itoa(i + 1),
			c.Hex,
			fmt.Sprintf("%d,%d,%d", c.RGB.R, c.RGB.G, c.RGB.B),
			c.Name,
			strconv.Itoa(c.PixelCount),
			fmt.Sprintf("%.2f%%", c.Percentage),
		}
		if preview {
			row = append([]string{colour.ColourPreview(c.RGB, 6)}, row...)
		}
		table.AddRow(row...)
	}

	return table.Render() + fmt.Sprintf("%d sampled pixels\n", p.SampledPixels)
}

// formatHexLines prints one hex code per line.
func formatHexLines(p colour.Palette, preview bool) string {
	if !preview {
		if p.Empty() {
			return ""
		}
		return strings.Join(p.ToHex(), "\n") + "\n"
	}

	var sb strings.Builder
	for _, e := range p.All() {
		sb.WriteString(colour.FormatColourWithLabel(e.RGB, colour.NameColour(e.RGB), 8))
		sb.WriteString("\n")
	}
	return sb.String()
}

// formatRGBLines prints one rgb() triple per line.
func formatRGBLines(p colour.Palette, preview bool) string {
	var sb strings.Builder
	for _, rgb := range p.ToRGBSlice() {
		if preview {
			sb.WriteString(colour.ColourPreview(rgb, 8) + "  ")
		}
		sb.WriteString(rgb.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

// errNoImages is returned when arguments resolve to nothing.
var errNoImages = errors.New("no images to process")
