package colour

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrInvalidParameter is returned when an extraction parameter is out of range.
var ErrInvalidParameter = errors.New("invalid parameter")

// Extractor defines the interface for colour extraction algorithms.
type Extractor interface {
	// Extract builds a ranked palette from a pixel buffer.
	Extract(buf PixelBuffer) (Palette, error)
}

// Algorithm represents the colour extraction algorithm type.
type Algorithm string

const (
	// AlgorithmHistogram groups pixels into fixed-size quantisation buckets.
	AlgorithmHistogram Algorithm = "histogram"

	// AlgorithmKMeans clusters the sampled pixels with k-means++.
	AlgorithmKMeans Algorithm = "kmeans"
)

const (
	// DefaultSampleStride visits every 10th pixel.
	DefaultSampleStride = 10

	// DefaultBucketStep gives 8 quantisation levels per channel.
	DefaultBucketStep = 32

	// DefaultTopN is the number of colours reported.
	DefaultTopN = 10

	// MaxBucketStep collapses each channel into a single bucket.
	MaxBucketStep = 256
)

// ValidAlgorithms returns a list of valid algorithm names.
func ValidAlgorithms() []Algorithm {
	return []Algorithm{
		AlgorithmHistogram,
		AlgorithmKMeans,
	}
}

// IsValidAlgorithm checks if the given algorithm name is valid.
func IsValidAlgorithm(alg Algorithm) bool {
	return slices.Contains(ValidAlgorithms(), alg)
}

// ParseAlgorithm converts a user-supplied name into an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	alg := Algorithm(strings.ToLower(strings.TrimSpace(s)))
	if alg == "" {
		return AlgorithmHistogram, nil
	}
	if !IsValidAlgorithm(alg) {
		return "", fmt.Errorf("%w: unknown algorithm %q (valid algorithms: %v)", ErrInvalidParameter, s, ValidAlgorithms())
	}
	return alg, nil
}

// ExtractorConfig holds configuration for colour extraction.
type ExtractorConfig struct {
	Algorithm Algorithm

	// SampleStride is the distance in whole pixels between visited pixels.
	SampleStride int

	// BucketStep is the per-channel quantisation step, in [1, 256].
	BucketStep int

	// TopN caps the number of returned colours.
	TopN int

	// Seed makes k-means initialisation reproducible.
	Seed uint64
}

// DefaultExtractorConfig returns the default extractor configuration.
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		Algorithm:    AlgorithmHistogram,
		SampleStride: DefaultSampleStride,
		BucketStep:   DefaultBucketStep,
		TopN:         DefaultTopN,
	}
}

// Validate validates the extractor configuration.
func (c ExtractorConfig) Validate() error {
	if !IsValidAlgorithm(c.Algorithm) {
		return fmt.Errorf("%w: unknown algorithm %q", ErrInvalidParameter, c.Algorithm)
	}
	return validateParams(c.SampleStride, c.BucketStep, c.TopN)
}

func validateParams(sampleStride, bucketStep, topN int) error {
	if sampleStride < 1 {
		return fmt.Errorf("%w: sample stride must be at least 1, got %d", ErrInvalidParameter, sampleStride)
	}
	if bucketStep < 1 || bucketStep > MaxBucketStep {
		return fmt.Errorf("%w: bucket step must be in [1, %d], got %d", ErrInvalidParameter, MaxBucketStep, bucketStep)
	}
	if topN < 0 {
		return fmt.Errorf("%w: top-N must not be negative, got %d", ErrInvalidParameter, topN)
	}
	return nil
}

// NewExtractor creates a new Extractor for the configured algorithm.
func NewExtractor(cfg ExtractorConfig) (Extractor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Algorithm {
	case AlgorithmHistogram:
		return &HistogramExtractor{
			sampleStride: cfg.SampleStride,
			bucketStep:   cfg.BucketStep,
			topN:         cfg.TopN,
		}, nil
	case AlgorithmKMeans:
		return NewKMeansExtractor(cfg.SampleStride, cfg.TopN, cfg.Seed), nil
	default:
		return nil, fmt.Errorf("%w: unknown algorithm %q", ErrInvalidParameter, cfg.Algorithm)
	}
}
