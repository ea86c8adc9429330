// Package server exposes palette extraction over HTTP for image uploads.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/hueprobe/internal/colour"
	imgutil "github.com/jmylchreest/hueprobe/internal/image"
	"github.com/jmylchreest/hueprobe/internal/seed"
	"github.com/jmylchreest/hueprobe/internal/version"
)

const (
	// DefaultMaxUploadBytes limits the request body of an upload.
	DefaultMaxUploadBytes = 20 << 20

	// DefaultRequestTimeout bounds the time spent on one request.
	DefaultRequestTimeout = 30 * time.Second

	// uploadField is the multipart field holding the image.
	uploadField = "image"
)

// Config configures the HTTP handler.
type Config struct {
	// Extractor holds the defaults; requests may override them with query parameters.
	Extractor colour.ExtractorConfig

	// SeedMode picks the kmeans seed when a request has no seed parameter.
	SeedMode seed.Mode

	MaxUploadBytes int64
	MaxDimension   int
	RequestTimeout time.Duration
}

// DefaultConfig returns the default server configuration.
func DefaultConfig() Config {
	return Config{
		Extractor:      colour.DefaultExtractorConfig(),
		SeedMode:       seed.ModeContent,
		MaxUploadBytes: DefaultMaxUploadBytes,
		RequestTimeout: DefaultRequestTimeout,
	}
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// NameRequest asks for the name of a single colour.
type NameRequest struct {
	Colour string `json:"colour" binding:"required"`
}

// NameResponse is the reply to a NameRequest.
type NameResponse struct {
	Name string     `json:"name"`
	Hex  string     `json:"hex"`
	RGB  colour.RGB `json:"rgb"`
}

// NewHandler builds the gin engine serving the palette API.
func NewHandler(cfg Config, logger hclog.Logger) http.Handler {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.SeedMode == "" {
		cfg.SeedMode = seed.ModeContent
	}

	r := gin.New()
	r.Use(
		requestLogger(logger),
		gin.CustomRecovery(recoverWithJSON(logger)),
		requestSizeLimiter(cfg.MaxUploadBytes),
	)

	r.GET("/health", healthCheck)

	v1 := r.Group("/v1")
	v1.GET("/names", listNames)
	v1.POST("/name", nameColour(logger))
	v1.POST("/palette", extractPalette(cfg, logger))

	return r
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"version": version.Short(),
		"build":   version.Get(),
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func listNames(c *gin.Context) {
	c.JSON(http.StatusOK, colour.ReferenceColours[:])
}

func nameColour(logger hclog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req NameRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, logger, http.StatusBadRequest, "invalid request format", err)
			return
		}

		rgb, err := colour.ParseColour(req.Colour)
		if err != nil {
			respondError(c, logger, http.StatusBadRequest, "invalid colour", err)
			return
		}

		c.JSON(http.StatusOK, NameResponse{Name: colour.NameColour(rgb), Hex: rgb.Hex(), RGB: rgb})
	}
}

func extractPalette(cfg Config, logger hclog.Logger) gin.HandlerFunc {
	logger = logger.Named("palette")

	return func(c *gin.Context) {
		start := time.Now()
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		exCfg, seedGiven, err := extractorConfigFromQuery(c, cfg.Extractor)
		if err != nil {
			respondError(c, logger, statusFor(err), "invalid extraction parameters", err)
			return
		}

		fh, err := c.FormFile(uploadField)
		if err != nil {
			code := statusFor(err)
			if code == http.StatusInternalServerError {
				code = http.StatusBadRequest
			}
			respondError(c, logger, code, fmt.Sprintf("missing %q upload", uploadField), err)
			return
		}
		file, err := fh.Open()
		if err != nil {
			respondError(c, logger, http.StatusBadRequest, "failed to read upload", err)
			return
		}
		defer file.Close()

		img, format, err := imgutil.DecodeReader(file)
		if err != nil {
			respondError(c, logger, statusFor(err), "failed to decode image", err)
			return
		}

		buf := colour.BufferFromImage(imgutil.Fit(img, cfg.MaxDimension))
		if exCfg.Algorithm == colour.AlgorithmKMeans && !seedGiven {
			if exCfg.Seed, err = seed.Calculate(cfg.SeedMode, buf, fh.Filename, exCfg.Seed); err != nil {
				respondError(c, logger, statusFor(err), "failed to derive seed", err)
				return
			}
		}

		extractor, err := colour.NewExtractor(exCfg)
		if err != nil {
			respondError(c, logger, statusFor(err), "invalid extraction parameters", err)
			return
		}

		palette, err := runExtraction(ctx, extractor, buf)
		if err != nil {
			respondError(c, logger, statusFor(err), "failed to extract palette", err)
			return
		}

		logger.Debug("palette extracted",
			"file", fh.Filename,
			"format", format,
			"algorithm", exCfg.Algorithm,
			"seed", exCfg.Seed,
			"colours", palette.Len(),
			"sampled_pixels", palette.SampledPixels,
			"duration", time.Since(start),
		)

		c.JSON(http.StatusOK, colour.NewPaletteJSON(fh.Filename, palette))
	}
}

// runExtraction returns as soon as ctx is done. The extraction itself is not
// interruptible and finishes in the background; done is buffered so it never blocks.
func runExtraction(ctx context.Context, e colour.Extractor, buf colour.PixelBuffer) (colour.Palette, error) {
	type result struct {
		p   colour.Palette
		err error
	}

	done := make(chan result, 1)
	go func() {
		p, err := e.Extract(buf)
		done <- result{p, err}
	}()

	select {
	case r := <-done:
		return r.p, r.err
	case <-ctx.Done():
		return colour.Palette{}, ctx.Err()
	}
}

// extractorConfigFromQuery overlays stride, step, top, algorithm and seed query parameters on base.
// It reports whether the request fixed the seed.
func extractorConfigFromQuery(c *gin.Context, base colour.ExtractorConfig) (colour.ExtractorConfig, bool, error) {
	cfg := base

	ints := []struct {
		key string
		dst *int
	}{
		{"stride", &cfg.SampleStride},
		{"step", &cfg.BucketStep},
		{"top", &cfg.TopN},
	}
	for _, q := range ints {
		v, ok := c.GetQuery(q.key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, false, fmt.Errorf("%w: %s=%q is not an integer", colour.ErrInvalidParameter, q.key, v)
		}
		*q.dst = n
	}

	if v, ok := c.GetQuery("algorithm"); ok {
		alg, err := colour.ParseAlgorithm(v)
		if err != nil {
			return cfg, false, err
		}
		cfg.Algorithm = alg
	}

	v, seedGiven := c.GetQuery("seed")
	if seedGiven {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return cfg, false, fmt.Errorf("%w: seed=%q is not an unsigned integer", colour.ErrInvalidParameter, v)
		}
		cfg.Seed = n
	}

	return cfg, seedGiven, cfg.Validate()
}

// statusFor maps an error to the HTTP status reported to the client.
func statusFor(err error) int {
	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.Is(err, colour.ErrInvalidParameter):
		return http.StatusBadRequest
	case errors.Is(err, imgutil.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &maxBytesErr):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, logger hclog.Logger, code int, message string, err error) {
	logger.Warn("request failed",
		"status", code,
		"message", message,
		"path", c.Request.URL.Path,
		"error", err,
	)

	c.AbortWithStatusJSON(code, ErrorResponse{
		Error:   http.StatusText(code),
		Message: fmt.Sprintf("%s: %v", message, err),
	})
}
