package cli

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/hueprobe/internal/seed"
	"github.com/jmylchreest/hueprobe/internal/server"
)

// DefaultListenAddress is where serve listens when --listen is not given.
const DefaultListenAddress = ":8080"

type serveOptions struct {
	root *rootOptions
	extractorFlags

	listen       string
	maxUpload    int64
	timeout      time.Duration
	maxDimension int
}

func newServeCmd(root *rootOptions) *cobra.Command {
	opts := &serveOptions{root: root}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve palette extraction over HTTP",
		Long: `Run an HTTP API for palette extraction.

Endpoints:
  GET  /health        service status
  GET  /v1/names      reference colour table
  POST /v1/name       {"colour": "#1e90ff"} -> nearest name
  POST /v1/palette    multipart upload in the "image" field; the query
                      parameters stride, step, top, algorithm and seed
                      override the defaults set by flags

Examples:
  hueprobe serve --listen 127.0.0.1:9000
  curl -F image=@photo.jpg 'http://127.0.0.1:9000/v1/palette?top=5'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			mode, err := opts.resolveSeedMode(cmd.Flags())
			if err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			return runServe(ctx, opts, mode)
		},
	}

	opts.extractorFlags.register(cmd.Flags())
	cmd.Flags().StringVar(&opts.listen, "listen", DefaultListenAddress, "address to listen on")
	cmd.Flags().Int64Var(&opts.maxUpload, "max-upload", server.DefaultMaxUploadBytes, "maximum request body size in bytes")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", server.DefaultRequestTimeout, "per-request timeout")
	cmd.Flags().IntVar(&opts.maxDimension, "max-dimension", 0, "scale uploads down to this many pixels on the longest side before sampling (0 keeps full resolution)")

	return cmd
}

func runServe(ctx context.Context, opts *serveOptions, mode seed.Mode) error {
	logger := opts.root.Logger().Named("serve")

	exCfg, err := opts.config()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if opts.maxUpload <= 0 {
		return fmt.Errorf("invalid configuration: max-upload must be positive, got %d", opts.maxUpload)
	}

	if opts.root.verbose {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ln, err := net.Listen("tcp", opts.listen)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", opts.listen, err)
	}

	cfg := server.Config{
		Extractor:      exCfg,
		SeedMode:       mode,
		MaxUploadBytes: opts.maxUpload,
		MaxDimension:   opts.maxDimension,
		RequestTimeout: opts.timeout,
	}
	return server.Serve(ctx, ln, cfg, logger)
}
