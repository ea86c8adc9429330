// Package logging builds the hclog loggers used across hueprobe.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// Name is the root logger name.
const Name = "hueprobe"

// Options configures the root logger.
type Options struct {
	Verbose bool
	Quiet   bool

	// Format is "text" or "json".
	Format string

	// Output defaults to os.Stderr.
	Output io.Writer
}

// Level returns the log level implied by the verbosity flags.
// Quiet wins over Verbose.
func (o Options) Level() hclog.Level {
	switch {
	case o.Quiet:
		return hclog.Error
	case o.Verbose:
		return hclog.Debug
	default:
		return hclog.Info
	}
}

// New creates the root logger.
func New(opts Options) (hclog.Logger, error) {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	var jsonFormat bool
	switch strings.ToLower(opts.Format) {
	case "", "text":
	case "json":
		jsonFormat = true
	default:
		return nil, fmt.Errorf("invalid log format: %s (valid: text, json)", opts.Format)
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:       Name,
		Level:      opts.Level(),
		Output:     out,
		JSONFormat: jsonFormat,
		Color:      hclog.ColorOff,
	}), nil
}

// Discard returns a logger that drops everything.
func Discard() hclog.Logger {
	return hclog.NewNullLogger()
}
