// Package cli provides the command-line interface for hueprobe.
package cli

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/hueprobe/internal/config"
	"github.com/jmylchreest/hueprobe/internal/logging"
	"github.com/jmylchreest/hueprobe/internal/version"
)

// rootOptions holds the global flags and the logger built from them.
type rootOptions struct {
	verbose   bool
	quiet     bool
	logFormat string

	logger hclog.Logger
}

// Logger returns the configured logger, or a discarding one before flags are parsed.
func (o *rootOptions) Logger() hclog.Logger {
	if o.logger == nil {
		return logging.Discard()
	}
	return o.logger
}

// NewRootCmd builds the hueprobe command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "hueprobe",
		Short: "Find the dominant colours of an image",
		Long: `hueprobe samples an image, groups similar pixels and reports the colours
that cover most of it, each with its share of the image and a plain name
such as "Navy" or "Orange".

Every flag can also be set through a HUEPROBE_ environment variable, e.g.
HUEPROBE_TOP=5 or HUEPROBE_LISTEN=:9000. Flags given on the command line win.`,
		Version:      version.Short(),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.ApplyEnv(cmd.Flags()); err != nil {
				return err
			}

			logger, err := logging.New(logging.Options{
				Verbose: opts.verbose,
				Quiet:   opts.quiet,
				Format:  opts.logFormat,
				Output:  cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}
			opts.logger = logger
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")
	cmd.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress non-error output")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "text", "log format (text, json)")

	cmd.SetVersionTemplate(version.String() + "\n")

	cmd.AddCommand(
		newVersionCmd(),
		newExtractCmd(opts),
		newNamesCmd(),
		newNameCmd(),
		newServeCmd(opts),
	)

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build date, commit hash, and Go version.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
