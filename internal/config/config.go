// Package config applies environment overrides to command-line flags.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "HUEPROBE_"

// EnvName returns the environment variable that configures a flag,
// e.g. "max-upload" becomes "HUEPROBE_MAX_UPLOAD".
func EnvName(flag string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
}

// ApplyEnv sets every flag in fs that was not given on the command line from
// its environment variable, when that variable is non-empty.
// Flags set explicitly always win.
func ApplyEnv(fs *pflag.FlagSet) error {
	return applyEnv(fs, os.LookupEnv)
}

func applyEnv(fs *pflag.FlagSet, lookup func(string) (string, bool)) error {
	var errs []string
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			return
		}
		name := EnvName(f.Name)
		value, ok := lookup(name)
		if !ok || value == "" {
			return
		}
		if err := fs.Set(f.Name, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s=%q: %v", name, value, err))
		}
	})

	if len(errs) > 0 {
		return fmt.Errorf("invalid environment configuration: %s", strings.Join(errs, "; "))
	}
	return nil
}
