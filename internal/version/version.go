// Package version reports how the hueprobe binary was built.
//
// Release builds set the variables below with
// -ldflags "-X github.com/jmylchreest/hueprobe/internal/version.Version=x.y.z".
package version

import (
	"fmt"
	"runtime"
)

const unset = "unknown"

var (
	Version   = "dev"
	Commit    = unset
	Date      = unset // RFC3339
	GoVersion = runtime.Version()
)

// Info is the build metadata, as served by /health.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get collects the build metadata.
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: GoVersion,
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// shortCommit trims a commit hash to eight characters.
func (i Info) shortCommit() string {
	if len(i.Commit) > 8 {
		return i.Commit[:8]
	}
	return i.Commit
}

// String renders the version line printed by `hueprobe version`.
// Commit and date appear only when both were injected.
func String() string {
	i := Get()
	if i.Commit == unset || i.Date == unset {
		return fmt.Sprintf("hueprobe version %s (%s, %s)", i.Version, i.GoVersion, i.Platform)
	}
	return fmt.Sprintf("hueprobe version %s (commit: %s, built: %s, %s, %s)",
		i.Version, i.shortCommit(), i.Date, i.GoVersion, i.Platform)
}

// Short is the bare version number.
func Short() string {
	return Version
}
