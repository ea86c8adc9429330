package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
)

func TestLevel(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want hclog.Level
	}{
		{name: "default", opts: Options{}, want: hclog.Info},
		{name: "verbose", opts: Options{Verbose: true}, want: hclog.Debug},
		{name: "quiet", opts: Options{Quiet: true}, want: hclog.Error},
		{name: "quiet wins", opts: Options{Verbose: true, Quiet: true}, want: hclog.Error},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.opts.Level(); got != tt.want {
				t.Errorf("Level() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.Debug("hidden")
	logger.Named("extract").Info("palette ready", "colours", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message logged at info level: %q", out)
	}
	if !strings.Contains(out, "hueprobe.extract: palette ready: colours=3") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Output: &buf, Format: "json", Verbose: true})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.Debug("sampled", "pixels", 42)

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if line["@message"] != "sampled" || line["pixels"] != float64(42) || line["@module"] != Name {
		t.Errorf("unexpected JSON line: %v", line)
	}
}

func TestNewInvalidFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Error("New() should reject unknown formats")
	}
}
