package config

import (
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int("stride", 10, "")
	fs.Int("top", 10, "")
	fs.String("max-upload", "", "")
	return fs
}

func TestEnvName(t *testing.T) {
	if got := EnvName("max-upload"); got != "HUEPROBE_MAX_UPLOAD" {
		t.Errorf("EnvName() = %s", got)
	}
}

func TestApplyEnv(t *testing.T) {
	fs := newFlagSet()
	if err := fs.Parse([]string{"--top", "3"}); err != nil {
		t.Fatal(err)
	}

	env := map[string]string{
		"HUEPROBE_STRIDE":     "4",
		"HUEPROBE_TOP":        "99",
		"HUEPROBE_MAX_UPLOAD": "",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	if err := applyEnv(fs, lookup); err != nil {
		t.Fatalf("applyEnv() error = %v", err)
	}

	if v, _ := fs.GetInt("stride"); v != 4 {
		t.Errorf("stride = %d, want 4 from environment", v)
	}
	if v, _ := fs.GetInt("top"); v != 3 {
		t.Errorf("top = %d, want 3 from command line", v)
	}
	if v, _ := fs.GetString("max-upload"); v != "" {
		t.Errorf("max-upload = %q, empty env should be ignored", v)
	}
}

func TestApplyEnvInvalid(t *testing.T) {
	fs := newFlagSet()
	t.Setenv("HUEPROBE_STRIDE", "lots")

	err := ApplyEnv(fs)
	if err == nil || !strings.Contains(err.Error(), "HUEPROBE_STRIDE") {
		t.Errorf("ApplyEnv() error = %v", err)
	}
}
