package version

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	origCommit, origDate := Commit, Date
	t.Cleanup(func() { Commit, Date = origCommit, origDate })

	Commit, Date = "unknown", "unknown"
	if s := String(); !strings.HasPrefix(s, "hueprobe version "+Version+" (") {
		t.Errorf("String() = %q", s)
	}

	Commit, Date = "0123456789abcdef", "2026-01-02T03:04:05Z"
	s := String()
	if !strings.Contains(s, "commit: 01234567,") || !strings.Contains(s, "built: 2026-01-02T03:04:05Z") {
		t.Errorf("String() = %q", s)
	}

	Commit = "abc"
	if s := String(); !strings.Contains(s, "commit: abc,") {
		t.Errorf("short commit String() = %q", s)
	}
}

func TestGet(t *testing.T) {
	info := Get()
	if info.Version != Version || info.GoVersion == "" || !strings.Contains(info.Platform, "/") {
		t.Errorf("Get() = %+v", info)
	}
}

func TestShort(t *testing.T) {
	if Short() != Version {
		t.Errorf("Short() = %q, want %q", Short(), Version)
	}
}
