// Package seed derives the random seed used for k-means clustering.
package seed

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"slices"
	"strings"

	"github.com/jmylchreest/hueprobe/internal/colour"
)

// Mode determines how the seed is chosen.
type Mode string

const (
	// ModeContent hashes the pixel data, so identical images cluster identically.
	ModeContent Mode = "content"
	// ModePath hashes the absolute file path or URL.
	ModePath Mode = "path"
	// ModeManual uses the value given by the user.
	ModeManual Mode = "manual"
	// ModeRandom varies on every run.
	ModeRandom Mode = "random"
)

// ValidModes returns a list of valid seed modes.
func ValidModes() []Mode {
	return []Mode{ModeContent, ModePath, ModeManual, ModeRandom}
}

// ParseMode converts a string to a Mode.
func ParseMode(s string) (Mode, error) {
	mode := Mode(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(ValidModes(), mode) {
		return mode, nil
	}
	return "", fmt.Errorf("%w: invalid seed mode %q (valid: content, path, manual, random)", colour.ErrInvalidParameter, s)
}

// Calculate returns the seed for one image. buf is used by ModeContent,
// source by ModePath and value by ModeManual.
func Calculate(mode Mode, buf colour.PixelBuffer, source string, value uint64) (uint64, error) {
	switch mode {
	case ModeContent:
		return FromContent(buf), nil
	case ModePath:
		if source == "" {
			return 0, fmt.Errorf("source is required for %s seed mode", ModePath)
		}
		return FromPath(source), nil
	case ModeManual:
		return value, nil
	case ModeRandom:
		return rand.Uint64(), nil
	default:
		return 0, fmt.Errorf("%w: unknown seed mode %q", colour.ErrInvalidParameter, mode)
	}
}

// maxHashedPixels caps the pixels read by FromContent.
const maxHashedPixels = 10000

// FromContent hashes the dimensions and an evenly spaced sample of pixels.
func FromContent(buf colour.PixelBuffer) uint64 {
	h := sha256.New()

	var dims [16]byte
	binary.LittleEndian.PutUint64(dims[0:8], uint64(max(buf.Width, 0)))
	binary.LittleEndian.PutUint64(dims[8:16], uint64(max(buf.Height, 0)))
	h.Write(dims[:])

	if buf.Valid() {
		n := buf.Len()
		step := max(n/maxHashedPixels, 1)
		px := make([]byte, 4)
		for i := 0; i < n; i += step {
			px[0], px[1], px[2], px[3] = buf.At(i)
			h.Write(px)
		}
	}

	return binary.LittleEndian.Uint64(h.Sum(nil)[:8])
}

// FromPath hashes the absolute form of a file path. URLs are hashed as given.
func FromPath(source string) uint64 {
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		if abs, err := filepath.Abs(source); err == nil {
			source = abs
		}
	}
	sum := sha256.Sum256([]byte(source))
	return binary.LittleEndian.Uint64(sum[:8])
}
