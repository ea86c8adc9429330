package image

import (
	"image"
	"image/color"
	"testing"

	"github.com/jmylchreest/hueprobe/internal/colour"
)

func halves(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			if x >= w/2 {
				img.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
			} else {
				img.SetNRGBA(x, y, color.NRGBA{A: 255})
			}
		}
	}
	return img
}

func TestFitKeepsSourceColours(t *testing.T) {
	tests := []struct {
		name   string
		maxDim int
	}{
		{name: "full resolution", maxDim: 0},
		{name: "scaled", maxDim: 1024},
		{name: "heavily scaled", maxDim: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := colour.ExtractPalette(colour.BufferFromImage(Fit(halves(2048, 1024), tt.maxDim)), 1, 32, 10)
			if err != nil {
				t.Fatal(err)
			}
			if p.Len() != 2 {
				t.Fatalf("Fit(%d) gave %d colours, want 2: %v", tt.maxDim, p.Len(), p)
			}
			for _, e := range p.Entries {
				name := colour.NameColour(e.RGB)
				if (name != "Black" && name != "White") || e.Percentage != 50 {
					t.Errorf("Fit(%d) entry = %s %s %.2f%%, want Black or White at 50%%", tt.maxDim, e.RGB.Hex(), name, e.Percentage)
				}
			}
		})
	}
}

func TestFitDoesNotBlendCheckerboard(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2048, 2048))
	for y := range 2048 {
		for x := range 2048 {
			v := uint8(0)
			if (x+y)%2 == 1 {
				v = 255
			}
			src.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}

	p, err := colour.ExtractPalette(colour.BufferFromImage(Fit(src, 1024)), 1, 32, 10)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range p.Entries {
		if hex := e.RGB.Hex(); hex != "#000000" && hex != "#ffffff" {
			t.Errorf("Fit() produced blended colour %s (%.2f%%)", hex, e.Percentage)
		}
	}
}
