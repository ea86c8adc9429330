package colour

import (
	"slices"
	"testing"
)

func TestKMeansFewDistinctColours(t *testing.T) {
	red := [4]uint8{255, 0, 0, 255}
	blue := [4]uint8{0, 0, 255, 255}
	clear := [4]uint8{0, 255, 0, 0}

	e := NewKMeansExtractor(1, 5, 1)
	p, err := e.Extract(pixelsBuffer(red, blue, red, clear, red))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if p.SampledPixels != 4 {
		t.Errorf("SampledPixels = %d, want 4", p.SampledPixels)
	}
	want := []PaletteEntry{
		{RGB: RGB{R: 255}, PixelCount: 3, Percentage: 75},
		{RGB: RGB{B: 255}, PixelCount: 1, Percentage: 25},
	}
	if !slices.Equal(p.Entries, want) {
		t.Errorf("Entries = %+v, want %+v", p.Entries, want)
	}
}

func TestKMeansClusters(t *testing.T) {
	buf := randomBuffer(60, 60, 11)

	e := NewKMeansExtractor(1, 6, 42)
	p, err := e.Extract(buf)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if p.Len() == 0 || p.Len() > 6 {
		t.Fatalf("Len() = %d, want 1..6", p.Len())
	}

	sum := 0
	for i, entry := range p.Entries {
		sum += entry.PixelCount
		if i > 0 && entry.PixelCount > p.Entries[i-1].PixelCount {
			t.Errorf("entry %d has more pixels than entry %d", i, i-1)
		}
	}
	if sum != p.SampledPixels {
		t.Errorf("pixel counts sum to %d, sampled %d", sum, p.SampledPixels)
	}
}

func TestKMeansDeterministicForSeed(t *testing.T) {
	buf := randomBuffer(40, 40, 3)

	first, err := NewKMeansExtractor(2, 4, 7).Extract(buf)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	second, err := NewKMeansExtractor(2, 4, 7).Extract(buf)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if !slices.Equal(first.Entries, second.Entries) {
		t.Error("same seed produced different palettes")
	}
}

func TestKMeansEmptyInputs(t *testing.T) {
	tests := []struct {
		name string
		buf  PixelBuffer
		topN int
	}{
		{name: "transparent", buf: uniformBuffer(4, 4, 1, 2, 3, 0), topN: 3},
		{name: "no extent", buf: PixelBuffer{}, topN: 3},
		{name: "top zero", buf: uniformBuffer(4, 4, 1, 2, 3, 255), topN: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewKMeansExtractor(1, tt.topN, 0).Extract(tt.buf)
			if err != nil {
				t.Fatalf("Extract() error = %v", err)
			}
			if !p.Empty() {
				t.Errorf("expected empty palette, got %d entries", p.Len())
			}
		})
	}
}

func TestKMeansSampleLimit(t *testing.T) {
	e := NewKMeansExtractor(1, 3, 0)
	e.maxSamples = 100

	samples := e.samplePixels(uniformBuffer(100, 100, 5, 5, 5, 255))
	if len(samples) > e.maxSamples {
		t.Errorf("samplePixels() returned %d samples, limit %d", len(samples), e.maxSamples)
	}
}
