// Package colour provides dominant colour extraction and colour naming.
package colour

import (
	"encoding/json"
	"fmt"
	"iter"
)

// RGB represents a colour in RGB format.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// String returns the RGB colour as a string in the format "rgb(r, g, b)".
func (rgb RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
}

// Hex returns the RGB colour as a lowercase, zero-padded hex string (e.g., "#1a2b3c").
func (rgb RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B)
}

// PaletteEntry is one dominant colour together with its share of the sampled pixels.
type PaletteEntry struct {
	RGB        RGB     `json:"rgb"`
	PixelCount int     `json:"pixel_count"`
	Percentage float64 `json:"percentage"`
}

// Palette is a ranked list of dominant colours, most frequent first.
type Palette struct {
	Entries []PaletteEntry

	// SampledPixels is the number of alpha-accepted pixels the palette was built from.
	SampledPixels int
}

// Len returns the number of colours in the palette.
func (p Palette) Len() int {
	return len(p.Entries)
}

// Empty reports whether the palette holds no colours.
func (p Palette) Empty() bool {
	return len(p.Entries) == 0
}

// ToHex returns the hex code of every entry, in rank order.
func (p Palette) ToHex() []string {
	hexColours := make([]string, len(p.Entries))
	for i, e := range p.Entries {
		hexColours[i] = e.RGB.Hex()
	}
	return hexColours
}

// ToRGBSlice returns the colour of every entry, in rank order.
func (p Palette) ToRGBSlice() []RGB {
	rgbColours := make([]RGB, len(p.Entries))
	for i, e := range p.Entries {
		rgbColours[i] = e.RGB
	}
	return rgbColours
}

// Truncate returns a copy of the palette holding at most n entries.
func (p Palette) Truncate(n int) Palette {
	if n < 0 {
		n = 0
	}
	if n >= len(p.Entries) {
		return p
	}
	return Palette{Entries: p.Entries[:n:n], SampledPixels: p.SampledPixels}
}

// All returns an iterator over the entries in rank order.
func (p Palette) All() iter.Seq2[int, PaletteEntry] {
	return func(yield func(int, PaletteEntry) bool) {
		for i, e := range p.Entries {
			if !yield(i, e) {
				return
			}
		}
	}
}

// ColourJSON represents a named colour in JSON output format.
type ColourJSON struct {
	Name       string  `json:"name"`
	Hex        string  `json:"hex"`
	RGB        RGB     `json:"rgb"`
	PixelCount int     `json:"pixel_count"`
	Percentage float64 `json:"percentage"`
}

// PaletteJSON represents the palette in JSON format.
type PaletteJSON struct {
	Source        string       `json:"source,omitempty"`
	Count         int          `json:"count"`
	SampledPixels int          `json:"sampled_pixels"`
	Colours       []ColourJSON `json:"colours"`
}

// NewPaletteJSON builds the JSON document for a palette, naming every entry.
func NewPaletteJSON(source string, p Palette) PaletteJSON {
	named := Label(p)
	colours := make([]ColourJSON, len(named))
	for i, n := range named {
		colours[i] = ColourJSON(n)
	}
	return PaletteJSON{
		Source:        source,
		Count:         len(colours),
		SampledPixels: p.SampledPixels,
		Colours:       colours,
	}
}

// ToJSON converts the palette to indented JSON with colour names attached.
// An empty source is omitted.
func (p Palette) ToJSON(source string) ([]byte, error) {
	return json.MarshalIndent(NewPaletteJSON(source, p), "", "  ")
}

// String returns a human-readable string representation of the palette.
func (p Palette) String() string {
	if len(p.Entries) == 0 {
		return "Empty palette"
	}

	result := fmt.Sprintf("Palette with %d colours from %d sampled pixels:\n", len(p.Entries), p.SampledPixels)
	for i, e := range p.Entries {
		result += fmt.Sprintf("  %2d: %s %-8s %6.2f%%\n", i+1, e.RGB.Hex(), NameColour(e.RGB), e.Percentage)
	}
	return result
}
