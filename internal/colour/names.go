package colour

// UnknownColourName is returned when there is no reference colour to compare against.
const UnknownColourName = "Unknown"

// ReferenceColour is a named entry in a reference table.
type ReferenceColour struct {
	Name string `json:"name"`
	RGB  RGB    `json:"rgb"`
}

// ReferenceColours is the fixed naming table. Declaration order breaks distance ties.
var ReferenceColours = [...]ReferenceColour{
	{Name: "Black", RGB: RGB{R: 0, G: 0, B: 0}},
	{Name: "White", RGB: RGB{R: 255, G: 255, B: 255}},
	{Name: "Red", RGB: RGB{R: 255, G: 0, B: 0}},
	{Name: "Green", RGB: RGB{R: 0, G: 255, B: 0}},
	{Name: "Blue", RGB: RGB{R: 0, G: 0, B: 255}},
	{Name: "Yellow", RGB: RGB{R: 255, G: 255, B: 0}},
	{Name: "Cyan", RGB: RGB{R: 0, G: 255, B: 255}},
	{Name: "Magenta", RGB: RGB{R: 255, G: 0, B: 255}},
	{Name: "Silver", RGB: RGB{R: 192, G: 192, B: 192}},
	{Name: "Gray", RGB: RGB{R: 128, G: 128, B: 128}},
	{Name: "Maroon", RGB: RGB{R: 128, G: 0, B: 0}},
	{Name: "Olive", RGB: RGB{R: 128, G: 128, B: 0}},
	{Name: "Purple", RGB: RGB{R: 128, G: 0, B: 128}},
	{Name: "Teal", RGB: RGB{R: 0, G: 128, B: 128}},
	{Name: "Navy", RGB: RGB{R: 0, G: 0, B: 128}},
	{Name: "Orange", RGB: RGB{R: 255, G: 165, B: 0}},
	{Name: "Pink", RGB: RGB{R: 255, G: 192, B: 203}},
	{Name: "Brown", RGB: RGB{R: 165, G: 42, B: 42}},
}

// NameColour returns the name of the reference colour closest to rgb.
func NameColour(rgb RGB) string {
	return Nearest(rgb, ReferenceColours[:])
}

// Nearest returns the name of the entry in table closest to rgb by Euclidean
// distance in RGB space. The first of several equally close entries wins.
// An empty table yields UnknownColourName.
func Nearest(rgb RGB, table []ReferenceColour) string {
	name := UnknownColourName
	best := -1
	for _, ref := range table {
		// Squared distance orders identically to Euclidean distance.
		if d := distanceSq(rgb, ref.RGB); best < 0 || d < best {
			best = d
			name = ref.Name
		}
	}
	return name
}

func distanceSq(a, b RGB) int {
	dr := int(a.R) - int(b.R)
	dg := int(a.G) - int(b.G)
	db := int(a.B) - int(b.B)
	return dr*dr + dg*dg + db*db
}

// NamedColour is a palette entry with its reference name and hex code attached.
type NamedColour struct {
	Name       string  `json:"name"`
	Hex        string  `json:"hex"`
	RGB        RGB     `json:"rgb"`
	PixelCount int     `json:"pixel_count"`
	Percentage float64 `json:"percentage"`
}

// Label names every entry of p, preserving rank order.
func Label(p Palette) []NamedColour {
	named := make([]NamedColour, len(p.Entries))
	for i, e := range p.Entries {
		named[i] = NamedColour{
			Name:       NameColour(e.RGB),
			Hex:        e.RGB.Hex(),
			RGB:        e.RGB,
			PixelCount: e.PixelCount,
			Percentage: e.Percentage,
		}
	}
	return named
}
