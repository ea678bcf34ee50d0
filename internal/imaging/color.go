package imaging

import (
	"fmt"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB represents an opaque color with 8-bit components.
//
// Alpha is deliberately absent: border colors are matched and propagated on
// their color channels only.
type RGB struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// Colorful converts the color to a go-colorful value in sRGB space.
func (c RGB) Colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

// Hex returns the color as "#rrggbb".
func (c RGB) Hex() string {
	return c.Colorful().Hex()
}

// String implements fmt.Stringer.
func (c RGB) String() string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}

// ParseHex parses a "#rrggbb" string into an RGB color.
func ParseHex(s string) (RGB, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	r, g, b := c.Clamped().RGB255()
	return RGB{R: r, G: g, B: b}, nil
}

// ColorSum accumulates colors for an integer channel-wise mean.
type ColorSum struct {
	R, G, B uint32
	N       uint32
}

// Add includes a color in the sum.
func (s *ColorSum) Add(c RGB) {
	s.R += uint32(c.R)
	s.G += uint32(c.G)
	s.B += uint32(c.B)
	s.N++
}

// Mean returns the truncated channel-wise mean. ok is false when nothing was
// added.
func (s ColorSum) Mean() (c RGB, ok bool) {
	if s.N == 0 {
		return RGB{}, false
	}
	return RGB{
		R: uint8(s.R / s.N),
		G: uint8(s.G / s.N),
		B: uint8(s.B / s.N),
	}, true
}

// ColorFrequency represents a color and its share of a sample.
type ColorFrequency struct {
	Hex        string  `json:"hex"`        // Hex color "#rrggbb" (quantized)
	Percentage float64 `json:"percentage"` // Percentage of samples with this color (0-100)
	RGB        RGB     `json:"rgb"`        // RGB components (quantized)
}

// DominantColors returns up to count of the most frequent colors in a sample.
//
// Components are quantized to multiples of 16 before counting so that nearly
// identical colors group together. Ties are broken by hex value so the result
// is stable.
func DominantColors(colors []RGB, count int) []ColorFrequency {
	if len(colors) == 0 || count <= 0 {
		return nil
	}

	counts := make(map[RGB]int)
	for _, c := range colors {
		q := RGB{R: c.R / 16 * 16, G: c.G / 16 * 16, B: c.B / 16 * 16}
		counts[q]++
	}

	result := make([]ColorFrequency, 0, len(counts))
	for c, n := range counts {
		result = append(result, ColorFrequency{
			Hex:        c.Hex(),
			Percentage: float64(n) / float64(len(colors)) * 100,
			RGB:        c,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Percentage != result[j].Percentage {
			return result[i].Percentage > result[j].Percentage
		}
		return result[i].Hex < result[j].Hex
	})

	if len(result) > count {
		result = result[:count]
	}
	return result
}
