package bleed

import (
	"github.com/ironsheep/alphableed/internal/imaging"
)

// paletteSize is the number of dominant border colors reported by Inspect.
const paletteSize = 5

// Report summarizes what classification found and what a repair changed.
type Report struct {
	// Width and Height of the raster in pixels.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Border is the number of opaque pixels adjacent to a transparent pixel.
	Border int `json:"border_pixels"`

	// Transparent is the number of pixels with alpha == 0.
	Transparent int `json:"transparent_pixels"`

	// Filled is the number of pixels that received a color. Zero for Inspect.
	Filled int `json:"filled_pixels"`

	// Strategy is the fill strategy used. Empty for Inspect.
	Strategy string `json:"strategy,omitempty"`

	// Palette holds the most common border colors. Only set by Inspect.
	Palette []imaging.ColorFrequency `json:"border_palette,omitempty"`
}

// NeedsRepair reports whether the raster has border pixels to propagate from.
func (r *Report) NeedsRepair() bool {
	return r.Border > 0
}

func newReport(r *imaging.Raster, c *Classification) *Report {
	return &Report{
		Width:       r.Width,
		Height:      r.Height,
		Border:      len(c.Border),
		Transparent: len(c.Transparent),
	}
}

// Inspect classifies the raster without modifying it.
func Inspect(r *imaging.Raster) *Report {
	c := Classify(r)
	report := newReport(r, c)
	report.Palette = imaging.DominantColors(c.BorderColors(), paletteSize)
	return report
}

// Repair classifies the raster, fills its transparent pixels with filler and
// writes the result in place.
//
// Returns ErrNoBorderPixels if there is nothing to propagate, or the filler's
// error. In both cases the raster is unchanged. The report is returned
// whenever classification ran, even on error.
func Repair(r *imaging.Raster, filler Filler) (*Report, error) {
	c := Classify(r)
	report := newReport(r, c)
	if len(c.Border) == 0 {
		return report, ErrNoBorderPixels
	}

	fill, err := filler.Fill(r, c)
	if err != nil {
		return report, err
	}

	fill.Apply(r)
	report.Filled = len(fill.Assignments)
	report.Strategy = filler.Name()
	return report, nil
}
