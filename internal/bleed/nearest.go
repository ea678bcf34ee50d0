package bleed

import (
	"fmt"

	"github.com/anthonynsimon/bild/parallel"

	"github.com/ironsheep/alphableed/internal/imaging"
)

// nearestFiller assigns each transparent pixel the color of its nearest border
// pixel.
//
// Results are always exact copies of a border color, never interpolated. When
// several border pixels are equally near, the k-d tree picks one
// deterministically for a given set of border pixels.
type nearestFiller struct {
	debug bool
}

func (f *nearestFiller) Name() string { return string(Nearest) }

// Fill builds the spatial index and queries it for every transparent pixel.
//
// Queries are spread across CPUs; each writes only its own slot of the
// assignment slice.
func (f *nearestFiller) Fill(r *imaging.Raster, c *Classification) (*Fill, error) {
	idx, err := newBorderIndex(r.Width, c.Border)
	if err != nil {
		return nil, err
	}

	assignments := make([]Assignment, len(c.Transparent))
	missed := make([]bool, len(c.Transparent))

	parallel.Line(len(c.Transparent), func(start, end int) {
		for i := start; i < end; i++ {
			off := c.Transparent[i]
			x, y := r.Coord(off)

			hit, ok := idx.nearest(x, y)
			if !ok {
				missed[i] = true
				continue
			}
			color, ok := c.BorderColor(hit)
			if !ok {
				missed[i] = true
				continue
			}
			assignments[i] = Assignment{Offset: off, Color: color}
		}
	})

	for i, m := range missed {
		if m {
			x, y := r.Coord(c.Transparent[i])
			return nil, fmt.Errorf("%w: no nearest border pixel for (%d,%d)", ErrIndexConstruction, x, y)
		}
	}

	fill := &Fill{Assignments: assignments, Alpha: AlphaKeep}
	if f.debug {
		fill.Alpha = AlphaOpaqueFilled
	}
	return fill, nil
}
