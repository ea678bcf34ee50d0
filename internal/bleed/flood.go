package bleed

import (
	"github.com/ironsheep/alphableed/internal/imaging"
)

// stage tracks a pixel's progress through the flood fill. Transitions only
// move forward: unprocessed -> staged -> processed.
type stage uint8

const (
	unprocessed stage = iota // alpha == 0, color unknown
	staged                   // queued in a frontier, color not yet averaged
	processed                // color final (originally visible or already filled)
)

// floodFiller propagates colors outward from visible pixels in rings.
//
// Each ring is a frontier of staged pixels. Every pixel in the frontier takes
// the truncated channel-wise mean of its processed neighbors, any unprocessed
// neighbor it sees is staged into the next frontier, and only after the whole
// ring has been averaged is it promoted to processed. Each pixel changes stage
// at most twice, so the total work is O(width*height).
//
// The result always makes the whole raster opaque.
type floodFiller struct{}

func (f *floodFiller) Name() string { return string(Flood) }

// Fill runs the flood on a scratch copy of the raster's colors.
func (f *floodFiller) Fill(r *imaging.Raster, c *Classification) (*Fill, error) {
	n := r.Len()
	stages := make([]stage, n)
	colors := make([]imaging.RGB, n)
	for off := 0; off < n; off++ {
		colors[off] = r.RGBAt(off)
		if r.Alpha(off) > 0 {
			stages[off] = processed
		}
	}

	fill := &Fill{
		Assignments: make([]Assignment, 0, len(c.Transparent)),
		Alpha:       AlphaOpaqueAll,
	}

	frontier := seedFrontier(r, stages)
	var next []int

	for len(frontier) > 0 {
		for _, off := range frontier {
			x, y := r.Coord(off)

			var sum imaging.ColorSum
			for _, d := range neighbors {
				nx, ny := x+d[0], y+d[1]
				if !r.In(nx, ny) {
					continue
				}
				noff := r.Offset(nx, ny)
				switch stages[noff] {
				case processed:
					sum.Add(colors[noff])
				case unprocessed:
					stages[noff] = staged
					next = append(next, noff)
				}
			}

			// A staged pixel always has a processed neighbor: whoever staged
			// it is promoted at the end of its own ring.
			if mean, ok := sum.Mean(); ok {
				colors[off] = mean
				fill.Assignments = append(fill.Assignments, Assignment{Offset: off, Color: mean})
			}
		}

		for _, off := range frontier {
			stages[off] = processed
		}

		frontier, next = next, frontier[:0]
	}

	return fill, nil
}

// seedFrontier stages the first unprocessed neighbor of every processed
// pixel, scanning row-major.
func seedFrontier(r *imaging.Raster, stages []stage) []int {
	var frontier []int
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			if stages[r.Offset(x, y)] != processed {
				continue
			}
			for _, d := range neighbors {
				nx, ny := x+d[0], y+d[1]
				if !r.In(nx, ny) {
					continue
				}
				noff := r.Offset(nx, ny)
				if stages[noff] == unprocessed {
					stages[noff] = staged
					frontier = append(frontier, noff)
					break
				}
			}
		}
	}
	return frontier
}
