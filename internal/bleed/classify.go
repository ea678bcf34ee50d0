package bleed

import (
	"github.com/anthonynsimon/bild/parallel"

	"github.com/ironsheep/alphableed/internal/imaging"
)

// neighbors lists the Moore neighborhood offsets in scan order, starting at
// the top-left neighbor and walking clockwise.
var neighbors = [8][2]int{
	{-1, -1},
	{0, -1},
	{1, -1},
	{1, 0},
	{1, 1},
	{0, 1},
	{-1, 1},
	{-1, 0},
}

// Classification partitions a raster into border pixels and transparent
// pixels.
//
// Pixels are identified by their index y*Width+x. A pixel is never both a
// border pixel and a transparent pixel; opaque pixels with no transparent
// neighbor are in neither set.
type Classification struct {
	// Width and Height of the classified raster.
	Width  int
	Height int

	// Border holds the border pixel indices in row-major discovery order.
	Border []int

	// Transparent holds the indices of every pixel with alpha == 0, in
	// row-major order.
	Transparent []int

	// colors is dense and indexed by pixel; only border entries are set.
	colors   []imaging.RGB
	isBorder []bool
}

// Classify scans the raster once and returns its border and transparent
// pixels.
//
// Rows are scanned in parallel; results are merged in row order, so the
// output is identical to a sequential row-major scan.
func Classify(r *imaging.Raster) *Classification {
	n := r.Len()
	c := &Classification{
		Width:    r.Width,
		Height:   r.Height,
		colors:   make([]imaging.RGB, n),
		isBorder: make([]bool, n),
	}

	borderRows := make([][]int, r.Height)
	transparentRows := make([][]int, r.Height)

	parallel.Line(r.Height, func(start, end int) {
		for y := start; y < end; y++ {
			var border, transparent []int
			for x := 0; x < r.Width; x++ {
				off := r.Offset(x, y)
				if r.Alpha(off) == 0 {
					transparent = append(transparent, off)
					continue
				}
				if hasTransparentNeighbor(r, x, y) {
					border = append(border, off)
					c.colors[off] = r.RGBAt(off)
					c.isBorder[off] = true
				}
			}
			borderRows[y] = border
			transparentRows[y] = transparent
		}
	})

	c.Border = concatRows(borderRows)
	c.Transparent = concatRows(transparentRows)
	return c
}

// BorderColor returns the recorded color of a border pixel. ok is false if
// the pixel is not a border pixel.
func (c *Classification) BorderColor(offset int) (color imaging.RGB, ok bool) {
	if offset < 0 || offset >= len(c.isBorder) || !c.isBorder[offset] {
		return imaging.RGB{}, false
	}
	return c.colors[offset], true
}

// IsBorder reports whether the pixel at offset is a border pixel.
func (c *Classification) IsBorder(offset int) bool {
	return offset >= 0 && offset < len(c.isBorder) && c.isBorder[offset]
}

// BorderColors returns the border colors in discovery order.
func (c *Classification) BorderColors() []imaging.RGB {
	colors := make([]imaging.RGB, len(c.Border))
	for i, off := range c.Border {
		colors[i] = c.colors[off]
	}
	return colors
}

// hasTransparentNeighbor reports whether any in-bounds Moore neighbor of
// (x, y) is fully transparent.
func hasTransparentNeighbor(r *imaging.Raster, x, y int) bool {
	for _, d := range neighbors {
		nx, ny := x+d[0], y+d[1]
		if !r.In(nx, ny) {
			continue
		}
		if r.Alpha(r.Offset(nx, ny)) == 0 {
			return true
		}
	}
	return false
}

func concatRows(rows [][]int) []int {
	total := 0
	for _, row := range rows {
		total += len(row)
	}
	out := make([]int, 0, total)
	for _, row := range rows {
		out = append(out, row...)
	}
	return out
}
