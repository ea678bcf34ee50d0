package bleed

import (
	"fmt"
	"strings"

	"github.com/anthonynsimon/bild/parallel"

	"github.com/ironsheep/alphableed/internal/imaging"
)

// Strategy names a fill algorithm.
type Strategy string

const (
	// Nearest copies the color of the nearest border pixel.
	Nearest Strategy = "nearest"
	// Flood averages colors outward ring by ring.
	Flood Strategy = "flood"
)

// Strategies lists every supported strategy.
var Strategies = []Strategy{Nearest, Flood}

// ParseStrategy converts a user-supplied name into a Strategy.
//
// Matching is case-insensitive and surrounding whitespace is ignored. An empty
// string selects Nearest.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(Nearest):
		return Nearest, nil
	case string(Flood):
		return Flood, nil
	default:
		return "", fmt.Errorf("unknown strategy %q (want %s or %s)", s, Nearest, Flood)
	}
}

// Options configures a Filler.
type Options struct {
	// Debug makes the nearest strategy mark filled pixels opaque so the
	// extrapolated colors are visible. The flood strategy always does.
	Debug bool
}

// Filler computes fill colors for a classified raster.
//
// Fill must not modify the raster; all changes are returned in the Fill and
// applied by the caller once the whole computation has succeeded.
type Filler interface {
	// Name returns the strategy name.
	Name() string

	// Fill computes the new colors for the raster's transparent pixels.
	Fill(r *imaging.Raster, c *Classification) (*Fill, error)
}

// NewFiller returns the Filler implementing strategy.
func NewFiller(strategy Strategy, opts Options) (Filler, error) {
	switch strategy {
	case Nearest:
		return &nearestFiller{debug: opts.Debug}, nil
	case Flood:
		return &floodFiller{}, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", strategy)
	}
}

// AlphaPolicy decides what happens to the alpha channel when a Fill is applied.
type AlphaPolicy int

const (
	// AlphaKeep leaves every alpha value untouched.
	AlphaKeep AlphaPolicy = iota
	// AlphaOpaqueFilled sets alpha to 255 on assigned pixels only.
	AlphaOpaqueFilled
	// AlphaOpaqueAll sets alpha to 255 on every pixel of the raster.
	AlphaOpaqueAll
)

// Assignment is one computed pixel color.
type Assignment struct {
	Offset int
	Color  imaging.RGB
}

// Fill is the result of a Filler: the color for each assigned pixel plus the
// alpha policy to apply alongside.
type Fill struct {
	Assignments []Assignment
	Alpha       AlphaPolicy
}

// Apply writes the fill into the raster.
func (f *Fill) Apply(r *imaging.Raster) {
	for _, a := range f.Assignments {
		r.SetRGB(a.Offset, a.Color)
		if f.Alpha == AlphaOpaqueFilled {
			r.SetAlpha(a.Offset, 255)
		}
	}

	if f.Alpha == AlphaOpaqueAll {
		solidify(r)
	}
}

// solidify makes every pixel of the raster fully opaque.
func solidify(r *imaging.Raster) {
	parallel.Line(r.Height, func(start, end int) {
		for off := start * r.Width; off < end*r.Width; off++ {
			r.SetAlpha(off, 255)
		}
	})
}
