package bleed

import "errors"

var (
	// ErrNoBorderPixels is returned when a raster has no opaque pixel next to a
	// fully transparent one: it is fully opaque, fully transparent, or its
	// transparent pixels touch nothing visible. The raster is not modified.
	ErrNoBorderPixels = errors.New("no border pixels to propagate")

	// ErrIndexConstruction is returned when the nearest-point spatial index
	// cannot be built from the border pixels.
	ErrIndexConstruction = errors.New("failed to build spatial index")
)
