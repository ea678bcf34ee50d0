package bleed

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/ironsheep/alphableed/internal/imaging"
)

var (
	red     = imaging.RGB{R: 255}
	blue    = imaging.RGB{B: 255}
	garbage = imaging.RGB{R: 7, G: 7, B: 7}
)

// newTransparentRaster creates a raster whose pixels are all fully transparent
// with a stale, non-zero color so that untouched pixels are easy to spot.
func newTransparentRaster(t *testing.T, width, height int) *imaging.Raster {
	t.Helper()
	r, err := imaging.NewRaster(width, height, make([]uint8, width*height*4))
	if err != nil {
		t.Fatalf("NewRaster failed: %v", err)
	}
	for off := 0; off < r.Len(); off++ {
		r.SetRGB(off, garbage)
	}
	return r
}

// newOpaqueRaster creates a raster filled with one opaque color.
func newOpaqueRaster(t *testing.T, width, height int, c imaging.RGB) *imaging.Raster {
	t.Helper()
	r := newTransparentRaster(t, width, height)
	for off := 0; off < r.Len(); off++ {
		r.SetRGB(off, c)
		r.SetAlpha(off, 255)
	}
	return r
}

// newRandomRaster creates a raster where roughly transparentRatio of the
// pixels are fully transparent and the rest have random color and alpha.
func newRandomRaster(t *testing.T, seed int64, width, height int, transparentRatio float64) *imaging.Raster {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	r := newTransparentRaster(t, width, height)
	for off := 0; off < r.Len(); off++ {
		c := imaging.RGB{R: uint8(rng.Intn(256)), G: uint8(rng.Intn(256)), B: uint8(rng.Intn(256))}
		r.SetRGB(off, c)
		if rng.Float64() < transparentRatio {
			r.SetAlpha(off, 0)
		} else {
			r.SetAlpha(off, uint8(1+rng.Intn(255)))
		}
	}
	return r
}

func setPixel(r *imaging.Raster, x, y int, c imaging.RGB, a uint8) {
	off := r.Offset(x, y)
	r.SetRGB(off, c)
	r.SetAlpha(off, a)
}

func pixelAt(r *imaging.Raster, x, y int) (imaging.RGB, uint8) {
	off := r.Offset(x, y)
	return r.RGBAt(off), r.Alpha(off)
}

func assertUnchanged(t *testing.T, before, after *imaging.Raster) {
	t.Helper()
	if !bytes.Equal(before.Pix, after.Pix) {
		t.Error("raster bytes changed")
	}
}

func mustFiller(t *testing.T, s Strategy, opts Options) Filler {
	t.Helper()
	f, err := NewFiller(s, opts)
	if err != nil {
		t.Fatalf("NewFiller(%s) failed: %v", s, err)
	}
	return f
}
