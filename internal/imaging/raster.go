package imaging

import (
	"errors"
	"fmt"
	"image"
)

// ErrFormat is returned when a decoded image is not an 8-bit straight-alpha
// RGBA raster, or when a pixel buffer does not match its declared dimensions.
var ErrFormat = errors.New("unsupported raster format")

// Raster is a decoded image held as a dense, row-major RGBA buffer.
//
// Each pixel occupies four consecutive bytes in R, G, B, A order with 8 bits
// per channel. Alpha is straight (not premultiplied), so fully transparent
// pixels keep whatever RGB values the file stored for them.
//
// A Raster is owned by exactly one goroutine at a time. It is mutated in place
// and handed to the encoder once repair is complete.
type Raster struct {
	// Width is the raster width in pixels.
	Width int

	// Height is the raster height in pixels.
	Height int

	// Pix holds Width*Height*4 bytes, row-major, with no padding between rows.
	Pix []uint8
}

// NewRaster wraps an existing pixel buffer.
//
// Returns an error wrapping ErrFormat if the dimensions are not positive or the
// buffer length is not exactly width*height*4.
func NewRaster(width, height int, pix []uint8) (*Raster, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: invalid dimensions %dx%d", ErrFormat, width, height)
	}
	if len(pix) != width*height*4 {
		return nil, fmt.Errorf("%w: pixel buffer is %d bytes, want %d", ErrFormat, len(pix), width*height*4)
	}
	return &Raster{Width: width, Height: height, Pix: pix}, nil
}

// FromImage adapts a decoded image into a Raster.
//
// Only *image.NRGBA is accepted. Any other color model (paletted, gray,
// 16-bit, premultiplied RGBA, YCbCr) is rejected with ErrFormat rather than
// converted, since conversion through premultiplied alpha destroys exactly the
// RGB values this package exists to repair.
//
// When the image is tightly packed and anchored at the origin the returned
// Raster shares its pixel buffer; otherwise the pixels are copied.
func FromImage(img image.Image) (*Raster, error) {
	var nrgba *image.NRGBA
	switch m := img.(type) {
	case *image.NRGBA:
		nrgba = m
	case *image.RGBA:
		// PNG decodes opaque truecolor files as *image.RGBA. Without
		// transparency premultiplied and straight alpha are identical.
		if !m.Opaque() {
			return nil, fmt.Errorf("%w: premultiplied RGBA with transparency", ErrFormat)
		}
		nrgba = &image.NRGBA{Pix: m.Pix, Stride: m.Stride, Rect: m.Rect}
	default:
		return nil, fmt.Errorf("%w: color model %T is not 8-bit RGBA", ErrFormat, img)
	}

	bounds := nrgba.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: invalid dimensions %dx%d", ErrFormat, width, height)
	}

	if bounds.Min == (image.Point{}) && nrgba.Stride == width*4 && len(nrgba.Pix) == width*height*4 {
		return &Raster{Width: width, Height: height, Pix: nrgba.Pix}, nil
	}

	// Repack sub-images and padded strides
	pix := make([]uint8, width*height*4)
	for y := 0; y < height; y++ {
		src := nrgba.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		copy(pix[y*width*4:(y+1)*width*4], nrgba.Pix[src:src+width*4])
	}
	return &Raster{Width: width, Height: height, Pix: pix}, nil
}

// Image returns an *image.NRGBA view that shares the raster's pixel buffer.
func (r *Raster) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    r.Pix,
		Stride: r.Width * 4,
		Rect:   image.Rect(0, 0, r.Width, r.Height),
	}
}

// Clone returns a deep copy of the raster.
func (r *Raster) Clone() *Raster {
	pix := make([]uint8, len(r.Pix))
	copy(pix, r.Pix)
	return &Raster{Width: r.Width, Height: r.Height, Pix: pix}
}

// Len returns the number of pixels in the raster.
func (r *Raster) Len() int {
	return r.Width * r.Height
}

// Offset returns the pixel index y*Width+x for a coordinate.
func (r *Raster) Offset(x, y int) int {
	return y*r.Width + x
}

// Coord converts a pixel index back to its (x, y) coordinate.
func (r *Raster) Coord(offset int) (x, y int) {
	return offset % r.Width, offset / r.Width
}

// In reports whether (x, y) lies inside the raster.
func (r *Raster) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < r.Width && y < r.Height
}

// Alpha returns the alpha channel of the pixel at the given index.
func (r *Raster) Alpha(offset int) uint8 {
	return r.Pix[offset*4+3]
}

// RGBAt returns the color channels of the pixel at the given index.
func (r *Raster) RGBAt(offset int) RGB {
	i := offset * 4
	return RGB{R: r.Pix[i], G: r.Pix[i+1], B: r.Pix[i+2]}
}

// SetRGB overwrites the color channels of a pixel, leaving alpha untouched.
func (r *Raster) SetRGB(offset int, c RGB) {
	i := offset * 4
	r.Pix[i] = c.R
	r.Pix[i+1] = c.G
	r.Pix[i+2] = c.B
}

// SetAlpha overwrites the alpha channel of a pixel.
func (r *Raster) SetAlpha(offset int, a uint8) {
	r.Pix[offset*4+3] = a
}
