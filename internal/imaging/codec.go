package imaging

import (
	"bufio"
	"errors"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"golang.org/x/image/tiff"
)

// ErrUnsupportedFormat is returned for files whose container cannot carry an
// 8-bit RGBA raster.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Format identifies the container a raster is read from and written back to.
type Format int

const (
	// PNG is the Portable Network Graphics container.
	PNG Format = iota
	// TIFF is the Tagged Image File Format container (Deflate compressed on write).
	TIFF
)

// String returns the lowercase format name.
func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case TIFF:
		return "tiff"
	default:
		return "unknown"
	}
}

// FormatFromPath determines the container format from a file extension.
//
// Matching is case-insensitive. Only ".png", ".tif" and ".tiff" are accepted;
// JPEG, GIF and BMP are rejected because they either have no alpha channel or
// cannot round-trip straight 8-bit alpha.
func FormatFromPath(path string) (Format, error) {
	f, err := imaging.FormatFromFilename(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	switch f {
	case imaging.PNG:
		return PNG, nil
	case imaging.TIFF:
		return TIFF, nil
	default:
		return 0, fmt.Errorf("%w: %s has no 8-bit alpha channel", ErrUnsupportedFormat, f)
	}
}

// IsSupported reports whether FormatFromPath accepts path.
func IsSupported(path string) bool {
	_, err := FormatFromPath(path)
	return err == nil
}

// EncodeOptions controls how rasters are written back.
type EncodeOptions struct {
	// Compression is the PNG compression level. The zero value is
	// png.DefaultCompression.
	Compression png.CompressionLevel
}

// Decode reads an image from r and adapts it into a Raster.
//
// EXIF auto-orientation is disabled: the raster must keep the exact pixel
// layout of the file it will be written back to.
func Decode(r io.Reader) (*Raster, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(false))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return FromImage(img)
}

// Load opens and decodes an image file.
//
// Returns:
//   - *Raster: The decoded pixels.
//   - Format: The container format, needed to write the raster back.
//   - error: Non-nil if the extension is unsupported, the file cannot be read,
//     or the decoded image is not 8-bit RGBA (wraps ErrFormat).
func Load(path string) (*Raster, Format, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, 0, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	r, err := Decode(bufio.NewReader(f))
	if err != nil {
		return nil, 0, err
	}
	return r, format, nil
}

// Encode writes the raster to w in the given format.
func Encode(w io.Writer, r *Raster, format Format, opts EncodeOptions) error {
	var err error
	switch format {
	case PNG:
		err = imaging.Encode(w, r.Image(), imaging.PNG, imaging.PNGCompressionLevel(opts.Compression))
	case TIFF:
		err = tiff.Encode(w, r.Image(), &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", format, err)
	}
	return nil
}

// Save encodes the raster and atomically replaces the file at path.
//
// The image is first written to a temporary file in the same directory and
// then renamed over path, so the original bytes stay intact unless encoding
// succeeds completely. The original file mode is preserved when path exists.
func Save(path string, r *Raster, format Format, opts EncodeOptions) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	cleanup := func(err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}

	bw := bufio.NewWriter(tmp)
	if err := Encode(bw, r, format, opts); err != nil {
		return cleanup(err)
	}
	if err := bw.Flush(); err != nil {
		return cleanup(fmt.Errorf("failed to write image: %w", err))
	}

	if stat, err := os.Stat(path); err == nil {
		if err := tmp.Chmod(stat.Mode().Perm()); err != nil {
			return cleanup(fmt.Errorf("failed to preserve file mode: %w", err))
		}
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write image: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
