// Package imaging provides the raster model and file codecs for alpha-bleed repair.
//
// This package owns everything between a file on disk and the dense pixel
// buffer the repair engine works on: decoding, format validation, encoding,
// atomic write-back and optional compressed backups of the originals.
//
// # Raster Layout
//
// A Raster is a tightly packed, row-major RGBA buffer with 8 bits per channel
// and straight (non-premultiplied) alpha. Pixels are addressed either by
// coordinate or by their index y*Width+x:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - Pix[4*i+0..3]: R, G, B, A of pixel i
//
// # Supported Formats
//
// Only containers that can carry straight 8-bit alpha are accepted:
//   - PNG (read and written through github.com/disintegration/imaging)
//   - TIFF (written with Deflate compression through golang.org/x/image/tiff)
//
// Images decoding to any other color model are rejected with ErrFormat before
// they reach the repair engine. Fully opaque truecolor PNGs are the one
// exception, since they carry no alpha to premultiply.
//
// # Write-Back Guarantees
//
// Save never truncates the target in place. It encodes to a temporary file in
// the same directory and renames it over the original, so a failed encode
// leaves the source bytes untouched.
//
// # Backups
//
// Backup stores a zstd-compressed copy of a file as "<name>.orig.zst" and
// RestoreBackup reverses it. An existing backup is never overwritten.
//
// # Thread Safety
//
// Rasters are not safe for concurrent mutation; each one is owned by a single
// repair task. Load, Save and Backup are safe to call concurrently on
// different paths.
package imaging
