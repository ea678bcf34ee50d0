// Package bleed repairs alpha bleed in RGBA rasters.
//
// Fully transparent pixels often keep stale RGB values (usually black). Any
// consumer that filters across the alpha edge (texture samplers, mipmap
// generators, lossy compressors) mixes that stale color into the visible
// image. This package extrapolates a plausible color into every fully
// transparent pixel from the opaque pixels around it.
//
// # Pipeline
//
// Repair runs three steps on a raster:
//
//  1. Classify: find border pixels (alpha > 0 with at least one fully
//     transparent Moore neighbor) and collect every transparent pixel.
//  2. Fill: a Filler computes new colors without touching the raster.
//  3. Apply: the computed Fill is written into the raster in one step.
//
// If classification finds no border pixels, Repair returns ErrNoBorderPixels
// and the raster is left unchanged.
//
// # Strategies
//
// Two fillers are available, selected by Strategy:
//
//   - Nearest: each transparent pixel copies the color of its nearest border
//     pixel (Euclidean distance, k-d tree index). Alpha stays 0 unless debug
//     mode is on, in which case filled pixels become opaque.
//   - Flood: colors propagate outward ring by ring, each pixel taking the
//     truncated mean of its already finalized neighbors. The whole raster is
//     made opaque afterwards.
//
// # Neighborhood
//
// All adjacency uses the 8-connected Moore neighborhood. Pixels outside the
// raster are ignored; the image edge is never treated as transparent and
// coordinates never wrap.
package bleed
