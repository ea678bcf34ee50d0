// Package batch repairs many image files concurrently.
//
// A batch is a list of paths processed on a bounded pool of workers. Each
// file goes through the same pipeline:
//
//	decode -> classify -> fill -> (backup) -> encode
//
// Files share no mutable state. A failure at any stage is confined to its
// file and reported as a [*FileError] naming the stage; the batch always
// runs to completion.
//
// # Counting
//
// Every dispatched file increments exactly one of two per-run counters,
// fixed or failed, so Fixed + Failed always equals the number of paths. An
// image with no border pixels counts as failed with the cause
// [bleed.ErrNoBorderPixels].
//
// # Resolving arguments
//
// [Resolve] turns command-line arguments into a file list. Directories are
// expanded one level deep and anything that is not PNG or TIFF is rejected
// with a reason.
//
// # Logging
//
// The package is silent by default. Call [SetLogger] with a *slog.Logger to
// receive per-file diagnostics.
package batch
