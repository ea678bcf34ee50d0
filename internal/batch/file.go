package batch

import (
	"errors"
	"fmt"

	"github.com/ironsheep/alphableed/internal/bleed"
	"github.com/ironsheep/alphableed/internal/imaging"
)

// Stage names the pipeline step a file failed in.
type Stage string

const (
	// StageDecode covers opening the file and decoding it into a raster.
	StageDecode Stage = "decode"
	// StageClassify is used when the raster has no border pixels to propagate.
	StageClassify Stage = "classify"
	// StageFill covers building the fill, including the spatial index.
	StageFill Stage = "fill"
	// StageBackup covers writing the compressed copy of the original.
	StageBackup Stage = "backup"
	// StageEncode covers encoding the repaired raster and replacing the file.
	StageEncode Stage = "encode"
)

// FileError records why one file could not be repaired.
type FileError struct {
	Path  string
	Stage Stage
	Err   error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %s failed: %v", e.Path, e.Stage, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// ProcessFile runs the full repair pipeline on one file:
// decode, classify, fill, optional backup, encode.
//
// The file on disk is only replaced after the fill succeeded and the new image
// was encoded completely. In dry-run mode nothing is written. Errors are
// returned as *FileError; the report is returned whenever classification ran.
func ProcessFile(path string, filler bleed.Filler, opts Options) (*bleed.Report, error) {
	r, format, err := imaging.Load(path)
	if err != nil {
		return nil, &FileError{Path: path, Stage: StageDecode, Err: err}
	}

	report, err := bleed.Repair(r, filler)
	if err != nil {
		stage := StageFill
		if errors.Is(err, bleed.ErrNoBorderPixels) {
			stage = StageClassify
		}
		return report, &FileError{Path: path, Stage: stage, Err: err}
	}

	Logger().Debug("filled",
		"path", path,
		"strategy", report.Strategy,
		"border", report.Border,
		"transparent", report.Transparent,
		"filled", report.Filled,
	)

	if opts.DryRun {
		return report, nil
	}

	if opts.Backup {
		backup, err := imaging.Backup(path)
		if err != nil {
			return report, &FileError{Path: path, Stage: StageBackup, Err: err}
		}
		Logger().Debug("backed up", "path", path, "backup", backup)
	}

	if err := imaging.Save(path, r, format, imaging.EncodeOptions{Compression: opts.Compression}); err != nil {
		return report, &FileError{Path: path, Stage: StageEncode, Err: err}
	}
	return report, nil
}
