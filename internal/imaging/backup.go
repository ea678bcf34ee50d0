package imaging

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

// BackupSuffix is appended to a file name to form its backup name.
const BackupSuffix = ".orig.zst"

// BackupPath returns the backup file name used for path.
func BackupPath(path string) string {
	return path + BackupSuffix
}

// Backup stores a zstd-compressed copy of the file at path next to it.
//
// An existing backup is never overwritten: repeated runs keep the bytes of the
// very first original. Returns the backup path.
func Backup(path string) (string, error) {
	dst := BackupPath(path)
	if _, err := os.Stat(dst); err == nil {
		return dst, nil
	}

	src, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s for backup: %w", path, err)
	}
	defer src.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create backup: %w", err)
	}
	tmpName := tmp.Name()

	if err := compressTo(tmp, src); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to write backup: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to write backup: %w", err)
	}
	if err := os.Rename(tmpName, dst); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to create backup: %w", err)
	}
	return dst, nil
}

// RestoreBackup replaces path with the decompressed contents of its backup.
//
// The backup itself is left in place.
func RestoreBackup(path string) error {
	src, err := os.Open(BackupPath(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("no backup for %s: %w", path, err)
		}
		return fmt.Errorf("failed to open backup: %w", err)
	}
	defer src.Close()

	dec, err := zstd.NewReader(bufio.NewReader(src), zstd.WithDecoderConcurrency(1))
	if err != nil {
		return fmt.Errorf("failed to read backup: %w", err)
	}
	defer dec.Close()

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to restore %s: %w", path, err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, dec); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to decompress backup: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to restore %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to restore %s: %w", path, err)
	}
	return nil
}

func compressTo(w io.Writer, r io.Reader) error {
	enc, err := zstd.NewWriter(w,
		zstd.WithEncoderConcurrency(1),
		zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
	)
	if err != nil {
		return err
	}
	if _, err := io.Copy(enc, r); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}
