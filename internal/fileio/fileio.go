// Package fileio opens the source and destination files of a run.
package fileio

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

var (
	ErrSameFile          = errors.New("source and destination are the same file")
	ErrDestinationExists = errors.New("destination already exists")
	ErrNotRegular        = errors.New("source is not a regular file")
)

// OpenSource opens path for reading and returns its length.
func OpenSource(path string) (*os.File, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("could not open %s: %w", path, err)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("could not stat %s: %w", path, err)
	}
	if !fi.Mode().IsRegular() {
		f.Close()
		return nil, 0, fmt.Errorf("%w: %s", ErrNotRegular, path)
	}
	return f, fi.Size(), nil
}

// CheckDestination reports why dstPath cannot receive the output of
// srcPath, without creating anything.
func CheckDestination(srcPath, dstPath string) error {
	same, err := SameFile(srcPath, dstPath)
	if err != nil {
		return err
	}
	if same {
		return fmt.Errorf("%w: %s", ErrSameFile, dstPath)
	}
	if _, err := os.Lstat(dstPath); err == nil {
		return fmt.Errorf("%w: %s", ErrDestinationExists, dstPath)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// CreateDestination creates dstPath for writing. It refuses to touch an
// existing file and refuses a destination that is the source itself.
func CreateDestination(srcPath, dstPath string) (*os.File, error) {
	if err := CheckDestination(srcPath, dstPath); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(dstPath), 0700); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(dstPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if errors.Is(err, fs.ErrExist) {
		return nil, fmt.Errorf("%w: %s", ErrDestinationExists, dstPath)
	}
	if err != nil {
		return nil, fmt.Errorf("could not create %s: %w", dstPath, err)
	}
	return f, nil
}

// SameFile reports whether a and b name the same file, either by cleaned
// absolute path or, when both exist, by device and inode.
func SameFile(a, b string) (bool, error) {
	absA, err := filepath.Abs(a)
	if err != nil {
		return false, err
	}
	absB, err := filepath.Abs(b)
	if err != nil {
		return false, err
	}
	if absA == absB {
		return true, nil
	}

	fa, errA := os.Stat(absA)
	fb, errB := os.Stat(absB)
	if errA != nil || errB != nil {
		return false, nil
	}
	return os.SameFile(fa, fb), nil
}
