package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/manav03panchal/undoctl/internal/errors"
)

// MinFreeSpace is the free space an on-disk journal needs to open (10MB).
const MinFreeSpace = 10 * 1024 * 1024

// DiskSpaceInfo describes the filesystem holding a path.
type DiskSpaceInfo struct {
	Path       string
	TotalBytes uint64
	FreeBytes  uint64
}

// FreePercent returns the percentage of free space.
func (d *DiskSpaceInfo) FreePercent() float64 {
	if d.TotalBytes == 0 {
		return 0
	}
	return float64(d.FreeBytes) / float64(d.TotalBytes) * 100
}

// CheckDiskSpace fails with errors.ErrDiskFull when the filesystem holding
// path has less than MinFreeSpace free. When the space cannot be read the
// check passes.
func CheckDiskSpace(path string) error {
	info, err := GetDiskSpace(path)
	if err != nil {
		return nil
	}
	if info.FreeBytes < MinFreeSpace {
		return errors.NewSystemErrorWithOp("open journal",
			fmt.Sprintf("insufficient disk space: %d MB free, need at least %d MB",
				info.FreeBytes/(1024*1024), MinFreeSpace/(1024*1024)),
			errors.ErrDiskFull)
	}
	return nil
}

// existingAncestor returns path or its closest existing parent.
func existingAncestor(path string) string {
	for {
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(path)
		if parent == path {
			return path
		}
		path = parent
	}
}

// wrapWriteError marks out-of-space write failures with errors.ErrDiskFull.
func wrapWriteError(op string, err error) error {
	if err == nil {
		return nil
	}
	if isDiskFullError(err) {
		return fmt.Errorf("%s: %w: %w", op, errors.ErrDiskFull, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
