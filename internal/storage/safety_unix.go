//go:build !windows

package storage

import (
	stderrors "errors"
	"fmt"
	"syscall"
)

// GetDiskSpace returns disk space information for the filesystem holding
// path, or its closest existing parent.
func GetDiskSpace(path string) (*DiskSpaceInfo, error) {
	path = existingAncestor(path)

	var stat syscall.Statfs_t
	if err := syscall.Statfs(path, &stat); err != nil {
		return nil, fmt.Errorf("statfs %s: %w", path, err)
	}
	return &DiskSpaceInfo{
		Path:       path,
		TotalBytes: stat.Blocks * uint64(stat.Bsize),
		FreeBytes:  stat.Bavail * uint64(stat.Bsize),
	}, nil
}

func isDiskFullError(err error) bool {
	return stderrors.Is(err, syscall.ENOSPC)
}
