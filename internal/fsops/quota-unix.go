//go:build linux || darwin

package fsops

import (
	"syscall"
)

// Usage reports capacity of the filesystem containing path.
func Usage(path string) (QuotaInfo, error) {
	var stat syscall.Statfs_t
	if err := syscall.Statfs(path, &stat); err != nil {
		return QuotaInfo{}, err
	}
	blockSize := uint64(stat.Bsize)
	total := stat.Blocks * blockSize
	free := stat.Bavail * blockSize
	return QuotaInfo{
		Total: total,
		Used:  total - stat.Bfree*blockSize,
		Free:  free,
	}, nil
}
