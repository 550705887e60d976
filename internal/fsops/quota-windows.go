//go:build windows

package fsops

import (
	"syscall"
	"unsafe"
)

var (
	kernel32             = syscall.NewLazyDLL("kernel32.dll")
	getDiskFreeSpaceExW  = kernel32.NewProc("GetDiskFreeSpaceExW")
)

// Usage reports capacity of the filesystem containing path.
func Usage(path string) (QuotaInfo, error) {
	pathPtr, err := syscall.UTF16PtrFromString(path)
	if err != nil {
		return QuotaInfo{}, err
	}
	var freeToCaller, total, free uint64
	ret, _, callErr := getDiskFreeSpaceExW.Call(
		uintptr(unsafe.Pointer(pathPtr)),
		uintptr(unsafe.Pointer(&freeToCaller)),
		uintptr(unsafe.Pointer(&total)),
		uintptr(unsafe.Pointer(&free)),
	)
	if ret == 0 {
		return QuotaInfo{}, callErr
	}
	return QuotaInfo{
		Total: total,
		Used:  total - free,
		Free:  freeToCaller,
	}, nil
}
