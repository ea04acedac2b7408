//go:build windows
// +build windows

package space

import "golang.org/x/sys/windows"

func statVolume(dir string) (Snapshot, error) {
	dirPtr, err := windows.UTF16PtrFromString(dir)
	if err != nil {
		return Snapshot{}, err
	}
	var available, total, free uint64
	if err = windows.GetDiskFreeSpaceEx(dirPtr, &available, &total, &free); err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		Total:     total,
		Free:      free,
		Available: available,
	}, nil
}
