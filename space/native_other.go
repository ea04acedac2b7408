//go:build !linux && !darwin && !windows
// +build !linux,!darwin,!windows

package space

func statVolume(dir string) (Snapshot, error) {
	return usage(dir)
}
