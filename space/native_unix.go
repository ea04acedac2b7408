//go:build linux || darwin
// +build linux darwin

package space

import "golang.org/x/sys/unix"

func statVolume(dir string) (Snapshot, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(dir, &st); err != nil {
		return Snapshot{}, err
	}
	bsize := uint64(st.Bsize)
	return Snapshot{
		Total:     uint64(st.Blocks) * bsize,
		Free:      uint64(st.Bfree) * bsize,
		Available: uint64(st.Bavail) * bsize,
	}, nil
}
