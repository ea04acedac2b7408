package sparse

import (
	"io"
	"os"
	"path/filepath"
)

// File is the handle the allocator works on.
type File interface {
	io.WriterAt
	io.Seeker
	io.Closer
	Truncate(size int64) error
	// SetSparse asks the filesystem to leave unwritten ranges unallocated.
	// It is a no-op where files are sparse by default.
	SetSparse() error
	// Allocated returns the bytes physically allocated to the file.
	Allocated() (int64, error)
}

type FS interface {
	// CreateExclusive creates name for reading and writing and fails if it
	// already exists.
	CreateExclusive(name string) (File, error)
	Remove(name string) error
}

// OSFS is an FS rooted at Dir on the host filesystem.
type OSFS struct {
	Dir string
}

func (fs OSFS) path(name string) string {
	if fs.Dir == "" {
		return name
	}
	return filepath.Join(fs.Dir, name)
}

func (fs OSFS) CreateExclusive(name string) (File, error) {
	f, err := os.OpenFile(fs.path(name), os.O_RDWR|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return nil, err
	}
	return &osFile{File: f}, nil
}

func (fs OSFS) Remove(name string) error {
	return os.Remove(fs.path(name))
}

type osFile struct {
	*os.File
}

func (f *osFile) SetSparse() error {
	return setSparse(f.File)
}

func (f *osFile) Allocated() (int64, error) {
	return allocated(f.File)
}
