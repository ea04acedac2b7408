// Package mock provides an in-memory volume that is both a sparse.FS and a
// space.Probe. Space is accounted per cluster, so tests can observe the gap
// between a file's logical length and the space it consumes.
package mock

import (
	"io"
	"os"
	"sort"

	"github.com/Sukhavati-Labs/go-sysutil/space"
	"github.com/Sukhavati-Labs/go-sysutil/sparse"
	"github.com/pkg/errors"
)

const DefaultClusterSize = 4096

var ErrNoSpace = errors.New("no space left on device")

// Faults injects errors into volume operations. A nil field means the
// operation behaves normally.
type Faults struct {
	Query error
	// QueryFailAt is the 1-based index of the first Query call that fails
	// with Query. Zero fails every call.
	QueryFailAt int
	Create      error
	SetSparse   error
	Seek        error
	Truncate    error
	Write       error
	// ShortWrite, when positive, caps WriteAt at that many bytes and reports
	// no error, like an OS call that silently writes less.
	ShortWrite int
	Remove     error
}

// Write records one WriteAt call together with the file position before and
// after it.
type Write struct {
	Name      string
	Offset    int64
	Len       int
	PosBefore int64
	PosAfter  int64
}

type Volume struct {
	Capacity    uint64
	Used        uint64 // space held by data outside this volume's files
	Reserved    uint64 // free space withheld from the caller, e.g. quotas
	ClusterSize int64
	// Dense volumes allocate every cluster of a file on Truncate unless the
	// file was marked sparse.
	Dense  bool
	Faults Faults

	files   map[string]*File
	queries int
	writes  []Write
}

var (
	_ sparse.FS   = (*Volume)(nil)
	_ space.Probe = (*Volume)(nil)
	_ sparse.File = (*File)(nil)
)

func NewVolume(capacity, used uint64) *Volume {
	return &Volume{
		Capacity:    capacity,
		Used:        used,
		ClusterSize: DefaultClusterSize,
		files:       make(map[string]*File),
	}
}

func (v *Volume) clusterSize() int64 {
	if v.ClusterSize <= 0 {
		return DefaultClusterSize
	}
	return v.ClusterSize
}

func (v *Volume) allocatedBytes() uint64 {
	var n int64
	for _, f := range v.files {
		n += int64(len(f.clusters))
	}
	return uint64(n * v.clusterSize())
}

func (v *Volume) freeBytes() uint64 {
	used := v.Used + v.allocatedBytes()
	if used >= v.Capacity {
		return 0
	}
	return v.Capacity - used
}

func (v *Volume) Query() (space.Snapshot, error) {
	v.queries++
	if v.Faults.Query != nil && (v.Faults.QueryFailAt == 0 || v.queries >= v.Faults.QueryFailAt) {
		return space.Snapshot{}, &space.QueryError{Dir: "mock", Err: v.Faults.Query}
	}
	free := v.freeBytes()
	var available uint64
	if free > v.Reserved {
		available = free - v.Reserved
	}
	return space.Snapshot{
		Total:     v.Capacity,
		Free:      free,
		Available: available,
	}, nil
}

// Queries returns how many times Query was called.
func (v *Volume) Queries() int {
	return v.queries
}

func (v *Volume) Writes() []Write {
	return v.writes
}

func (v *Volume) Exists(name string) bool {
	_, ok := v.files[name]
	return ok
}

func (v *Volume) Lookup(name string) *File {
	return v.files[name]
}

// Names lists the files on the volume in lexical order.
func (v *Volume) Names() []string {
	names := make([]string, 0, len(v.files))
	for name := range v.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AddFile places a closed file of the given logical size on the volume,
// e.g. a leftover from an earlier run.
func (v *Volume) AddFile(name string, size int64) {
	v.files[name] = &File{vol: v, name: name, size: size, closed: true, clusters: make(map[int64][]byte)}
}

func (v *Volume) CreateExclusive(name string) (sparse.File, error) {
	if v.Faults.Create != nil {
		return nil, &os.PathError{Op: "open", Path: name, Err: v.Faults.Create}
	}
	if _, ok := v.files[name]; ok {
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrExist}
	}
	f := &File{vol: v, name: name, clusters: make(map[int64][]byte)}
	v.files[name] = f
	return f, nil
}

func (v *Volume) Remove(name string) error {
	if v.Faults.Remove != nil {
		return &os.PathError{Op: "remove", Path: name, Err: v.Faults.Remove}
	}
	if _, ok := v.files[name]; !ok {
		return &os.PathError{Op: "remove", Path: name, Err: os.ErrNotExist}
	}
	delete(v.files, name)
	return nil
}

// File is an open file on a Volume. Unwritten clusters read back as zeros.
type File struct {
	vol      *Volume
	name     string
	size     int64
	pos      int64
	sparse   bool
	closed   bool
	clusters map[int64][]byte
}

func (f *File) Name() string {
	return f.name
}

func (f *File) Size() int64 {
	return f.size
}

// Pos returns the current seek position.
func (f *File) Pos() int64 {
	return f.pos
}

func (f *File) IsSparse() bool {
	return f.sparse
}

func (f *File) Seek(offset int64, whence int) (int64, error) {
	if err := f.check("seek", f.vol.Faults.Seek); err != nil {
		return 0, err
	}
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = f.pos + offset
	case io.SeekEnd:
		abs = f.size + offset
	default:
		return 0, &os.PathError{Op: "seek", Path: f.name, Err: os.ErrInvalid}
	}
	if abs < 0 {
		return 0, &os.PathError{Op: "seek", Path: f.name, Err: os.ErrInvalid}
	}
	f.pos = abs
	return abs, nil
}

func (f *File) Truncate(size int64) error {
	if err := f.check("truncate", f.vol.Faults.Truncate); err != nil {
		return err
	}
	if size < 0 {
		return &os.PathError{Op: "truncate", Path: f.name, Err: os.ErrInvalid}
	}
	if size > f.size && f.vol.Dense && !f.sparse {
		if err := f.allocate(f.size, size); err != nil {
			return &os.PathError{Op: "truncate", Path: f.name, Err: err}
		}
	}
	if size < f.size {
		f.shrink(size)
	}
	f.size = size
	return nil
}

func (f *File) WriteAt(p []byte, off int64) (int, error) {
	if err := f.check("write", f.vol.Faults.Write); err != nil {
		return 0, err
	}
	if off < 0 {
		return 0, &os.PathError{Op: "write", Path: f.name, Err: os.ErrInvalid}
	}
	n := len(p)
	if short := f.vol.Faults.ShortWrite; short > 0 && short < n {
		n = short
	}
	if err := f.allocate(off, off+int64(n)); err != nil {
		return 0, &os.PathError{Op: "write", Path: f.name, Err: err}
	}
	cs := f.vol.clusterSize()
	for i := 0; i < n; {
		at := off + int64(i)
		c := f.clusters[at/cs]
		if c == nil {
			c = make([]byte, cs)
			f.clusters[at/cs] = c
		}
		i += copy(c[at%cs:], p[i:n])
	}
	if end := off + int64(n); end > f.size {
		f.size = end
	}
	f.vol.writes = append(f.vol.writes, Write{
		Name:      f.name,
		Offset:    off,
		Len:       n,
		PosBefore: f.pos,
		PosAfter:  f.pos,
	})
	return n, nil
}

func (f *File) ReadAt(p []byte, off int64) (int, error) {
	if f.closed {
		return 0, &os.PathError{Op: "read", Path: f.name, Err: os.ErrClosed}
	}
	if off >= f.size {
		return 0, io.EOF
	}
	cs := f.vol.clusterSize()
	n := 0
	for n < len(p) && off+int64(n) < f.size {
		at := off + int64(n)
		if c := f.clusters[at/cs]; c != nil {
			p[n] = c[at%cs]
		} else {
			p[n] = 0
		}
		n++
	}
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (f *File) Close() error {
	if f.closed {
		return &os.PathError{Op: "close", Path: f.name, Err: os.ErrClosed}
	}
	f.closed = true
	return nil
}

func (f *File) SetSparse() error {
	if err := f.check("set sparse", f.vol.Faults.SetSparse); err != nil {
		return err
	}
	f.sparse = true
	return nil
}

func (f *File) Allocated() (int64, error) {
	return int64(len(f.clusters)) * f.vol.clusterSize(), nil
}

func (f *File) check(op string, fault error) error {
	if f.closed {
		return &os.PathError{Op: op, Path: f.name, Err: os.ErrClosed}
	}
	if fault != nil {
		return &os.PathError{Op: op, Path: f.name, Err: fault}
	}
	return nil
}

// allocate backs every cluster overlapping [from, to).
func (f *File) allocate(from, to int64) error {
	if to <= from {
		return nil
	}
	cs := f.vol.clusterSize()
	var missing []int64
	for idx := from / cs; idx <= (to-1)/cs; idx++ {
		if _, ok := f.clusters[idx]; !ok {
			missing = append(missing, idx)
		}
	}
	if uint64(int64(len(missing))*cs) > f.vol.freeBytes() {
		return ErrNoSpace
	}
	// clusters stay nil until written
	for _, idx := range missing {
		f.clusters[idx] = nil
	}
	return nil
}

func (f *File) shrink(size int64) {
	cs := f.vol.clusterSize()
	for idx, c := range f.clusters {
		start := idx * cs
		switch {
		case start >= size:
			delete(f.clusters, idx)
		case c != nil && start+cs > size:
			for i := size - start; i < cs; i++ {
				c[i] = 0
			}
		}
	}
}
