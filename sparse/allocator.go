// Package sparse creates a file, grows it to a target length without writing
// the intervening bytes, writes one block at its midpoint and deletes it
// again, reporting the file's physical allocation after every step.
package sparse

import (
	"fmt"
	"io"
	"os"

	"github.com/Sukhavati-Labs/go-sysutil/logging"
	"github.com/pkg/errors"
)

const (
	BlockSize       = 256
	DefaultFileName = "TempTestFile"
)

var (
	ErrCreateConflict = errors.New("cannot create file, it already exists")
	ErrCreateFailed   = errors.New("cannot create file")
	ErrPointerSet     = errors.New("cannot set file pointer")
	ErrEndOfFile      = errors.New("cannot set end of file")
	ErrWriteShortfall = errors.New("cannot write to middle of file")
	ErrRemove         = errors.New("cannot remove file")
)

// StepError is returned when one allocation step fails. Kind is one of the
// package sentinels and Err the underlying filesystem error.
type StepError struct {
	Kind error
	Path string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%v (%s): %v", e.Kind, e.Path, e.Err)
}

func (e *StepError) Is(target error) bool {
	return target == e.Kind
}

func (e *StepError) Unwrap() error {
	return e.Err
}

type Stage int

const (
	StageCreated Stage = iota + 1
	StageExtended
	StageWritten
)

func (s Stage) String() string {
	switch s {
	case StageCreated:
		return "created"
	case StageExtended:
		return "extended"
	case StageWritten:
		return "written"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// Progress describes the file right after a completed step. Allocated is -1
// when the physical allocation could not be read.
type Progress struct {
	Stage     Stage
	Length    int64
	Offset    int64
	Allocated int64
}

// Observer is called after every completed step. A non-nil error aborts
// the allocation; the file is still removed.
type Observer func(p Progress) error

// Midpoint is the offset of the mid-file write for a file of length bytes.
func Midpoint(length int64) int64 {
	return length / 2
}

type Allocator struct {
	fs         FS
	name       string
	markSparse bool
	block      [BlockSize]byte
}

func NewAllocator(fs FS, name string, markSparse bool) *Allocator {
	if name == "" {
		name = DefaultFileName
	}
	return &Allocator{
		fs:         fs,
		name:       name,
		markSparse: markSparse,
	}
}

func (a *Allocator) Name() string {
	return a.name
}

// Allocate runs one create, extend, write, delete cycle for a file of
// length bytes. Once the file has been created it is always closed and
// removed before Allocate returns.
func (a *Allocator) Allocate(length int64, observe Observer) (err error) {
	f, err := a.fs.CreateExclusive(a.name)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return a.stepError(ErrCreateConflict, err)
		}
		return a.stepError(ErrCreateFailed, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			logging.CPrint(logging.WARN, "close file failed", logging.LogFormat{"file": a.name, "err": cerr})
		}
		rerr := a.fs.Remove(a.name)
		if rerr == nil {
			return
		}
		if err == nil {
			err = a.stepError(ErrRemove, rerr)
			return
		}
		logging.CPrint(logging.ERROR, "remove file failed", logging.LogFormat{"file": a.name, "err": rerr, "cause": err})
	}()

	if a.markSparse {
		if serr := f.SetSparse(); serr != nil {
			logging.CPrint(logging.WARN, "cannot mark file sparse", logging.LogFormat{"file": a.name, "err": serr})
		}
	}
	if err = a.notify(observe, f, StageCreated, length, 0); err != nil {
		return err
	}

	pos, err := f.Seek(length, io.SeekStart)
	if err != nil {
		return a.stepError(ErrPointerSet, err)
	}
	if err = f.Truncate(pos); err != nil {
		return a.stepError(ErrEndOfFile, err)
	}
	if err = a.notify(observe, f, StageExtended, length, 0); err != nil {
		return err
	}

	offset := Midpoint(length)
	n, err := f.WriteAt(a.block[:], offset)
	if err != nil {
		return a.stepError(ErrWriteShortfall, err)
	}
	if n < len(a.block) {
		return a.stepError(ErrWriteShortfall, errors.Wrapf(io.ErrShortWrite, "wrote %d of %d bytes at offset %d", n, len(a.block), offset))
	}
	return a.notify(observe, f, StageWritten, length, offset)
}

func (a *Allocator) notify(observe Observer, f File, stage Stage, length, offset int64) error {
	p := Progress{
		Stage:     stage,
		Length:    length,
		Offset:    offset,
		Allocated: -1,
	}
	if n, err := f.Allocated(); err != nil {
		logging.CPrint(logging.DEBUG, "cannot read file allocation", logging.LogFormat{"file": a.name, "err": err})
	} else {
		p.Allocated = n
	}
	logging.CPrint(logging.DEBUG, "allocation step done", logging.LogFormat{
		"file":      a.name,
		"stage":     stage.String(),
		"length":    length,
		"offset":    offset,
		"allocated": p.Allocated,
	})
	if observe == nil {
		return nil
	}
	return observe(p)
}

func (a *Allocator) stepError(kind, err error) error {
	return &StepError{Kind: kind, Path: a.name, Err: err}
}
