// Package stream concatenates and copies byte streams.
package stream

import (
	"fmt"
	"io"
	"os"

	"github.com/Sukhavati-Labs/go-sysutil/logging"
	"github.com/pkg/errors"
)

const (
	CatBufferSize  = 512
	CopyBufferSize = 256
)

var (
	ErrIncomplete = errors.New("some inputs could not be concatenated")
	ErrOpenSource = errors.New("cannot open source")
	ErrCreateDest = errors.New("cannot create destination")
	ErrTransfer   = errors.New("cannot transfer data")

	errSameFile = errors.New("source and destination are the same file")
)

// PathError reports a failed copy step on one path.
type PathError struct {
	Kind error
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Path, e.Kind, e.Err)
}

func (e *PathError) Is(target error) bool {
	return target == e.Kind
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// readerOnly and writerOnly hide WriterTo and ReaderFrom so data moves
// through the caller's buffer.
type readerOnly struct {
	io.Reader
}

type writerOnly struct {
	io.Writer
}

// Cat writes everything read from r to w.
func Cat(w io.Writer, r io.Reader) error {
	buf := make([]byte, CatBufferSize)
	_, err := io.CopyBuffer(writerOnly{w}, readerOnly{r}, buf)
	return err
}

// Concat writes the named files to w in order, or stdin when names is
// empty. An input that cannot be opened or read is skipped. Unless suppress
// is set, every such failure is reported on errw and Concat returns
// ErrIncomplete once all inputs have been tried.
func Concat(w, errw io.Writer, stdin io.Reader, names []string, suppress bool) error {
	if len(names) == 0 {
		if err := Cat(w, stdin); err != nil && !suppress {
			fmt.Fprintf(errw, "ERROR: Processing error (%v)\n", err)
			return ErrIncomplete
		}
		return nil
	}

	failed := 0
	for _, name := range names {
		err := catFile(w, name)
		if err == nil {
			continue
		}
		logging.CPrint(logging.DEBUG, "cat input failed", logging.LogFormat{"file": name, "err": err, "suppressed": suppress})
		if suppress {
			continue
		}
		failed++
		fmt.Fprintf(errw, "ERROR: %v\n", err)
	}
	if failed > 0 {
		return errors.Wrapf(ErrIncomplete, "%d of %d files", failed, len(names))
	}
	return nil
}

func catFile(w io.Writer, name string) error {
	f, err := os.Open(name)
	if err != nil {
		return errors.Wrap(err, "File open error")
	}
	defer f.Close()
	if err := Cat(w, f); err != nil {
		return errors.Wrapf(err, "Processing error (%s)", name)
	}
	return nil
}

// Copy copies the file src to dst, creating or truncating dst.
func Copy(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return &PathError{Kind: ErrOpenSource, Path: src, Err: err}
	}
	defer in.Close()
	if dstInfo, err := os.Stat(dst); err == nil {
		srcInfo, err := in.Stat()
		if err != nil {
			return &PathError{Kind: ErrOpenSource, Path: src, Err: err}
		}
		if os.SameFile(srcInfo, dstInfo) {
			return &PathError{Kind: ErrCreateDest, Path: dst, Err: errSameFile}
		}
	}

	out, err := os.Create(dst)
	if err != nil {
		return &PathError{Kind: ErrCreateDest, Path: dst, Err: err}
	}
	buf := make([]byte, CopyBufferSize)
	n, err := io.CopyBuffer(writerOnly{out}, readerOnly{in}, buf)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return &PathError{Kind: ErrTransfer, Path: dst, Err: err}
	}
	logging.CPrint(logging.DEBUG, "file copied", logging.LogFormat{"src": src, "dst": dst, "bytes": n})
	return nil
}

// CopyExitCode maps an error returned by Copy to the process exit code.
// Usage errors and anything unknown map to 1.
func CopyExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrOpenSource):
		return 2
	case errors.Is(err, ErrCreateDest):
		return 3
	case errors.Is(err, ErrTransfer):
		return 4
	default:
		return 1
	}
}
