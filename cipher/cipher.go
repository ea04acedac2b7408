// Package cipher implements a byte-wise shift cipher: every byte b of the
// input becomes (b + shift) mod 256.
package cipher

import (
	"io"
	"os"
	"strconv"

	"github.com/Sukhavati-Labs/go-sysutil/logging"
	"github.com/pkg/errors"
)

const BufferSize = 4096

var (
	ErrInvalidShift = errors.New("shift must be a non-negative integer")
	ErrInputMissing = errors.New("input file does not exist")
	ErrOpenInput    = errors.New("cannot open input file")
	ErrCreateOutput = errors.New("cannot create output file")
	ErrWriteOutput  = errors.New("write error occurred")
)

// Shift applies the cipher to a single byte.
func Shift(b byte, shift uint32) byte {
	return byte((uint32(b) + shift) % 256)
}

// Inverse returns the shift that undoes shift.
func Inverse(shift uint32) uint32 {
	return (256 - shift%256) % 256
}

// ParseShift parses a decimal shift amount.
func ParseShift(s string) (uint32, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidShift, "%q", s)
	}
	return uint32(n), nil
}

// Writer shifts every byte written to it before passing it on.
type Writer struct {
	w     io.Writer
	shift byte
	buf   []byte
}

func NewWriter(w io.Writer, shift uint32) *Writer {
	return &Writer{w: w, shift: byte(shift % 256)}
}

func (w *Writer) Write(p []byte) (int, error) {
	if cap(w.buf) < len(p) {
		w.buf = make([]byte, len(p))
	}
	buf := w.buf[:len(p)]
	for i, b := range p {
		buf[i] = b + w.shift
	}
	return w.w.Write(buf)
}

// EncodeFile writes in shifted by shift to out, creating or truncating out.
// With decode set the inverse shift is applied.
func EncodeFile(in, out string, shift uint32, decode bool) (err error) {
	if decode {
		shift = Inverse(shift)
	}
	if _, err := os.Stat(in); err != nil {
		return errors.Wrapf(ErrInputMissing, "%s: %v", in, err)
	}
	src, err := os.Open(in)
	if err != nil {
		return errors.Wrapf(ErrOpenInput, "%s: %v", in, err)
	}
	defer src.Close()
	if err := checkDistinct(src, out); err != nil {
		return err
	}

	dst, err := os.OpenFile(out, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return errors.Wrapf(ErrCreateOutput, "%s: %v", out, err)
	}
	defer func() {
		if cerr := dst.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(ErrWriteOutput, "%s: %v", out, cerr)
		}
	}()

	buf := make([]byte, BufferSize)
	n, err := io.CopyBuffer(NewWriter(dst, shift), src, buf)
	if err != nil {
		return errors.Wrapf(ErrWriteOutput, "%s: %v", out, err)
	}
	if err = dst.Sync(); err != nil {
		return errors.Wrapf(ErrWriteOutput, "%s: %v", out, err)
	}
	logging.CPrint(logging.DEBUG, "file processed", logging.LogFormat{"in": in, "out": out, "shift": shift, "bytes": n})
	return nil
}

// checkDistinct fails when out names the already opened input file.
func checkDistinct(src *os.File, out string) error {
	outInfo, err := os.Stat(out)
	if err != nil {
		return nil
	}
	srcInfo, err := src.Stat()
	if err != nil {
		return errors.Wrapf(ErrOpenInput, "%s: %v", src.Name(), err)
	}
	if os.SameFile(srcInfo, outInfo) {
		return errors.Wrapf(ErrCreateOutput, "%s is the input file", out)
	}
	return nil
}
