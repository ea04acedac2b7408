package freespace

import (
	"math"
	"strconv"
	"strings"

	"github.com/c2h5oh/datasize"
	"github.com/pkg/errors"
)

var ErrInvalidLength = errors.New("invalid file length")

// ParseLength parses an operator supplied file length. Plain decimal byte
// counts and sizes with a unit suffix such as "512KB" or "1GB" are accepted.
// Negative, fractional and out of range values are rejected.
func ParseLength(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.Wrap(ErrInvalidLength, "empty input")
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err == nil {
		if n < 0 {
			return 0, errors.Wrapf(ErrInvalidLength, "%q is negative", s)
		}
		return n, nil
	}
	if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
		return 0, errors.Wrapf(ErrInvalidLength, "%q is out of range", s)
	}
	if strings.HasPrefix(s, "-") {
		return 0, errors.Wrapf(ErrInvalidLength, "%q is negative", s)
	}

	var size datasize.ByteSize
	if err := size.UnmarshalText([]byte(s)); err != nil {
		return 0, errors.Wrapf(ErrInvalidLength, "%q: %v", s, err)
	}
	if size.Bytes() > math.MaxInt64 {
		return 0, errors.Wrapf(ErrInvalidLength, "%q is out of range", s)
	}
	return int64(size.Bytes()), nil
}
