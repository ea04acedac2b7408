// Package space reports capacity and free-space counters of the volume that
// hosts a directory.
package space

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrVolumeQuery      = errors.New("cannot get free space")
	ErrInvalidProbeType = errors.New("invalid space probe type")
)

const GiB = 1024 * 1024 * 1024

// Snapshot is a point-in-time reading of a volume.
type Snapshot struct {
	Total     uint64 // capacity of the volume
	Free      uint64 // physically free bytes
	Available uint64 // free bytes available to the calling user
}

// Consumed returns how many physically free bytes disappeared between s and
// later. A negative value means space was released.
func (s Snapshot) Consumed(later Snapshot) int64 {
	return int64(s.Free) - int64(later.Free)
}

func (s Snapshot) String() string {
	return fmt.Sprintf("Snapshot{total=%d, free=%d, available=%d}", s.Total, s.Free, s.Available)
}

// ToGB converts a byte count to binary gigabytes.
func ToGB(bytes uint64) float64 {
	return float64(bytes) / GiB
}

// Probe queries a volume. Implementations must not cache: every call
// reflects the volume at the moment of the call.
type Probe interface {
	Query() (Snapshot, error)
}

// QueryError reports a failed volume query together with the OS error.
type QueryError struct {
	Dir string
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%v for %s: %v", ErrVolumeQuery, e.Dir, e.Err)
}

func (e *QueryError) Is(target error) bool {
	return target == ErrVolumeQuery
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

type Backend struct {
	Typ      string
	NewProbe func(dir string) (Probe, error)
}

var backendList []Backend

func AddBackend(ins Backend) {
	for _, b := range backendList {
		if b.Typ == ins.Typ {
			return
		}
	}
	backendList = append(backendList, ins)
}

// NewProbe returns a probe of the given backend type for the volume that
// hosts dir.
func NewProbe(typ, dir string) (Probe, error) {
	for _, b := range backendList {
		if b.Typ == typ {
			return b.NewProbe(dir)
		}
	}
	return nil, errors.Wrapf(ErrInvalidProbeType, "%q", typ)
}

// Backends lists the registered backend types.
func Backends() []string {
	types := make([]string, 0, len(backendList))
	for _, b := range backendList {
		types = append(types, b.Typ)
	}
	return types
}
