package freespace

import (
	"github.com/Sukhavati-Labs/go-sysutil/space"
	"github.com/Sukhavati-Labs/go-sysutil/sparse"
	"github.com/pkg/errors"
)

// Process exit codes of the free-space demonstration.
const (
	ExitOK = iota
	ExitQuery
	ExitCreate
	ExitPointer
	ExitEndOfFile
	ExitWrite
	ExitRemove
	ExitOther
)

// ExitCode maps an error returned by Driver.Run to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, space.ErrVolumeQuery):
		return ExitQuery
	case errors.Is(err, sparse.ErrCreateConflict), errors.Is(err, sparse.ErrCreateFailed):
		return ExitCreate
	case errors.Is(err, sparse.ErrPointerSet):
		return ExitPointer
	case errors.Is(err, sparse.ErrEndOfFile):
		return ExitEndOfFile
	case errors.Is(err, sparse.ErrWriteShortfall):
		return ExitWrite
	case errors.Is(err, sparse.ErrRemove):
		return ExitRemove
	default:
		return ExitOther
	}
}
