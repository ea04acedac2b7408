package space

import (
	"path/filepath"

	"github.com/pkg/errors"
)

const TypeNative = "native"

type nativeProbe struct {
	dir string
}

func newNativeProbe(dir string) (Probe, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve volume dir %s", dir)
	}
	return &nativeProbe{dir: abs}, nil
}

func (p *nativeProbe) Query() (Snapshot, error) {
	s, err := statVolume(p.dir)
	if err != nil {
		return Snapshot{}, &QueryError{Dir: p.dir, Err: err}
	}
	return s, nil
}

func init() {
	AddBackend(Backend{
		Typ:      TypeNative,
		NewProbe: newNativeProbe,
	})
}
