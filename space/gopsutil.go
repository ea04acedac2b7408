package space

import (
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/disk"
)

const TypeGopsutil = "gopsutil"

type usageProbe struct {
	dir string
}

func newUsageProbe(dir string) (Probe, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve volume dir %s", dir)
	}
	return &usageProbe{dir: abs}, nil
}

func (p *usageProbe) Query() (Snapshot, error) {
	s, err := usage(p.dir)
	if err != nil {
		return Snapshot{}, &QueryError{Dir: p.dir, Err: err}
	}
	return s, nil
}

// usage maps gopsutil's view onto a Snapshot. gopsutil reports Free as the
// space available to the caller, so physically free is derived from Used.
func usage(dir string) (Snapshot, error) {
	u, err := disk.Usage(dir)
	if err != nil {
		return Snapshot{}, err
	}
	s := Snapshot{
		Total:     u.Total,
		Available: u.Free,
	}
	if u.Used <= u.Total {
		s.Free = u.Total - u.Used
	}
	if s.Free < s.Available {
		s.Free = s.Available
	}
	return s, nil
}

func init() {
	AddBackend(Backend{
		Typ:      TypeGopsutil,
		NewProbe: newUsageProbe,
	})
}
