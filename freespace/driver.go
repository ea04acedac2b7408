// Package freespace runs the interactive sparse file demonstration: it asks
// for a file length, creates and logically extends a file of that length,
// writes one block in its middle and reports the volume's free space after
// every step.
package freespace

import (
	"bufio"
	"io"
	"strings"
	"time"

	"github.com/Sukhavati-Labs/go-sysutil/journal"
	"github.com/Sukhavati-Labs/go-sysutil/logging"
	"github.com/Sukhavati-Labs/go-sysutil/space"
	"github.com/Sukhavati-Labs/go-sysutil/sparse"
	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
)

// Recorder stores completed iterations.
type Recorder interface {
	Put(r *journal.Record) error
}

type Driver struct {
	probe     space.Probe
	allocator *sparse.Allocator
	recorder  Recorder
	in        *bufio.Reader
	report    *reporter
}

func NewDriver(probe space.Probe, allocator *sparse.Allocator, in io.Reader, out io.Writer) *Driver {
	return &Driver{
		probe:     probe,
		allocator: allocator,
		in:        bufio.NewReader(in),
		report:    newReporter(out),
	}
}

// SetRecorder makes the driver store every completed iteration in r.
func (d *Driver) SetRecorder(r Recorder) {
	d.recorder = r
}

// Run prompts for file lengths until the operator enters 0 or input ends.
// The first failing step ends the loop; its error is returned and can be
// mapped to an exit code with ExitCode.
func (d *Driver) Run() error {
	for {
		length, err := d.readLength()
		if err != nil {
			return err
		}
		if length == 0 {
			d.report.end()
			return nil
		}
		if err := d.iterate(length); err != nil {
			logging.CPrint(logging.ERROR, "free space demonstration failed", logging.LogFormat{
				"file":   d.allocator.Name(),
				"length": length,
				"err":    err,
			})
			return err
		}
	}
}

// readLength prompts until a valid length is entered. End of input reads
// as 0.
func (d *Driver) readLength() (int64, error) {
	for {
		d.report.prompt()
		line, err := d.in.ReadString('\n')
		if err != nil && err != io.EOF {
			return 0, errors.Wrap(err, "read file length")
		}
		input := strings.TrimSpace(line)
		if input == "" {
			if err == io.EOF {
				logging.CPrint(logging.DEBUG, "end of input", logging.LogFormat{})
				return 0, nil
			}
			continue
		}
		length, perr := ParseLength(input)
		if perr == nil {
			return length, nil
		}
		d.report.invalid(input, perr)
		logging.CPrint(logging.DEBUG, "rejected file length", logging.LogFormat{"input": input, "err": perr})
		if err == io.EOF {
			return 0, nil
		}
	}
}

func (d *Driver) iterate(length int64) error {
	d.report.requested(length)

	rec := &journal.Record{
		Time:      time.Now(),
		Length:    length,
		Offset:    sparse.Midpoint(length),
		Allocated: [journal.NumStages]int64{-1, -1, -1},
	}
	before, err := d.probe.Query()
	if err != nil {
		return err
	}
	rec.Snapshots[0] = before
	d.report.status(LabelBefore, before, -1)

	err = d.allocator.Allocate(length, func(p sparse.Progress) error {
		s, err := d.probe.Query()
		if err != nil {
			return err
		}
		rec.Snapshots[p.Stage] = s
		rec.Allocated[p.Stage-1] = p.Allocated
		d.report.status(stageLabel(p.Stage), s, p.Allocated)
		return nil
	})
	if err != nil {
		return err
	}

	d.inspect(rec)
	if d.recorder != nil {
		if err := d.recorder.Put(rec); err != nil {
			return errors.Wrap(err, "record iteration")
		}
	}
	d.report.separator()
	return nil
}

// inspect logs capacity changes and how far the logical extend diverged
// from the space it actually consumed.
func (d *Driver) inspect(rec *journal.Record) {
	total := rec.Snapshots[0].Total
	for i, s := range rec.Snapshots[1:] {
		if s.Total != total {
			logging.CPrint(logging.WARN, "volume capacity changed during iteration", logging.LogFormat{
				"stage":  sparse.Stage(i + 1).String(),
				"before": total,
				"now":    s.Total,
			})
		}
	}

	consumed := rec.ExtendConsumed()
	logging.CPrint(logging.INFO, "logical extend done", logging.LogFormat{
		"length":   rec.Length,
		"consumed": consumed,
		"sparse":   consumed < rec.Length,
	})
	if logging.Enabled(logging.DEBUG) {
		logging.CPrint(logging.DEBUG, "iteration snapshots", logging.LogFormat{"dump": spew.Sdump(rec.Snapshots)})
	}
}
