package journal

import (
	"encoding/binary"
	"time"

	"github.com/Sukhavati-Labs/go-sysutil/logging"
	"github.com/Sukhavati-Labs/go-sysutil/space"
)

const (
	NumSnapshots = 4
	NumStages    = 3

	snapshotLength = 24
	recordLength   = 8 + 8 + 8 + NumSnapshots*snapshotLength + NumStages*8
)

// Record is one completed iteration of the free-space demonstration.
// Snapshots are taken before creation, after creation, after the logical
// extend and after the mid-file write; Allocated holds the file's physical
// allocation after each of the last three (-1 when unknown).
type Record struct {
	Seq       uint64
	Time      time.Time
	Length    int64
	Offset    int64
	Snapshots [NumSnapshots]space.Snapshot
	Allocated [NumStages]int64
}

// ExtendConsumed is the physically free space consumed by the logical
// extend step.
func (r *Record) ExtendConsumed() int64 {
	return r.Snapshots[1].Consumed(r.Snapshots[2])
}

// encodeRecord - recordLength 144 bytes
// +-------------+--------------+--------------+--------------------------+------------------------+
// | time 8 bytes| length 8     | offset 8     | 4 x (total|free|avail) 96| 3 x allocated 24       |
// +-------------+--------------+--------------+--------------------------+------------------------+
func encodeRecord(r *Record) []byte {
	bs := make([]byte, recordLength)
	binary.LittleEndian.PutUint64(bs[0:8], uint64(r.Time.UnixNano()))
	binary.LittleEndian.PutUint64(bs[8:16], uint64(r.Length))
	binary.LittleEndian.PutUint64(bs[16:24], uint64(r.Offset))
	pos := 24
	for _, s := range r.Snapshots {
		binary.LittleEndian.PutUint64(bs[pos:], s.Total)
		binary.LittleEndian.PutUint64(bs[pos+8:], s.Free)
		binary.LittleEndian.PutUint64(bs[pos+16:], s.Available)
		pos += snapshotLength
	}
	for _, a := range r.Allocated {
		binary.LittleEndian.PutUint64(bs[pos:], uint64(a))
		pos += 8
	}
	return bs
}

func decodeRecord(seq uint64, bs []byte) (*Record, error) {
	if length := len(bs); length != recordLength {
		logging.CPrint(logging.ERROR, "invalid journal record", logging.LogFormat{"seq": seq, "length": length})
		return nil, ErrJournalCorrupted
	}
	r := &Record{
		Seq:    seq,
		Time:   time.Unix(0, int64(binary.LittleEndian.Uint64(bs[0:8]))),
		Length: int64(binary.LittleEndian.Uint64(bs[8:16])),
		Offset: int64(binary.LittleEndian.Uint64(bs[16:24])),
	}
	pos := 24
	for i := range r.Snapshots {
		r.Snapshots[i] = space.Snapshot{
			Total:     binary.LittleEndian.Uint64(bs[pos:]),
			Free:      binary.LittleEndian.Uint64(bs[pos+8:]),
			Available: binary.LittleEndian.Uint64(bs[pos+16:]),
		}
		pos += snapshotLength
	}
	for i := range r.Allocated {
		r.Allocated[i] = int64(binary.LittleEndian.Uint64(bs[pos:]))
		pos += 8
	}
	return r, nil
}
