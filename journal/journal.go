// Package journal keeps a history of free-space demonstration runs in a
// leveldb database.
package journal

import (
	"encoding/binary"

	"github.com/Sukhavati-Labs/go-sysutil/logging"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

var (
	ErrJournalCorrupted = errors.New("journal record corrupted")
	ErrClosed           = errors.New("journal closed")
)

var (
	seqMetaKey      = []byte("SEQ") // last assigned sequence number
	recordKeyPrefix = []byte("rec")
)

type Journal struct {
	db     *leveldb.DB
	path   string
	seq    uint64
	closed bool
}

// Open opens or creates the journal database at path.
func Open(path string) (*Journal, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "open journal %s", path)
	}
	j := &Journal{db: db, path: path}
	data, err := db.Get(seqMetaKey, nil)
	switch {
	case err == nil:
		if len(data) != 8 {
			db.Close()
			return nil, errors.Wrapf(ErrJournalCorrupted, "sequence meta length %d", len(data))
		}
		j.seq = binary.BigEndian.Uint64(data)
	case err == leveldb.ErrNotFound:
	default:
		db.Close()
		return nil, errors.Wrapf(err, "read journal meta %s", path)
	}
	logging.CPrint(logging.DEBUG, "journal opened", logging.LogFormat{"path": path, "seq": j.seq})
	return j, nil
}

func recordKey(seq uint64) []byte {
	key := make([]byte, len(recordKeyPrefix)+8)
	copy(key, recordKeyPrefix)
	binary.BigEndian.PutUint64(key[len(recordKeyPrefix):], seq)
	return key
}

// Put stores r under the next sequence number and sets r.Seq.
func (j *Journal) Put(r *Record) error {
	if j.closed {
		return ErrClosed
	}
	seq := j.seq + 1
	var seqBuf [8]byte
	binary.BigEndian.PutUint64(seqBuf[:], seq)

	batch := new(leveldb.Batch)
	batch.Put(recordKey(seq), encodeRecord(r))
	batch.Put(seqMetaKey, seqBuf[:])
	if err := j.db.Write(batch, nil); err != nil {
		return errors.Wrapf(err, "write journal record %d", seq)
	}
	j.seq = seq
	r.Seq = seq
	return nil
}

// List returns the newest limit records in insertion order, all records
// when limit is not positive.
func (j *Journal) List(limit int) ([]*Record, error) {
	if j.closed {
		return nil, ErrClosed
	}
	iter := j.db.NewIterator(util.BytesPrefix(recordKeyPrefix), nil)
	defer iter.Release()

	var records []*Record
	for ok := iter.Last(); ok; ok = iter.Prev() {
		if limit > 0 && len(records) == limit {
			break
		}
		key := iter.Key()
		if len(key) != len(recordKeyPrefix)+8 {
			return nil, errors.Wrapf(ErrJournalCorrupted, "key length %d", len(key))
		}
		seq := binary.BigEndian.Uint64(key[len(recordKeyPrefix):])
		r, err := decodeRecord(seq, iter.Value())
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	if err := iter.Error(); err != nil {
		return nil, err
	}
	for i, k := 0, len(records)-1; i < k; i, k = i+1, k-1 {
		records[i], records[k] = records[k], records[i]
	}
	return records, nil
}

// Len returns the number of records written so far.
func (j *Journal) Len() uint64 {
	return j.seq
}

func (j *Journal) Close() error {
	if j.closed {
		return nil
	}
	j.closed = true
	return j.db.Close()
}
