package space

import (
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackends(t *testing.T) {
	assert.ElementsMatch(t, []string{TypeNative, TypeGopsutil}, Backends())

	AddBackend(Backend{Typ: TypeNative, NewProbe: nil})
	assert.Len(t, Backends(), 2)

	_, err := NewProbe("statvfs", ".")
	assert.True(t, errors.Is(err, ErrInvalidProbeType))
}

func TestProbeQuery(t *testing.T) {
	dir := t.TempDir()
	for _, typ := range Backends() {
		probe, err := NewProbe(typ, dir)
		require.NoError(t, err, typ)

		first, err := probe.Query()
		require.NoError(t, err, typ)
		assert.NotZero(t, first.Total, typ)
		assert.True(t, first.Free <= first.Total, typ)
		assert.True(t, first.Available <= first.Free, typ)

		second, err := probe.Query()
		require.NoError(t, err, typ)
		assert.Equal(t, first.Total, second.Total, typ)
	}
}

func TestProbeQueryMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")
	for _, typ := range Backends() {
		probe, err := NewProbe(typ, dir)
		require.NoError(t, err, typ)

		_, err = probe.Query()
		require.Error(t, err, typ)
		assert.True(t, errors.Is(err, ErrVolumeQuery), typ)

		var qe *QueryError
		require.True(t, errors.As(err, &qe), typ)
		assert.Equal(t, dir, qe.Dir)
		assert.NotNil(t, qe.Err, typ)
	}
}

func TestSnapshotHelpers(t *testing.T) {
	before := Snapshot{Total: 100 * GiB, Free: 50 * GiB, Available: 40 * GiB}
	after := Snapshot{Total: 100 * GiB, Free: 49 * GiB, Available: 39 * GiB}
	assert.EqualValues(t, GiB, before.Consumed(after))
	assert.EqualValues(t, -GiB, after.Consumed(before))
	assert.InDelta(t, 1.5, ToGB(3*GiB/2), 1e-9)
}
