package mock

import (
	"io"
	"os"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gib = 1 << 30

func TestVolumeSparseAccounting(t *testing.T) {
	v := NewVolume(10*gib, gib)
	before, err := v.Query()
	require.NoError(t, err)
	assert.EqualValues(t, 9*gib, before.Free)

	f, err := v.CreateExclusive("a")
	require.NoError(t, err)
	require.NoError(t, f.Truncate(gib))

	after, err := v.Query()
	require.NoError(t, err)
	assert.Equal(t, before, after)

	n, err := f.WriteAt([]byte{1, 2, 3}, gib/2)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	written, err := v.Query()
	require.NoError(t, err)
	assert.EqualValues(t, DefaultClusterSize, before.Consumed(written))

	buf := make([]byte, 5)
	_, err = v.Lookup("a").ReadAt(buf, gib/2-1)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 1, 2, 3, 0}, buf)
	assert.Equal(t, 3, v.Queries())
}

func TestVolumeDense(t *testing.T) {
	v := NewVolume(gib, 0)
	v.Dense = true
	f, err := v.CreateExclusive("dense")
	require.NoError(t, err)
	require.NoError(t, f.Truncate(10*DefaultClusterSize+1))
	alloc, err := f.Allocated()
	require.NoError(t, err)
	assert.EqualValues(t, 11*DefaultClusterSize, alloc)

	g, err := v.CreateExclusive("sparse")
	require.NoError(t, err)
	require.NoError(t, g.SetSparse())
	require.NoError(t, g.Truncate(10*DefaultClusterSize))
	alloc, err = g.Allocated()
	require.NoError(t, err)
	assert.Zero(t, alloc)

	h, err := v.CreateExclusive("huge")
	require.NoError(t, err)
	err = h.Truncate(2 * gib)
	assert.True(t, errors.Is(err, ErrNoSpace))
}

func TestVolumeShrinkZeroesTail(t *testing.T) {
	v := NewVolume(gib, 0)
	f, err := v.CreateExclusive("f")
	require.NoError(t, err)
	_, err = f.WriteAt([]byte{9, 9, 9, 9}, 0)
	require.NoError(t, err)
	require.NoError(t, f.Truncate(2))
	require.NoError(t, f.Truncate(4))

	buf := make([]byte, 4)
	n, err := v.Lookup("f").ReadAt(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []byte{9, 9, 0, 0}, buf)

	_, err = v.Lookup("f").ReadAt(buf, 4)
	assert.Equal(t, io.EOF, err)
}

func TestVolumeCreateRemove(t *testing.T) {
	v := NewVolume(gib, 0)
	v.AddFile("left", 10)
	_, err := v.CreateExclusive("left")
	assert.True(t, errors.Is(err, os.ErrExist))

	err = v.Remove("missing")
	assert.True(t, errors.Is(err, os.ErrNotExist))

	require.NoError(t, v.Remove("left"))
	assert.Empty(t, v.Names())
}

func TestVolumeQueryFault(t *testing.T) {
	v := NewVolume(gib, 0)
	v.Faults.Query = errors.New("device gone")
	v.Faults.QueryFailAt = 2

	_, err := v.Query()
	require.NoError(t, err)
	_, err = v.Query()
	assert.Error(t, err)
	_, err = v.Query()
	assert.Error(t, err)
}
