package stream

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chunkWriter struct {
	buf    bytes.Buffer
	writes []int
}

func (w *chunkWriter) Write(p []byte) (int, error) {
	w.writes = append(w.writes, len(p))
	return w.buf.Write(p)
}

type failingReader struct{}

func (failingReader) Read(p []byte) (int, error) {
	return 0, errors.New("device error")
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, ioutil.WriteFile(path, []byte(content), 0600))
	return path
}

func TestCatUsesBuffer(t *testing.T) {
	data := bytes.Repeat([]byte("x"), 3*CatBufferSize+10)
	w := &chunkWriter{}
	require.NoError(t, Cat(w, bytes.NewReader(data)))
	assert.Equal(t, data, w.buf.Bytes())
	assert.Equal(t, []int{CatBufferSize, CatBufferSize, CatBufferSize, 10}, w.writes)
}

func TestConcatOrder(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a", "alpha\n")
	b := writeFile(t, dir, "b", "")
	c := writeFile(t, dir, "c", "gamma\n")

	var out, errw bytes.Buffer
	require.NoError(t, Concat(&out, &errw, strings.NewReader("stdin"), []string{c, a, b, a}, false))
	assert.Equal(t, "gamma\nalpha\nalpha\n", out.String())
	assert.Empty(t, errw.String())
}

func TestConcatStdin(t *testing.T) {
	var out, errw bytes.Buffer
	require.NoError(t, Concat(&out, &errw, strings.NewReader("from stdin"), nil, false))
	assert.Equal(t, "from stdin", out.String())

	out.Reset()
	err := Concat(&out, &errw, failingReader{}, nil, false)
	assert.True(t, errors.Is(err, ErrIncomplete))
	assert.Contains(t, errw.String(), "device error")

	errw.Reset()
	assert.NoError(t, Concat(&out, &errw, failingReader{}, nil, true))
	assert.Empty(t, errw.String())
}

func TestConcatMissingFile(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a", "one")
	b := writeFile(t, dir, "b", "two")
	missing := filepath.Join(dir, "missing")

	var out, errw bytes.Buffer
	err := Concat(&out, &errw, nil, []string{a, missing, b}, false)
	assert.True(t, errors.Is(err, ErrIncomplete))
	assert.Equal(t, "onetwo", out.String())
	assert.Contains(t, errw.String(), "ERROR: File open error")
	assert.Contains(t, errw.String(), "missing")

	out.Reset()
	errw.Reset()
	require.NoError(t, Concat(&out, &errw, nil, []string{a, missing, b}, true))
	assert.Equal(t, "onetwo", out.String())
	assert.Empty(t, errw.String())
}

func TestCopy(t *testing.T) {
	dir := t.TempDir()
	content := strings.Repeat("0123456789", 100)
	src := writeFile(t, dir, "src", content)
	dst := writeFile(t, dir, "dst", strings.Repeat("old", 1000))

	require.NoError(t, Copy(src, dst))
	got, err := ioutil.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, content, string(got))
}

func TestCopyFailures(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "src", "data")

	err := Copy(filepath.Join(dir, "missing"), filepath.Join(dir, "out"))
	assert.True(t, errors.Is(err, ErrOpenSource))
	assert.Equal(t, 2, CopyExitCode(err))
	_, serr := os.Stat(filepath.Join(dir, "out"))
	assert.True(t, os.IsNotExist(serr))

	err = Copy(src, filepath.Join(dir, "no", "such", "dir", "out"))
	assert.True(t, errors.Is(err, ErrCreateDest))
	assert.Equal(t, 3, CopyExitCode(err))

	// reading a directory fails after both files were opened
	err = Copy(dir, filepath.Join(dir, "out"))
	assert.True(t, errors.Is(err, ErrTransfer))
	assert.Equal(t, 4, CopyExitCode(err))

	assert.Equal(t, 0, CopyExitCode(nil))
	assert.Equal(t, 1, CopyExitCode(errors.New("usage")))
}

func TestCopySameFile(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "src", "keep me")

	err := Copy(src, src)
	assert.True(t, errors.Is(err, ErrCreateDest))
	assert.Equal(t, 3, CopyExitCode(err))
	err = Copy(src, filepath.Join(dir, "..", filepath.Base(dir), "src"))
	assert.Equal(t, 3, CopyExitCode(err))

	got, err := ioutil.ReadFile(src)
	require.NoError(t, err)
	assert.Equal(t, "keep me", string(got))
}
