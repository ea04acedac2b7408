package logging

import (
	"io/ioutil"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCPrintFields(t *testing.T) {
	require.NoError(t, Init("", "", "debug", 0))
	hook := test.NewLocal(logger)
	defer hook.Reset()
	out := logger.Out
	logger.Out = ioutil.Discard
	defer func() { logger.Out = out }()

	CPrint(INFO, "snapshot taken", LogFormat{"free": uint64(42), "stage": "created"})
	CPrint(TRACE, "filtered")

	require.Len(t, hook.AllEntries(), 1)
	entry := hook.LastEntry()
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, "snapshot taken", entry.Message)
	assert.Equal(t, uint64(42), entry.Data["free"])
	assert.Equal(t, "created", entry.Data["stage"])
	assert.Contains(t, entry.Data["file"], "logging_test.go:")
}

func TestInitInvalidLevel(t *testing.T) {
	err := Init("", "", "loud", 0)
	assert.Error(t, err)
}

func TestInitFileSink(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(dir, "test.log", "info", time.Hour))
	defer Init("", "", "warn", 0)
	out := logger.Out
	logger.Out = ioutil.Discard
	defer func() { logger.Out = out }()

	CPrint(WARN, "written to file", LogFormat{"k": "v"})

	matches, err := filepath.Glob(filepath.Join(dir, "test.log.*"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	data, err := ioutil.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}
