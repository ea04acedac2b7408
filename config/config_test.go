package config

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/Sukhavati-Labs/go-sysutil/space"
	"github.com/Sukhavati-Labs/go-sysutil/sparse"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	cfg := NewConfig()
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.EqualValues(t, DefaultLogMaxAge, cfg.Log.MaxAgeDays)
	assert.Equal(t, ".", cfg.Freespace.Volume)
	assert.Equal(t, sparse.DefaultFileName, cfg.Freespace.TempFile)
	assert.Equal(t, space.TypeNative, cfg.Freespace.Probe)
	assert.False(t, cfg.Freespace.Sparse)
	assert.Empty(t, cfg.Journal.Dir)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sysutil.conf")
	content := `
[log]
level = debug

[freespace]
volume = /mnt/data
probe = gopsutil
temp-file = probe.tmp

[journal]
dir = /var/lib/sysutil/journal
`
	require.NoError(t, ioutil.WriteFile(path, []byte(content), 0600))

	cfg := NewConfig()
	require.NoError(t, LoadFile(cfg, path))
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/mnt/data", cfg.Freespace.Volume)
	assert.Equal(t, space.TypeGopsutil, cfg.Freespace.Probe)
	assert.Equal(t, "probe.tmp", cfg.Freespace.TempFile)
	assert.Equal(t, "/var/lib/sysutil/journal", cfg.Journal.Dir)
	// untouched keys keep their defaults
	assert.EqualValues(t, DefaultLogMaxAge, cfg.Log.MaxAgeDays)
	assert.Equal(t, DefaultListLimit, cfg.Journal.Limit)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()
	err := LoadFile(NewConfig(), filepath.Join(dir, "missing.conf"))
	assert.Error(t, err)

	path := filepath.Join(dir, "bad.conf")
	require.NoError(t, ioutil.WriteFile(path, []byte("[nosuchsection]\nkey = 1\n"), 0600))
	err = LoadFile(NewConfig(), path)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(cfg *Config)
		valid  bool
	}{
		{"default", func(cfg *Config) {}, true},
		{"upper case level", func(cfg *Config) { cfg.Log.Level = "INFO" }, true},
		{"bad level", func(cfg *Config) { cfg.Log.Level = "loud" }, false},
		{"bad probe", func(cfg *Config) { cfg.Freespace.Probe = "wmi" }, false},
		{"gopsutil probe", func(cfg *Config) { cfg.Freespace.Probe = space.TypeGopsutil }, true},
		{"empty temp file", func(cfg *Config) { cfg.Freespace.TempFile = "" }, false},
		{"temp file with dir", func(cfg *Config) { cfg.Freespace.TempFile = "a/b" }, false},
		{"temp file dot dot", func(cfg *Config) { cfg.Freespace.TempFile = ".." }, false},
		{"negative limit", func(cfg *Config) { cfg.Journal.Limit = -1 }, false},
		{"empty volume", func(cfg *Config) { cfg.Freespace.Volume = "" }, true},
	}
	for _, test := range tests {
		cfg := NewConfig()
		test.modify(cfg)
		err := cfg.Validate()
		if test.valid {
			assert.NoError(t, err, test.name)
		} else {
			assert.True(t, errors.Is(err, ErrInvalidConfig), test.name)
		}
	}
}
