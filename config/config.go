// Package config holds the sysutil settings. Defaults come from NewConfig
// and may be overlaid by an INI file with [log], [freespace] and [journal]
// sections.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/Sukhavati-Labs/go-sysutil/logging"
	"github.com/Sukhavati-Labs/go-sysutil/space"
	"github.com/Sukhavati-Labs/go-sysutil/sparse"
	flags "github.com/btcsuite/go-flags"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	DefaultLogLevel   = "warn"
	DefaultLogMaxAge  = 7
	DefaultVolume     = "."
	DefaultProbe      = space.TypeNative
	DefaultJournalDir = ""
	DefaultListLimit  = 20
)

var (
	ErrInvalidConfig = errors.New("invalid config")
)

type Config struct {
	Log       LogConfig       `group:"log"`
	Freespace FreespaceConfig `group:"freespace"`
	Journal   JournalConfig   `group:"journal"`
}

type LogConfig struct {
	Dir        string `long:"log-dir" ini-name:"dir" description:"Directory for rotating log files, empty logs to stderr only"`
	Level      string `long:"log-level" ini-name:"level" description:"Log level: panic, fatal, error, warn, info, debug, trace"`
	MaxAgeDays uint   `long:"log-max-age" ini-name:"max-age" description:"Days to keep rotated log files"`
}

type FreespaceConfig struct {
	Volume   string `long:"volume" ini-name:"volume" description:"Directory on the volume under test"`
	TempFile string `long:"temp-file" ini-name:"temp-file" description:"Name of the temporary file created in the volume directory"`
	Probe    string `long:"probe" ini-name:"probe" description:"Free space probe backend"`
	Sparse   bool   `long:"sparse" ini-name:"sparse" description:"Mark the temporary file sparse where the platform requires it"`
}

type JournalConfig struct {
	Dir   string `long:"journal-dir" ini-name:"dir" description:"Measurement journal database, empty disables it"`
	Limit int    `long:"journal-limit" ini-name:"limit" description:"Records listed by freespace history"`
}

func NewConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:      DefaultLogLevel,
			MaxAgeDays: DefaultLogMaxAge,
		},
		Freespace: FreespaceConfig{
			Volume:   DefaultVolume,
			TempFile: sparse.DefaultFileName,
			Probe:    DefaultProbe,
		},
		Journal: JournalConfig{
			Dir:   DefaultJournalDir,
			Limit: DefaultListLimit,
		},
	}
}

// LoadFile overlays the INI file at path on cfg. Keys absent from the file
// keep their current values.
func LoadFile(cfg *Config, path string) error {
	parser := flags.NewParser(cfg, flags.None)
	if err := flags.NewIniParser(parser).ParseFile(path); err != nil {
		if os.IsNotExist(err) {
			return errors.Wrapf(err, "config file %s", path)
		}
		return errors.Wrapf(ErrInvalidConfig, "%s: %v", path, err)
	}
	logging.CPrint(logging.DEBUG, "config file loaded", logging.LogFormat{"path": path})
	return nil
}

// Validate checks cfg and normalizes the log level.
func (cfg *Config) Validate() error {
	level := strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	if _, err := logrus.ParseLevel(level); err != nil {
		return errors.Wrapf(ErrInvalidConfig, "log level %q", cfg.Log.Level)
	}
	cfg.Log.Level = level

	if !validProbe(cfg.Freespace.Probe) {
		return errors.Wrapf(ErrInvalidConfig, "probe %q, want one of %s",
			cfg.Freespace.Probe, strings.Join(space.Backends(), ", "))
	}
	name := cfg.Freespace.TempFile
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name || strings.ContainsAny(name, `/\`) {
		return errors.Wrapf(ErrInvalidConfig, "temp file %q must be a plain file name", name)
	}
	if cfg.Freespace.Volume == "" {
		cfg.Freespace.Volume = DefaultVolume
	}
	if cfg.Journal.Limit < 0 {
		return errors.Wrapf(ErrInvalidConfig, "journal limit %d", cfg.Journal.Limit)
	}
	return nil
}

func validProbe(typ string) bool {
	for _, b := range space.Backends() {
		if b == typ {
			return true
		}
	}
	return false
}
