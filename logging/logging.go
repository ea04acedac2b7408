package logging

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	rotatelogs "github.com/lestrrat/go-file-rotatelogs"
	"github.com/pkg/errors"
	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
)

// LogFormat carries the structured fields attached to a CPrint entry.
type LogFormat map[string]interface{}

const (
	PANIC = logrus.PanicLevel
	FATAL = logrus.FatalLevel
	ERROR = logrus.ErrorLevel
	WARN  = logrus.WarnLevel
	INFO  = logrus.InfoLevel
	DEBUG = logrus.DebugLevel
	TRACE = logrus.TraceLevel
)

const (
	DefaultFilename = "sysutil.log"
	DefaultMaxAge   = 7 * 24 * time.Hour
	rotationTime    = 24 * time.Hour
)

var logger = logrus.New()

func init() {
	logger.Out = os.Stderr
	logger.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	logger.Level = logrus.WarnLevel
}

// Init sets the log level and, when dir is not empty, adds a rotating file
// sink under dir. Console entries keep going to stderr.
func Init(dir, filename, level string, maxAge time.Duration) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return errors.Wrapf(err, "invalid log level %q", level)
	}
	logger.SetLevel(lvl)
	logger.ReplaceHooks(make(logrus.LevelHooks))

	if dir == "" {
		return nil
	}
	if filename == "" {
		filename = DefaultFilename
	}
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	if err = os.MkdirAll(dir, 0700); err != nil {
		return errors.Wrapf(err, "create log dir %s", dir)
	}
	hook, err := newFileHook(filepath.Join(dir, filename), maxAge)
	if err != nil {
		return err
	}
	logger.AddHook(hook)
	return nil
}

func newFileHook(base string, maxAge time.Duration) (logrus.Hook, error) {
	options := []rotatelogs.Option{
		rotatelogs.WithMaxAge(maxAge),
		rotatelogs.WithRotationTime(rotationTime),
	}
	// symlinks need extra privileges on windows
	if runtime.GOOS != "windows" {
		options = append(options, rotatelogs.WithLinkName(base))
	}
	writer, err := rotatelogs.New(base+".%Y%m%d", options...)
	if err != nil {
		return nil, errors.Wrapf(err, "open rotating log %s", base)
	}
	return lfshook.NewHook(lfshook.WriterMap{
		logrus.PanicLevel: writer,
		logrus.FatalLevel: writer,
		logrus.ErrorLevel: writer,
		logrus.WarnLevel:  writer,
		logrus.InfoLevel:  writer,
		logrus.DebugLevel: writer,
		logrus.TraceLevel: writer,
	}, &logrus.JSONFormatter{}), nil
}

// CPrint logs msg at level with the caller position and the given fields.
// FATAL entries terminate the process after being written.
func CPrint(level logrus.Level, msg string, formats ...LogFormat) {
	if !logger.IsLevelEnabled(level) {
		return
	}
	entry := logger.WithField("file", caller(2))
	for _, f := range formats {
		entry = entry.WithFields(logrus.Fields(f))
	}
	if level == FATAL {
		entry.Fatal(msg)
		return
	}
	entry.Log(level, msg)
}

func caller(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return "???"
	}
	return filepath.Base(file) + ":" + strconv.Itoa(line)
}

// Enabled reports whether entries at level would be written.
func Enabled(level logrus.Level) bool {
	return logger.IsLevelEnabled(level)
}
