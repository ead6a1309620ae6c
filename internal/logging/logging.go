// Package logging builds the process logger from config.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/thriveremote/thriveos/internal/config"
)

// ParseLevel converts a config level to a logrus level. Unknown values map to
// info.
func ParseLevel(s string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// New returns a logger writing to the configured file, or stderr when none is
// set. The returned closer releases the file.
func New(cfg config.LoggingConfig) (*logrus.Logger, io.Closer, error) {
	logger := logrus.New()
	logger.SetLevel(ParseLevel(cfg.Level))

	var out io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}
	tty := term.IsTerminal(int(os.Stderr.Fd()))
	if cfg.File != "" {
		f, err := OpenRotating(cfg.File, cfg.MaxSizeMB, cfg.MaxFiles)
		if err != nil {
			return nil, nil, err
		}
		out, closer, tty = f, f, false
	}
	logger.SetOutput(out)
	logger.SetFormatter(formatter(cfg.Format, tty))
	return logger, closer, nil
}

func formatter(format string, tty bool) logrus.Formatter {
	switch format {
	case "json":
		return &logrus.JSONFormatter{}
	case "text":
		return &logrus.TextFormatter{FullTimestamp: true, DisableColors: !tty}
	}
	if tty {
		return &logrus.TextFormatter{FullTimestamp: true, ForceColors: true}
	}
	return &logrus.JSONFormatter{}
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
