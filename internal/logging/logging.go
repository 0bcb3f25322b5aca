package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"
)

type Options struct {
	Level logrus.Level
	// File, if set, receives a JSON copy of every entry and is rotated.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Setup configures the given package loggers the same way: text output to
// stderr at opts.Level plus an optional rotating file.
func Setup(opts Options, loggers ...*logrus.Logger) error {
	var hook logrus.Hook
	if opts.File != "" {
		var err error
		hook, err = rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
			Filename:   opts.File,
			MaxSize:    max(opts.MaxSizeMB, 1),
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Level:      opts.Level,
			Formatter:  &logrus.JSONFormatter{TimestampFormat: time.RFC3339},
		})
		if err != nil {
			return fmt.Errorf("unable to create log file hook: %w", err)
		}
	}

	for _, log := range loggers {
		log.SetOutput(os.Stderr)
		log.SetLevel(opts.Level)
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
		log.ReplaceHooks(make(logrus.LevelHooks))
		if hook != nil {
			log.AddHook(hook)
		}
	}
	return nil
}

// NewSlog returns the service logger: colored text in development, JSON
// otherwise.
func NewSlog(w io.Writer, development bool) *slog.Logger {
	if development {
		return slog.New(tint.NewHandler(w, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
		}))
	}
	return slog.New(slog.NewJSONHandler(w, nil))
}

func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
