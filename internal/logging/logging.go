package logging

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"TickerScanner/pkg/logger"
)

// New creates a slog.Logger with provided level string, writing to stdout and extra sinks.
func New(level string, sinks ...io.Writer) *slog.Logger {
	var out io.Writer = os.Stdout
	if len(sinks) > 0 {
		out = io.MultiWriter(append([]io.Writer{os.Stdout}, sinks...)...)
	}
	handler := slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: levelFromString(level),
	})
	return slog.New(handler)
}

// Factory hands out one logger per component, each mirrored to <dir>/<component>.log.
type Factory struct {
	level string
	dir   string

	mu    sync.Mutex
	files map[string]*os.File
}

// NewFactory builds a factory; an empty dir disables log files.
func NewFactory(level, dir string) *Factory {
	return &Factory{level: level, dir: dir, files: map[string]*os.File{}}
}

// Component returns the logger for name. When the log file cannot be opened the logger
// still writes to stdout and the failure is reported through it.
func (f *Factory) Component(name string) *slog.Logger {
	if f.dir == "" {
		return New(f.level).With("component", name)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	file, ok := f.files[name]
	if !ok {
		var err error
		file, err = logger.OpenFile(f.dir, name)
		if err != nil {
			log := New(f.level).With("component", name)
			log.Warn("log file unavailable", "error", err)
			return log
		}
		f.files[name] = file
	}

	return New(f.level, file).With("component", name)
}

// Close closes every log file opened by the factory.
func (f *Factory) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var errs []error
	for name, file := range f.files {
		errs = append(errs, file.Close())
		delete(f.files, name)
	}
	return errors.Join(errs...)
}

func levelFromString(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "error":
		return slog.LevelError
	case "warn", "warning":
		return slog.LevelWarn
	case "info":
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}
