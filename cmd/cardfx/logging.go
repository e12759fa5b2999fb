package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/cardfx/config"
)

// maxLogSize triggers rotation of the terminal-mode log file
const maxLogSize = 10 * 1024 * 1024

// fileLogger opens cfg.File for appending, rotating it aside first when too large
// The terminal owns stdout and stderr while cards are animating
func fileLogger(cfg config.LogConfig, level zerolog.Level) (zerolog.Logger, io.Closer, error) {
	if cfg.File == "" {
		return zerolog.Nop(), io.NopCloser(nil), nil
	}
	if dir := filepath.Dir(cfg.File); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("create log dir: %w", err)
		}
	}
	if err := rotate(cfg.File, time.Now()); err != nil {
		return zerolog.Nop(), nil, err
	}

	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
	}
	log := zerolog.New(f).Level(level).With().Timestamp().Str("mode", "terminal").Logger()
	return log, f, nil
}

// rotate renames path to a timestamped sibling once it exceeds maxLogSize
func rotate(path string, now time.Time) error {
	info, err := os.Stat(path)
	if err != nil || info.Size() <= maxLogSize {
		return nil
	}
	ext := filepath.Ext(path)
	base := path[:len(path)-len(ext)]
	rotated := fmt.Sprintf("%s-%s%s", base, now.Format("20060102-150405"), ext)
	if err := os.Rename(path, rotated); err != nil {
		return fmt.Errorf("rotate log: %w", err)
	}
	return nil
}

// consoleLogger writes human-readable logs, used by commands that leave the terminal alone
func consoleLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()
}
