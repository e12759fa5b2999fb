package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/cardfx/config"
)

func TestFileLoggerDisabledWithoutPath(t *testing.T) {
	log, closer, err := fileLogger(config.LogConfig{}, zerolog.InfoLevel)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if closer == nil {
		t.Fatal("Expected a closer")
	}
	if log.GetLevel() != zerolog.Disabled {
		t.Errorf("Expected disabled logger, got %v", log.GetLevel())
	}
}

func TestFileLoggerWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "cardfx.log")
	log, closer, err := fileLogger(config.LogConfig{File: path}, zerolog.DebugLevel)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	log.Info().Msg("hello")
	closer.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected log file, got %v", err)
	}
	if len(data) == 0 {
		t.Error("Expected log file to contain content")
	}
}

func TestRotateLargeLog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cardfx.log")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Truncate(path, maxLogSize+1); err != nil {
		t.Fatal(err)
	}

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := rotate(path, now); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Expected original log to be moved aside")
	}
	rotated := filepath.Join(dir, "cardfx-20240301-120000.log")
	if _, err := os.Stat(rotated); err != nil {
		t.Errorf("Expected rotated file %s, got %v", rotated, err)
	}
}

func TestRotateKeepsSmallLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cardfx.log")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := rotate(path, time.Now()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Expected small log kept, got %v", err)
	}
}
