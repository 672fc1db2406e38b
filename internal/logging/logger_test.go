package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDisabledLoggingIsNoOp(t *testing.T) {
	t.Cleanup(Close)
	if err := Initialize("", false, "info"); err != nil {
		t.Fatalf("Initialize with debug off must not fail: %v", err)
	}

	// Must not panic or create files.
	Get(CategoryTimer).Info("tick at %d", 42)
	Parse("element %q ignored", "bell")
}

func TestEnabledLoggingWritesCategoryFiles(t *testing.T) {
	t.Cleanup(Close)
	dir := t.TempDir()
	if err := Initialize(dir, true, "debug"); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	Get(CategoryParse).Error("bad attribute %q", "length")
	Get(CategoryTimer).Debug("tick at %d", 7)
	Close()

	data, err := os.ReadFile(filepath.Join(dir, "logs", "parse.log"))
	if err != nil {
		t.Fatalf("expected parse.log to exist: %v", err)
	}
	if !strings.Contains(string(data), `bad attribute "length"`) {
		t.Errorf("parse.log missing entry: %s", data)
	}

	if _, err := os.ReadFile(filepath.Join(dir, "logs", "timer.log")); err != nil {
		t.Errorf("expected timer.log to exist: %v", err)
	}
}

func TestLogLevelFiltering(t *testing.T) {
	t.Cleanup(Close)
	dir := t.TempDir()
	if err := Initialize(dir, true, "error"); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	l := Get(CategoryStore)
	l.Info("below threshold")
	l.Error("at threshold")
	Close()

	data, err := os.ReadFile(filepath.Join(dir, "logs", "store.log"))
	if err != nil {
		t.Fatalf("expected store.log to exist: %v", err)
	}
	out := string(data)
	if strings.Contains(out, "below threshold") {
		t.Error("info entry should have been filtered at error level")
	}
	if !strings.Contains(out, "at threshold") {
		t.Error("error entry missing")
	}
}
