package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lapboard.log")

	l, f, err := New(path, false)
	if err != nil {
		t.Fatalf("expected no error but found %v", err)
	}
	l.Debug("hidden")
	l.Info("shown", "car", 1)
	f.Close()

	b, _ := os.ReadFile(path)
	if strings.Contains(string(b), "hidden") {
		t.Errorf("expected debug messages to be filtered but found %q", string(b))
	}
	if !strings.Contains(string(b), "shown") || !strings.Contains(string(b), "car=1") {
		t.Errorf("expected info message in log but found %q", string(b))
	}

	l, f, err = New(path, true)
	if err != nil {
		t.Fatalf("expected no error but found %v", err)
	}
	l.Debug("traced")
	f.Close()

	b, _ = os.ReadFile(path)
	if !strings.Contains(string(b), "traced") {
		t.Errorf("expected debug message in log but found %q", string(b))
	}
	if !strings.Contains(string(b), "shown") {
		t.Errorf("expected log file to be appended to")
	}
}

func TestNewBadPath(t *testing.T) {
	if _, _, err := New(filepath.Join(t.TempDir(), "missing", "x.log"), false); err == nil {
		t.Errorf("expected an error for an unwritable path")
	}
}
