package main

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestRunReturnsLogFileError(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LOG_FILE", filepath.Join(t.TempDir(), "missing", "game.log"))

	err := run()
	if err == nil || !strings.Contains(err.Error(), "open log file") {
		t.Fatalf("run() = %v, want an open log file error", err)
	}
}
