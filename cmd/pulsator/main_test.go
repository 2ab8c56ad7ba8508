package main

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go-pulsator/config"
)

func TestFailedCommandFlushesDebugLog(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	logPath := filepath.Join(home, "pulsator.log")
	cfg := config.DefaultConfig()
	cfg.Debug = true
	cfg.DebugLog = logPath
	if err := cfg.SaveFile(filepath.Join(home, ".config", "go-pulsator", "config.json")); err != nil {
		t.Fatal(err)
	}

	err := run([]string{"play", filepath.Join(home, "missing.json")})
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("err = %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"msg":"command failed"`, `"command":"play"`, "missing.json"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("log missing %s:\n%s", want, data)
		}
	}
}

func TestUnknownCommandPrintsUsage(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	if err := run(nil); err != nil {
		t.Errorf("run(nil) = %v", err)
	}
	if err := run([]string{"bogus"}); err != nil {
		t.Errorf("run(bogus) = %v", err)
	}
}
