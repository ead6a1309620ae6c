package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/thriveremote/thriveos/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]logrus.Level{
		"debug":   logrus.DebugLevel,
		"INFO":    logrus.InfoLevel,
		"warning": logrus.WarnLevel,
		"warn":    logrus.WarnLevel,
		"error":   logrus.ErrorLevel,
		"bogus":   logrus.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNew_FileWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "thriveos.log")
	logger, closer, err := New(config.LoggingConfig{Level: "debug", Format: "json", File: path, MaxSizeMB: 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.WithField("window", "1").Debug("window opened")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &entry); err != nil {
		t.Fatalf("expected one JSON entry, got %q: %v", data, err)
	}
	if entry["msg"] != "window opened" || entry["window"] != "1" {
		t.Fatalf("unexpected entry %v", entry)
	}
}

func TestFormatter(t *testing.T) {
	if _, ok := formatter("auto", false).(*logrus.JSONFormatter); !ok {
		t.Fatalf("auto without a terminal should log JSON")
	}
	if _, ok := formatter("auto", true).(*logrus.TextFormatter); !ok {
		t.Fatalf("auto on a terminal should log text")
	}
	if f, ok := formatter("text", false).(*logrus.TextFormatter); !ok || !f.DisableColors {
		t.Fatalf("text off a terminal should disable colours")
	}
}

func TestRotatingFile_RollsOver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thriveos.log")
	r, err := OpenRotating(path, 1, 2)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	r.maxBytes = 16

	for _, line := range []string{"first line 0001\n", "second line 002\n", "third line 0003\n", "fourth line 004\n"} {
		if _, err := r.Write([]byte(line)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := r.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	cur, _ := os.ReadFile(path)
	one, _ := os.ReadFile(path + ".1")
	two, _ := os.ReadFile(path + ".2")
	if string(cur) != "fourth line 004\n" || string(one) != "third line 0003\n" || string(two) != "second line 002\n" {
		t.Fatalf("unexpected rotation: cur=%q .1=%q .2=%q", cur, one, two)
	}
	if _, err := os.Stat(path + ".3"); !os.IsNotExist(err) {
		t.Fatalf("expected at most 2 backups")
	}

	if _, err := r.Write([]byte("late")); err == nil || !strings.Contains(err.Error(), "closed") {
		t.Fatalf("expected write after close to fail, got %v", err)
	}
}
