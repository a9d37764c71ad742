package filestore

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestReadDay(t *testing.T) {
	dir := t.TempDir()
	content := "2024-01-01 10:00:00.000\tPlugin\tHello\n"
	if err := os.WriteFile(filepath.Join(dir, "2024-01-01 Events.txt"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	s := New(dir, zap.NewNop())

	text, usedFallback, err := s.ReadDay("2024-01-01")
	if err != nil {
		t.Fatal(err)
	}
	if usedFallback {
		t.Error("UTF-8 content must not use the fallback")
	}
	if text != content {
		t.Errorf("unexpected content: %q", text)
	}
}

func TestReadDayMissing(t *testing.T) {
	s := New(t.TempDir(), zap.NewNop())

	_, _, err := s.ReadDay("2024-01-01")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestReadDayTooLarge(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "2024-01-01 Events.txt"), make([]byte, 2048), 0644); err != nil {
		t.Fatal(err)
	}

	s := New(dir, zap.NewNop())
	s.MaxFileSize = 1024

	_, _, err := s.ReadDay("2024-01-01")
	var tooLarge *TooLargeError
	if !errors.As(err, &tooLarge) {
		t.Fatalf("expected TooLargeError, got %v", err)
	}
	if tooLarge.Size != 2048 {
		t.Errorf("expected size 2048, got %d", tooLarge.Size)
	}
}

func TestTooLargeErrorMessage(t *testing.T) {
	err := &TooLargeError{Size: 60 << 20}
	if !strings.Contains(err.Error(), "60 MB") {
		t.Errorf("expected size in MB in message, got %q", err.Error())
	}
}

func TestReadDayLatin1Fallback(t *testing.T) {
	dir := t.TempDir()
	// 0xE9 is Latin-1 "é" and invalid UTF-8 on its own.
	raw := []byte("2024-01-01 10:00:00.000\tApp\tcaf\xe9\n")
	if err := os.WriteFile(filepath.Join(dir, "2024-01-01 Events.txt"), raw, 0644); err != nil {
		t.Fatal(err)
	}

	s := New(dir, zap.NewNop())

	text, usedFallback, err := s.ReadDay("2024-01-01")
	if err != nil {
		t.Fatal(err)
	}
	if !usedFallback {
		t.Error("expected Latin-1 fallback to be used")
	}
	if !strings.Contains(text, "café") {
		t.Errorf("fallback decode mangled content: %q", text)
	}
}

func TestDates(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"2024-01-01 Events.txt",
		"2024-03-15 Events.txt",
		"2024-02-10 Events.txt",
		"notes.txt",              // wrong name, ignored
		"20240101 Events.txt",    // wrong date shape, ignored
		"2024-01-01 Events.back", // wrong suffix, ignored
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	s := New(dir, zap.NewNop())

	dates, err := s.Dates()
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"2024-03-15", "2024-02-10", "2024-01-01"}
	if len(dates) != len(want) {
		t.Fatalf("expected %d dates, got %v", len(want), dates)
	}
	for i := range want {
		if dates[i] != want[i] {
			t.Errorf("dates[%d]: expected %s, got %s", i, want[i], dates[i])
		}
	}
}

func TestDatesMissingDir(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "nope"), zap.NewNop())

	_, err := s.Dates()
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist, got %v", err)
	}
}
