package backup

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestWriteFileAndReadFile(t *testing.T) {
	s := newSeededStore(t)
	dir := t.TempDir()

	path, err := WriteFile(dir, Create(s))
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	wantName := "oventreats-backup-" + time.Now().Format("2006-01-02") + ".json"
	if filepath.Base(path) != wantName {
		t.Fatalf("expected file name %q, got %q", wantName, filepath.Base(path))
	}

	data, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !Validate(data) {
		t.Fatal("file round trip produced an invalid document")
	}
	if len(data.Data.Orders) != 1 {
		t.Fatalf("expected 1 order in exported file, got %d", len(data.Data.Orders))
	}
}

func TestParseRejectsBadInput(t *testing.T) {
	if _, err := Parse([]byte("{not json")); !errors.Is(err, ErrInvalidBackupFormat) {
		t.Fatalf("expected ErrInvalidBackupFormat for bad JSON, got %v", err)
	}
	if _, err := Parse([]byte(`{"version":"1.0.0"}`)); !errors.Is(err, ErrInvalidBackupFormat) {
		t.Fatalf("expected ErrInvalidBackupFormat for incomplete document, got %v", err)
	}
}

func TestReadFileMissing(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestWriteFileIsIndented(t *testing.T) {
	s := newSeededStore(t)
	path, err := WriteFile(t.TempDir(), Create(s))
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(raw), "\n  ") {
		t.Fatal("expected an indented export")
	}
}
