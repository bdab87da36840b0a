package backup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"oventreats/internal/models"
)

// WriteFile exports a backup document as pretty-printed JSON under the given
// directory, named oventreats-backup-YYYY-MM-DD.json, and returns the path.
func WriteFile(dir string, data *models.BackupData) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup dir: %w", err)
	}

	name := fmt.Sprintf("oventreats-backup-%s.json", time.Now().Format("2006-01-02"))
	path := filepath.Join(dir, name)

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize backup: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", fmt.Errorf("failed to write backup file: %w", err)
	}
	return path, nil
}

// ReadFile loads and structurally validates a user-supplied backup file.
// Malformed JSON and missing required keys both surface as
// ErrInvalidBackupFormat so the caller can show one actionable message.
func ReadFile(path string) (*models.BackupData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup file: %w", err)
	}
	return Parse(raw)
}

// Parse decodes and validates raw backup JSON from any source.
func Parse(raw []byte) (*models.BackupData, error) {
	var candidate any
	if err := json.Unmarshal(raw, &candidate); err != nil {
		return nil, fmt.Errorf("%w: not valid JSON", ErrInvalidBackupFormat)
	}
	if !Validate(candidate) {
		return nil, fmt.Errorf("%w: missing or malformed required fields", ErrInvalidBackupFormat)
	}

	var data models.BackupData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBackupFormat, err)
	}
	return &data, nil
}
