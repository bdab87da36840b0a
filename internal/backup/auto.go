package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"oventreats/internal/storage"
	"oventreats/internal/store"
)

// Auto-backup frequencies.
const (
	FrequencyDaily  = "daily"
	FrequencyWeekly = "weekly"
	FrequencyManual = "manual"
)

const (
	settingsKey   = "auto-backup-settings"
	lastBackupKey = "last-auto-backup"
)

// Settings controls the automatic remote backup schedule.
type Settings struct {
	Enabled   bool   `json:"enabled"`
	Frequency string `json:"frequency"`
	// MaxBackups caps how many remote backups are kept; older ones are
	// pruned after each automatic run.
	MaxBackups int `json:"maxBackups"`
}

// DefaultSettings is the out-of-the-box schedule: off, weekly, keep five.
func DefaultSettings() Settings {
	return Settings{Enabled: false, Frequency: FrequencyWeekly, MaxBackups: 5}
}

// ShouldBackup decides whether an automatic backup is due. Pure function of
// the schedule, the previous backup time (nil when none exists) and now:
// daily fires after 24h, weekly after 168h, manual never fires.
func ShouldBackup(settings Settings, lastBackup *time.Time, now time.Time) bool {
	if !settings.Enabled {
		return false
	}
	if settings.Frequency == FrequencyManual {
		return false
	}
	if lastBackup == nil {
		return true
	}

	elapsed := now.Sub(*lastBackup)
	switch settings.Frequency {
	case FrequencyDaily:
		return elapsed >= 24*time.Hour
	case FrequencyWeekly:
		return elapsed >= 7*24*time.Hour
	}
	return false
}

// AutoBackup runs the automatic backup schedule against a remote store,
// keeping its settings and last-run marker in the KV layer.
type AutoBackup struct {
	kv     storage.KV
	remote *RemoteStore
}

func NewAutoBackup(kv storage.KV, remote *RemoteStore) *AutoBackup {
	return &AutoBackup{kv: kv, remote: remote}
}

// Settings loads the stored schedule, falling back to defaults on a missing
// or unreadable entry.
func (a *AutoBackup) Settings(ctx context.Context) Settings {
	raw, err := a.kv.Get(ctx, settingsKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Println("[BACKUP] [ERROR] failed to read auto-backup settings:", err)
		}
		return DefaultSettings()
	}

	settings := DefaultSettings()
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		log.Println("[BACKUP] [ERROR] corrupt auto-backup settings, using defaults:", err)
		return DefaultSettings()
	}
	return settings
}

// UpdateSettings merges a partial settings change into the stored schedule.
func (a *AutoBackup) UpdateSettings(ctx context.Context, settings Settings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to serialize settings: %w", err)
	}
	if err := a.kv.Set(ctx, settingsKey, string(raw)); err != nil {
		return fmt.Errorf("failed to store settings: %w", err)
	}
	return nil
}

// LastBackup returns when the previous automatic backup ran, or nil.
func (a *AutoBackup) LastBackup(ctx context.Context) *time.Time {
	raw, err := a.kv.Get(ctx, lastBackupKey)
	if err != nil {
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil
	}
	return &t
}

// Run creates an automatic backup if one is due, then prunes remote backups
// beyond MaxBackups. Returns the new backup id, or "" when nothing was due.
func (a *AutoBackup) Run(ctx context.Context, s *store.Store) (string, error) {
	settings := a.Settings(ctx)
	if !ShouldBackup(settings, a.LastBackup(ctx), time.Now()) {
		return "", nil
	}
	if !a.remote.Configured() {
		return "", ErrNotConfigured
	}

	id, err := a.remote.Create(ctx, Create(s))
	if err != nil {
		return "", err
	}

	if err := a.kv.Set(ctx, lastBackupKey, time.Now().Format(time.RFC3339)); err != nil {
		log.Println("[BACKUP] [ERROR] failed to stamp last auto-backup:", err)
	}

	a.cleanup(ctx, settings.MaxBackups)
	return id, nil
}

// cleanup deletes the oldest remote backups beyond the retention cap. A
// failed delete is logged and skipped; retention catches up on the next run.
func (a *AutoBackup) cleanup(ctx context.Context, maxBackups int) {
	if maxBackups <= 0 {
		return
	}
	list, err := a.remote.List(ctx)
	if err != nil {
		log.Println("[BACKUP] [ERROR] retention list failed:", err)
		return
	}
	// List is newest first; everything past the cap goes.
	for _, meta := range list[min(maxBackups, len(list)):] {
		if err := a.remote.Delete(ctx, meta.ID); err != nil {
			log.Printf("[BACKUP] [ERROR] failed to prune backup %s: %v", meta.ID, err)
		}
	}
}
