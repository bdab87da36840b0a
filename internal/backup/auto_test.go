package backup

import (
	"context"
	"testing"
	"time"

	"oventreats/internal/storage"
)

func TestShouldBackup(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	dayAgo := now.Add(-25 * time.Hour)
	hourAgo := now.Add(-time.Hour)
	weekAgo := now.Add(-8 * 24 * time.Hour)

	cases := []struct {
		name       string
		settings   Settings
		lastBackup *time.Time
		want       bool
	}{
		{"disabled", Settings{Enabled: false, Frequency: FrequencyDaily}, nil, false},
		{"manual never fires", Settings{Enabled: true, Frequency: FrequencyManual}, &weekAgo, false},
		{"no previous backup", Settings{Enabled: true, Frequency: FrequencyWeekly}, nil, true},
		{"daily due", Settings{Enabled: true, Frequency: FrequencyDaily}, &dayAgo, true},
		{"daily not due", Settings{Enabled: true, Frequency: FrequencyDaily}, &hourAgo, false},
		{"weekly due", Settings{Enabled: true, Frequency: FrequencyWeekly}, &weekAgo, true},
		{"weekly not due", Settings{Enabled: true, Frequency: FrequencyWeekly}, &dayAgo, false},
		{"unknown frequency", Settings{Enabled: true, Frequency: "hourly"}, &weekAgo, false},
	}
	for _, tc := range cases {
		if got := ShouldBackup(tc.settings, tc.lastBackup, now); got != tc.want {
			t.Errorf("%s: ShouldBackup = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestAutoBackupSettingsRoundTrip(t *testing.T) {
	ctx := context.Background()
	a := NewAutoBackup(storage.NewMemoryKV(), nil)

	got := a.Settings(ctx)
	if got != DefaultSettings() {
		t.Fatalf("expected defaults on empty storage, got %+v", got)
	}

	want := Settings{Enabled: true, Frequency: FrequencyDaily, MaxBackups: 3}
	if err := a.UpdateSettings(ctx, want); err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}
	if got := a.Settings(ctx); got != want {
		t.Fatalf("expected %+v after update, got %+v", want, got)
	}
}

func TestAutoBackupSettingsCorruptFallsBack(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	if err := kv.Set(ctx, settingsKey, "{broken"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	a := NewAutoBackup(kv, nil)
	if got := a.Settings(ctx); got != DefaultSettings() {
		t.Fatalf("expected defaults on corrupt settings, got %+v", got)
	}
}

func TestRunSkipsWhenNotDue(t *testing.T) {
	ctx := context.Background()
	a := NewAutoBackup(storage.NewMemoryKV(), nil)

	// Defaults are disabled, so Run must be a no-op even with no remote.
	id, err := a.Run(ctx, nil)
	if err != nil || id != "" {
		t.Fatalf("expected no-op run, got (%q, %v)", id, err)
	}
}

func TestRunUnconfiguredRemote(t *testing.T) {
	ctx := context.Background()
	a := NewAutoBackup(storage.NewMemoryKV(), nil)
	if err := a.UpdateSettings(ctx, Settings{Enabled: true, Frequency: FrequencyDaily, MaxBackups: 5}); err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}

	if _, err := a.Run(ctx, nil); err != ErrNotConfigured {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestLastBackupMissingOrCorrupt(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	a := NewAutoBackup(kv, nil)

	if a.LastBackup(ctx) != nil {
		t.Fatal("expected nil last backup on empty storage")
	}
	if err := kv.Set(ctx, lastBackupKey, "yesterday-ish"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if a.LastBackup(ctx) != nil {
		t.Fatal("expected nil last backup on unparseable timestamp")
	}
}
