package backup

import "errors"

var (
	// ErrInvalidBackupFormat marks a candidate document that failed
	// structural validation; it is never a raw JSON parse error.
	ErrInvalidBackupFormat = errors.New("invalid backup format")

	// ErrRestoreFailed marks a restore that was rejected before any live
	// state changed, typically on an unparseable date.
	ErrRestoreFailed = errors.New("restore failed")

	// ErrBackupNotFound is returned when the requested remote backup id
	// does not exist.
	ErrBackupNotFound = errors.New("backup not found")

	// Remote transport error kinds, kept distinguishable so the caller can
	// tell a missing configuration from a dead network.
	ErrNotConfigured      = errors.New("remote backup store not configured")
	ErrPermissionDenied   = errors.New("remote backup store access denied")
	ErrNetworkUnavailable = errors.New("remote backup store unavailable")
	ErrTimeout            = errors.New("remote backup store timed out")
)
