package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"oventreats/internal/backup"
	"oventreats/internal/store"
)

// respondBackupError maps backup and transport errors onto HTTP statuses,
// keeping the transport kinds distinguishable for the caller.
func respondBackupError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, backup.ErrNotConfigured):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "remote backups are not configured"})
	case errors.Is(err, backup.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "remote backup store denied access"})
	case errors.Is(err, backup.ErrNetworkUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "remote backup store is unreachable"})
	case errors.Is(err, backup.ErrTimeout):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "remote backup store timed out"})
	case errors.Is(err, backup.ErrBackupNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "backup not found"})
	case errors.Is(err, backup.ErrInvalidBackupFormat):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, backup.ErrRestoreFailed):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		log.Println("[BACKUP] [ERROR] unexpected:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "backup operation failed"})
	}
}

// ListBackups returns remote backup metadata, newest first, plus whether the
// remote store is configured so the UI can gate write actions.
func ListBackups(remote *backup.RemoteStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !remote.Configured() {
			c.JSON(http.StatusOK, gin.H{"configured": false, "backups": []backup.Metadata{}})
			return
		}

		list, err := remote.List(c.Request.Context())
		if err != nil {
			respondBackupError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"configured": true, "backups": list})
	}
}

// CreateBackup snapshots the store and uploads it to the remote store.
func CreateBackup(s *store.Store, remote *backup.RemoteStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := remote.Create(c.Request.Context(), backup.Create(s))
		if err != nil {
			respondBackupError(c, err)
			return
		}
		log.Println("[BACKUP] [INFO] remote backup created:", id)
		c.JSON(http.StatusCreated, gin.H{"id": id})
	}
}

// RestoreBackup fetches a remote backup by id, validates it and replaces the
// store contents. A validation or conversion failure leaves the store as-is.
func RestoreBackup(s *store.Store, remote *backup.RemoteStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := remote.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondBackupError(c, err)
			return
		}
		if !backup.Validate(data) {
			respondBackupError(c, backup.ErrInvalidBackupFormat)
			return
		}
		if err := backup.Restore(s, data); err != nil {
			respondBackupError(c, err)
			return
		}
		log.Println("[BACKUP] [INFO] store restored from remote backup:", c.Param("id"))
		c.JSON(http.StatusOK, gin.H{"ok": true, "info": backup.Summarize(data)})
	}
}

// DeleteBackup removes one remote backup.
func DeleteBackup(remote *backup.RemoteStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := remote.Delete(c.Request.Context(), c.Param("id")); err != nil {
			respondBackupError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// ExportBackup writes a backup file to the export directory and returns its
// path and summary.
func ExportBackup(s *store.Store, dir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		data := backup.Create(s)
		path, err := backup.WriteFile(dir, data)
		if err != nil {
			log.Println("[BACKUP] [ERROR] export failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to write backup file"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"path": path, "info": backup.Summarize(data)})
	}
}

// ImportBackup restores the store from a backup document uploaded in the
// request body.
func ImportBackup(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		data, err := backup.Parse(raw)
		if err != nil {
			respondBackupError(c, err)
			return
		}
		if err := backup.Restore(s, data); err != nil {
			respondBackupError(c, err)
			return
		}
		log.Println("[BACKUP] [INFO] store restored from uploaded backup")
		c.JSON(http.StatusOK, gin.H{"ok": true, "info": backup.Summarize(data)})
	}
}

type AutoBackupSettingsRequest struct {
	Enabled    *bool   `json:"enabled"`
	Frequency  *string `json:"frequency" binding:"omitempty,oneof=daily weekly manual"`
	MaxBackups *int    `json:"maxBackups" binding:"omitempty,gte=1"`
}

// GetAutoBackupSettings returns the schedule and the last run time.
func GetAutoBackupSettings(auto *backup.AutoBackup) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		c.JSON(http.StatusOK, gin.H{
			"settings":   auto.Settings(ctx),
			"lastBackup": auto.LastBackup(ctx),
		})
	}
}

// UpdateAutoBackupSettings merges a partial schedule change.
func UpdateAutoBackupSettings(auto *backup.AutoBackup) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AutoBackupSettingsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx := c.Request.Context()
		settings := auto.Settings(ctx)
		if req.Enabled != nil {
			settings.Enabled = *req.Enabled
		}
		if req.Frequency != nil {
			settings.Frequency = *req.Frequency
		}
		if req.MaxBackups != nil {
			settings.MaxBackups = *req.MaxBackups
		}

		if err := auto.UpdateSettings(ctx, settings); err != nil {
			log.Println("[BACKUP] [ERROR] settings update failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update settings"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"settings": settings})
	}
}

// RunAutoBackup triggers the schedule check immediately.
func RunAutoBackup(s *store.Store, auto *backup.AutoBackup) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := auto.Run(c.Request.Context(), s)
		if err != nil {
			respondBackupError(c, err)
			return
		}
		if id == "" {
			c.JSON(http.StatusOK, gin.H{"created": false})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"created": true, "id": id})
	}
}
