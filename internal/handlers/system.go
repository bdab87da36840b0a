package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"oventreats/internal/provider"
	"oventreats/internal/store"
)

type DatabaseModeRequest struct {
	Mode string `json:"mode" binding:"required,oneof=local mongo postgres"`
}

// GetDatabaseMode reports the active backend and connectivity flag.
func GetDatabaseMode(p *provider.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"mode": p.Mode(), "isOnline": p.Online()})
	}
}

// SetDatabaseMode switches the active backend. No data is migrated; the
// operator backs up and restores manually around a switch.
func SetDatabaseMode(p *provider.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req DatabaseModeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if err := p.SetMode(c.Request.Context(), req.Mode); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"mode": p.Mode()})
	}
}

// ResetData restores the default catalog and clears orders and customers.
// Staff accounts and the session survive.
func ResetData(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.ResetData()
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// Status is the unauthenticated health probe.
func Status(s *store.Store, p *provider.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"initialized": s.IsInitialized(),
			"mode":        p.Mode(),
			"isOnline":    p.Online(),
		})
	}
}
