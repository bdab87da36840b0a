package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"oventreats/internal/models"
	"oventreats/internal/store"
)

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type SetupRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
}

func issueToken(user models.AuthUser, secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"role":     user.Role,
		"exp":      time.Now().Add(ttl).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Setup creates the first admin account. Refused once any user exists.
func Setup(s *store.Store, jwtSecret string, accessTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.IsInitialized() {
			c.JSON(http.StatusConflict, gin.H{"error": "already initialized"})
			return
		}

		var req SetupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		user, err := s.RegisterUser(models.User{
			Username: req.Username,
			Password: req.Password,
			Name:     req.Name,
			Email:    req.Email,
			Role:     models.RoleAdmin,
			IsActive: true,
		})
		if err != nil {
			respondStoreError(c, err)
			return
		}

		auth, err := s.Login(req.Username, req.Password)
		if err != nil || auth == nil {
			log.Println("[AUTH] [ERROR] post-setup login failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "setup failed"})
			return
		}

		token, err := issueToken(*auth, jwtSecret, accessTTL)
		if err != nil {
			log.Println("[AUTH] [ERROR] setup token generation failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
			return
		}

		log.Println("[AUTH] [INFO] initial admin created:", user.Username)
		c.JSON(http.StatusCreated, gin.H{"accessToken": token, "user": auth})
	}
}

// Login verifies credentials and returns a token plus the session user.
// The response never reveals whether the username exists.
func Login(s *store.Store, jwtSecret string, accessTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		auth, err := s.Login(req.Username, req.Password)
		if err != nil {
			log.Println("[AUTH] [ERROR] login failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
			return
		}
		if auth == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		token, err := issueToken(*auth, jwtSecret, accessTTL)
		if err != nil {
			log.Println("[AUTH] [ERROR] login token generation failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
			return
		}

		log.Println("[AUTH] [INFO] login succeeded:", auth.Username)
		c.JSON(http.StatusOK, gin.H{"accessToken": token, "user": auth})
	}
}

// Logout clears the store session.
func Logout(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.Logout()
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// Me returns the active session user, if any.
func Me(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := s.CurrentUser()
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "no active session"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user})
	}
}
