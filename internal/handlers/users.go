package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"oventreats/internal/models"
	"oventreats/internal/store"
)

type UserCreateRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Role     string `json:"role" binding:"required,oneof=admin staff"`
}

// GetUsers lists staff accounts without password hashes.
func GetUsers(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"users": s.Users()})
	}
}

// CreateUser registers a staff account on behalf of the acting admin.
func CreateUser(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UserCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		user, err := s.RegisterUser(models.User{
			Username:  req.Username,
			Password:  req.Password,
			Name:      req.Name,
			Email:     req.Email,
			Role:      req.Role,
			IsActive:  true,
			CreatedBy: c.GetString("userID"),
		})
		if err != nil {
			respondStoreError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"user": user})
	}
}

// UpdateUser applies a partial edit; a supplied password is re-hashed.
func UpdateUser(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var upd models.UserUpdate
		if err := c.ShouldBindJSON(&upd); err != nil {
			respondValidationError(c, err)
			return
		}

		if err := s.UpdateUser(c.Param("id"), upd); err != nil {
			respondStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// DeleteUser removes an account; deleting your own is refused.
func DeleteUser(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.DeleteUser(c.Param("id"), c.GetString("userID")); err != nil {
			respondStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
