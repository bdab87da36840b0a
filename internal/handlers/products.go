package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"oventreats/internal/models"
	"oventreats/internal/provider"
	"oventreats/internal/store"
)

type ProductCreateRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Category    string  `json:"category" binding:"required,oneof=breads pastries cakes cookies"`
	Image       string  `json:"image"`
	Available   bool    `json:"available"`
}

// GetProducts lists products from the active backend. Backend failures fall
// back to the cached list; the offline flag rides along in the response.
func GetProducts(p *provider.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		products := p.LoadProducts(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"products": products, "isOnline": p.Online()})
	}
}

func CreateProduct(p *provider.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ProductCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		product, err := p.AddProduct(c.Request.Context(), models.Product{
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			Category:    req.Category,
			Image:       req.Image,
			Available:   req.Available,
		})
		if err != nil {
			if errors.Is(err, store.ErrValidation) {
				respondStoreError(c, err)
				return
			}
			log.Println("[PRODUCT] [ERROR] create failed:", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to add product"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"product": product})
	}
}

func UpdateProduct(p *provider.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		var upd models.ProductUpdate
		if err := c.ShouldBindJSON(&upd); err != nil {
			respondValidationError(c, err)
			return
		}

		if err := p.UpdateProduct(c.Request.Context(), c.Param("id"), upd); err != nil {
			if errors.Is(err, store.ErrValidation) {
				respondStoreError(c, err)
				return
			}
			log.Println("[PRODUCT] [ERROR] update failed:", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to update product"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

func DeleteProduct(p *provider.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := p.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
			log.Println("[PRODUCT] [ERROR] delete failed:", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to delete product"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
