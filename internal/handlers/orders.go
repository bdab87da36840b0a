package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"oventreats/internal/events"
	"oventreats/internal/models"
	"oventreats/internal/provider"
	"oventreats/internal/store"
)

type OrderItemRequest struct {
	Product  models.Product `json:"product" binding:"required"`
	Quantity int            `json:"quantity" binding:"required,gte=1"`
}

type OrderCreateRequest struct {
	Items         []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	Total         float64            `json:"total" binding:"required,gt=0"`
	CustomerName  string             `json:"customerName" binding:"required"`
	CustomerPhone string             `json:"customerPhone"`
	CustomerEmail string             `json:"customerEmail" binding:"required,email"`
	DeliveryDate  time.Time          `json:"deliveryDate" binding:"required"`
	EstimatedTime string             `json:"estimatedTime"`
}

type OrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending preparing ready completed cancelled"`
}

func GetOrders(p *provider.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders := p.LoadOrders(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"orders": orders, "isOnline": p.Online()})
	}
}

func CreateOrder(p *provider.Provider, pub *events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req OrderCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		items := make([]models.CartItem, 0, len(req.Items))
		for _, item := range req.Items {
			items = append(items, models.CartItem{Product: item.Product, Quantity: item.Quantity})
		}

		order, err := p.AddOrder(c.Request.Context(), models.NewOrder{
			Items:         items,
			Total:         req.Total,
			CustomerName:  req.CustomerName,
			CustomerPhone: req.CustomerPhone,
			CustomerEmail: req.CustomerEmail,
			DeliveryDate:  req.DeliveryDate,
			EstimatedTime: req.EstimatedTime,
		})
		if err != nil {
			if errors.Is(err, store.ErrValidation) {
				respondStoreError(c, err)
				return
			}
			log.Println("[ORDER] [ERROR] create failed:", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to add order"})
			return
		}

		pub.OrderCreated(order)
		c.JSON(http.StatusCreated, gin.H{"order": order})
	}
}

func UpdateOrderStatus(p *provider.Provider, pub *events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req OrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		orderID := c.Param("id")
		if err := p.UpdateOrderStatus(c.Request.Context(), orderID, req.Status); err != nil {
			if errors.Is(err, store.ErrInvalidTransition) || errors.Is(err, store.ErrValidation) {
				respondStoreError(c, err)
				return
			}
			log.Println("[ORDER] [ERROR] status update failed:", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to update order status"})
			return
		}

		for _, order := range p.LoadOrders(c.Request.Context()) {
			if order.ID == orderID {
				pub.StatusChanged(order)
				break
			}
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

func GetCustomers(p *provider.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		customers := p.LoadCustomers(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"customers": customers, "isOnline": p.Online()})
	}
}
