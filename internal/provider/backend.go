package provider

import (
	"context"

	"oventreats/internal/models"
)

// Data backend modes. Which one is active is a runtime setting persisted
// across restarts; switching never migrates data between backends.
const (
	ModeLocal    = "local"
	ModeMongo    = "mongo"
	ModePostgres = "postgres"
)

// ValidMode reports whether m names a known backend.
func ValidMode(m string) bool {
	return m == ModeLocal || m == ModeMongo || m == ModePostgres
}

// Backend is the capability surface every storage backend adapts to. Each
// adapter translates its native schema into the shared domain model on every
// read and out of it on every write.
type Backend interface {
	GetProducts(ctx context.Context) ([]models.Product, error)
	AddProduct(ctx context.Context, p models.Product) (models.Product, error)
	UpdateProduct(ctx context.Context, id string, upd models.ProductUpdate) error
	DeleteProduct(ctx context.Context, id string) error

	GetOrders(ctx context.Context) ([]models.Order, error)
	AddOrder(ctx context.Context, n models.NewOrder) (models.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID, status string) error

	GetCustomers(ctx context.Context) ([]models.Customer, error)
}
