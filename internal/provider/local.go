package provider

import (
	"context"

	"oventreats/internal/models"
	"oventreats/internal/store"
)

// LocalBackend serves the capability interface straight from the persisted
// store. The store is synchronous and in-process, so the context is unused.
type LocalBackend struct {
	store *store.Store
}

func NewLocalBackend(s *store.Store) *LocalBackend {
	return &LocalBackend{store: s}
}

func (l *LocalBackend) GetProducts(ctx context.Context) ([]models.Product, error) {
	return l.store.Products(), nil
}

func (l *LocalBackend) AddProduct(ctx context.Context, p models.Product) (models.Product, error) {
	return l.store.AddProduct(p)
}

func (l *LocalBackend) UpdateProduct(ctx context.Context, id string, upd models.ProductUpdate) error {
	return l.store.UpdateProduct(id, upd)
}

func (l *LocalBackend) DeleteProduct(ctx context.Context, id string) error {
	return l.store.DeleteProduct(id)
}

func (l *LocalBackend) GetOrders(ctx context.Context) ([]models.Order, error) {
	return l.store.Orders(), nil
}

func (l *LocalBackend) AddOrder(ctx context.Context, n models.NewOrder) (models.Order, error) {
	return l.store.AddOrder(n)
}

func (l *LocalBackend) UpdateOrderStatus(ctx context.Context, orderID, status string) error {
	return l.store.UpdateOrderStatus(orderID, status)
}

func (l *LocalBackend) GetCustomers(ctx context.Context) ([]models.Customer, error) {
	return l.store.Customers(), nil
}
