package provider

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"oventreats/internal/models"
	"oventreats/internal/storage"
	"oventreats/internal/store"
)

// ModeKey is where the active backend choice is persisted.
const ModeKey = "database-mode"

const callTimeout = 10 * time.Second

// Provider presents one product/order/customer API regardless of which
// backend is active. Reads refresh an internal cache and degrade to the last
// good data when the backend is unreachable, flipping Online to false instead
// of surfacing transport errors to render paths. Writes go to the backend and
// then re-read, so the cache always reflects authoritative state (the backend
// may assign ids and timestamps the caller never controlled).
type Provider struct {
	mu       sync.RWMutex
	kv       storage.KV
	backends map[string]Backend
	mode     string
	online   bool

	products  []models.Product
	orders    []models.Order
	customers []models.Customer
}

// New builds a provider over the given backends. The previously persisted
// mode is restored when it names a registered backend; otherwise the provider
// starts in local mode.
func New(ctx context.Context, kv storage.KV, backends map[string]Backend) (*Provider, error) {
	if _, ok := backends[ModeLocal]; !ok {
		return nil, errors.New("provider requires a local backend")
	}

	p := &Provider{
		kv:       kv,
		backends: backends,
		mode:     ModeLocal,
		online:   true,
	}

	saved, err := kv.Get(ctx, ModeKey)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		log.Println("[PROVIDER] [ERROR] failed to load database mode:", err)
	}
	if _, ok := backends[saved]; ok && ValidMode(saved) {
		p.mode = saved
	}
	return p, nil
}

// Mode returns the active backend name.
func (p *Provider) Mode() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.mode
}

// Online reports whether the last backend call succeeded.
func (p *Provider) Online() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.online
}

// SetMode switches the active backend and persists the choice. Data is not
// migrated; the caller is expected to back up and restore manually.
func (p *Provider) SetMode(ctx context.Context, mode string) error {
	if !ValidMode(mode) {
		return fmt.Errorf("unknown database mode %q", mode)
	}
	if _, ok := p.backends[mode]; !ok {
		return fmt.Errorf("database mode %q is not configured", mode)
	}

	if err := p.kv.Set(ctx, ModeKey, mode); err != nil {
		return fmt.Errorf("failed to persist database mode: %w", err)
	}

	p.mu.Lock()
	p.mode = mode
	p.online = true
	p.products = nil
	p.orders = nil
	p.customers = nil
	p.mu.Unlock()
	return nil
}

func (p *Provider) backend() Backend {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.backends[p.mode]
}

func (p *Provider) setOnline(ok bool) {
	p.mu.Lock()
	p.online = ok
	p.mu.Unlock()
}

/* =======================
   READS
======================= */

// LoadProducts refreshes and returns the product cache. On a backend failure
// the stale cache is returned and the provider goes offline.
func (p *Provider) LoadProducts(ctx context.Context) []models.Product {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	products, err := p.backend().GetProducts(ctx)
	if err != nil {
		log.Println("[PROVIDER] [ERROR] failed to load products:", err)
		p.setOnline(false)
		return p.cachedProducts()
	}

	p.mu.Lock()
	p.products = products
	p.online = true
	p.mu.Unlock()
	return append([]models.Product(nil), products...)
}

func (p *Provider) LoadOrders(ctx context.Context) []models.Order {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	orders, err := p.backend().GetOrders(ctx)
	if err != nil {
		log.Println("[PROVIDER] [ERROR] failed to load orders:", err)
		p.setOnline(false)
		return p.cachedOrders()
	}

	p.mu.Lock()
	p.orders = orders
	p.online = true
	p.mu.Unlock()
	return append([]models.Order(nil), orders...)
}

func (p *Provider) LoadCustomers(ctx context.Context) []models.Customer {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	customers, err := p.backend().GetCustomers(ctx)
	if err != nil {
		log.Println("[PROVIDER] [ERROR] failed to load customers:", err)
		p.setOnline(false)
		return p.cachedCustomers()
	}

	p.mu.Lock()
	p.customers = customers
	p.online = true
	p.mu.Unlock()
	return append([]models.Customer(nil), customers...)
}

func (p *Provider) cachedProducts() []models.Product {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]models.Product(nil), p.products...)
}

func (p *Provider) cachedOrders() []models.Order {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]models.Order(nil), p.orders...)
}

func (p *Provider) cachedCustomers() []models.Customer {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]models.Customer(nil), p.customers...)
}

/* =======================
   WRITES
======================= */

// AddProduct writes through to the active backend and refreshes the cache on
// success. Write failures propagate; the cache is never updated speculatively.
func (p *Provider) AddProduct(ctx context.Context, product models.Product) (models.Product, error) {
	callCtx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	created, err := p.backend().AddProduct(callCtx, product)
	if err != nil {
		return models.Product{}, err
	}
	p.LoadProducts(ctx)
	return created, nil
}

func (p *Provider) UpdateProduct(ctx context.Context, id string, upd models.ProductUpdate) error {
	callCtx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	if err := p.backend().UpdateProduct(callCtx, id, upd); err != nil {
		return err
	}
	p.LoadProducts(ctx)
	return nil
}

func (p *Provider) DeleteProduct(ctx context.Context, id string) error {
	callCtx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	if err := p.backend().DeleteProduct(callCtx, id); err != nil {
		return err
	}
	p.LoadProducts(ctx)
	return nil
}

func (p *Provider) AddOrder(ctx context.Context, n models.NewOrder) (models.Order, error) {
	callCtx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	created, err := p.backend().AddOrder(callCtx, n)
	if err != nil {
		return models.Order{}, err
	}
	p.LoadOrders(ctx)
	p.LoadCustomers(ctx)
	return created, nil
}

// UpdateOrderStatus enforces the order state machine before writing, so a
// terminal order cannot be revived through a backend that stores status as a
// plain column. Unknown order ids pass through as a backend no-op.
func (p *Provider) UpdateOrderStatus(ctx context.Context, orderID, status string) error {
	if !models.ValidStatus(status) {
		return fmt.Errorf("%w: unknown status %q", store.ErrValidation, status)
	}
	for _, order := range p.LoadOrders(ctx) {
		if order.ID != orderID {
			continue
		}
		if !models.CanTransition(order.Status, status) {
			return fmt.Errorf("%w: %s -> %s", store.ErrInvalidTransition, order.Status, status)
		}
		break
	}

	callCtx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	if err := p.backend().UpdateOrderStatus(callCtx, orderID, status); err != nil {
		return err
	}
	p.LoadOrders(ctx)
	return nil
}
