package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"oventreats/internal/models"
	"oventreats/internal/storage"
	"oventreats/internal/store"
)

// fakeBackend serves canned data and can be flipped into a failing state to
// simulate an unreachable backend.
type fakeBackend struct {
	products []models.Product
	orders   []models.Order
	failing  bool

	addedOrders int
}

var errBackendDown = errors.New("backend unreachable")

func (f *fakeBackend) GetProducts(ctx context.Context) ([]models.Product, error) {
	if f.failing {
		return nil, errBackendDown
	}
	return append([]models.Product(nil), f.products...), nil
}

func (f *fakeBackend) AddProduct(ctx context.Context, p models.Product) (models.Product, error) {
	if f.failing {
		return models.Product{}, errBackendDown
	}
	p.ID = "generated-id"
	f.products = append(f.products, p)
	return p, nil
}

func (f *fakeBackend) UpdateProduct(ctx context.Context, id string, upd models.ProductUpdate) error {
	if f.failing {
		return errBackendDown
	}
	for i := range f.products {
		if f.products[i].ID == id && upd.Name != nil {
			f.products[i].Name = *upd.Name
		}
	}
	return nil
}

func (f *fakeBackend) DeleteProduct(ctx context.Context, id string) error {
	if f.failing {
		return errBackendDown
	}
	kept := f.products[:0]
	for _, p := range f.products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	f.products = kept
	return nil
}

func (f *fakeBackend) GetOrders(ctx context.Context) ([]models.Order, error) {
	if f.failing {
		return nil, errBackendDown
	}
	return append([]models.Order(nil), f.orders...), nil
}

func (f *fakeBackend) AddOrder(ctx context.Context, n models.NewOrder) (models.Order, error) {
	if f.failing {
		return models.Order{}, errBackendDown
	}
	f.addedOrders++
	order := models.Order{
		ID:            "order-id",
		Items:         n.Items,
		Total:         n.Total,
		Status:        models.StatusPending,
		CustomerName:  n.CustomerName,
		CustomerEmail: n.CustomerEmail,
		OrderDate:     time.Now(),
		DeliveryDate:  n.DeliveryDate,
	}
	f.orders = append(f.orders, order)
	return order, nil
}

func (f *fakeBackend) UpdateOrderStatus(ctx context.Context, orderID, status string) error {
	if f.failing {
		return errBackendDown
	}
	for i := range f.orders {
		if f.orders[i].ID == orderID {
			f.orders[i].Status = status
		}
	}
	return nil
}

func (f *fakeBackend) GetCustomers(ctx context.Context) ([]models.Customer, error) {
	if f.failing {
		return nil, errBackendDown
	}
	return nil, nil
}

func newTestProvider(t *testing.T, kv storage.KV, fake *fakeBackend) *Provider {
	t.Helper()
	p, err := New(context.Background(), kv, map[string]Backend{ModeLocal: fake})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func TestNewRequiresLocalBackend(t *testing.T) {
	_, err := New(context.Background(), storage.NewMemoryKV(), map[string]Backend{ModeMongo: &fakeBackend{}})
	if err == nil {
		t.Fatal("expected error without a local backend")
	}
}

func TestLoadProductsDegradesToCache(t *testing.T) {
	ctx := context.Background()
	fake := &fakeBackend{products: []models.Product{{ID: "1", Name: "Sourdough", Price: 6.50, Category: models.CategoryBreads}}}
	p := newTestProvider(t, storage.NewMemoryKV(), fake)

	got := p.LoadProducts(ctx)
	if len(got) != 1 || !p.Online() {
		t.Fatalf("expected 1 product and online, got %d products online=%v", len(got), p.Online())
	}

	// Backend goes down; the stale cache comes back and Online flips.
	fake.failing = true
	got = p.LoadProducts(ctx)
	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("expected stale cache, got %+v", got)
	}
	if p.Online() {
		t.Fatal("expected provider offline after failed load")
	}

	// Recovery flips it back.
	fake.failing = false
	p.LoadProducts(ctx)
	if !p.Online() {
		t.Fatal("expected provider online after successful load")
	}
}

func TestWriteFailuresPropagate(t *testing.T) {
	ctx := context.Background()
	fake := &fakeBackend{failing: true}
	p := newTestProvider(t, storage.NewMemoryKV(), fake)

	if _, err := p.AddProduct(ctx, models.Product{Name: "Rye", Price: 5, Category: models.CategoryBreads}); !errors.Is(err, errBackendDown) {
		t.Fatalf("expected write error to propagate, got %v", err)
	}
	if err := p.UpdateOrderStatus(ctx, "x", models.StatusPreparing); !errors.Is(err, errBackendDown) {
		t.Fatalf("expected write error to propagate, got %v", err)
	}
}

func TestWriteRefreshesCache(t *testing.T) {
	ctx := context.Background()
	fake := &fakeBackend{}
	p := newTestProvider(t, storage.NewMemoryKV(), fake)

	created, err := p.AddProduct(ctx, models.Product{Name: "Rye", Price: 5, Category: models.CategoryBreads})
	if err != nil {
		t.Fatalf("AddProduct: %v", err)
	}
	if created.ID != "generated-id" {
		t.Fatalf("expected backend-assigned id, got %q", created.ID)
	}

	// The cache was refreshed by the write, so even a failing backend serves it.
	fake.failing = true
	got := p.LoadProducts(ctx)
	if len(got) != 1 || got[0].ID != "generated-id" {
		t.Fatalf("expected refreshed cache, got %+v", got)
	}
}

func TestAddOrderReloadsOrdersAndCustomers(t *testing.T) {
	ctx := context.Background()
	fake := &fakeBackend{}
	p := newTestProvider(t, storage.NewMemoryKV(), fake)

	_, err := p.AddOrder(ctx, models.NewOrder{
		Items: []models.CartItem{{
			Product:  models.Product{ID: "1", Name: "Sourdough", Price: 5, Category: models.CategoryBreads},
			Quantity: 1,
		}},
		Total:         5,
		CustomerName:  "Alice",
		CustomerEmail: "alice@example.com",
		DeliveryDate:  time.Now().Add(24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("AddOrder: %v", err)
	}
	if fake.addedOrders != 1 {
		t.Fatalf("expected 1 backend write, got %d", fake.addedOrders)
	}

	fake.failing = true
	if got := p.LoadOrders(ctx); len(got) != 1 {
		t.Fatalf("expected refreshed order cache, got %+v", got)
	}
}

func TestUpdateOrderStatusEnforcesStateMachine(t *testing.T) {
	ctx := context.Background()
	fake := &fakeBackend{orders: []models.Order{{
		ID:            "o1",
		Status:        models.StatusCompleted,
		CustomerName:  "Alice",
		CustomerEmail: "alice@example.com",
		Total:         5,
		OrderDate:     time.Now(),
		DeliveryDate:  time.Now().Add(24 * time.Hour),
	}}}
	p := newTestProvider(t, storage.NewMemoryKV(), fake)

	// Reviving a terminal order must be rejected before the backend write.
	err := p.UpdateOrderStatus(ctx, "o1", models.StatusPending)
	if !errors.Is(err, store.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if fake.orders[0].Status != models.StatusCompleted {
		t.Fatalf("backend was written despite illegal transition: %q", fake.orders[0].Status)
	}

	if err := p.UpdateOrderStatus(ctx, "o1", "shipped"); !errors.Is(err, store.ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown status, got %v", err)
	}

	fake.orders[0].Status = models.StatusPending
	if err := p.UpdateOrderStatus(ctx, "o1", models.StatusPreparing); err != nil {
		t.Fatalf("legal transition rejected: %v", err)
	}
	if fake.orders[0].Status != models.StatusPreparing {
		t.Fatalf("expected backend status preparing, got %q", fake.orders[0].Status)
	}

	// Unknown ids stay a backend no-op.
	if err := p.UpdateOrderStatus(ctx, "ghost", models.StatusPreparing); err != nil {
		t.Fatalf("unknown id should pass through, got %v", err)
	}
}

func TestSetModePersistsAcrossRestarts(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	backends := map[string]Backend{ModeLocal: &fakeBackend{}, ModeMongo: &fakeBackend{}}

	p, err := New(ctx, kv, backends)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if p.Mode() != ModeLocal {
		t.Fatalf("expected initial mode local, got %q", p.Mode())
	}
	if err := p.SetMode(ctx, ModeMongo); err != nil {
		t.Fatalf("SetMode: %v", err)
	}

	reborn, err := New(ctx, kv, backends)
	if err != nil {
		t.Fatalf("New (restart): %v", err)
	}
	if reborn.Mode() != ModeMongo {
		t.Fatalf("expected persisted mode mongo, got %q", reborn.Mode())
	}
}

func TestSetModeRejectsUnknownAndUnconfigured(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t, storage.NewMemoryKV(), &fakeBackend{})

	if err := p.SetMode(ctx, "dynamodb"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
	if err := p.SetMode(ctx, ModePostgres); err == nil {
		t.Fatal("expected error for unconfigured mode")
	}
}

func TestPersistedUnconfiguredModeFallsBackToLocal(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	if err := kv.Set(ctx, ModeKey, ModePostgres); err != nil {
		t.Fatalf("Set: %v", err)
	}

	p := newTestProvider(t, kv, &fakeBackend{})
	if p.Mode() != ModeLocal {
		t.Fatalf("expected fallback to local, got %q", p.Mode())
	}
}
