package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"oventreats/internal/models"
	"oventreats/internal/storage"
)

func newTestStore(t *testing.T) (*Store, *storage.MemoryKV) {
	t.Helper()
	kv := storage.NewMemoryKV()
	s, err := New(kv)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s, kv
}

func testNewOrder(email, name string, total float64) models.NewOrder {
	return models.NewOrder{
		Items: []models.CartItem{{
			Product:  models.Product{ID: "1", Name: "Sourdough", Price: total, Category: models.CategoryBreads},
			Quantity: 1,
		}},
		Total:         total,
		CustomerName:  name,
		CustomerPhone: "555-0101",
		CustomerEmail: email,
		DeliveryDate:  time.Now().Add(24 * time.Hour),
	}
}

func testUser(username string) models.User {
	return models.User{
		Username: username,
		Password: "secret123",
		Name:     "Test User",
		Email:    username + "@example.com",
		Role:     models.RoleStaff,
		IsActive: true,
	}
}

/* =======================
   SEEDING & PRODUCTS
======================= */

func TestNewStoreSeedsCatalog(t *testing.T) {
	s, _ := newTestStore(t)
	products := s.Products()
	if len(products) != 12 {
		t.Fatalf("expected 12 seeded products, got %d", len(products))
	}
	if s.IsInitialized() {
		t.Fatal("fresh store should not be initialized")
	}
}

func TestAddProductAssignsID(t *testing.T) {
	s, _ := newTestStore(t)
	p, err := s.AddProduct(models.Product{
		Name:        "Rye Loaf",
		Price:       6.50,
		Description: "Dense dark rye",
		Category:    models.CategoryBreads,
	})
	if err != nil {
		t.Fatalf("AddProduct: %v", err)
	}
	if p.ID == "" {
		t.Fatal("expected a generated product id")
	}
	if len(s.Products()) != 13 {
		t.Fatalf("expected 13 products, got %d", len(s.Products()))
	}
}

func TestAddProductRejectsInvalid(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.AddProduct(models.Product{Name: "Free Bread", Price: 0, Category: models.CategoryBreads})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestUpdateProductUnknownIDIsNoOp(t *testing.T) {
	s, _ := newTestStore(t)
	name := "Ghost"
	if err := s.UpdateProduct("no-such-id", models.ProductUpdate{Name: &name}); err != nil {
		t.Fatalf("expected silent no-op, got %v", err)
	}
}

/* =======================
   ORDERS
======================= */

func TestAddOrderStampsFields(t *testing.T) {
	s, _ := newTestStore(t)
	before := time.Now()
	order, err := s.AddOrder(testNewOrder("alice@example.com", "Alice", 10.00))
	if err != nil {
		t.Fatalf("AddOrder: %v", err)
	}
	if order.ID == "" {
		t.Fatal("expected a generated order id")
	}
	if order.Status != models.StatusPending {
		t.Fatalf("expected status pending, got %q", order.Status)
	}
	if order.OrderDate.Before(before) || order.OrderDate.After(time.Now()) {
		t.Fatalf("order date %v not stamped at creation time", order.OrderDate)
	}

	second, err := s.AddOrder(testNewOrder("bob@example.com", "Bob", 8.00))
	if err != nil {
		t.Fatalf("AddOrder: %v", err)
	}
	if second.ID == order.ID {
		t.Fatal("expected distinct order ids")
	}
}

func TestAddOrderRejectsPastDeliveryDate(t *testing.T) {
	s, _ := newTestStore(t)
	n := testNewOrder("alice@example.com", "Alice", 10.00)
	n.DeliveryDate = time.Now().Add(-48 * time.Hour)
	if _, err := s.AddOrder(n); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestUpdateOrderStatusTransitions(t *testing.T) {
	s, _ := newTestStore(t)
	order, err := s.AddOrder(testNewOrder("alice@example.com", "Alice", 10.00))
	if err != nil {
		t.Fatalf("AddOrder: %v", err)
	}

	// pending -> ready skips preparing and must be rejected.
	err = s.UpdateOrderStatus(order.ID, models.StatusReady)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	for _, status := range []string{models.StatusPreparing, models.StatusReady, models.StatusCompleted} {
		if err := s.UpdateOrderStatus(order.ID, status); err != nil {
			t.Fatalf("transition to %s: %v", status, err)
		}
	}

	// completed is terminal.
	err = s.UpdateOrderStatus(order.ID, models.StatusCancelled)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition out of completed, got %v", err)
	}
}

func TestUpdateOrderStatusUnknownStatus(t *testing.T) {
	s, _ := newTestStore(t)
	if err := s.UpdateOrderStatus("any", "shipped"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown status, got %v", err)
	}
}

func TestAddOrderUpdatesCustomerProjection(t *testing.T) {
	s, _ := newTestStore(t)
	if _, err := s.AddOrder(testNewOrder("alice@example.com", "Alice", 10.00)); err != nil {
		t.Fatalf("AddOrder: %v", err)
	}
	if _, err := s.AddOrder(testNewOrder("alice@example.com", "Alice", 15.00)); err != nil {
		t.Fatalf("AddOrder: %v", err)
	}

	customers := s.Customers()
	if len(customers) != 1 {
		t.Fatalf("expected 1 customer, got %d", len(customers))
	}
	if customers[0].TotalOrders != 2 {
		t.Fatalf("expected totalOrders=2, got %d", customers[0].TotalOrders)
	}
	if customers[0].TotalSpent != 25.00 {
		t.Fatalf("expected totalSpent=25.00, got %v", customers[0].TotalSpent)
	}
}

/* =======================
   USERS & SESSION
======================= */

func TestRegisterUserHashesPassword(t *testing.T) {
	s, _ := newTestStore(t)
	u, err := s.RegisterUser(testUser("admin"))
	if err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	if u.Password == "secret123" {
		t.Fatal("password stored in plaintext")
	}
	if !CheckPassword("secret123", u.Password) {
		t.Fatal("stored hash does not verify against original password")
	}
	if !s.IsInitialized() {
		t.Fatal("store should be initialized after first user")
	}
}

func TestRegisterUserDuplicateUsername(t *testing.T) {
	s, _ := newTestStore(t)
	if _, err := s.RegisterUser(testUser("admin")); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	if _, err := s.RegisterUser(testUser("admin")); !errors.Is(err, ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
}

func TestLoginPaths(t *testing.T) {
	s, _ := newTestStore(t)
	if _, err := s.RegisterUser(testUser("admin")); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}

	auth, err := s.Login("admin", "wrong-password")
	if err != nil || auth != nil {
		t.Fatalf("wrong password: expected (nil, nil), got (%v, %v)", auth, err)
	}
	auth, err = s.Login("nobody", "secret123")
	if err != nil || auth != nil {
		t.Fatalf("unknown user: expected (nil, nil), got (%v, %v)", auth, err)
	}

	auth, err = s.Login("admin", "secret123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if auth == nil || auth.Username != "admin" {
		t.Fatalf("expected admin session, got %+v", auth)
	}
	if cur := s.CurrentUser(); cur == nil || cur.ID != auth.ID {
		t.Fatalf("expected current user %q, got %+v", auth.ID, cur)
	}

	s.Logout()
	if s.CurrentUser() != nil {
		t.Fatal("expected no session after logout")
	}
}

func TestLoginInactiveUser(t *testing.T) {
	s, _ := newTestStore(t)
	u := testUser("admin")
	u.IsActive = false
	if _, err := s.RegisterUser(u); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	if auth, err := s.Login("admin", "secret123"); err != nil || auth != nil {
		t.Fatalf("inactive user: expected (nil, nil), got (%v, %v)", auth, err)
	}
}

func TestDeleteUserSelfDeletionForbidden(t *testing.T) {
	s, _ := newTestStore(t)
	u, err := s.RegisterUser(testUser("admin"))
	if err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	if _, err := s.Login("admin", "secret123"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := s.DeleteUser(u.ID, u.ID); !errors.Is(err, ErrSelfDeletionForbidden) {
		t.Fatalf("expected ErrSelfDeletionForbidden, got %v", err)
	}

	other, err := s.RegisterUser(testUser("staff"))
	if err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	if err := s.DeleteUser(other.ID, u.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if len(s.Users()) != 1 {
		t.Fatalf("expected 1 remaining user, got %d", len(s.Users()))
	}
}

func TestDeleteUserGuardsActorWithoutSession(t *testing.T) {
	s, _ := newTestStore(t)
	admin, err := s.RegisterUser(testUser("admin"))
	if err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	staff, err := s.RegisterUser(testUser("staff"))
	if err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}

	// The store session belongs to nobody (or someone else entirely); the
	// authenticated caller still must not delete their own account.
	if _, err := s.Login("staff", "secret123"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := s.DeleteUser(admin.ID, admin.ID); !errors.Is(err, ErrSelfDeletionForbidden) {
		t.Fatalf("expected ErrSelfDeletionForbidden, got %v", err)
	}
	if len(s.Users()) != 2 {
		t.Fatalf("expected user list unchanged, got %d users", len(s.Users()))
	}

	// The session guard still holds alongside the actor guard.
	if err := s.DeleteUser(staff.ID, admin.ID); !errors.Is(err, ErrSelfDeletionForbidden) {
		t.Fatalf("expected ErrSelfDeletionForbidden for the session user, got %v", err)
	}
}

/* =======================
   RESET & PERSISTENCE
======================= */

func TestResetDataPreservesUsersAndSession(t *testing.T) {
	s, _ := newTestStore(t)
	if _, err := s.RegisterUser(testUser("admin")); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	if _, err := s.Login("admin", "secret123"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if _, err := s.AddOrder(testNewOrder("alice@example.com", "Alice", 10.00)); err != nil {
		t.Fatalf("AddOrder: %v", err)
	}

	s.ResetData()

	if len(s.Products()) != 12 {
		t.Fatalf("expected catalog restored to 12 products, got %d", len(s.Products()))
	}
	if len(s.Orders()) != 0 || len(s.Customers()) != 0 {
		t.Fatal("expected orders and customers cleared")
	}
	if len(s.Users()) != 1 {
		t.Fatal("expected users preserved")
	}
	if s.CurrentUser() == nil {
		t.Fatal("expected session preserved")
	}
}

func TestStorePersistsAndRehydrates(t *testing.T) {
	kv := storage.NewMemoryKV()
	s, err := New(kv)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := s.RegisterUser(testUser("admin")); err != nil {
		t.Fatalf("RegisterUser: %v", err)
	}
	order, err := s.AddOrder(testNewOrder("alice@example.com", "Alice", 10.00))
	if err != nil {
		t.Fatalf("AddOrder: %v", err)
	}

	// A second store over the same storage must see the persisted state.
	reloaded, err := New(kv)
	if err != nil {
		t.Fatalf("New (reload): %v", err)
	}
	if !reloaded.IsInitialized() {
		t.Fatal("expected reloaded store to be initialized")
	}
	orders := reloaded.Orders()
	if len(orders) != 1 || orders[0].ID != order.ID {
		t.Fatalf("expected persisted order %q, got %+v", order.ID, orders)
	}
	if !orders[0].OrderDate.Equal(order.OrderDate) {
		t.Fatalf("order date changed across reload: %v vs %v", orders[0].OrderDate, order.OrderDate)
	}
	customers := reloaded.Customers()
	if len(customers) != 1 || customers[0].Email != "alice@example.com" {
		t.Fatalf("expected recomputed customer projection, got %+v", customers)
	}
}

func TestNewStoreRejectsCorruptState(t *testing.T) {
	kv := storage.NewMemoryKV()
	if err := kv.Set(context.Background(), StorageKey, "{not json"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, err := New(kv); err == nil {
		t.Fatal("expected error for corrupt persisted state")
	}
}
