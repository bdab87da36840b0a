package store

import (
	"fmt"
	"testing"
	"time"

	"oventreats/internal/models"
)

func orderFor(email, name, phone string, total float64, orderDate time.Time) models.Order {
	return models.Order{
		ID:            fmt.Sprintf("order-%s-%d", email, orderDate.UnixNano()),
		Items:         []models.CartItem{{Product: models.Product{ID: "1", Name: "Sourdough", Price: total, Category: models.CategoryBreads}, Quantity: 1}},
		Total:         total,
		Status:        models.StatusPending,
		CustomerName:  name,
		CustomerPhone: phone,
		CustomerEmail: email,
		OrderDate:     orderDate,
		DeliveryDate:  orderDate.Add(24 * time.Hour),
	}
}

func TestProjectCustomersGroupsByEmail(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	orders := []models.Order{
		orderFor("alice@example.com", "Alice", "111", 10.00, base),
		orderFor("bob@example.com", "Bob", "222", 8.50, base.Add(time.Hour)),
		orderFor("alice@example.com", "Alice", "111", 15.00, base.Add(2*time.Hour)),
	}

	customers := ProjectCustomers(orders)
	if len(customers) != 2 {
		t.Fatalf("expected 2 customers, got %d", len(customers))
	}

	var alice *models.Customer
	for i := range customers {
		if customers[i].Email == "alice@example.com" {
			alice = &customers[i]
		}
	}
	if alice == nil {
		t.Fatal("expected a customer entry for alice@example.com")
	}
	if alice.TotalOrders != 2 {
		t.Fatalf("expected totalOrders=2, got %d", alice.TotalOrders)
	}
	if alice.TotalSpent != 25.00 {
		t.Fatalf("expected totalSpent=25.00, got %v", alice.TotalSpent)
	}
	if alice.LastOrderDate == nil || !alice.LastOrderDate.Equal(base.Add(2*time.Hour)) {
		t.Fatalf("expected lastOrderDate=%v, got %v", base.Add(2*time.Hour), alice.LastOrderDate)
	}
	if alice.ID != alice.Email {
		t.Fatalf("expected customer id to equal email, got %q", alice.ID)
	}
}

func TestProjectCustomersPicksMostRecentNameAndPhone(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	// The newest order comes first in the slice so iteration order alone
	// would pick the wrong one.
	orders := []models.Order{
		orderFor("alice@example.com", "Alice Updated", "999", 5.00, base.Add(48*time.Hour)),
		orderFor("alice@example.com", "Alice", "111", 5.00, base),
	}

	customers := ProjectCustomers(orders)
	if len(customers) != 1 {
		t.Fatalf("expected 1 customer, got %d", len(customers))
	}
	if customers[0].Name != "Alice Updated" || customers[0].Phone != "999" {
		t.Fatalf("expected name/phone from most recent order, got %q / %q", customers[0].Name, customers[0].Phone)
	}
}

func TestProjectCustomersIsIdempotent(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	orders := []models.Order{
		orderFor("alice@example.com", "Alice", "111", 10.00, base),
		orderFor("bob@example.com", "Bob", "222", 8.50, base.Add(time.Hour)),
		orderFor("carol@example.com", "Carol", "333", 3.25, base.Add(2*time.Hour)),
	}

	first := ProjectCustomers(orders)
	second := ProjectCustomers(orders)
	if len(first) != len(second) {
		t.Fatalf("projection changed size between runs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Email != second[i].Email ||
			first[i].TotalOrders != second[i].TotalOrders ||
			first[i].TotalSpent != second[i].TotalSpent {
			t.Fatalf("projection not idempotent at index %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestProjectCustomersSortedNewestFirst(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	orders := []models.Order{
		orderFor("old@example.com", "Old", "1", 1.00, base),
		orderFor("new@example.com", "New", "2", 2.00, base.Add(time.Hour)),
	}

	customers := ProjectCustomers(orders)
	if customers[0].Email != "new@example.com" {
		t.Fatalf("expected newest customer first, got %q", customers[0].Email)
	}
}

func TestProjectCustomersEmptyInput(t *testing.T) {
	if got := ProjectCustomers(nil); len(got) != 0 {
		t.Fatalf("expected empty projection, got %d entries", len(got))
	}
}
