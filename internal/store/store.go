package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"oventreats/internal/models"
	"oventreats/internal/storage"
)

// StorageKey is the fixed key the full store snapshot is persisted under.
const StorageKey = "bakery-storage"

const persistTimeout = 5 * time.Second

// Store is the single in-process source of truth for products, orders, the
// derived customer set, staff users and the active session. Every mutation
// runs under the store lock, then writes the full snapshot to the KV layer.
//
// One Store is constructed at process start and injected into every consumer.
type Store struct {
	mu       sync.Mutex
	kv       storage.KV
	validate *validator.Validate

	products    []models.Product
	orders      []models.Order
	customers   []models.Customer
	users       []models.User
	currentUser *models.AuthUser
}

// New builds a store from the persisted snapshot, or from the built-in
// catalog when no snapshot exists yet. The customer projection is always
// recomputed from the order log rather than trusted from disk.
func New(kv storage.KV) (*Store, error) {
	s := &Store{
		kv:       kv,
		validate: validator.New(),
		products: DefaultCatalog(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	raw, err := kv.Get(ctx, StorageKey)
	if errors.Is(err, storage.ErrNotFound) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var payload models.BackupPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("corrupt snapshot under %s: %w", StorageKey, err)
	}

	products, orders, users, currentUser, err := decodePayload(payload)
	if err != nil {
		return nil, fmt.Errorf("corrupt snapshot under %s: %w", StorageKey, err)
	}

	s.products = products
	s.orders = orders
	s.users = users
	s.currentUser = currentUser
	s.customers = ProjectCustomers(s.orders)
	return s, nil
}

// decodePayload converts the string-dated wire payload back into in-memory
// collections. It fails as a whole on the first bad date, so callers can
// leave live state untouched on error.
func decodePayload(payload models.BackupPayload) ([]models.Product, []models.Order, []models.User, *models.AuthUser, error) {
	products := make([]models.Product, len(payload.Products))
	copy(products, payload.Products)

	orders := make([]models.Order, 0, len(payload.Orders))
	for _, doc := range payload.Orders {
		order, err := doc.Order()
		if err != nil {
			return nil, nil, nil, nil, err
		}
		orders = append(orders, order)
	}

	users := make([]models.User, 0, len(payload.Users))
	for _, doc := range payload.Users {
		user, err := doc.User()
		if err != nil {
			return nil, nil, nil, nil, err
		}
		users = append(users, user)
	}

	var currentUser *models.AuthUser
	if payload.CurrentUser != nil {
		u := *payload.CurrentUser
		currentUser = &u
	}
	return products, orders, users, currentUser, nil
}

// persist serializes the full snapshot and writes it under StorageKey.
// A failed write is logged but never rolls back the in-memory mutation; the
// store stays the source of truth until the next successful write.
func (s *Store) persist() {
	payload := s.payloadLocked()
	raw, err := json.Marshal(payload)
	if err != nil {
		log.Println("[STORE] [ERROR] snapshot marshal failed:", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if err := s.kv.Set(ctx, StorageKey, string(raw)); err != nil {
		log.Println("[STORE] [ERROR] snapshot write failed:", err)
	}
}

// payloadLocked builds the wire-format snapshot. Callers must hold the lock.
func (s *Store) payloadLocked() models.BackupPayload {
	payload := models.BackupPayload{
		Products:  append(make([]models.Product, 0, len(s.products)), s.products...),
		Orders:    make([]models.OrderDocument, 0, len(s.orders)),
		Customers: make([]models.CustomerDocument, 0, len(s.customers)),
		Users:     make([]models.UserDocument, 0, len(s.users)),
	}
	for _, order := range s.orders {
		payload.Orders = append(payload.Orders, order.Document())
	}
	for _, customer := range s.customers {
		payload.Customers = append(payload.Customers, customer.Document())
	}
	for _, user := range s.users {
		payload.Users = append(payload.Users, user.Document())
	}
	if s.currentUser != nil {
		u := *s.currentUser
		payload.CurrentUser = &u
	}
	return payload
}

// Snapshot returns the wire-format snapshot of the whole store.
func (s *Store) Snapshot() models.BackupPayload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.payloadLocked()
}

/* =======================
   PRODUCTS
======================= */

func (s *Store) Products() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Product(nil), s.products...)
}

// AddProduct validates the product, assigns a fresh id and appends it.
func (s *Store) AddProduct(p models.Product) (models.Product, error) {
	if err := s.validate.Struct(p); err != nil {
		return models.Product{}, validationError("%v", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = uuid.NewString()
	s.products = append(s.products, p)
	s.persist()
	return p, nil
}

// UpdateProduct applies a partial edit. Unknown ids are a silent no-op.
func (s *Store) UpdateProduct(id string, upd models.ProductUpdate) error {
	if upd.Price != nil && *upd.Price <= 0 {
		return validationError("price must be greater than zero")
	}
	if upd.Category != nil && !models.ValidCategory(*upd.Category) {
		return validationError("unknown category %q", *upd.Category)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products {
		if s.products[i].ID != id {
			continue
		}
		if upd.Name != nil {
			s.products[i].Name = *upd.Name
		}
		if upd.Description != nil {
			s.products[i].Description = *upd.Description
		}
		if upd.Price != nil {
			s.products[i].Price = *upd.Price
		}
		if upd.Category != nil {
			s.products[i].Category = *upd.Category
		}
		if upd.Image != nil {
			s.products[i].Image = *upd.Image
		}
		if upd.Available != nil {
			s.products[i].Available = *upd.Available
		}
		s.persist()
		return nil
	}
	return nil
}

// DeleteProduct removes a product. Historical orders are unaffected because
// cart items embed their own product snapshot. Unknown ids are a no-op.
func (s *Store) DeleteProduct(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.products[:0]
	removed := false
	for _, p := range s.products {
		if p.ID == id {
			removed = true
			continue
		}
		kept = append(kept, p)
	}
	s.products = kept
	if removed {
		s.persist()
	}
	return nil
}

/* =======================
   ORDERS
======================= */

func (s *Store) Orders() []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Order(nil), s.orders...)
}

// AddOrder stamps a new order (fresh id, orderDate=now, status=pending),
// appends it and recomputes the customer projection before returning, so the
// customer set is already consistent on the next read.
func (s *Store) AddOrder(n models.NewOrder) (models.Order, error) {
	if err := s.validate.Struct(n); err != nil {
		return models.Order{}, validationError("%v", err)
	}
	today := startOfDay(time.Now())
	if n.DeliveryDate.Before(today) {
		return models.Order{}, validationError("delivery date must not be in the past")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	order := models.Order{
		ID:            uuid.NewString(),
		Items:         n.Items,
		Total:         n.Total,
		Status:        models.StatusPending,
		CustomerName:  n.CustomerName,
		CustomerPhone: n.CustomerPhone,
		CustomerEmail: n.CustomerEmail,
		OrderDate:     time.Now(),
		DeliveryDate:  n.DeliveryDate,
		EstimatedTime: n.EstimatedTime,
	}
	s.orders = append(s.orders, order)
	s.customers = ProjectCustomers(s.orders)
	s.persist()
	return order, nil
}

// UpdateOrderStatus moves an order through the state machine. Illegal moves
// (skipping states, reviving terminal orders) are rejected; unknown order ids
// are a silent no-op.
func (s *Store) UpdateOrderStatus(orderID, status string) error {
	if !models.ValidStatus(status) {
		return validationError("unknown status %q", status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.orders {
		if s.orders[i].ID != orderID {
			continue
		}
		if !models.CanTransition(s.orders[i].Status, status) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.orders[i].Status, status)
		}
		s.orders[i].Status = status
		s.persist()
		return nil
	}
	return nil
}

/* =======================
   CUSTOMERS
======================= */

func (s *Store) Customers() []models.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Customer(nil), s.customers...)
}

/* =======================
   USERS & SESSION
======================= */

func (s *Store) Users() []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.User(nil), s.users...)
}

// IsInitialized reports whether any staff account exists. First-run admin
// setup is gated on this.
func (s *Store) IsInitialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users) > 0
}

// RegisterUser creates a staff account. The supplied Password is plaintext
// and gets hashed before the user is stored.
func (s *Store) RegisterUser(u models.User) (models.User, error) {
	if u.Password == "" {
		return models.User{}, validationError("password is required")
	}
	if err := s.validate.StructExcept(u, "Password"); err != nil {
		return models.User{}, validationError("%v", err)
	}

	hash, err := HashPassword(u.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == u.Username {
			return models.User{}, ErrDuplicateUsername
		}
	}

	u.ID = uuid.NewString()
	u.Password = hash
	u.CreatedAt = time.Now()
	if u.CreatedBy == "" && s.currentUser != nil {
		u.CreatedBy = s.currentUser.ID
	}
	s.users = append(s.users, u)
	s.persist()
	return u, nil
}

// UpdateUser applies a partial edit; a supplied password is re-hashed first.
// Unknown ids are a silent no-op.
func (s *Store) UpdateUser(id string, upd models.UserUpdate) error {
	var hash string
	if upd.Password != nil {
		if *upd.Password == "" {
			return validationError("password must not be empty")
		}
		h, err := HashPassword(*upd.Password)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		hash = h
	}
	if upd.Role != nil && *upd.Role != models.RoleAdmin && *upd.Role != models.RoleStaff {
		return validationError("unknown role %q", *upd.Role)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].ID != id {
			continue
		}
		if upd.Username != nil {
			s.users[i].Username = *upd.Username
		}
		if upd.Password != nil {
			s.users[i].Password = hash
		}
		if upd.Name != nil {
			s.users[i].Name = *upd.Name
		}
		if upd.Email != nil {
			s.users[i].Email = *upd.Email
		}
		if upd.Role != nil {
			s.users[i].Role = *upd.Role
		}
		if upd.IsActive != nil {
			s.users[i].IsActive = *upd.IsActive
		}
		s.persist()
		return nil
	}
	return nil
}

// DeleteUser removes an account. Deleting yourself is forbidden, whether you
// are identified by actorID (the authenticated caller) or by the store
// session; actorID may be empty when no authenticated caller exists.
func (s *Store) DeleteUser(id, actorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if actorID != "" && actorID == id {
		return ErrSelfDeletionForbidden
	}
	if s.currentUser != nil && s.currentUser.ID == id {
		return ErrSelfDeletionForbidden
	}

	kept := s.users[:0]
	removed := false
	for _, u := range s.users {
		if u.ID == id {
			removed = true
			continue
		}
		kept = append(kept, u)
	}
	s.users = kept
	if removed {
		s.persist()
	}
	return nil
}

// Login verifies credentials against an active account. Unknown username,
// inactive account and wrong password are indistinguishable to the caller:
// all return (nil, nil). A dummy bcrypt compare runs on the miss paths so
// response timing does not leak whether the username exists.
func (s *Store) Login(username, password string) (*models.AuthUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username != username || !u.IsActive {
			continue
		}
		if !CheckPassword(password, u.Password) {
			return nil, nil
		}
		auth := u.Auth()
		s.currentUser = &auth
		s.persist()
		session := auth
		return &session, nil
	}

	bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
	return nil, nil
}

// Logout clears the active session.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentUser == nil {
		return
	}
	s.currentUser = nil
	s.persist()
}

// CurrentUser returns the active session, or nil.
func (s *Store) CurrentUser() *models.AuthUser {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentUser == nil {
		return nil
	}
	u := *s.currentUser
	return &u
}

/* =======================
   RESET & RESTORE
======================= */

// ResetData restores the built-in catalog and clears orders and customers.
// Users and the active session are preserved.
func (s *Store) ResetData() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products = DefaultCatalog()
	s.orders = nil
	s.customers = nil
	s.persist()
}

// Replace swaps in a fully decoded snapshot: products, orders, users and
// session are taken verbatim while customers are recomputed from the restored
// order log (a restored projection is never trusted). Used by backup restore,
// whose date conversion has already succeeded by the time this runs.
func (s *Store) Replace(products []models.Product, orders []models.Order, users []models.User, currentUser *models.AuthUser) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products = products
	s.orders = orders
	s.users = users
	s.currentUser = currentUser
	s.customers = ProjectCustomers(s.orders)
	s.persist()
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
