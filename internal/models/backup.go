package models

import (
	"fmt"
	"time"
)

// BackupVersion is stamped into every backup document this build produces.
const BackupVersion = "1.0.0"

// BackupData is the portable backup document. Every date inside Data is an
// RFC 3339 string so the file survives any JSON tooling untouched.
type BackupData struct {
	Version   string        `bson:"version" json:"version"`
	Timestamp string        `bson:"timestamp" json:"timestamp"`
	Data      BackupPayload `bson:"data" json:"data"`
}

type BackupPayload struct {
	Products  []Product          `bson:"products" json:"products"`
	Orders    []OrderDocument    `bson:"orders" json:"orders"`
	Customers []CustomerDocument `bson:"customers" json:"customers"`
	Users     []UserDocument     `bson:"users" json:"users"`
	// CurrentUser is the active session at backup time, if any.
	CurrentUser *AuthUser `bson:"currentUser" json:"currentUser"`
}

// OrderDocument is Order with its dates flattened to RFC 3339 strings.
type OrderDocument struct {
	ID            string     `bson:"_id,omitempty" json:"id"`
	Items         []CartItem `bson:"items" json:"items"`
	Total         float64    `bson:"total" json:"total"`
	Status        string     `bson:"status" json:"status"`
	CustomerName  string     `bson:"customerName" json:"customerName"`
	CustomerPhone string     `bson:"customerPhone" json:"customerPhone"`
	CustomerEmail string     `bson:"customerEmail" json:"customerEmail"`
	OrderDate     string     `bson:"orderDate" json:"orderDate"`
	DeliveryDate  string     `bson:"deliveryDate" json:"deliveryDate"`
	EstimatedTime string     `bson:"estimatedTime,omitempty" json:"estimatedTime,omitempty"`
}

type CustomerDocument struct {
	ID            string  `bson:"_id,omitempty" json:"id"`
	Name          string  `bson:"name" json:"name"`
	Phone         string  `bson:"phone" json:"phone"`
	Email         string  `bson:"email" json:"email"`
	TotalOrders   int     `bson:"totalOrders" json:"totalOrders"`
	TotalSpent    float64 `bson:"totalSpent" json:"totalSpent"`
	LastOrderDate string  `bson:"lastOrderDate,omitempty" json:"lastOrderDate,omitempty"`
}

type UserDocument struct {
	ID        string `bson:"_id,omitempty" json:"id"`
	Username  string `bson:"username" json:"username"`
	Password  string `bson:"password" json:"password"`
	Name      string `bson:"name" json:"name"`
	Email     string `bson:"email" json:"email"`
	Role      string `bson:"role" json:"role"`
	IsActive  bool   `bson:"isActive" json:"isActive"`
	CreatedAt string `bson:"createdAt" json:"createdAt"`
	CreatedBy string `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
}

func (o Order) Document() OrderDocument {
	return OrderDocument{
		ID:            o.ID,
		Items:         o.Items,
		Total:         o.Total,
		Status:        o.Status,
		CustomerName:  o.CustomerName,
		CustomerPhone: o.CustomerPhone,
		CustomerEmail: o.CustomerEmail,
		OrderDate:     o.OrderDate.Format(time.RFC3339Nano),
		DeliveryDate:  o.DeliveryDate.Format(time.RFC3339Nano),
		EstimatedTime: o.EstimatedTime,
	}
}

// Order converts the document back to the in-memory form. It fails on any
// unparseable date so restores never smuggle zero times into the store.
func (d OrderDocument) Order() (Order, error) {
	orderDate, err := time.Parse(time.RFC3339, d.OrderDate)
	if err != nil {
		return Order{}, fmt.Errorf("order %s: bad orderDate %q: %w", d.ID, d.OrderDate, err)
	}
	deliveryDate, err := time.Parse(time.RFC3339, d.DeliveryDate)
	if err != nil {
		return Order{}, fmt.Errorf("order %s: bad deliveryDate %q: %w", d.ID, d.DeliveryDate, err)
	}
	return Order{
		ID:            d.ID,
		Items:         d.Items,
		Total:         d.Total,
		Status:        d.Status,
		CustomerName:  d.CustomerName,
		CustomerPhone: d.CustomerPhone,
		CustomerEmail: d.CustomerEmail,
		OrderDate:     orderDate,
		DeliveryDate:  deliveryDate,
		EstimatedTime: d.EstimatedTime,
	}, nil
}

func (c Customer) Document() CustomerDocument {
	doc := CustomerDocument{
		ID:          c.ID,
		Name:        c.Name,
		Phone:       c.Phone,
		Email:       c.Email,
		TotalOrders: c.TotalOrders,
		TotalSpent:  c.TotalSpent,
	}
	if c.LastOrderDate != nil {
		doc.LastOrderDate = c.LastOrderDate.Format(time.RFC3339Nano)
	}
	return doc
}

func (d CustomerDocument) Customer() (Customer, error) {
	customer := Customer{
		ID:          d.ID,
		Name:        d.Name,
		Phone:       d.Phone,
		Email:       d.Email,
		TotalOrders: d.TotalOrders,
		TotalSpent:  d.TotalSpent,
	}
	if d.LastOrderDate != "" {
		last, err := time.Parse(time.RFC3339, d.LastOrderDate)
		if err != nil {
			return Customer{}, fmt.Errorf("customer %s: bad lastOrderDate %q: %w", d.Email, d.LastOrderDate, err)
		}
		customer.LastOrderDate = &last
	}
	return customer, nil
}

func (u User) Document() UserDocument {
	return UserDocument{
		ID:        u.ID,
		Username:  u.Username,
		Password:  u.Password,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt.Format(time.RFC3339Nano),
		CreatedBy: u.CreatedBy,
	}
}

func (d UserDocument) User() (User, error) {
	createdAt, err := time.Parse(time.RFC3339, d.CreatedAt)
	if err != nil {
		return User{}, fmt.Errorf("user %s: bad createdAt %q: %w", d.Username, d.CreatedAt, err)
	}
	return User{
		ID:        d.ID,
		Username:  d.Username,
		Password:  d.Password,
		Name:      d.Name,
		Email:     d.Email,
		Role:      d.Role,
		IsActive:  d.IsActive,
		CreatedAt: createdAt,
		CreatedBy: d.CreatedBy,
	}, nil
}
