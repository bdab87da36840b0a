package models

import "time"

// Order statuses. An order starts as pending and only ever moves forward;
// completed and cancelled are terminal.
const (
	StatusPending   = "pending"
	StatusPreparing = "preparing"
	StatusReady     = "ready"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// ValidStatus reports whether s is a known order status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusPreparing, StatusReady, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// NextStatuses returns the legal transitions out of the given status.
// Terminal and unknown statuses have none.
func NextStatuses(status string) []string {
	switch status {
	case StatusPending:
		return []string{StatusPreparing, StatusCancelled}
	case StatusPreparing:
		return []string{StatusReady, StatusCancelled}
	case StatusReady:
		return []string{StatusCompleted}
	}
	return nil
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to string) bool {
	for _, next := range NextStatuses(from) {
		if next == to {
			return true
		}
	}
	return false
}

type Order struct {
	ID            string     `bson:"_id,omitempty" json:"id"`
	Items         []CartItem `bson:"items" json:"items" validate:"required,min=1,dive"`
	Total         float64    `bson:"total" json:"total" validate:"required,gt=0"`
	Status        string     `bson:"status" json:"status"`
	CustomerName  string     `bson:"customerName" json:"customerName" validate:"required"`
	CustomerPhone string     `bson:"customerPhone" json:"customerPhone"`
	CustomerEmail string     `bson:"customerEmail" json:"customerEmail" validate:"required,email"`
	OrderDate     time.Time  `bson:"orderDate" json:"orderDate"`
	DeliveryDate  time.Time  `bson:"deliveryDate" json:"deliveryDate" validate:"required"`
	EstimatedTime string     `bson:"estimatedTime,omitempty" json:"estimatedTime,omitempty"`
}

// NewOrder is the caller-supplied part of an order; the store assigns the id,
// the order date and the initial pending status.
type NewOrder struct {
	Items         []CartItem `json:"items" validate:"required,min=1,dive"`
	Total         float64    `json:"total" validate:"required,gt=0"`
	CustomerName  string     `json:"customerName" validate:"required"`
	CustomerPhone string     `json:"customerPhone"`
	CustomerEmail string     `json:"customerEmail" validate:"required,email"`
	DeliveryDate  time.Time  `json:"deliveryDate" validate:"required"`
	EstimatedTime string     `json:"estimatedTime,omitempty"`
}
