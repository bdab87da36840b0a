package models

import "time"

// Customer is a projection over the order log, keyed by email. It is never
// edited directly; the store regenerates the full set whenever orders change.
type Customer struct {
	ID            string     `bson:"_id,omitempty" json:"id"`
	Name          string     `bson:"name" json:"name"`
	Phone         string     `bson:"phone" json:"phone"`
	Email         string     `bson:"email" json:"email"`
	TotalOrders   int        `bson:"totalOrders" json:"totalOrders"`
	TotalSpent    float64    `bson:"totalSpent" json:"totalSpent"`
	LastOrderDate *time.Time `bson:"lastOrderDate,omitempty" json:"lastOrderDate,omitempty"`
}
