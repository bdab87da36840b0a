package store

import (
	"sort"

	"oventreats/internal/models"
)

// ProjectCustomers derives the customer set from the order log. It is a pure
// function: orders grouped by exact customerEmail, totals counted and summed
// per group, lastOrderDate taken as the maximum orderDate. Name and phone come
// from the order with the latest orderDate in the group, not from whichever
// order happens to be iterated last.
//
// The result is sorted by lastOrderDate descending so callers get a stable
// display order for free.
func ProjectCustomers(orders []models.Order) []models.Customer {
	type group struct {
		customer models.Customer
		latest   models.Order
	}

	groups := make(map[string]*group)
	for _, order := range orders {
		g, ok := groups[order.CustomerEmail]
		if !ok {
			g = &group{
				customer: models.Customer{
					ID:    order.CustomerEmail,
					Email: order.CustomerEmail,
				},
				latest: order,
			}
			groups[order.CustomerEmail] = g
		}
		g.customer.TotalOrders++
		g.customer.TotalSpent += order.Total
		if !order.OrderDate.Before(g.latest.OrderDate) {
			g.latest = order
		}
	}

	customers := make([]models.Customer, 0, len(groups))
	for _, g := range groups {
		last := g.latest.OrderDate
		g.customer.Name = g.latest.CustomerName
		g.customer.Phone = g.latest.CustomerPhone
		g.customer.LastOrderDate = &last
		customers = append(customers, g.customer)
	}

	sort.Slice(customers, func(i, j int) bool {
		a, b := customers[i].LastOrderDate, customers[j].LastOrderDate
		if a.Equal(*b) {
			return customers[i].Email < customers[j].Email
		}
		return a.After(*b)
	})
	return customers
}
