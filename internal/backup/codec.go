package backup

import (
	"encoding/json"
	"fmt"
	"time"

	"oventreats/internal/models"
	"oventreats/internal/store"
)

// Create snapshots the whole store into a portable, versioned backup
// document. All dates inside are RFC 3339 strings.
func Create(s *store.Store) *models.BackupData {
	return &models.BackupData{
		Version:   models.BackupVersion,
		Timestamp: time.Now().Format(time.RFC3339),
		Data:      s.Snapshot(),
	}
}

// Validate structurally checks an untrusted backup candidate. It returns
// false instead of panicking or erroring on any mismatch; callers must not
// restore a document that did not pass here.
//
// Checks, in order: candidate is an object; version, timestamp and data are
// present and non-empty; products, orders and customers (and users, when the
// key exists) are sequences; then a shape spot-check of the first product and
// the first order if present.
func Validate(candidate any) bool {
	doc, ok := asObject(candidate)
	if !ok {
		return false
	}

	version, ok := doc["version"].(string)
	if !ok || version == "" {
		return false
	}
	timestamp, ok := doc["timestamp"].(string)
	if !ok || timestamp == "" {
		return false
	}
	data, ok := doc["data"].(map[string]any)
	if !ok || len(data) == 0 {
		return false
	}

	products, ok := data["products"].([]any)
	if !ok {
		return false
	}
	orders, ok := data["orders"].([]any)
	if !ok {
		return false
	}
	if _, ok := data["customers"].([]any); !ok {
		return false
	}
	// Older backups predate staff accounts; the key is optional but must be
	// a sequence when present.
	if users, exists := data["users"]; exists {
		if _, ok := users.([]any); !ok {
			return false
		}
	}

	if len(products) > 0 {
		first, ok := products[0].(map[string]any)
		if !ok {
			return false
		}
		if _, ok := first["id"].(string); !ok {
			return false
		}
		if _, ok := first["name"].(string); !ok {
			return false
		}
		if _, ok := first["price"].(float64); !ok {
			return false
		}
	}
	if len(orders) > 0 {
		first, ok := orders[0].(map[string]any)
		if !ok {
			return false
		}
		if _, ok := first["id"].(string); !ok {
			return false
		}
		if _, ok := first["customerName"].(string); !ok {
			return false
		}
		if _, ok := first["items"].([]any); !ok {
			return false
		}
	}
	return true
}

// asObject coerces the candidate into a generic JSON object. Typed documents
// are round-tripped through JSON so Validate sees the same shape regardless
// of how the candidate was produced.
func asObject(candidate any) (map[string]any, bool) {
	switch v := candidate.(type) {
	case nil:
		return nil, false
	case map[string]any:
		return v, true
	default:
		raw, err := json.Marshal(candidate)
		if err != nil {
			return nil, false
		}
		var doc map[string]any
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, false
		}
		return doc, true
	}
}

// Restore replaces the store's collections and session with the backup's
// contents. The whole document is converted first; any bad date fails with
// ErrRestoreFailed and leaves the store untouched. On success the customer
// projection is recomputed from the restored orders, self-healing backups
// whose customer list drifted from their order log.
func Restore(s *store.Store, data *models.BackupData) error {
	if data == nil {
		return fmt.Errorf("%w: nil document", ErrRestoreFailed)
	}

	orders := make([]models.Order, 0, len(data.Data.Orders))
	for _, doc := range data.Data.Orders {
		order, err := doc.Order()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrRestoreFailed, err)
		}
		orders = append(orders, order)
	}

	users := make([]models.User, 0, len(data.Data.Users))
	for _, doc := range data.Data.Users {
		user, err := doc.User()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrRestoreFailed, err)
		}
		users = append(users, user)
	}

	products := append([]models.Product(nil), data.Data.Products...)

	var currentUser *models.AuthUser
	if data.Data.CurrentUser != nil {
		u := *data.Data.CurrentUser
		currentUser = &u
	}

	s.Replace(products, orders, users, currentUser)
	return nil
}

// Info summarizes a backup document for display before the user commits to
// restoring it.
type Info struct {
	Version        string `json:"version"`
	Timestamp      string `json:"timestamp"`
	ProductsCount  int    `json:"productsCount"`
	OrdersCount    int    `json:"ordersCount"`
	CustomersCount int    `json:"customersCount"`
	UsersCount     int    `json:"usersCount"`
	HasUser        bool   `json:"hasUser"`
}

func Summarize(data *models.BackupData) Info {
	return Info{
		Version:        data.Version,
		Timestamp:      data.Timestamp,
		ProductsCount:  len(data.Data.Products),
		OrdersCount:    len(data.Data.Orders),
		CustomersCount: len(data.Data.Customers),
		UsersCount:     len(data.Data.Users),
		HasUser:        data.Data.CurrentUser != nil,
	}
}
