package models

// Product categories offered by the bakery.
const (
	CategoryBreads   = "breads"
	CategoryPastries = "pastries"
	CategoryCakes    = "cakes"
	CategoryCookies  = "cookies"
)

// ValidCategory reports whether c is one of the known product categories.
func ValidCategory(c string) bool {
	switch c {
	case CategoryBreads, CategoryPastries, CategoryCakes, CategoryCookies:
		return true
	}
	return false
}

type Product struct {
	ID          string  `bson:"_id,omitempty" json:"id"`
	Name        string  `bson:"name" json:"name" validate:"required"`
	Description string  `bson:"description" json:"description"`
	Price       float64 `bson:"price" json:"price" validate:"required,gt=0"`
	Category    string  `bson:"category" json:"category" validate:"required,oneof=breads pastries cakes cookies"`
	Image       string  `bson:"image" json:"image"`
	Available   bool    `bson:"available" json:"available"`
}

// ProductUpdate carries a partial product edit. Nil fields are left untouched.
type ProductUpdate struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	Image       *string  `json:"image"`
	Available   *bool    `json:"available"`
}

// CartItem embeds a full product snapshot so historical orders survive later
// product edits and deletions.
type CartItem struct {
	Product  Product `bson:"product" json:"product" validate:"required"`
	Quantity int     `bson:"quantity" json:"quantity" validate:"required,gte=1"`
}
