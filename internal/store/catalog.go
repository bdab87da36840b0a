package store

import "oventreats/internal/models"

// DefaultCatalog returns the built-in product catalog a fresh (or reset)
// store starts with.
func DefaultCatalog() []models.Product {
	return []models.Product{
		{
			ID:          "1",
			Name:        "Artisan Sourdough",
			Description: "Traditional sourdough with crispy crust and tangy flavor",
			Price:       8.50,
			Category:    models.CategoryBreads,
			Image:       "https://images.unsplash.com/photo-1549931319-a545dcf3bc73?w=400&h=300&fit=crop",
			Available:   true,
		},
		{
			ID:          "2",
			Name:        "French Baguette",
			Description: "Classic French baguette, perfect for sandwiches",
			Price:       4.25,
			Category:    models.CategoryBreads,
			Image:       "https://images.unsplash.com/photo-1534620808146-d33bb39128b2?w=400&h=300&fit=crop",
			Available:   true,
		},
		{
			ID:          "3",
			Name:        "Whole Wheat Loaf",
			Description: "Healthy whole wheat bread, soft and nutritious",
			Price:       6.75,
			Category:    models.CategoryBreads,
			Image:       "https://images.unsplash.com/photo-1586444248902-2f64eddc13df?w=400&h=300&fit=crop",
			Available:   true,
		},
		{
			ID:          "4",
			Name:        "Butter Croissant",
			Description: "Flaky, buttery croissant made with French technique",
			Price:       3.50,
			Category:    models.CategoryPastries,
			Image:       "https://images.unsplash.com/photo-1555507036-ab794f4ade0a?w=400&h=300&fit=crop",
			Available:   true,
		},
		{
			ID:          "5",
			Name:        "Pain au Chocolat",
			Description: "Croissant pastry filled with rich dark chocolate",
			Price:       4.25,
			Category:    models.CategoryPastries,
			Image:       "https://images.unsplash.com/photo-1578985545062-69928b1d9587?w=400&h=300&fit=crop",
			Available:   true,
		},
		{
			ID:          "6",
			Name:        "Apple Danish",
			Description: "Sweet pastry with cinnamon apples and glaze",
			Price:       4.75,
			Category:    models.CategoryPastries,
			Image:       "https://images.unsplash.com/photo-1571115764595-644a1f56a55c?w=400&h=300&fit=crop",
			Available:   true,
		},
		{
			ID:          "7",
			Name:        "Chocolate Layer Cake",
			Description: "Rich chocolate cake with chocolate buttercream",
			Price:       28.00,
			Category:    models.CategoryCakes,
			Image:       "https://images.unsplash.com/photo-1578985545062-69928b1d9587?w=400&h=300&fit=crop",
			Available:   true,
		},
		{
			ID:          "8",
			Name:        "Red Velvet Cake",
			Description: "Classic red velvet with cream cheese frosting",
			Price:       32.00,
			Category:    models.CategoryCakes,
			Image:       "https://images.unsplash.com/photo-1464349095431-e9a21285b5f3?w=400&h=300&fit=crop",
			Available:   true,
		},
		{
			ID:          "9",
			Name:        "Lemon Drizzle Cake",
			Description: "Moist lemon cake with tangy lemon glaze",
			Price:       24.00,
			Category:    models.CategoryCakes,
			Image:       "https://images.unsplash.com/photo-1563729784474-d77dbb933a9e?w=400&h=300&fit=crop",
			Available:   true,
		},
		{
			ID:          "10",
			Name:        "Chocolate Chip Cookies",
			Description: "Classic cookies with premium chocolate chips",
			Price:       2.50,
			Category:    models.CategoryCookies,
			Image:       "https://images.unsplash.com/photo-1499636136210-6f4ee915583e?w=400&h=300&fit=crop",
			Available:   true,
		},
		{
			ID:          "11",
			Name:        "Oatmeal Raisin",
			Description: "Chewy oatmeal cookies with plump raisins",
			Price:       2.25,
			Category:    models.CategoryCookies,
			Image:       "https://images.unsplash.com/photo-1558961363-fa8fdf82db35?w=400&h=300&fit=crop",
			Available:   true,
		},
		{
			ID:          "12",
			Name:        "Sugar Cookies",
			Description: "Soft sugar cookies with vanilla icing",
			Price:       2.75,
			Category:    models.CategoryCookies,
			Image:       "https://images.unsplash.com/photo-1606313564200-e75d5e30476c?w=400&h=300&fit=crop",
			Available:   true,
		},
	}
}
