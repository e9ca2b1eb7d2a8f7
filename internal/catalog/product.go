package catalog

import (
	"context"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Image       string          `json:"image"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Badge       string          `json:"badge,omitempty"`
}

type Store interface {
	Ping(ctx context.Context) error
	// List returns every product in catalog order.
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id int) (Product, bool, error)
}

// Defaults is the menu the storefront ships with.
func Defaults() []Product {
	return []Product{
		{ID: 1, Name: "Margherita Pizza", Image: "static/images/margherita-pizza.svg", Description: "Classic cheese and tomato pizza.", Price: price("12.99"), Category: "Pizza", Badge: "Bestseller"},
		{ID: 2, Name: "Cheeseburger", Image: "static/images/cheeseburger.svg", Description: "Beef patty with cheese, lettuce, and tomato.", Price: price("8.99"), Category: "Burger"},
		{ID: 3, Name: "Sushi Platter", Image: "static/images/sushi-platter.svg", Description: "Assorted sushi rolls and nigiri.", Price: price("18.50"), Category: "Sushi"},
		{ID: 4, Name: "Chocolate Cake", Image: "static/images/chocolate-cake.svg", Description: "Rich decadent chocolate cake slice.", Price: price("6.00"), Category: "Dessert", Badge: "New"},
		{ID: 5, Name: "Pepperoni Pizza", Image: "static/images/pepperoni-pizza.svg", Description: "Pizza with spicy pepperoni topping.", Price: price("14.99"), Category: "Pizza"},
		{ID: 6, Name: "Veggie Burger", Image: "static/images/veggie-burger.svg", Description: "Plant-based patty with fresh vegetables.", Price: price("9.50"), Category: "Burger"},
		{ID: 7, Name: "California Roll", Image: "static/images/california-roll.svg", Description: "Crab meat, avocado, and cucumber.", Price: price("7.50"), Category: "Sushi"},
		{ID: 8, Name: "Tiramisu", Image: "static/images/tiramisu.svg", Description: "Classic Italian coffee-flavored dessert.", Price: price("7.00"), Category: "Dessert"},
	}
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
