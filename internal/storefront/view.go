package storefront

import (
	"FoodCart/internal/cart"
	"FoodCart/internal/catalog"
)

const (
	MsgNoItems       = "No food items are available at the moment. Please check back later."
	MsgNoMatches     = "No food items match your current search or filter criteria."
	MsgEmptyCart     = "Your cart is empty."
	MsgCheckoutEmpty = "Your cart is empty! Please add items to your cart before checking out."
)

type ProductCard struct {
	ID          int
	Name        string
	Image       string
	Description string
	Price       string
	Badge       string
}

type CategoryOption struct {
	Value    string
	Label    string
	Selected bool
}

// MenuView is the menu page projection. When Cards is empty, EmptyMessage
// says whether the catalog itself is empty or only the filter result is.
type MenuView struct {
	Cards        []ProductCard
	EmptyMessage string
	Search       string
	Categories   []CategoryOption
}

func NewMenuView(all, filtered []catalog.Product, search, category string) MenuView {
	if category == "" {
		category = catalog.AllCategories
	}

	v := MenuView{
		Cards:  make([]ProductCard, 0, len(filtered)),
		Search: search,
	}

	for _, c := range catalog.Categories(all) {
		v.Categories = append(v.Categories, CategoryOption{
			Value:    c,
			Label:    catalog.CategoryLabel(c),
			Selected: c == category,
		})
	}

	for _, p := range filtered {
		v.Cards = append(v.Cards, ProductCard{
			ID:          p.ID,
			Name:        p.Name,
			Image:       p.Image,
			Description: p.Description,
			Price:       cart.FormatMoney(p.Price),
			Badge:       p.Badge,
		})
	}

	switch {
	case len(v.Cards) > 0:
	case len(all) == 0:
		v.EmptyMessage = MsgNoItems
	default:
		v.EmptyMessage = MsgNoMatches
	}

	return v
}

// CartLineView carries the values each quantity control posts, so every
// rendered control is bound to its own product and current quantity.
type CartLineView struct {
	ID        int
	Name      string
	Image     string
	UnitPrice string
	LineTotal string
	Quantity  int
	Increment int
	Decrement int
}

// CartView is the cart page projection. Summary is nil for an empty cart so
// the summary block is not rendered at all.
type CartView struct {
	Lines   []CartLineView
	Count   int
	Empty   bool
	Summary *cart.Figures
}

func NewCartView(lines []cart.Line) CartView {
	v := CartView{
		Lines: make([]CartLineView, 0, len(lines)),
		Empty: len(lines) == 0,
	}

	for _, l := range lines {
		v.Count += l.Quantity
		v.Lines = append(v.Lines, CartLineView{
			ID:        l.ID,
			Name:      l.Name,
			Image:     l.Image,
			UnitPrice: cart.FormatMoney(l.Price),
			LineTotal: cart.FormatMoney(l.Extended()),
			Quantity:  l.Quantity,
			Increment: min(l.Quantity+1, cart.MaxQuantity),
			Decrement: l.Quantity - 1,
		})
	}

	if !v.Empty {
		f := cart.Summarize(lines).Format()
		v.Summary = &f
	}
	return v
}
