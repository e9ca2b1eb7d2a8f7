package storefront

import (
	"testing"

	"github.com/shopspring/decimal"

	"FoodCart/internal/cart"
	"FoodCart/internal/catalog"
)

func TestNewMenuView_EmptyStates(t *testing.T) {
	menu := catalog.Defaults()

	cases := []struct {
		name     string
		all      []catalog.Product
		search   string
		category string
		cards    int
		msg      string
	}{
		{name: "full list", all: menu, category: "all", cards: 8},
		{name: "pizza search", all: menu, search: "pizza", category: "all", cards: 2},
		{name: "pizza in pizza", all: menu, search: "pizza", category: "Pizza", cards: 2},
		{name: "pizza in burger", all: menu, search: "pizza", category: "Burger", msg: MsgNoMatches},
		{name: "empty catalog", all: nil, search: "", category: "all", msg: MsgNoItems},
		{name: "empty catalog with search", all: nil, search: "pizza", category: "all", msg: MsgNoItems},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := NewMenuView(tc.all, catalog.Filter(tc.all, tc.search, tc.category), tc.search, tc.category)
			if len(v.Cards) != tc.cards {
				t.Fatalf("cards=%d want=%d", len(v.Cards), tc.cards)
			}
			if v.EmptyMessage != tc.msg {
				t.Fatalf("msg=%q want=%q", v.EmptyMessage, tc.msg)
			}
		})
	}
}

func TestNewMenuView_Cards(t *testing.T) {
	menu := catalog.Defaults()
	v := NewMenuView(menu, catalog.Filter(menu, "pizza", "all"), "pizza", "")

	if v.Cards[0].Name != "Margherita Pizza" || v.Cards[1].Name != "Pepperoni Pizza" {
		t.Fatalf("cards=%+v", v.Cards)
	}
	if v.Cards[0].Price != "12.99" || v.Cards[0].Badge != "Bestseller" || v.Cards[1].Badge != "" {
		t.Fatalf("card=%+v", v.Cards[0])
	}
	if v.Search != "pizza" {
		t.Fatalf("search=%q", v.Search)
	}

	if len(v.Categories) != 5 || v.Categories[0].Label != "All" || !v.Categories[0].Selected {
		t.Fatalf("categories=%+v", v.Categories)
	}
	for _, c := range v.Categories[1:] {
		if c.Selected {
			t.Fatalf("%s selected", c.Value)
		}
	}
}

func TestNewCartView_Empty(t *testing.T) {
	v := NewCartView(nil)
	if !v.Empty || v.Summary != nil || v.Count != 0 || len(v.Lines) != 0 {
		t.Fatalf("view=%+v", v)
	}
}

func TestNewCartView_Lines(t *testing.T) {
	menu := catalog.Defaults()
	lines := []cart.Line{
		{Product: menu[0], Quantity: 2},
		{Product: menu[3], Quantity: 1},
	}

	v := NewCartView(lines)
	if v.Empty || v.Count != 3 || len(v.Lines) != 2 {
		t.Fatalf("view=%+v", v)
	}

	l := v.Lines[0]
	if l.ID != 1 || l.UnitPrice != "12.99" || l.LineTotal != "25.98" || l.Increment != 3 || l.Decrement != 1 {
		t.Fatalf("line=%+v", l)
	}
	if v.Lines[1].Decrement != 0 {
		t.Fatalf("decrement=%d", v.Lines[1].Decrement)
	}

	if v.Summary == nil {
		t.Fatalf("summary missing")
	}
	want := cart.Summarize(lines).Format()
	if *v.Summary != want || want.Subtotal != "31.98" {
		t.Fatalf("summary=%+v want=%+v", *v.Summary, want)
	}
}

func TestNewCartView_FormatsSnapshotPrice(t *testing.T) {
	p := catalog.Product{ID: 9, Name: "Odd", Price: decimal.RequireFromString("1.005")}
	v := NewCartView([]cart.Line{{Product: p, Quantity: 1}})

	if v.Lines[0].UnitPrice != "1.01" {
		t.Fatalf("price=%s", v.Lines[0].UnitPrice)
	}
}

func TestNewCartView_IncrementStopsAtLimit(t *testing.T) {
	p := catalog.Defaults()[0]
	v := NewCartView([]cart.Line{{Product: p, Quantity: cart.MaxQuantity}})

	if l := v.Lines[0]; l.Increment != cart.MaxQuantity || l.Decrement != cart.MaxQuantity-1 {
		t.Fatalf("line=%+v", l)
	}
}
