package catalog

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// AllCategories is the selector value that disables category filtering.
const AllCategories = "all"

// Filter narrows products to those whose name contains term
// (case-insensitive) and whose category equals category. An empty term or
// the "all" category leaves that dimension unfiltered. Catalog order is
// preserved and the input is never modified.
func Filter(products []Product, term, category string) []Product {
	term = strings.ToLower(term)
	anyCategory := category == "" || category == AllCategories

	out := make([]Product, 0, len(products))
	for _, p := range products {
		if !anyCategory && p.Category != category {
			continue
		}
		if term != "" && !strings.Contains(strings.ToLower(p.Name), term) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Categories returns "all" followed by each distinct category in the order
// it first appears.
func Categories(products []Product) []string {
	seen := make(map[string]struct{}, len(products))
	out := []string{AllCategories}
	for _, p := range products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}

// CategoryLabel capitalizes the first letter for display.
func CategoryLabel(category string) string {
	r, size := utf8.DecodeRuneInString(category)
	if r == utf8.RuneError {
		return category
	}
	return string(unicode.ToUpper(r)) + category[size:]
}
