package cart

import "github.com/shopspring/decimal"

// TaxRate is applied to the subtotal.
var TaxRate = decimal.RequireFromString("0.05")

// Summary holds cart totals at full precision. Round only for display.
type Summary struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Figures is a Summary rounded to two places for display.
type Figures struct {
	Subtotal string `json:"subtotal"`
	Tax      string `json:"tax"`
	Total    string `json:"total"`
}

func Summarize(lines []Line) Summary {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Extended())
	}
	tax := subtotal.Mul(TaxRate)

	return Summary{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}

func (s Summary) Format() Figures {
	return Figures{
		Subtotal: FormatMoney(s.Subtotal),
		Tax:      FormatMoney(s.Tax),
		Total:    FormatMoney(s.Total),
	}
}

// Extended is the line's unit price times its quantity.
func (l Line) Extended() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}
