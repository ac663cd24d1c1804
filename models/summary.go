package models

import (
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v79"
)

// Summary 代表購物車畫面上的統計資訊
type Summary struct {
	Currency    stripe.Currency `json:"currency"`
	Lines       int             `json:"lines"`
	Items       int             `json:"items"`
	Total       decimal.Decimal `json:"total"`
	AmountMinor int64           `json:"amount_minor"`
}

var minorUnits = decimal.NewFromInt(100)

func NewSummary(currency stripe.Currency, products []Product) Summary {
	total := decimal.Zero
	items := 0
	for _, p := range products {
		items += p.Quantity
		total = total.Add(decimal.NewFromFloat(p.Price).Mul(decimal.NewFromInt(int64(p.Quantity))))
	}

	return Summary{
		Currency:    currency,
		Lines:       len(products),
		Items:       items,
		Total:       total,
		AmountMinor: total.Mul(minorUnits).Round(0).IntPart(),
	}
}
