package registry

import (
	"context"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/mmynk/assettrack/internal/models"
)

// Summary returns dashboard counts and value totals formatted in the
// registry currency.
func (r *Registry) Summary(ctx context.Context) (*models.Summary, error) {
	s, err := r.store.Summary(ctx)
	if err != nil {
		return nil, err
	}
	s.PurchaseTotalText = FormatMoney(s.PurchaseTotal, r.currency)
	s.CurrentTotalText = FormatMoney(s.CurrentTotal, r.currency)
	return s, nil
}

// FormatMoney renders amount with the symbol and separators of an ISO 4217
// currency, e.g. £1,234.50 for GBP. Unknown codes fall back to plain digits.
func FormatMoney(amount decimal.Decimal, code string) string {
	cur := money.GetCurrency(code)
	if cur == nil {
		return amount.StringFixed(2)
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

// ValidCurrency reports whether code is a known ISO 4217 currency.
func ValidCurrency(code string) bool {
	return money.GetCurrency(code) != nil
}
