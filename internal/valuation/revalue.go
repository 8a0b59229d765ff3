// Package valuation derives an asset's depreciation date and current worth from its purchase data.
//
// Depreciation is straight-line at 20% a year over a five year useful life:
//
//	years_elapsed = days(as_of - purchase_date) / 365.25
//	factor        = clamp(1 - 0.2 * years_elapsed, 0, 1)
//	current_value = purchase_value * factor
//
// The depreciation date is purchase_date + 1825 days (5 x 365, leap days ignored).
// All arithmetic is exact decimal; the reference date is always a parameter.
package valuation

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/assettrack/internal/date"
)

// LifeDays is the useful life used for the depreciation date.
const LifeDays = 5 * 365

var (
	daysPerYear = decimal.RequireFromString("365.25")
	annualRate  = decimal.RequireFromString("0.2")
	one         = decimal.NewFromInt(1)
)

// Result holds the derived valuation fields. Unknown outputs are nil / invalid.
type Result struct {
	DepreciationDate *date.Date
	CurrentValue     decimal.NullDecimal
}

// Revalue computes the derived fields as of asOf.
// Without a purchase date both outputs are unset; without a purchase value only
// the depreciation date is known. It never fails.
func Revalue(purchaseDate *date.Date, purchaseValue decimal.NullDecimal, asOf date.Date) Result {
	if purchaseDate == nil {
		return Result{}
	}
	res := Result{DepreciationDate: purchaseDate.AddDays(LifeDays).Ptr()}
	if !purchaseValue.Valid {
		return res
	}
	factor := Factor(*purchaseDate, asOf)
	res.CurrentValue = decimal.NewNullDecimal(purchaseValue.Decimal.Mul(factor).Round(2))
	return res
}

// Factor returns the fraction of the purchase value remaining at asOf, in [0, 1].
func Factor(purchaseDate, asOf date.Date) decimal.Decimal {
	years := decimal.NewFromInt(int64(asOf.DaysSince(purchaseDate))).Div(daysPerYear)
	factor := one.Sub(annualRate.Mul(years))
	switch {
	case factor.IsNegative():
		return decimal.Zero
	case factor.GreaterThan(one):
		// purchased after asOf
		return one
	}
	return factor
}
