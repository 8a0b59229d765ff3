package valuation

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/assettrack/internal/date"
)

func value(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func TestRevalue(t *testing.T) {
	purchased := date.MustParse("2020-01-01")

	tests := []struct {
		name          string
		purchaseDate  *date.Date
		purchaseValue decimal.NullDecimal
		asOf          string
		wantDepDate   string // "" means unset
		wantValue     string // "" means unset
	}{
		{
			name:          "two years in",
			purchaseDate:  purchased.Ptr(),
			purchaseValue: value("1000.00"),
			asOf:          "2022-01-01",
			wantDepDate:   "2024-12-30",
			// 731 days / 365.25 = 2.00137 years, factor 0.59973
			wantValue: "599.73",
		},
		{
			name:          "day of purchase keeps full value",
			purchaseDate:  purchased.Ptr(),
			purchaseValue: value("1000.00"),
			asOf:          "2020-01-01",
			wantDepDate:   "2024-12-30",
			wantValue:     "1000",
		},
		{
			name:          "fully depreciated after five years",
			purchaseDate:  purchased.Ptr(),
			purchaseValue: value("1000.00"),
			asOf:          "2025-01-02",
			wantDepDate:   "2024-12-30",
			wantValue:     "0",
		},
		{
			name:          "never negative long after",
			purchaseDate:  purchased.Ptr(),
			purchaseValue: value("250"),
			asOf:          "2040-06-01",
			wantDepDate:   "2024-12-30",
			wantValue:     "0",
		},
		{
			name:          "future purchase date is clamped to purchase value",
			purchaseDate:  date.MustParse("2030-01-01").Ptr(),
			purchaseValue: value("80"),
			asOf:          "2025-01-01",
			wantDepDate:   "2034-12-31",
			wantValue:     "80",
		},
		{
			name:          "no purchase value keeps depreciation date only",
			purchaseDate:  purchased.Ptr(),
			purchaseValue: decimal.NullDecimal{},
			asOf:          "2022-01-01",
			wantDepDate:   "2024-12-30",
		},
		{
			name:          "no purchase date leaves everything unset",
			purchaseValue: value("1000"),
			asOf:          "2022-01-01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Revalue(tt.purchaseDate, tt.purchaseValue, date.MustParse(tt.asOf))

			if tt.wantDepDate == "" {
				if got.DepreciationDate != nil {
					t.Errorf("DepreciationDate = %v, want unset", got.DepreciationDate)
				}
			} else if got.DepreciationDate == nil || got.DepreciationDate.String() != tt.wantDepDate {
				t.Errorf("DepreciationDate = %v, want %s", got.DepreciationDate, tt.wantDepDate)
			}

			if tt.wantValue == "" {
				if got.CurrentValue.Valid {
					t.Errorf("CurrentValue = %v, want unset", got.CurrentValue.Decimal)
				}
				return
			}
			want := decimal.RequireFromString(tt.wantValue)
			if !got.CurrentValue.Valid || !got.CurrentValue.Decimal.Equal(want) {
				t.Errorf("CurrentValue = %v (valid=%v), want %v", got.CurrentValue.Decimal, got.CurrentValue.Valid, want)
			}
		})
	}
}

func TestRevalue_MonotonicAndBounded(t *testing.T) {
	purchased := date.MustParse("2019-03-15")
	pv := value("1234.56")

	prev := pv.Decimal
	for day := 0; day <= 2200; day += 7 {
		got := Revalue(purchased.Ptr(), pv, purchased.AddDays(day))
		cv := got.CurrentValue.Decimal
		if cv.GreaterThan(prev) {
			t.Fatalf("day %d: value %v increased from %v", day, cv, prev)
		}
		if cv.IsNegative() || cv.GreaterThan(pv.Decimal) {
			t.Fatalf("day %d: value %v out of [0, %v]", day, cv, pv.Decimal)
		}
		if day >= 1827 && !cv.IsZero() {
			t.Fatalf("day %d: value %v, want 0 after five years", day, cv)
		}
		prev = cv
	}
}

func TestRevalue_Deterministic(t *testing.T) {
	purchased := date.MustParse("2021-07-09")
	asOf := date.MustParse("2023-11-30")
	a := Revalue(purchased.Ptr(), value("999.99"), asOf)
	b := Revalue(purchased.Ptr(), value("999.99"), asOf)
	if !a.CurrentValue.Decimal.Equal(b.CurrentValue.Decimal) || *a.DepreciationDate != *b.DepreciationDate {
		t.Errorf("Revalue not deterministic: %+v vs %+v", a, b)
	}
}

func TestFactor(t *testing.T) {
	purchased := date.MustParse("2020-01-01")
	tests := []struct {
		days int
		want string
	}{
		{0, "1"},
		{-30, "1"},
		{5000, "0"},
	}
	for _, tt := range tests {
		got := Factor(purchased, purchased.AddDays(tt.days))
		if !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Errorf("Factor(+%d days) = %v, want %s", tt.days, got, tt.want)
		}
	}
}
