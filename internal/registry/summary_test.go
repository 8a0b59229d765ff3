package registry

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/assettrack/internal/date"
	"github.com/mmynk/assettrack/internal/models"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		amount string
		code   string
		want   string
	}{
		{"1234.5", "GBP", "£1,234.50"},
		{"0", "GBP", "£0.00"},
		{"1234.5", "USD", "$1,234.50"},
		{"99.999", "GBP", "£100.00"},
		{"12.3", "XXX-NOPE", "12.30"},
	}
	for _, tt := range tests {
		t.Run(tt.code+" "+tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatMoney(decimal.RequireFromString(tt.amount), tt.code))
		})
	}
	assert.True(t, ValidCurrency("EUR"))
	assert.False(t, ValidCurrency("ZZZ"))
}

func TestSummary(t *testing.T) {
	reg, _ := newTestRegistry(t)
	ctx := context.Background()

	laptop, err := reg.GetOrCreateEntry(ctx, models.KindAssetType, "Laptop")
	require.NoError(t, err)
	user, err := reg.CreateUser(ctx, "Heidi", "")
	require.NoError(t, err)

	_, err = reg.CreateAsset(ctx, AssetInput{
		AssetNumber:   "A-1",
		AssetTypeID:   laptop.ID,
		PurchaseDate:  date.MustParse("2020-01-01").Ptr(),
		PurchaseValue: value("1000"),
		AssignedTo:    user.ID,
	})
	require.NoError(t, err)
	_, err = reg.CreateAsset(ctx, AssetInput{AssetNumber: "A-2", AssetTypeID: laptop.ID, PurchaseValue: value("250.50")})
	require.NoError(t, err)

	s, err := reg.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Assets)
	assert.Equal(t, 1, s.AllocatedAssets)
	assert.Equal(t, 1, s.Users)
	assert.Equal(t, "£1,250.50", s.PurchaseTotalText)
	assert.Equal(t, "£599.73", s.CurrentTotalText)
	require.Len(t, s.ByType, 1)
	assert.Equal(t, 1, s.ByType[0].Allocated)
	assert.Equal(t, 1, s.ByType[0].Unallocated)
	assert.Len(t, s.Recent, 1)
}
