package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/mmynk/assettrack/internal/date"
	"github.com/mmynk/assettrack/internal/models"
)

// ExportHeader is the fixed column order of exported files.
var ExportHeader = []string{
	"Asset Number",
	"Location",
	"Department",
	"Room Number",
	"Purchase Date",
	"Purchase Value",
	"Current Value",
	"Assigned To",
	"Is Allocated",
	"Sticker Deployed",
}

// Export writes every asset matching filter as CSV, ordered by asset number.
func (im *Importer) Export(ctx context.Context, w io.Writer, filter models.AssetFilter) (int, error) {
	assets, err := im.store.ListAssets(ctx, filter)
	if err != nil {
		return 0, err
	}
	if err := WriteCSV(w, assets); err != nil {
		return 0, err
	}
	return len(assets), nil
}

// WriteCSV renders assets in the export column order.
func WriteCSV(w io.Writer, assets []*models.Asset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, a := range assets {
		record := []string{
			a.AssetNumber,
			models.RefName(a.Location),
			models.RefName(a.Department),
			models.RefName(a.Room),
			formatDate(a.PurchaseDate),
			formatValue(a.PurchaseValue),
			formatValue(a.CurrentValue),
			models.RefName(a.AssignedTo),
			strconv.FormatBool(a.IsAllocated),
			strconv.FormatBool(a.StickerDeployed),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write asset %s: %w", a.AssetNumber, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatDate(d *date.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func formatValue(v decimal.NullDecimal) string {
	if !v.Valid {
		return ""
	}
	return v.Decimal.StringFixed(2)
}
