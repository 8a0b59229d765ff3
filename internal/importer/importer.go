// Package importer reconciles the asset registry against CSV batches keyed
// by asset number.
//
// Rows are processed in order, each in its own transaction. A failing row is
// recorded in the report and the batch carries on; rows committed before a
// cancellation stay committed.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/assettrack/internal/date"
	"github.com/mmynk/assettrack/internal/ledger"
	"github.com/mmynk/assettrack/internal/metrics"
	"github.com/mmynk/assettrack/internal/models"
	"github.com/mmynk/assettrack/internal/registry"
	"github.com/mmynk/assettrack/internal/storage"
)

// RowError scopes an error or warning to one input row.
type RowError struct {
	Line        int
	AssetNumber string
	Err         error
}

func (e *RowError) Error() string {
	if e.AssetNumber == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d (%s): %v", e.Line, e.AssetNumber, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// Report tallies the outcome of a batch.
type Report struct {
	Created int
	Updated int
	Errors  int

	Failed   []*RowError
	Warnings []*RowError
}

// Importer applies CSV rows to the registry.
type Importer struct {
	store   storage.Store
	metrics *metrics.Metrics
}

// Option configures an Importer.
type Option func(*Importer)

// WithMetrics records per-row outcomes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(im *Importer) { im.metrics = m }
}

// New creates an Importer over the given store.
func New(store storage.Store, opts ...Option) *Importer {
	im := &Importer{store: store}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// ImportBatch applies rows in order. importDate is the valuation reference
// date and the assigned date of any allocation the batch opens.
//
// The returned error is non-nil only when ctx ends before the batch does;
// the report then covers the rows already processed.
func (im *Importer) ImportBatch(ctx context.Context, rows []RawRow, importDate date.Date) (*Report, error) {
	report := &Report{}
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		var warnings []error
		var out rowOutcome
		err := im.store.InTx(ctx, func(q storage.Queries) error {
			warnings = nil
			var err error
			out, err = applyRow(ctx, q, row, importDate, func(w error) { warnings = append(warnings, w) })
			return err
		})

		for _, w := range warnings {
			report.Warnings = append(report.Warnings, &RowError{Line: row.Line, AssetNumber: row.AssetNumber, Err: w})
		}
		switch {
		case err != nil:
			rowErr := &RowError{Line: row.Line, AssetNumber: row.AssetNumber, Err: err}
			report.Errors++
			report.Failed = append(report.Failed, rowErr)
			im.metrics.ImportRow(metrics.RowFailed)
			slog.Warn("Import row failed", "line", row.Line, "asset_number", row.AssetNumber, "error", err)
		case out.created:
			report.Created++
			im.metrics.ImportRow(metrics.RowCreated)
		default:
			report.Updated++
			im.metrics.ImportRow(metrics.RowUpdated)
		}
		if err == nil && out.allocated {
			im.metrics.Transition(metrics.TransitionAllocate)
		}
	}

	slog.Info("Import finished",
		"rows", len(rows),
		"created", report.Created,
		"updated", report.Updated,
		"errors", report.Errors,
		"warnings", len(report.Warnings),
	)
	return report, nil
}

type rowOutcome struct {
	created   bool // the asset number was new
	allocated bool // a new allocation was opened
}

// applyRow upserts one asset.
func applyRow(ctx context.Context, q storage.Queries, row RawRow, importDate date.Date, warn func(error)) (rowOutcome, error) {
	number := strings.TrimSpace(row.AssetNumber)
	if number == "" {
		return rowOutcome{}, models.Invalid("asset_number is required")
	}

	purchaseValue, err := parseValue("purchase_value", row.PurchaseValue)
	if err != nil {
		return rowOutcome{}, err
	}
	sticker, err := parseBool("sticker_deployed", row.StickerDeployed)
	if err != nil {
		return rowOutcome{}, err
	}

	asset, err := q.GetAssetByNumber(ctx, number)
	create := errors.Is(err, models.ErrNotFound)
	if err != nil && !create {
		return rowOutcome{}, err
	}
	if create {
		asset = &models.Asset{AssetNumber: number}
	}

	names := map[models.Kind]string{
		models.KindAssetType:  row.AssetType,
		models.KindLocation:   row.Location,
		models.KindRoom:       row.Room,
		models.KindDepartment: row.Department,
	}
	for _, kind := range models.Kinds {
		name := strings.TrimSpace(names[kind])
		if name == "" && !create {
			continue
		}
		entry, err := registry.ResolveEntryOrUnknown(ctx, q, kind, name)
		if err != nil {
			return rowOutcome{}, err
		}
		*asset.Reference(kind) = &models.Ref{ID: entry.ID, Name: entry.Name}
	}

	if row.PurchaseDate != "" {
		purchased, err := date.Parse(row.PurchaseDate)
		if err != nil {
			warn(fmt.Errorf("purchase_date ignored: %w", err))
		} else {
			asset.PurchaseDate = &purchased
		}
	}
	if purchaseValue.Valid {
		asset.PurchaseValue = purchaseValue
	}
	if sticker != nil {
		asset.StickerDeployed = *sticker
	}

	registry.Apply(asset, importDate)
	checkCurrentValue(asset, row.CurrentValue, warn)

	if create {
		err = q.CreateAsset(ctx, asset)
	} else {
		err = q.UpdateAsset(ctx, asset)
	}
	if err != nil {
		return rowOutcome{}, err
	}

	out := rowOutcome{created: create}
	if name := strings.TrimSpace(row.AssignedTo); name != "" {
		email, err := registry.NormalizeEmail(row.Email)
		if err != nil {
			warn(fmt.Errorf("email ignored: %w", err))
			email = ""
		}
		if out.allocated, err = assign(ctx, q, asset, name, email, importDate); err != nil {
			return rowOutcome{}, err
		}
	} else if row.Email != "" {
		warn(errors.New("email ignored without assigned_to"))
	}
	return out, nil
}

// assign puts the asset in the named custodian's hands and reports whether a
// new allocation was opened. Re-importing the current custodian leaves the
// open allocation as it is.
func assign(ctx context.Context, q storage.Queries, asset *models.Asset, name, email string, importDate date.Date) (bool, error) {
	user, err := registry.ResolveUser(ctx, q, name, email)
	if err != nil {
		return false, err
	}
	open, err := q.OpenAllocation(ctx, asset.ID)
	if err != nil {
		return false, err
	}
	if open != nil && open.User.ID == user.ID {
		return false, nil
	}
	if _, err := ledger.AllocateTx(ctx, q, asset.ID, user.ID, importDate); err != nil {
		return false, err
	}
	return true, nil
}

// checkCurrentValue compares a supplied current value with the derived one.
// The derived value always wins.
func checkCurrentValue(asset *models.Asset, raw string, warn func(error)) {
	if raw == "" {
		return
	}
	supplied, err := decimal.NewFromString(raw)
	switch {
	case err != nil:
		warn(fmt.Errorf("current_value %q is not a number", raw))
	case !asset.CurrentValue.Valid:
		warn(fmt.Errorf("current_value %s ignored: no purchase date to derive it from", supplied))
	case !supplied.Equal(asset.CurrentValue.Decimal):
		warn(fmt.Errorf("current_value %s differs from derived %s", supplied, asset.CurrentValue.Decimal.StringFixed(2)))
	}
}

func parseValue(column, raw string) (decimal.NullDecimal, error) {
	if raw == "" {
		return decimal.NullDecimal{}, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.NullDecimal{}, models.Invalid("%s %q is not a number", column, raw)
	}
	nv := decimal.NewNullDecimal(v)
	if err := registry.ValidatePurchaseValue(nv); err != nil {
		return decimal.NullDecimal{}, err
	}
	return nv, nil
}

func parseBool(column, raw string) (*bool, error) {
	switch {
	case raw == "":
		return nil, nil
	case strings.EqualFold(raw, "true"):
		v := true
		return &v, nil
	case strings.EqualFold(raw, "false"):
		v := false
		return &v, nil
	default:
		return nil, models.Invalid("%s %q is not true or false", column, raw)
	}
}
