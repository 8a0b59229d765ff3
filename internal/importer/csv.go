package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// RawRow is one unparsed import record. Every field is the trimmed cell text.
type RawRow struct {
	Line            int
	AssetNumber     string
	AssetType       string
	Location        string
	Room            string
	Department      string
	PurchaseDate    string
	PurchaseValue   string
	CurrentValue    string
	AssignedTo      string
	Email           string
	StickerDeployed string
}

// columns maps normalized header names onto RawRow fields.
var columns = map[string]func(*RawRow) *string{
	"asset_number":     func(r *RawRow) *string { return &r.AssetNumber },
	"model":            func(r *RawRow) *string { return &r.AssetType },
	"asset_type":       func(r *RawRow) *string { return &r.AssetType },
	"location":         func(r *RawRow) *string { return &r.Location },
	"room_number":      func(r *RawRow) *string { return &r.Room },
	"room":             func(r *RawRow) *string { return &r.Room },
	"department":       func(r *RawRow) *string { return &r.Department },
	"purchase_date":    func(r *RawRow) *string { return &r.PurchaseDate },
	"purchase_value":   func(r *RawRow) *string { return &r.PurchaseValue },
	"current_value":    func(r *RawRow) *string { return &r.CurrentValue },
	"assigned_to":      func(r *RawRow) *string { return &r.AssignedTo },
	"email":            func(r *RawRow) *string { return &r.Email },
	"sticker_deployed": func(r *RawRow) *string { return &r.StickerDeployed },
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	return strings.ReplaceAll(h, " ", "_")
}

// ParseCSV reads import rows from r. The first record is the header; columns
// may appear in any order and unknown columns are ignored. Only asset_number
// is mandatory.
func ParseCSV(r io.Reader) ([]RawRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("empty CSV: missing header")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	fields := make([]func(*RawRow) *string, len(header))
	hasKey := false
	for i, h := range header {
		name := normalizeHeader(h)
		fields[i] = columns[name]
		hasKey = hasKey || name == "asset_number"
	}
	if !hasKey {
		return nil, fmt.Errorf("CSV header has no asset_number column")
	}

	var rows []RawRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		line, _ := reader.FieldPos(0)

		if blank(record) {
			continue
		}
		row := RawRow{Line: line}
		for i, cell := range record {
			if i < len(fields) && fields[i] != nil {
				*fields[i](&row) = strings.TrimSpace(cell)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func blank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
