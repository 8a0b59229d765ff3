package models

import "fmt"

// Kind identifies which lookup table a CatalogEntry belongs to.
type Kind string

const (
	KindAssetType  Kind = "asset_type"
	KindLocation   Kind = "location"
	KindRoom       Kind = "room"
	KindDepartment Kind = "department"
)

// Kinds lists every catalog kind in a stable order.
var Kinds = []Kind{KindAssetType, KindLocation, KindRoom, KindDepartment}

// UnknownName is the sentinel entry used by the importer for blank reference columns.
const UnknownName = "Unknown"

// ParseKind validates a kind received from outside the process.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", Invalid("unknown catalog kind %q", s)
}

// CatalogEntry is a named, deduplicated lookup value.
// Names are unique within a kind, compared case-insensitively.
type CatalogEntry struct {
	ID        string `json:"id"`
	Kind      Kind   `json:"kind"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"created_at"`
}

func (e *CatalogEntry) String() string { return fmt.Sprintf("%s:%s", e.Kind, e.Name) }

// Ref is a reference to another entity, carrying its display name on reads.
// Writes only look at ID.
type Ref struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// RefID returns the referenced ID, or "" for a nil reference.
func RefID(r *Ref) string {
	if r == nil {
		return ""
	}
	return r.ID
}

// RefName returns the referenced name, or "" for a nil reference.
func RefName(r *Ref) string {
	if r == nil {
		return ""
	}
	return r.Name
}
