// Package models defines the core domain models for asset tracking.
//
// # Entities
//
//   - CatalogEntry: a named lookup value (asset type, location, room, department)
//   - User: a custodian who can hold assets, not a system login
//   - Asset: a tracked piece of hardware with its valuation and custody state
//   - Allocation: one custody period of an asset by a user
//
// # Invariants
//
// An asset is allocated if and only if it has exactly one open allocation
// (an allocation with no return date), and its AssignedTo mirrors the user of
// that allocation. Derived valuation fields are recomputed by the valuation
// package and are never written directly by callers.
//
// References between entities are held as IDs (wrapped in Ref so that reads
// can carry the display name), never as copies, so catalog renames propagate.
package models
