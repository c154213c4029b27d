package model

import "time"

// Table represents a physical or logical seating unit within a venue.  A
// table with MergedWith set is a secondary table: it has been absorbed into
// the table it points to (the primary), is hidden from normal listings and
// its capacity counts towards the primary.  Merge linkage is exactly one
// level deep; a secondary can never have secondaries of its own.
//
// Fields:
//
//	ID            – primary key identifier, stable for the table's lifetime.
//	VenueID       – venue the table belongs to; all lookups are venue scoped.
//	Label         – display name shown on the floor plan; mutable.
//	SeatCount     – number of seats; always positive.
//	MergedWith    – ID of the primary table when this table is a secondary.
//	PreMergeLabel – snapshot of Label taken when a merge touches this row,
//	                so that unmerge restores the exact original.
//	PreMergeSeats – snapshot of SeatCount taken at merge time.
//	Active        – soft-delete flag; inactive tables are kept for history.
//	CreatedAt     – creation timestamp (UTC).
//	UpdatedAt     – last update timestamp (UTC).
type Table struct {
	ID            uint64    // tables.id
	VenueID       uint64    // tables.venue_id
	Label         string    // tables.label
	SeatCount     uint32    // tables.seat_count
	MergedWith    *uint64   // tables.merged_with (nullable)
	PreMergeLabel *string   // tables.pre_merge_label (nullable)
	PreMergeSeats *uint32   // tables.pre_merge_seats (nullable)
	Active        bool      // tables.active
	CreatedAt     time.Time // tables.created_at
	UpdatedAt     time.Time // tables.updated_at
}

// Secondary reports whether the table is currently merged away into a
// primary table.
func (t *Table) Secondary() bool { return t.MergedWith != nil }
