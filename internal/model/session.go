package model

import "time"

// Session records one continuous period of a table's live-occupancy
// lifecycle.  At most one open session (ClosedAt nil) exists per table at
// any time; every transition either closes the current open session and
// opens exactly one new one, or leaves it untouched.  Sessions are never
// updated in place once closed, making the ledger append-mostly.
//
// Fields:
//
//	ID                – primary key identifier.
//	TableID           – table the session belongs to.
//	VenueID           – owning venue, denormalised for scoped queries.
//	Status            – current occupancy status of the table.
//	OpenedAt          – when the session started (UTC).
//	ClosedAt          – when the session ended; nil while open.
//	MergedWithTableID – primary table ID; set only when Status is MERGED.
//	ServerID          – staff member who seated the party, when known.
type Session struct {
	ID                uint64        // sessions.id
	TableID           uint64        // sessions.table_id
	VenueID           uint64        // sessions.venue_id
	Status            SessionStatus // sessions.status
	OpenedAt          time.Time     // sessions.opened_at
	ClosedAt          *time.Time    // sessions.closed_at (nullable)
	MergedWithTableID *uint64       // sessions.merged_with_table_id (nullable)
	ServerID          *uint64       // sessions.server_id (nullable)
}

// Open reports whether the session is the table's current one.
func (s *Session) Open() bool { return s.ClosedAt == nil }
