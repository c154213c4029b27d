package store

import (
	"context"
	"time"

	"github.com/tablekeeper/floorplan/internal/model"
)

// Store is the single entry point to the durable ledgers.  All access,
// reads included, happens inside WithinTx so that every caller observes one
// consistent snapshot and every transition commits or rolls back as a unit.
type Store interface {
	// WithinTx runs fn inside a transaction.  When fn returns an error
	// the transaction is rolled back in full and the error is returned
	// unchanged; otherwise the transaction commits.
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx exposes the ledger operations available inside one transaction.  The
// ForUpdate variants acquire row locks so that concurrent transitions on
// the same table serialise at the store; plain reads take no locks.
type Tx interface {
	// Table registry.
	CreateTable(ctx context.Context, t *model.Table) error
	GetTable(ctx context.Context, venueID, tableID uint64) (*model.Table, error)
	TableForUpdate(ctx context.Context, venueID, tableID uint64) (*model.Table, error)
	// TablesForUpdate locks two tables of the same venue in ascending ID
	// order regardless of argument order, then returns them matching the
	// argument order.  The fixed lock order prevents deadlocks between
	// concurrent merge and unmerge operations.
	TablesForUpdate(ctx context.Context, venueID, firstID, secondID uint64) (*model.Table, *model.Table, error)
	UpdateTable(ctx context.Context, t *model.Table) error
	SoftDeleteTable(ctx context.Context, venueID, tableID uint64) error
	ListTables(ctx context.Context, venueID uint64) ([]model.Table, error)
	// HasSecondaries reports whether any active table is merged into the
	// given one.
	HasSecondaries(ctx context.Context, venueID, tableID uint64) (bool, error)

	// Session ledger.
	OpenSession(ctx context.Context, s *model.Session) error
	CloseSession(ctx context.Context, sessionID uint64, at time.Time) error
	GetOpenSession(ctx context.Context, tableID uint64) (*model.Session, error)
	OpenSessionForUpdate(ctx context.Context, tableID uint64) (*model.Session, error)
	ListOpenSessions(ctx context.Context, venueID uint64) ([]model.Session, error)

	// Reservation ledger.
	CreateReservation(ctx context.Context, r *model.Reservation) error
	ReservationForUpdate(ctx context.Context, venueID, reservationID uint64) (*model.Reservation, error)
	UpdateReservation(ctx context.Context, r *model.Reservation) error
	// ListActiveReservations returns all PENDING and CONFIRMED
	// reservations of the venue.
	ListActiveReservations(ctx context.Context, venueID uint64) ([]model.Reservation, error)
	// ActiveReservationsForTable returns the PENDING and CONFIRMED
	// reservations assigned to the given table.
	ActiveReservationsForTable(ctx context.Context, venueID, tableID uint64) ([]model.Reservation, error)
	// HasOverlappingAssigned reports whether any active reservation other
	// than excludeID is assigned to the table with a window intersecting
	// [start, start+minutes).
	HasOverlappingAssigned(ctx context.Context, venueID, tableID uint64, start time.Time, minutes uint32, excludeID uint64) (bool, error)
}
