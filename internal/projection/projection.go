// Package projection computes the read-side views over the three ledgers:
// the per-table layered status and the venue dashboard counters.  Nothing
// here is persisted or cached inside the process; every call derives the
// view from one consistent store snapshot so the occupancy layer and the
// reservation layer can never drift apart.
package projection

import (
	"context"
	"time"

	"github.com/tablekeeper/floorplan/internal/model"
	"github.com/tablekeeper/floorplan/internal/store"
)

// Reader serves projection queries over a store.
type Reader struct {
	store store.Store
	now   func() time.Time
}

// New returns a Reader over the given store.
func New(st store.Store) *Reader {
	return &Reader{store: st, now: time.Now}
}

// Compute derives the two-layer status from a table's open session and its
// active reservations.  The layers are independent by construction: the
// session feeds only CurrentState and the reservations feed only
// ReservationState.
func Compute(tableID uint64, sess *model.Session, reservations []model.Reservation, now time.Time) model.LayeredStatus {
	ls := model.LayeredStatus{
		TableID:          tableID,
		CurrentState:     model.StateFree,
		SessionStatus:    model.SessionFree,
		ReservationState: model.ReservedNone,
	}
	if sess != nil {
		ls.SessionStatus = sess.Status
		if sess.Status.Operational() {
			ls.CurrentState = model.StateOccupied
		}
	}
	for i := range reservations {
		r := &reservations[i]
		if r.Covers(now) {
			ls.ReservationState = model.ReservedNow
			break
		}
		if r.StartsAt.After(now) {
			ls.ReservationState = model.ReservedLater
		}
	}
	return ls
}

// TableStatus returns the layered status for one table.  A secondary table
// resolves to its primary before lookup, so callers asking about a merged
// table see the primary's status.
func (p *Reader) TableStatus(ctx context.Context, venueID, tableID uint64) (*model.LayeredStatus, error) {
	var out model.LayeredStatus
	err := p.store.WithinTx(ctx, func(tx store.Tx) error {
		t, err := tx.GetTable(ctx, venueID, tableID)
		if err != nil {
			return err
		}
		if t.Secondary() {
			t, err = tx.GetTable(ctx, venueID, *t.MergedWith)
			if err != nil {
				return err
			}
		}
		sess, err := tx.GetOpenSession(ctx, t.ID)
		if err != nil {
			return err
		}
		rs, err := tx.ActiveReservationsForTable(ctx, venueID, t.ID)
		if err != nil {
			return err
		}
		out = Compute(t.ID, sess, rs, p.now())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// FloorTable pairs a table with its projected status for the floor view.
type FloorTable struct {
	Table  model.Table         `json:"table"`
	Status model.LayeredStatus `json:"status"`
}

// Floor returns all non-secondary tables of the venue with their layered
// status.  Secondary (merged-away) tables are suppressed; their capacity is
// already reflected in their primary's seat count.
func (p *Reader) Floor(ctx context.Context, venueID uint64) ([]FloorTable, error) {
	var out []FloorTable
	err := p.store.WithinTx(ctx, func(tx store.Tx) error {
		tables, sessions, reservations, err := snapshot(ctx, tx, venueID)
		if err != nil {
			return err
		}
		now := p.now()
		out = make([]FloorTable, 0, len(tables))
		for i := range tables {
			t := &tables[i]
			if t.Secondary() {
				continue
			}
			out = append(out, FloorTable{
				Table:  *t,
				Status: Compute(t.ID, sessions[t.ID], reservations[t.ID], now),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Reservations lists the venue's active reservations, optionally narrowed
// to the unassigned ones waiting for a table.
func (p *Reader) Reservations(ctx context.Context, venueID uint64, unassignedOnly bool) ([]model.Reservation, error) {
	var out []model.Reservation
	err := p.store.WithinTx(ctx, func(tx store.Tx) error {
		rs, err := tx.ListActiveReservations(ctx, venueID)
		if err != nil {
			return err
		}
		out = make([]model.Reservation, 0, len(rs))
		for _, r := range rs {
			if unassignedOnly && r.TableID != nil {
				continue
			}
			out = append(out, r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// snapshot loads the venue's tables, open sessions keyed by table and
// active reservations grouped by assigned table, all within one
// transaction so the counts cannot skew between the three ledgers.
func snapshot(ctx context.Context, tx store.Tx, venueID uint64) ([]model.Table, map[uint64]*model.Session, map[uint64][]model.Reservation, error) {
	tables, err := tx.ListTables(ctx, venueID)
	if err != nil {
		return nil, nil, nil, err
	}
	open, err := tx.ListOpenSessions(ctx, venueID)
	if err != nil {
		return nil, nil, nil, err
	}
	sessions := make(map[uint64]*model.Session, len(open))
	for i := range open {
		sessions[open[i].TableID] = &open[i]
	}
	active, err := tx.ListActiveReservations(ctx, venueID)
	if err != nil {
		return nil, nil, nil, err
	}
	reservations := make(map[uint64][]model.Reservation)
	for _, r := range active {
		if r.TableID != nil {
			reservations[*r.TableID] = append(reservations[*r.TableID], r)
		}
	}
	return tables, sessions, reservations, nil
}
