package engine

import (
	"context"

	"github.com/tablekeeper/floorplan/internal/model"
	"github.com/tablekeeper/floorplan/internal/queue"
	"github.com/tablekeeper/floorplan/internal/store"
)

// SeatParty seats a walk-in or reserved party at a FREE table.  The FREE
// session is closed and an ORDERING session opened in its place.  When a
// reservation is supplied it must be PENDING or CONFIRMED and assigned to
// this table; it is checked in within the same transaction.
func (e *Engine) SeatParty(ctx context.Context, venueID, tableID uint64, reservationID, serverID *uint64) (*Result, error) {
	res := &Result{}
	err := e.store.WithinTx(ctx, func(tx store.Tx) error {
		t, err := tx.TableForUpdate(ctx, venueID, tableID)
		if err != nil {
			return err
		}
		if t.Secondary() {
			return invalidState("table %q is merged into another table", t.Label)
		}
		s, err := tx.OpenSessionForUpdate(ctx, tableID)
		if err != nil {
			return err
		}
		if s.Status != model.SessionFree {
			return invalidState("table %q is %s, not FREE", t.Label, s.Status)
		}
		if err := tx.CloseSession(ctx, s.ID, e.now().UTC()); err != nil {
			return err
		}
		next := &model.Session{
			TableID:  tableID,
			VenueID:  venueID,
			Status:   model.SessionOrdering,
			OpenedAt: e.now().UTC(),
			ServerID: serverID,
		}
		if err := tx.OpenSession(ctx, next); err != nil {
			return err
		}
		if reservationID != nil {
			r, err := tx.ReservationForUpdate(ctx, venueID, *reservationID)
			if err != nil {
				return err
			}
			if r.TableID == nil || *r.TableID != tableID {
				return store.ErrReservationNotFound
			}
			if !model.CanTransitionReservation(r.Status, model.ReservationCheckedIn) {
				return invalidState("reservation is %s and cannot be checked in", r.Status)
			}
			r.Status = model.ReservationCheckedIn
			if err := tx.UpdateReservation(ctx, r); err != nil {
				return err
			}
			res.Reservation = r
		}
		res.Table = t
		res.Session = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.emit(ctx, queue.TableTransitionEvent{
		VenueID:       venueID,
		TableID:       tableID,
		TableLabel:    res.Table.Label,
		Operation:     "seat",
		FromStatus:    string(model.SessionFree),
		ToStatus:      string(model.SessionOrdering),
		ReservationID: reservationID,
	})
	return res, nil
}

// CloseTable returns a table to FREE once billing is complete.  The open
// session must already be AWAITING_BILL; the check fails fast rather than
// waiting on the payment system.  Closing an already FREE table is a
// successful no-op so client retries after a timeout stay safe.
func (e *Engine) CloseTable(ctx context.Context, venueID, tableID uint64) (*Result, error) {
	res := &Result{}
	var from model.SessionStatus
	err := e.store.WithinTx(ctx, func(tx store.Tx) error {
		t, err := tx.TableForUpdate(ctx, venueID, tableID)
		if err != nil {
			return err
		}
		if t.Secondary() {
			return invalidState("table %q is merged into another table", t.Label)
		}
		s, err := tx.OpenSessionForUpdate(ctx, tableID)
		if err != nil {
			return err
		}
		if s.Status == model.SessionFree {
			res.Table = t
			res.Session = s
			res.NoOp = true
			return nil
		}
		if s.Status != model.SessionAwaitingBill {
			return invalidState("table %q is %s; the bill must be settled first", t.Label, s.Status)
		}
		from = s.Status
		if err := tx.CloseSession(ctx, s.ID, e.now().UTC()); err != nil {
			return err
		}
		next := &model.Session{TableID: tableID, VenueID: venueID, Status: model.SessionFree, OpenedAt: e.now().UTC()}
		if err := tx.OpenSession(ctx, next); err != nil {
			return err
		}
		res.Table = t
		res.Session = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !res.NoOp {
		e.emit(ctx, queue.TableTransitionEvent{
			VenueID:    venueID,
			TableID:    tableID,
			TableLabel: res.Table.Label,
			Operation:  "close",
			FromStatus: string(from),
			ToStatus:   string(model.SessionFree),
		})
	}
	return res, nil
}

// AdvanceStatus moves the open session one step forward along the
// operational path ORDERING, IN_PREP, READY, SERVED, AWAITING_BILL.  Any
// skip or backward move is rejected.
func (e *Engine) AdvanceStatus(ctx context.Context, venueID, tableID uint64, next model.SessionStatus) (*Result, error) {
	res := &Result{}
	var from model.SessionStatus
	err := e.store.WithinTx(ctx, func(tx store.Tx) error {
		t, err := tx.TableForUpdate(ctx, venueID, tableID)
		if err != nil {
			return err
		}
		if t.Secondary() {
			return invalidState("table %q is merged into another table", t.Label)
		}
		s, err := tx.OpenSessionForUpdate(ctx, tableID)
		if err != nil {
			return err
		}
		if !model.CanAdvance(s.Status, next) {
			return invalidState("cannot advance table %q from %s to %s", t.Label, s.Status, next)
		}
		from = s.Status
		if err := tx.CloseSession(ctx, s.ID, e.now().UTC()); err != nil {
			return err
		}
		opened := &model.Session{
			TableID:  tableID,
			VenueID:  venueID,
			Status:   next,
			OpenedAt: e.now().UTC(),
			ServerID: s.ServerID,
		}
		if err := tx.OpenSession(ctx, opened); err != nil {
			return err
		}
		res.Table = t
		res.Session = opened
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.emit(ctx, queue.TableTransitionEvent{
		VenueID:    venueID,
		TableID:    tableID,
		TableLabel: res.Table.Label,
		Operation:  "advance",
		FromStatus: string(from),
		ToStatus:   string(next),
	})
	return res, nil
}
