package engine

import (
	"context"
	"time"

	"github.com/tablekeeper/floorplan/internal/model"
	"github.com/tablekeeper/floorplan/internal/store"
)

// CreateReservation books a party.  The reservation starts PENDING and may
// be created without a table; when a table is given it must exist, not be
// merged away, and have no overlapping active booking.
func (e *Engine) CreateReservation(ctx context.Context, venueID uint64, partySize uint32, startsAt time.Time, durationMinutes uint32, tableID *uint64) (*model.Reservation, error) {
	if partySize == 0 {
		return nil, invalidState("party size must be positive")
	}
	if durationMinutes == 0 {
		return nil, invalidState("duration must be positive")
	}
	var created *model.Reservation
	err := e.store.WithinTx(ctx, func(tx store.Tx) error {
		if tableID != nil {
			t, err := tx.TableForUpdate(ctx, venueID, *tableID)
			if err != nil {
				return err
			}
			if t.Secondary() {
				return invalidState("table %q is merged into another table", t.Label)
			}
			taken, err := tx.HasOverlappingAssigned(ctx, venueID, *tableID, startsAt, durationMinutes, 0)
			if err != nil {
				return err
			}
			if taken {
				return conflict("table %q already has a booking overlapping that window", t.Label)
			}
		}
		r := &model.Reservation{
			VenueID:         venueID,
			TableID:         tableID,
			PartySize:       partySize,
			StartsAt:        startsAt.UTC(),
			DurationMinutes: durationMinutes,
			Status:          model.ReservationPending,
		}
		if err := tx.CreateReservation(ctx, r); err != nil {
			return err
		}
		created = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// AssignReservation links a reservation to a table.  The reservation must
// not be terminal, the table must not be a secondary (merged-away) table,
// and the table must have no other active booking overlapping the window.
func (e *Engine) AssignReservation(ctx context.Context, venueID, reservationID, tableID uint64) (*model.Reservation, error) {
	var assigned *model.Reservation
	err := e.store.WithinTx(ctx, func(tx store.Tx) error {
		r, err := tx.ReservationForUpdate(ctx, venueID, reservationID)
		if err != nil {
			return err
		}
		if r.Status.Terminal() {
			return invalidState("reservation is %s and cannot be assigned", r.Status)
		}
		t, err := tx.TableForUpdate(ctx, venueID, tableID)
		if err != nil {
			return err
		}
		if t.Secondary() {
			return invalidState("table %q is merged into another table", t.Label)
		}
		taken, err := tx.HasOverlappingAssigned(ctx, venueID, tableID, r.StartsAt, r.DurationMinutes, r.ID)
		if err != nil {
			return err
		}
		if taken {
			return conflict("table %q already has a booking overlapping that window", t.Label)
		}
		r.TableID = &tableID
		if err := tx.UpdateReservation(ctx, r); err != nil {
			return err
		}
		assigned = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return assigned, nil
}

// UnassignReservation clears the table linkage while the reservation is
// still PENDING or CONFIRMED.  Once checked in the linkage is immutable.
func (e *Engine) UnassignReservation(ctx context.Context, venueID, reservationID uint64) (*model.Reservation, error) {
	var updated *model.Reservation
	err := e.store.WithinTx(ctx, func(tx store.Tx) error {
		r, err := tx.ReservationForUpdate(ctx, venueID, reservationID)
		if err != nil {
			return err
		}
		if r.Status.Terminal() {
			return invalidState("reservation is %s and cannot be unassigned", r.Status)
		}
		r.TableID = nil
		if err := tx.UpdateReservation(ctx, r); err != nil {
			return err
		}
		updated = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// TransitionReservation moves a reservation to a new status, enforcing the
// terminal-state invariant.
func (e *Engine) TransitionReservation(ctx context.Context, venueID, reservationID uint64, to model.ReservationStatus) (*model.Reservation, error) {
	var updated *model.Reservation
	err := e.store.WithinTx(ctx, func(tx store.Tx) error {
		r, err := tx.ReservationForUpdate(ctx, venueID, reservationID)
		if err != nil {
			return err
		}
		if !model.CanTransitionReservation(r.Status, to) {
			return invalidState("reservation cannot move from %s to %s", r.Status, to)
		}
		r.Status = to
		if err := tx.UpdateReservation(ctx, r); err != nil {
			return err
		}
		updated = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ConfirmReservation transitions a reservation from PENDING to CONFIRMED.
func (e *Engine) ConfirmReservation(ctx context.Context, venueID, reservationID uint64) (*model.Reservation, error) {
	return e.TransitionReservation(ctx, venueID, reservationID, model.ReservationConfirmed)
}

// CancelReservation transitions a reservation to CANCELLED.
func (e *Engine) CancelReservation(ctx context.Context, venueID, reservationID uint64) (*model.Reservation, error) {
	return e.TransitionReservation(ctx, venueID, reservationID, model.ReservationCancelled)
}

// NoShowReservation transitions a reservation to NO_SHOW.
func (e *Engine) NoShowReservation(ctx context.Context, venueID, reservationID uint64) (*model.Reservation, error) {
	return e.TransitionReservation(ctx, venueID, reservationID, model.ReservationNoShow)
}
