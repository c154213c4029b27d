package engine

import (
	"context"
	"strings"

	"github.com/tablekeeper/floorplan/internal/model"
	"github.com/tablekeeper/floorplan/internal/store"
)

// CreateTable adds a table to the venue's floor plan and opens its initial
// FREE session in the same transaction, so every active table always has
// exactly one open session.
func (e *Engine) CreateTable(ctx context.Context, venueID uint64, label string, seatCount uint32) (*model.Table, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, invalidState("label must not be empty")
	}
	if seatCount == 0 {
		return nil, invalidState("seat count must be positive")
	}
	var created *model.Table
	err := e.store.WithinTx(ctx, func(tx store.Tx) error {
		t := &model.Table{VenueID: venueID, Label: label, SeatCount: seatCount, Active: true}
		if err := tx.CreateTable(ctx, t); err != nil {
			return err
		}
		s := &model.Session{TableID: t.ID, VenueID: venueID, Status: model.SessionFree, OpenedAt: e.now().UTC()}
		if err := tx.OpenSession(ctx, s); err != nil {
			return err
		}
		created = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateTable applies a label and/or seat count change in a single
// transaction, so a request carrying both fields either fully commits or
// leaves the table untouched.  Nil fields keep their current value.
// Secondary tables are frozen while merged; only the primary may be
// mutated.
func (e *Engine) UpdateTable(ctx context.Context, venueID, tableID uint64, label *string, seatCount *uint32) (*model.Table, error) {
	if label == nil && seatCount == nil {
		return nil, invalidState("nothing to update")
	}
	var newLabel string
	if label != nil {
		newLabel = strings.TrimSpace(*label)
		if newLabel == "" {
			return nil, invalidState("label must not be empty")
		}
	}
	if seatCount != nil && *seatCount == 0 {
		return nil, invalidState("seat count must be positive")
	}
	return e.updateTable(ctx, venueID, tableID, func(t *model.Table) {
		if label != nil {
			t.Label = newLabel
		}
		if seatCount != nil {
			t.SeatCount = *seatCount
		}
	})
}

// RenameTable changes a table's display label.
func (e *Engine) RenameTable(ctx context.Context, venueID, tableID uint64, label string) (*model.Table, error) {
	return e.UpdateTable(ctx, venueID, tableID, &label, nil)
}

// ResizeTable changes a table's seat count.
func (e *Engine) ResizeTable(ctx context.Context, venueID, tableID uint64, seatCount uint32) (*model.Table, error) {
	return e.UpdateTable(ctx, venueID, tableID, nil, &seatCount)
}

func (e *Engine) updateTable(ctx context.Context, venueID, tableID uint64, mutate func(*model.Table)) (*model.Table, error) {
	var updated *model.Table
	err := e.store.WithinTx(ctx, func(tx store.Tx) error {
		t, err := tx.TableForUpdate(ctx, venueID, tableID)
		if err != nil {
			return err
		}
		if t.Secondary() {
			return invalidState("table %q is merged; unmerge it first", t.Label)
		}
		mutate(t)
		if err := tx.UpdateTable(ctx, t); err != nil {
			return err
		}
		updated = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteTable removes a table from the floor plan.  The row is soft
// deleted so session history survives; the table must be FREE and not
// involved in a merge, and any active reservations pointing at it are
// unassigned so they reappear on the waiting list.
func (e *Engine) DeleteTable(ctx context.Context, venueID, tableID uint64) error {
	return e.store.WithinTx(ctx, func(tx store.Tx) error {
		t, err := tx.TableForUpdate(ctx, venueID, tableID)
		if err != nil {
			return err
		}
		if t.Secondary() {
			return invalidState("table %q is merged; unmerge it first", t.Label)
		}
		has, err := tx.HasSecondaries(ctx, venueID, tableID)
		if err != nil {
			return err
		}
		if has {
			return invalidState("table %q has merged tables; unmerge them first", t.Label)
		}
		s, err := tx.OpenSessionForUpdate(ctx, tableID)
		if err != nil {
			return err
		}
		if s.Status != model.SessionFree {
			return invalidState("table %q is %s, close it before removing", t.Label, s.Status)
		}
		if err := tx.CloseSession(ctx, s.ID, e.now().UTC()); err != nil {
			return err
		}
		held, err := tx.ActiveReservationsForTable(ctx, venueID, tableID)
		if err != nil {
			return err
		}
		for i := range held {
			held[i].TableID = nil
			if err := tx.UpdateReservation(ctx, &held[i]); err != nil {
				return err
			}
		}
		return tx.SoftDeleteTable(ctx, venueID, tableID)
	})
}
