package engine

import (
	"context"

	"github.com/tablekeeper/floorplan/internal/model"
	"github.com/tablekeeper/floorplan/internal/queue"
	"github.com/tablekeeper/floorplan/internal/store"
)

// MergeTables absorbs the secondary table into the primary.  Either both
// tables are FREE, or the primary is occupied and absorbs a FREE one; two
// occupied tables never merge and a FREE table never absorbs an occupied
// one.  Merge linkage is exactly one level deep, so neither table may
// already be part of a merge on either side.  The pre-merge label and seat
// count of both rows are snapshotted so that unmerge is an exact inverse.
func (e *Engine) MergeTables(ctx context.Context, venueID, primaryID, secondaryID uint64) (*Result, error) {
	if primaryID == secondaryID {
		return nil, invalidState("a table cannot be merged with itself")
	}
	res := &Result{}
	err := e.store.WithinTx(ctx, func(tx store.Tx) error {
		primary, secondary, err := tx.TablesForUpdate(ctx, venueID, primaryID, secondaryID)
		if err != nil {
			return err
		}
		if primary.Secondary() || secondary.Secondary() {
			return invalidState("tables already part of a merge cannot merge again")
		}
		for _, t := range []*model.Table{primary, secondary} {
			has, err := tx.HasSecondaries(ctx, venueID, t.ID)
			if err != nil {
				return err
			}
			if has {
				return invalidState("table %q already has merged tables", t.Label)
			}
		}
		ps, err := tx.OpenSessionForUpdate(ctx, primaryID)
		if err != nil {
			return err
		}
		ss, err := tx.OpenSessionForUpdate(ctx, secondaryID)
		if err != nil {
			return err
		}
		if ss.Status != model.SessionFree {
			return invalidState("table %q is %s; only a FREE table can be absorbed", secondary.Label, ss.Status)
		}
		if ps.Status != model.SessionFree && !ps.Status.Operational() {
			return invalidState("table %q is %s and cannot absorb another table", primary.Label, ps.Status)
		}

		// Snapshot both rows before overwriting label and capacity.
		pLabel, pSeats := primary.Label, primary.SeatCount
		sLabel, sSeats := secondary.Label, secondary.SeatCount
		primary.PreMergeLabel = &pLabel
		primary.PreMergeSeats = &pSeats
		secondary.PreMergeLabel = &sLabel
		secondary.PreMergeSeats = &sSeats

		primary.Label = pLabel + " + " + sLabel
		primary.SeatCount = pSeats + sSeats
		secondary.MergedWith = &primary.ID

		// The secondary disappears from the floor while merged and cannot
		// host, so any reservations assigned to it go back to the waiting
		// list just as they do when a table is removed.
		held, err := tx.ActiveReservationsForTable(ctx, venueID, secondaryID)
		if err != nil {
			return err
		}
		for i := range held {
			held[i].TableID = nil
			if err := tx.UpdateReservation(ctx, &held[i]); err != nil {
				return err
			}
		}

		if err := tx.UpdateTable(ctx, primary); err != nil {
			return err
		}
		if err := tx.UpdateTable(ctx, secondary); err != nil {
			return err
		}
		if err := tx.CloseSession(ctx, ss.ID, e.now().UTC()); err != nil {
			return err
		}
		merged := &model.Session{
			TableID:           secondaryID,
			VenueID:           venueID,
			Status:            model.SessionMerged,
			OpenedAt:          e.now().UTC(),
			MergedWithTableID: &primary.ID,
		}
		if err := tx.OpenSession(ctx, merged); err != nil {
			return err
		}
		// The primary's own session is left untouched.
		res.Table = primary
		res.Secondary = secondary
		res.Session = ps
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.emit(ctx, queue.TableTransitionEvent{
		VenueID:      venueID,
		TableID:      primaryID,
		TableLabel:   res.Table.Label,
		Operation:    "merge",
		OtherTableID: &secondaryID,
	})
	return res, nil
}

// UnmergeTable splits a secondary table back out of its primary, restoring
// both tables' label and seat count from the snapshots taken at merge time
// and reopening an independent FREE session on the secondary.
func (e *Engine) UnmergeTable(ctx context.Context, venueID, secondaryID uint64) (*Result, error) {
	res := &Result{}
	var primaryID uint64
	err := e.store.WithinTx(ctx, func(tx store.Tx) error {
		// Find the primary without locking, then lock both rows in ID
		// order and re-verify the linkage under the locks.
		peek, err := tx.GetTable(ctx, venueID, secondaryID)
		if err != nil {
			return err
		}
		if !peek.Secondary() {
			return invalidState("table %q is not merged", peek.Label)
		}
		secondary, primary, err := tx.TablesForUpdate(ctx, venueID, secondaryID, *peek.MergedWith)
		if err != nil {
			return err
		}
		if secondary.MergedWith == nil || *secondary.MergedWith != primary.ID {
			return conflict("merge linkage changed concurrently")
		}
		if primary.PreMergeLabel == nil || primary.PreMergeSeats == nil ||
			secondary.PreMergeLabel == nil || secondary.PreMergeSeats == nil {
			return invalidState("merge snapshot missing for table %q", secondary.Label)
		}

		primary.Label = *primary.PreMergeLabel
		primary.SeatCount = *primary.PreMergeSeats
		primary.PreMergeLabel = nil
		primary.PreMergeSeats = nil

		secondary.Label = *secondary.PreMergeLabel
		secondary.SeatCount = *secondary.PreMergeSeats
		secondary.PreMergeLabel = nil
		secondary.PreMergeSeats = nil
		secondary.MergedWith = nil

		if err := tx.UpdateTable(ctx, primary); err != nil {
			return err
		}
		if err := tx.UpdateTable(ctx, secondary); err != nil {
			return err
		}
		ms, err := tx.OpenSessionForUpdate(ctx, secondaryID)
		if err != nil {
			return err
		}
		if err := tx.CloseSession(ctx, ms.ID, e.now().UTC()); err != nil {
			return err
		}
		free := &model.Session{TableID: secondaryID, VenueID: venueID, Status: model.SessionFree, OpenedAt: e.now().UTC()}
		if err := tx.OpenSession(ctx, free); err != nil {
			return err
		}
		primaryID = primary.ID
		res.Table = primary
		res.Secondary = secondary
		res.Session = free
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.emit(ctx, queue.TableTransitionEvent{
		VenueID:      venueID,
		TableID:      primaryID,
		TableLabel:   res.Table.Label,
		Operation:    "unmerge",
		OtherTableID: &secondaryID,
	})
	return res, nil
}
