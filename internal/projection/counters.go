package projection

import (
	"context"

	"github.com/tablekeeper/floorplan/internal/model"
	"github.com/tablekeeper/floorplan/internal/store"
)

// Counters derives the venue dashboard counts from a single snapshot of
// the three ledgers.  The result is recomputed on every call; it is never
// kept as mutable shared state across requests.
func (p *Reader) Counters(ctx context.Context, venueID uint64) (*model.Counters, error) {
	var out model.Counters
	err := p.store.WithinTx(ctx, func(tx store.Tx) error {
		tables, sessions, reservations, err := snapshot(ctx, tx, venueID)
		if err != nil {
			return err
		}
		now := p.now()
		for i := range tables {
			t := &tables[i]
			if t.Secondary() {
				continue
			}
			out.TablesSetUp++
			ls := Compute(t.ID, sessions[t.ID], reservations[t.ID], now)
			if ls.CurrentState == model.StateOccupied {
				out.InUseNow++
			}
			switch ls.ReservationState {
			case model.ReservedNow:
				out.ReservedNow++
			case model.ReservedLater:
				out.ReservedLater++
			}
		}
		active, err := tx.ListActiveReservations(ctx, venueID)
		if err != nil {
			return err
		}
		for _, r := range active {
			if r.TableID == nil {
				out.Waiting++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
