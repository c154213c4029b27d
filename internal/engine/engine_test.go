package engine_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tablekeeper/floorplan/internal/engine"
	"github.com/tablekeeper/floorplan/internal/model"
	"github.com/tablekeeper/floorplan/internal/queue"
	"github.com/tablekeeper/floorplan/internal/store"
	"github.com/tablekeeper/floorplan/internal/store/memstore"
)

const venue = uint64(1)

// eventLog records published transition events for assertions.
type eventLog struct {
	mu     sync.Mutex
	events []queue.TableTransitionEvent
}

func (l *eventLog) publish(_ context.Context, ev queue.TableTransitionEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
}

func (l *eventLog) ops() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.events))
	for i, ev := range l.events {
		out[i] = ev.Operation
	}
	return out
}

func newEngine(t *testing.T) (*engine.Engine, *memstore.Store, *eventLog) {
	t.Helper()
	st := memstore.New()
	log := &eventLog{}
	return engine.New(st, log.publish), st, log
}

func mustCreateTable(t *testing.T, eng *engine.Engine, label string, seats uint32) uint64 {
	t.Helper()
	tbl, err := eng.CreateTable(context.Background(), venue, label, seats)
	if err != nil {
		t.Fatalf("create table %q: %v", label, err)
	}
	return tbl.ID
}

func getTable(t *testing.T, st *memstore.Store, id uint64) *model.Table {
	t.Helper()
	var out *model.Table
	err := st.WithinTx(context.Background(), func(tx store.Tx) error {
		tbl, err := tx.GetTable(context.Background(), venue, id)
		if err != nil {
			return err
		}
		out = tbl
		return nil
	})
	if err != nil {
		t.Fatalf("get table %d: %v", id, err)
	}
	return out
}

func openStatus(t *testing.T, st *memstore.Store, id uint64) model.SessionStatus {
	t.Helper()
	var status model.SessionStatus
	err := st.WithinTx(context.Background(), func(tx store.Tx) error {
		s, err := tx.GetOpenSession(context.Background(), id)
		if err != nil {
			return err
		}
		status = s.Status
		return nil
	})
	if err != nil {
		t.Fatalf("open session of %d: %v", id, err)
	}
	return status
}

func TestCreateTableOpensFreeSession(t *testing.T) {
	t.Parallel()
	eng, st, _ := newEngine(t)
	id := mustCreateTable(t, eng, "T1", 4)
	if got := openStatus(t, st, id); got != model.SessionFree {
		t.Fatalf("new table should be FREE, got %s", got)
	}
}

func TestCreateTableRejectsBadInput(t *testing.T) {
	t.Parallel()
	eng, _, _ := newEngine(t)
	if _, err := eng.CreateTable(context.Background(), venue, "  ", 4); !errors.Is(err, store.ErrInvalidState) {
		t.Fatalf("blank label: want ErrInvalidState, got %v", err)
	}
	if _, err := eng.CreateTable(context.Background(), venue, "T1", 0); !errors.Is(err, store.ErrInvalidState) {
		t.Fatalf("zero seats: want ErrInvalidState, got %v", err)
	}
}

func TestUpdateTableAppliesBothFieldsOrNeither(t *testing.T) {
	t.Parallel()
	eng, st, _ := newEngine(t)
	id := mustCreateTable(t, eng, "T1", 4)
	ctx := context.Background()

	label := "Patio 1"
	zero := uint32(0)
	if _, err := eng.UpdateTable(ctx, venue, id, &label, &zero); !errors.Is(err, store.ErrInvalidState) {
		t.Fatalf("zero seat count should be rejected, got %v", err)
	}
	tbl := getTable(t, st, id)
	if tbl.Label != "T1" || tbl.SeatCount != 4 {
		t.Fatalf("rejected update must leave the table untouched, got %q/%d", tbl.Label, tbl.SeatCount)
	}

	seats := uint32(6)
	updated, err := eng.UpdateTable(ctx, venue, id, &label, &seats)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Label != "Patio 1" || updated.SeatCount != 6 {
		t.Fatalf("update applied %q/%d, want \"Patio 1\"/6", updated.Label, updated.SeatCount)
	}

	if _, err := eng.UpdateTable(ctx, venue, id, nil, nil); !errors.Is(err, store.ErrInvalidState) {
		t.Fatalf("empty update should be rejected, got %v", err)
	}
}

func TestSeatAdvanceCloseLifecycle(t *testing.T) {
	t.Parallel()
	eng, st, log := newEngine(t)
	id := mustCreateTable(t, eng, "T1", 4)
	ctx := context.Background()

	res, err := eng.SeatParty(ctx, venue, id, nil, nil)
	if err != nil {
		t.Fatalf("seat: %v", err)
	}
	if res.Session.Status != model.SessionOrdering {
		t.Fatalf("after seating: want ORDERING, got %s", res.Session.Status)
	}

	for _, next := range []model.SessionStatus{model.SessionInPrep, model.SessionReady, model.SessionServed, model.SessionAwaitingBill} {
		res, err = eng.AdvanceStatus(ctx, venue, id, next)
		if err != nil {
			t.Fatalf("advance to %s: %v", next, err)
		}
		if res.Session.Status != next {
			t.Fatalf("advance to %s landed on %s", next, res.Session.Status)
		}
	}

	res, err = eng.CloseTable(ctx, venue, id)
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if res.NoOp {
		t.Fatal("closing an AWAITING_BILL table is not a no-op")
	}
	if got := openStatus(t, st, id); got != model.SessionFree {
		t.Fatalf("after close: want FREE, got %s", got)
	}

	want := []string{"seat", "advance", "advance", "advance", "advance", "close"}
	got := log.ops()
	if len(got) != len(want) {
		t.Fatalf("want %d events, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d: want %s, got %s", i, want[i], got[i])
		}
	}
}

func TestAdvanceRejectsSkipsAndBackwardMoves(t *testing.T) {
	t.Parallel()
	eng, _, _ := newEngine(t)
	id := mustCreateTable(t, eng, "T1", 4)
	ctx := context.Background()
	if _, err := eng.SeatParty(ctx, venue, id, nil, nil); err != nil {
		t.Fatalf("seat: %v", err)
	}
	if _, err := eng.AdvanceStatus(ctx, venue, id, model.SessionReady); !errors.Is(err, store.ErrInvalidState) {
		t.Fatalf("skip: want ErrInvalidState, got %v", err)
	}
	if _, err := eng.AdvanceStatus(ctx, venue, id, model.SessionInPrep); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if _, err := eng.AdvanceStatus(ctx, venue, id, model.SessionOrdering); !errors.Is(err, store.ErrInvalidState) {
		t.Fatalf("backward: want ErrInvalidState, got %v", err)
	}
}

func TestSeatOccupiedTableFails(t *testing.T) {
	t.Parallel()
	eng, _, _ := newEngine(t)
	id := mustCreateTable(t, eng, "T1", 4)
	ctx := context.Background()
	if _, err := eng.SeatParty(ctx, venue, id, nil, nil); err != nil {
		t.Fatalf("seat: %v", err)
	}
	if _, err := eng.SeatParty(ctx, venue, id, nil, nil); !errors.Is(err, store.ErrInvalidState) {
		t.Fatalf("double seat: want ErrInvalidState, got %v", err)
	}
}

func TestCloseFreeTableIsIdempotentNoOp(t *testing.T) {
	t.Parallel()
	eng, _, log := newEngine(t)
	id := mustCreateTable(t, eng, "T1", 4)
	res, err := eng.CloseTable(context.Background(), venue, id)
	if err != nil {
		t.Fatalf("close free table: %v", err)
	}
	if !res.NoOp {
		t.Fatal("closing a FREE table should report NoOp")
	}
	if ops := log.ops(); len(ops) != 0 {
		t.Fatalf("no-op close must not publish events, got %v", ops)
	}
}

func TestCloseRequiresAwaitingBill(t *testing.T) {
	t.Parallel()
	eng, _, _ := newEngine(t)
	id := mustCreateTable(t, eng, "T1", 4)
	ctx := context.Background()
	if _, err := eng.SeatParty(ctx, venue, id, nil, nil); err != nil {
		t.Fatalf("seat: %v", err)
	}
	if _, err := eng.CloseTable(ctx, venue, id); !errors.Is(err, store.ErrInvalidState) {
		t.Fatalf("close ORDERING table: want ErrInvalidState, got %v", err)
	}
}

func TestMergeAndUnmergeRoundTrip(t *testing.T) {
	t.Parallel()
	eng, st, log := newEngine(t)
	t1 := mustCreateTable(t, eng, "T1", 4)
	t2 := mustCreateTable(t, eng, "T2", 2)
	ctx := context.Background()

	res, err := eng.MergeTables(ctx, venue, t1, t2)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if res.Table.Label != "T1 + T2" || res.Table.SeatCount != 6 {
		t.Fatalf("merged primary: want \"T1 + T2\"/6, got %q/%d", res.Table.Label, res.Table.SeatCount)
	}
	if got := openStatus(t, st, t2); got != model.SessionMerged {
		t.Fatalf("secondary session: want MERGED, got %s", got)
	}
	sec := getTable(t, st, t2)
	if sec.MergedWith == nil || *sec.MergedWith != t1 {
		t.Fatalf("secondary should point at primary, got %+v", sec.MergedWith)
	}

	if _, err := eng.UnmergeTable(ctx, venue, t2); err != nil {
		t.Fatalf("unmerge: %v", err)
	}
	p, s := getTable(t, st, t1), getTable(t, st, t2)
	if p.Label != "T1" || p.SeatCount != 4 {
		t.Fatalf("primary not restored: %q/%d", p.Label, p.SeatCount)
	}
	if s.Label != "T2" || s.SeatCount != 2 || s.MergedWith != nil {
		t.Fatalf("secondary not restored: %q/%d merged=%v", s.Label, s.SeatCount, s.MergedWith)
	}
	if got := openStatus(t, st, t2); got != model.SessionFree {
		t.Fatalf("secondary after unmerge: want FREE, got %s", got)
	}
	want := []string{"merge", "unmerge"}
	if got := log.ops(); len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("events: want %v, got %v", want, got)
	}
}

func getReservation(t *testing.T, st *memstore.Store, id uint64) *model.Reservation {
	t.Helper()
	var out *model.Reservation
	err := st.WithinTx(context.Background(), func(tx store.Tx) error {
		r, err := tx.ReservationForUpdate(context.Background(), venue, id)
		if err != nil {
			return err
		}
		out = r
		return nil
	})
	if err != nil {
		t.Fatalf("get reservation %d: %v", id, err)
	}
	return out
}

func TestMergeReturnsSecondaryReservationsToWaitingList(t *testing.T) {
	t.Parallel()
	eng, st, _ := newEngine(t)
	t1 := mustCreateTable(t, eng, "T1", 4)
	t2 := mustCreateTable(t, eng, "T2", 2)
	ctx := context.Background()

	r, err := eng.CreateReservation(ctx, venue, 2, time.Now().UTC().Add(2*time.Hour), 60, &t2)
	if err != nil {
		t.Fatalf("create reservation: %v", err)
	}
	if _, err := eng.MergeTables(ctx, venue, t1, t2); err != nil {
		t.Fatalf("merge: %v", err)
	}
	got := getReservation(t, st, r.ID)
	if got.TableID != nil {
		t.Fatalf("reservation should be unassigned after merge, still on table %d", *got.TableID)
	}
	if got.Status != model.ReservationPending {
		t.Fatalf("status = %s, want PENDING", got.Status)
	}
}

func TestMergeOccupiedPrimaryAbsorbsFreeTable(t *testing.T) {
	t.Parallel()
	eng, st, _ := newEngine(t)
	t1 := mustCreateTable(t, eng, "T1", 4)
	t2 := mustCreateTable(t, eng, "T2", 2)
	ctx := context.Background()
	if _, err := eng.SeatParty(ctx, venue, t1, nil, nil); err != nil {
		t.Fatalf("seat primary: %v", err)
	}
	if _, err := eng.MergeTables(ctx, venue, t1, t2); err != nil {
		t.Fatalf("occupied primary should absorb a FREE table: %v", err)
	}
	// The primary's operational session is untouched by the merge.
	if got := openStatus(t, st, t1); got != model.SessionOrdering {
		t.Fatalf("primary session: want ORDERING, got %s", got)
	}
}

func TestMergeEligibility(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("occupied secondary rejected", func(t *testing.T) {
		t.Parallel()
		eng, _, _ := newEngine(t)
		t1 := mustCreateTable(t, eng, "T1", 4)
		t2 := mustCreateTable(t, eng, "T2", 2)
		if _, err := eng.SeatParty(ctx, venue, t2, nil, nil); err != nil {
			t.Fatalf("seat: %v", err)
		}
		if _, err := eng.MergeTables(ctx, venue, t1, t2); !errors.Is(err, store.ErrInvalidState) {
			t.Fatalf("want ErrInvalidState, got %v", err)
		}
	})

	t.Run("self merge rejected", func(t *testing.T) {
		t.Parallel()
		eng, _, _ := newEngine(t)
		t1 := mustCreateTable(t, eng, "T1", 4)
		if _, err := eng.MergeTables(ctx, venue, t1, t1); !errors.Is(err, store.ErrInvalidState) {
			t.Fatalf("want ErrInvalidState, got %v", err)
		}
	})

	t.Run("secondary cannot merge again", func(t *testing.T) {
		t.Parallel()
		eng, _, _ := newEngine(t)
		t1 := mustCreateTable(t, eng, "T1", 4)
		t2 := mustCreateTable(t, eng, "T2", 2)
		t3 := mustCreateTable(t, eng, "T3", 2)
		if _, err := eng.MergeTables(ctx, venue, t1, t2); err != nil {
			t.Fatalf("merge: %v", err)
		}
		if _, err := eng.MergeTables(ctx, venue, t2, t3); !errors.Is(err, store.ErrInvalidState) {
			t.Fatalf("merged-away primary: want ErrInvalidState, got %v", err)
		}
		if _, err := eng.MergeTables(ctx, venue, t3, t2); !errors.Is(err, store.ErrInvalidState) {
			t.Fatalf("merged-away secondary: want ErrInvalidState, got %v", err)
		}
	})

	t.Run("primary with secondaries cannot merge again", func(t *testing.T) {
		t.Parallel()
		eng, _, _ := newEngine(t)
		t1 := mustCreateTable(t, eng, "T1", 4)
		t2 := mustCreateTable(t, eng, "T2", 2)
		t3 := mustCreateTable(t, eng, "T3", 2)
		if _, err := eng.MergeTables(ctx, venue, t1, t2); err != nil {
			t.Fatalf("merge: %v", err)
		}
		if _, err := eng.MergeTables(ctx, venue, t1, t3); !errors.Is(err, store.ErrInvalidState) {
			t.Fatalf("deep merge: want ErrInvalidState, got %v", err)
		}
	})

	t.Run("unmerge non-merged table rejected", func(t *testing.T) {
		t.Parallel()
		eng, _, _ := newEngine(t)
		t1 := mustCreateTable(t, eng, "T1", 4)
		if _, err := eng.UnmergeTable(ctx, venue, t1); !errors.Is(err, store.ErrInvalidState) {
			t.Fatalf("want ErrInvalidState, got %v", err)
		}
	})
}

func TestTransitionsRejectSecondaryTables(t *testing.T) {
	t.Parallel()
	eng, _, _ := newEngine(t)
	t1 := mustCreateTable(t, eng, "T1", 4)
	t2 := mustCreateTable(t, eng, "T2", 2)
	ctx := context.Background()
	if _, err := eng.MergeTables(ctx, venue, t1, t2); err != nil {
		t.Fatalf("merge: %v", err)
	}
	if _, err := eng.SeatParty(ctx, venue, t2, nil, nil); !errors.Is(err, store.ErrInvalidState) {
		t.Fatalf("seat secondary: want ErrInvalidState, got %v", err)
	}
	if _, err := eng.CloseTable(ctx, venue, t2); !errors.Is(err, store.ErrInvalidState) {
		t.Fatalf("close secondary: want ErrInvalidState, got %v", err)
	}
	if _, err := eng.RenameTable(ctx, venue, t2, "X"); !errors.Is(err, store.ErrInvalidState) {
		t.Fatalf("rename secondary: want ErrInvalidState, got %v", err)
	}
}

func TestConcurrentSeatExactlyOneWins(t *testing.T) {
	t.Parallel()
	eng, _, _ := newEngine(t)
	id := mustCreateTable(t, eng, "T1", 4)

	const workers = 8
	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := eng.SeatParty(context.Background(), venue, id, nil, nil)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var won, lost int
	for err := range errs {
		switch {
		case err == nil:
			won++
		case errors.Is(err, store.ErrInvalidState):
			lost++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if won != 1 || lost != workers-1 {
		t.Fatalf("want exactly one winner, got %d winners and %d losers", won, lost)
	}
}

func TestSeatWithReservationChecksIn(t *testing.T) {
	t.Parallel()
	eng, _, _ := newEngine(t)
	id := mustCreateTable(t, eng, "T1", 4)
	ctx := context.Background()
	r, err := eng.CreateReservation(ctx, venue, 2, time.Now().UTC().Add(time.Hour), 90, &id)
	if err != nil {
		t.Fatalf("create reservation: %v", err)
	}
	res, err := eng.SeatParty(ctx, venue, id, &r.ID, nil)
	if err != nil {
		t.Fatalf("seat with reservation: %v", err)
	}
	if res.Reservation == nil || res.Reservation.Status != model.ReservationCheckedIn {
		t.Fatalf("reservation should be CHECKED_IN, got %+v", res.Reservation)
	}
}

func TestSeatWithReservationAssignedElsewhereFails(t *testing.T) {
	t.Parallel()
	eng, st, _ := newEngine(t)
	t1 := mustCreateTable(t, eng, "T1", 4)
	t2 := mustCreateTable(t, eng, "T2", 2)
	ctx := context.Background()
	r, err := eng.CreateReservation(ctx, venue, 2, time.Now().UTC().Add(time.Hour), 90, &t2)
	if err != nil {
		t.Fatalf("create reservation: %v", err)
	}
	if _, err := eng.SeatParty(ctx, venue, t1, &r.ID, nil); !errors.Is(err, store.ErrReservationNotFound) {
		t.Fatalf("want ErrReservationNotFound, got %v", err)
	}
	// The failed seating must roll back entirely.
	if got := openStatus(t, st, t1); got != model.SessionFree {
		t.Fatalf("table should stay FREE after rollback, got %s", got)
	}
}

func TestAssignReservationRejectsOverlap(t *testing.T) {
	t.Parallel()
	eng, _, _ := newEngine(t)
	id := mustCreateTable(t, eng, "T1", 4)
	ctx := context.Background()
	start := time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC)

	if _, err := eng.CreateReservation(ctx, venue, 2, start, 90, &id); err != nil {
		t.Fatalf("first reservation: %v", err)
	}
	// Direct overlapping create is refused as well.
	if _, err := eng.CreateReservation(ctx, venue, 2, start.Add(30*time.Minute), 90, &id); !errors.Is(err, store.ErrConflict) {
		t.Fatalf("overlapping create: want ErrConflict, got %v", err)
	}
	second, err := eng.CreateReservation(ctx, venue, 2, start.Add(30*time.Minute), 90, nil)
	if err != nil {
		t.Fatalf("unassigned reservation: %v", err)
	}
	if _, err := eng.AssignReservation(ctx, venue, second.ID, id); !errors.Is(err, store.ErrConflict) {
		t.Fatalf("overlapping assign: want ErrConflict, got %v", err)
	}
	// Back-to-back is fine: windows are half-open.
	third, err := eng.CreateReservation(ctx, venue, 2, start.Add(90*time.Minute), 60, nil)
	if err != nil {
		t.Fatalf("back-to-back reservation: %v", err)
	}
	if _, err := eng.AssignReservation(ctx, venue, third.ID, id); err != nil {
		t.Fatalf("back-to-back assign should succeed: %v", err)
	}
}

func TestReservationTerminalStatesAreFinal(t *testing.T) {
	t.Parallel()
	eng, _, _ := newEngine(t)
	id := mustCreateTable(t, eng, "T1", 4)
	ctx := context.Background()

	r, err := eng.CreateReservation(ctx, venue, 2, time.Now().UTC().Add(time.Hour), 60, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := eng.CancelReservation(ctx, venue, r.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := eng.NoShowReservation(ctx, venue, r.ID); !errors.Is(err, store.ErrInvalidState) {
		t.Fatalf("no-show after cancel: want ErrInvalidState, got %v", err)
	}
	if _, err := eng.AssignReservation(ctx, venue, r.ID, id); !errors.Is(err, store.ErrInvalidState) {
		t.Fatalf("assign after cancel: want ErrInvalidState, got %v", err)
	}
	if _, err := eng.UnassignReservation(ctx, venue, r.ID); !errors.Is(err, store.ErrInvalidState) {
		t.Fatalf("unassign after cancel: want ErrInvalidState, got %v", err)
	}
}

func TestConfirmReservation(t *testing.T) {
	t.Parallel()
	eng, _, _ := newEngine(t)
	ctx := context.Background()
	r, err := eng.CreateReservation(ctx, venue, 2, time.Now().UTC().Add(time.Hour), 60, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	confirmed, err := eng.ConfirmReservation(ctx, venue, r.ID)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if confirmed.Status != model.ReservationConfirmed {
		t.Fatalf("want CONFIRMED, got %s", confirmed.Status)
	}
	if _, err := eng.ConfirmReservation(ctx, venue, r.ID); !errors.Is(err, store.ErrInvalidState) {
		t.Fatalf("double confirm: want ErrInvalidState, got %v", err)
	}
}

func TestUnassignClearsTableLink(t *testing.T) {
	t.Parallel()
	eng, _, _ := newEngine(t)
	id := mustCreateTable(t, eng, "T1", 4)
	ctx := context.Background()
	r, err := eng.CreateReservation(ctx, venue, 2, time.Now().UTC().Add(time.Hour), 60, &id)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	updated, err := eng.UnassignReservation(ctx, venue, r.ID)
	if err != nil {
		t.Fatalf("unassign: %v", err)
	}
	if updated.TableID != nil {
		t.Fatalf("table link should be cleared, got %v", *updated.TableID)
	}
}

func TestDeleteTableRules(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("occupied table refused", func(t *testing.T) {
		t.Parallel()
		eng, _, _ := newEngine(t)
		id := mustCreateTable(t, eng, "T1", 4)
		if _, err := eng.SeatParty(ctx, venue, id, nil, nil); err != nil {
			t.Fatalf("seat: %v", err)
		}
		if err := eng.DeleteTable(ctx, venue, id); !errors.Is(err, store.ErrInvalidState) {
			t.Fatalf("want ErrInvalidState, got %v", err)
		}
	})

	t.Run("merged tables refused", func(t *testing.T) {
		t.Parallel()
		eng, _, _ := newEngine(t)
		t1 := mustCreateTable(t, eng, "T1", 4)
		t2 := mustCreateTable(t, eng, "T2", 2)
		if _, err := eng.MergeTables(ctx, venue, t1, t2); err != nil {
			t.Fatalf("merge: %v", err)
		}
		if err := eng.DeleteTable(ctx, venue, t1); !errors.Is(err, store.ErrInvalidState) {
			t.Fatalf("delete primary: want ErrInvalidState, got %v", err)
		}
		if err := eng.DeleteTable(ctx, venue, t2); !errors.Is(err, store.ErrInvalidState) {
			t.Fatalf("delete secondary: want ErrInvalidState, got %v", err)
		}
	})

	t.Run("delete unassigns active reservations", func(t *testing.T) {
		t.Parallel()
		eng, st, _ := newEngine(t)
		id := mustCreateTable(t, eng, "T1", 4)
		r, err := eng.CreateReservation(ctx, venue, 2, time.Now().UTC().Add(time.Hour), 60, &id)
		if err != nil {
			t.Fatalf("create reservation: %v", err)
		}
		if err := eng.DeleteTable(ctx, venue, id); err != nil {
			t.Fatalf("delete: %v", err)
		}
		var got *model.Reservation
		err = st.WithinTx(ctx, func(tx store.Tx) error {
			res, err := tx.ReservationForUpdate(ctx, venue, r.ID)
			if err != nil {
				return err
			}
			got = res
			return nil
		})
		if err != nil {
			t.Fatalf("read reservation: %v", err)
		}
		if got.TableID != nil {
			t.Fatalf("reservation should be unassigned after delete, got table %d", *got.TableID)
		}
		err = st.WithinTx(ctx, func(tx store.Tx) error {
			_, err := tx.GetTable(ctx, venue, id)
			return err
		})
		if !errors.Is(err, store.ErrTableNotFound) {
			t.Fatalf("deleted table should be gone, got %v", err)
		}
	})
}

func TestOperationsScopedToVenue(t *testing.T) {
	t.Parallel()
	eng, _, _ := newEngine(t)
	id := mustCreateTable(t, eng, "T1", 4)
	if _, err := eng.SeatParty(context.Background(), venue+1, id, nil, nil); !errors.Is(err, store.ErrTableNotFound) {
		t.Fatalf("cross-venue seat: want ErrTableNotFound, got %v", err)
	}
}
