// Package memstore provides an in-memory implementation of store.Store.
// Transactions are serialised by a single mutex and operate on a deep copy
// of the state, so a failed transaction rolls back completely by discarding
// the copy.  It backs the test suite and local development without MySQL.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tablekeeper/floorplan/internal/model"
	"github.com/tablekeeper/floorplan/internal/store"
)

type state struct {
	tables       map[uint64]*model.Table
	sessions     map[uint64]*model.Session
	reservations map[uint64]*model.Reservation

	nextTableID       uint64
	nextSessionID     uint64
	nextReservationID uint64
}

func (s *state) clone() *state {
	cp := &state{
		tables:            make(map[uint64]*model.Table, len(s.tables)),
		sessions:          make(map[uint64]*model.Session, len(s.sessions)),
		reservations:      make(map[uint64]*model.Reservation, len(s.reservations)),
		nextTableID:       s.nextTableID,
		nextSessionID:     s.nextSessionID,
		nextReservationID: s.nextReservationID,
	}
	for id, t := range s.tables {
		cp.tables[id] = cloneTable(t)
	}
	for id, sess := range s.sessions {
		cp.sessions[id] = cloneSession(sess)
	}
	for id, r := range s.reservations {
		cp.reservations[id] = cloneReservation(r)
	}
	return cp
}

func cloneTable(t *model.Table) *model.Table {
	c := *t
	c.MergedWith = cloneU64(t.MergedWith)
	c.PreMergeLabel = cloneStr(t.PreMergeLabel)
	c.PreMergeSeats = cloneU32(t.PreMergeSeats)
	return &c
}

func cloneSession(s *model.Session) *model.Session {
	c := *s
	c.ClosedAt = cloneTime(s.ClosedAt)
	c.MergedWithTableID = cloneU64(s.MergedWithTableID)
	c.ServerID = cloneU64(s.ServerID)
	return &c
}

func cloneReservation(r *model.Reservation) *model.Reservation {
	c := *r
	c.TableID = cloneU64(r.TableID)
	return &c
}

func cloneU64(v *uint64) *uint64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneU32(v *uint32) *uint32 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneStr(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneTime(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// Store is the in-memory store.  The zero value is not usable; call New.
type Store struct {
	mu sync.Mutex
	st *state
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{st: &state{
		tables:       map[uint64]*model.Table{},
		sessions:     map[uint64]*model.Session{},
		reservations: map[uint64]*model.Reservation{},
	}}
}

// WithinTx runs fn against a deep copy of the state under the store mutex.
// The copy replaces the live state only when fn succeeds, mirroring the
// commit/rollback semantics of the MySQL backend.
func (s *Store) WithinTx(ctx context.Context, fn func(tx store.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	work := s.st.clone()
	if err := fn(&memTx{st: work}); err != nil {
		return err
	}
	s.st = work
	return nil
}

type memTx struct {
	st *state
}

var _ store.Tx = (*memTx)(nil)

func (tx *memTx) CreateTable(_ context.Context, t *model.Table) error {
	tx.st.nextTableID++
	t.ID = tx.st.nextTableID
	tx.st.tables[t.ID] = cloneTable(t)
	return nil
}

func (tx *memTx) GetTable(_ context.Context, venueID, tableID uint64) (*model.Table, error) {
	t, ok := tx.st.tables[tableID]
	if !ok || t.VenueID != venueID || !t.Active {
		return nil, store.ErrTableNotFound
	}
	return cloneTable(t), nil
}

func (tx *memTx) TableForUpdate(ctx context.Context, venueID, tableID uint64) (*model.Table, error) {
	// Transactions are fully serialised, so locking is a plain read here.
	return tx.GetTable(ctx, venueID, tableID)
}

func (tx *memTx) TablesForUpdate(ctx context.Context, venueID, firstID, secondID uint64) (*model.Table, *model.Table, error) {
	first, err := tx.GetTable(ctx, venueID, firstID)
	if err != nil {
		return nil, nil, err
	}
	second, err := tx.GetTable(ctx, venueID, secondID)
	if err != nil {
		return nil, nil, err
	}
	return first, second, nil
}

func (tx *memTx) UpdateTable(_ context.Context, t *model.Table) error {
	cur, ok := tx.st.tables[t.ID]
	if !ok || cur.VenueID != t.VenueID {
		return store.ErrTableNotFound
	}
	t.UpdatedAt = time.Now().UTC()
	tx.st.tables[t.ID] = cloneTable(t)
	return nil
}

func (tx *memTx) SoftDeleteTable(_ context.Context, venueID, tableID uint64) error {
	t, ok := tx.st.tables[tableID]
	if !ok || t.VenueID != venueID || !t.Active {
		return store.ErrTableNotFound
	}
	t.Active = false
	t.UpdatedAt = time.Now().UTC()
	return nil
}

func (tx *memTx) ListTables(_ context.Context, venueID uint64) ([]model.Table, error) {
	out := make([]model.Table, 0)
	for _, t := range tx.st.tables {
		if t.VenueID == venueID && t.Active {
			out = append(out, *cloneTable(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (tx *memTx) HasSecondaries(_ context.Context, venueID, tableID uint64) (bool, error) {
	for _, t := range tx.st.tables {
		if t.VenueID == venueID && t.Active && t.MergedWith != nil && *t.MergedWith == tableID {
			return true, nil
		}
	}
	return false, nil
}

func (tx *memTx) OpenSession(_ context.Context, s *model.Session) error {
	for _, cur := range tx.st.sessions {
		if cur.TableID == s.TableID && cur.ClosedAt == nil {
			return store.ErrConflict
		}
	}
	tx.st.nextSessionID++
	s.ID = tx.st.nextSessionID
	if s.OpenedAt.IsZero() {
		s.OpenedAt = time.Now().UTC()
	}
	tx.st.sessions[s.ID] = cloneSession(s)
	return nil
}

func (tx *memTx) CloseSession(_ context.Context, sessionID uint64, at time.Time) error {
	s, ok := tx.st.sessions[sessionID]
	if !ok {
		return store.ErrSessionNotFound
	}
	if s.ClosedAt != nil {
		return nil // already closed, closing is idempotent
	}
	closed := at.UTC()
	s.ClosedAt = &closed
	return nil
}

func (tx *memTx) GetOpenSession(_ context.Context, tableID uint64) (*model.Session, error) {
	for _, s := range tx.st.sessions {
		if s.TableID == tableID && s.ClosedAt == nil {
			return cloneSession(s), nil
		}
	}
	return nil, store.ErrSessionNotFound
}

func (tx *memTx) OpenSessionForUpdate(ctx context.Context, tableID uint64) (*model.Session, error) {
	return tx.GetOpenSession(ctx, tableID)
}

func (tx *memTx) ListOpenSessions(_ context.Context, venueID uint64) ([]model.Session, error) {
	out := make([]model.Session, 0)
	for _, s := range tx.st.sessions {
		if s.VenueID == venueID && s.ClosedAt == nil {
			out = append(out, *cloneSession(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (tx *memTx) CreateReservation(_ context.Context, r *model.Reservation) error {
	tx.st.nextReservationID++
	r.ID = tx.st.nextReservationID
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now
	tx.st.reservations[r.ID] = cloneReservation(r)
	return nil
}

func (tx *memTx) ReservationForUpdate(_ context.Context, venueID, reservationID uint64) (*model.Reservation, error) {
	r, ok := tx.st.reservations[reservationID]
	if !ok || r.VenueID != venueID {
		return nil, store.ErrReservationNotFound
	}
	return cloneReservation(r), nil
}

func (tx *memTx) UpdateReservation(_ context.Context, r *model.Reservation) error {
	cur, ok := tx.st.reservations[r.ID]
	if !ok || cur.VenueID != r.VenueID {
		return store.ErrReservationNotFound
	}
	r.UpdatedAt = time.Now().UTC()
	tx.st.reservations[r.ID] = cloneReservation(r)
	return nil
}

func (tx *memTx) ListActiveReservations(_ context.Context, venueID uint64) ([]model.Reservation, error) {
	out := make([]model.Reservation, 0)
	for _, r := range tx.st.reservations {
		if r.VenueID == venueID && r.Status.Active() {
			out = append(out, *cloneReservation(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (tx *memTx) ActiveReservationsForTable(_ context.Context, venueID, tableID uint64) ([]model.Reservation, error) {
	out := make([]model.Reservation, 0)
	for _, r := range tx.st.reservations {
		if r.VenueID == venueID && r.Status.Active() && r.TableID != nil && *r.TableID == tableID {
			out = append(out, *cloneReservation(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (tx *memTx) HasOverlappingAssigned(_ context.Context, venueID, tableID uint64, start time.Time, minutes uint32, excludeID uint64) (bool, error) {
	for _, r := range tx.st.reservations {
		if r.ID == excludeID || r.VenueID != venueID || !r.Status.Active() {
			continue
		}
		if r.TableID == nil || *r.TableID != tableID {
			continue
		}
		if r.Overlaps(start, minutes) {
			return true, nil
		}
	}
	return false, nil
}
