package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/tablekeeper/floorplan/internal/model"
	"github.com/tablekeeper/floorplan/internal/store"
)

const sessionColumns = `id, table_id, venue_id, status, opened_at, closed_at,
	merged_with_table_id, server_id`

// OpenSession inserts a new open session for a table.  The single-open-
// session invariant is enforced here: the current open row, if any, is
// locked and counted before inserting, so two concurrent openers cannot
// both succeed.
func (t *Tx) OpenSession(ctx context.Context, s *model.Session) error {
	const check = `SELECT id FROM sessions WHERE table_id = ? AND closed_at IS NULL FOR UPDATE`
	var existing uint64
	err := t.tx.QueryRowContext(ctx, check, s.TableID).Scan(&existing)
	switch {
	case err == nil:
		return store.ErrConflict
	case !errors.Is(err, sql.ErrNoRows):
		return err
	}
	if s.OpenedAt.IsZero() {
		s.OpenedAt = time.Now().UTC()
	}
	const q = `INSERT INTO sessions (table_id, venue_id, status, opened_at, merged_with_table_id, server_id)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := t.tx.ExecContext(ctx, q,
		s.TableID, s.VenueID, string(s.Status), fmtTime(s.OpenedAt),
		s.MergedWithTableID, s.ServerID,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// CloseSession stamps closed_at on an open session.  Closing an already
// closed session is a no-op so caller retries stay safe.
func (t *Tx) CloseSession(ctx context.Context, sessionID uint64, at time.Time) error {
	const q = `UPDATE sessions SET closed_at = ? WHERE id = ? AND closed_at IS NULL`
	_, err := t.tx.ExecContext(ctx, q, fmtTime(at), sessionID)
	return err
}

// GetOpenSession returns the table's current session without locking.
func (t *Tx) GetOpenSession(ctx context.Context, tableID uint64) (*model.Session, error) {
	q := `SELECT ` + sessionColumns + ` FROM sessions WHERE table_id = ? AND closed_at IS NULL`
	return t.querySession(ctx, q, tableID)
}

// OpenSessionForUpdate returns the table's current session with the row
// locked for the remainder of the transaction.
func (t *Tx) OpenSessionForUpdate(ctx context.Context, tableID uint64) (*model.Session, error) {
	q := `SELECT ` + sessionColumns + ` FROM sessions WHERE table_id = ? AND closed_at IS NULL FOR UPDATE`
	return t.querySession(ctx, q, tableID)
}

// ListOpenSessions returns every open session of the venue ordered by
// table so the projection can join them against the table list.
func (t *Tx) ListOpenSessions(ctx context.Context, venueID uint64) ([]model.Session, error) {
	q := `SELECT ` + sessionColumns + ` FROM sessions WHERE venue_id = ? AND closed_at IS NULL ORDER BY table_id`
	rows, err := t.tx.QueryContext(ctx, q, venueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Session, 0)
	for rows.Next() {
		var s model.Session
		if err := scanSessionRow(rows.Scan, &s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (t *Tx) querySession(ctx context.Context, query string, args ...interface{}) (*model.Session, error) {
	s := &model.Session{}
	row := t.tx.QueryRowContext(ctx, query, args...)
	if err := scanSessionRow(row.Scan, s); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrSessionNotFound
		}
		return nil, err
	}
	return s, nil
}

func scanSessionRow(scan func(...interface{}) error, s *model.Session) error {
	var status string
	var closedAt sql.NullTime
	var mergedWith, serverID sql.NullInt64
	if err := scan(
		&s.ID, &s.TableID, &s.VenueID, &status, &s.OpenedAt,
		&closedAt, &mergedWith, &serverID,
	); err != nil {
		return err
	}
	s.Status = model.SessionStatus(status)
	if closedAt.Valid {
		v := closedAt.Time
		s.ClosedAt = &v
	}
	if mergedWith.Valid {
		v := uint64(mergedWith.Int64)
		s.MergedWithTableID = &v
	}
	if serverID.Valid {
		v := uint64(serverID.Int64)
		s.ServerID = &v
	}
	return nil
}
