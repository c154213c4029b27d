package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/tablekeeper/floorplan/internal/model"
	"github.com/tablekeeper/floorplan/internal/store"
)

const reservationColumns = `id, venue_id, table_id, party_size, starts_at,
	duration_minutes, status, created_at, updated_at`

// CreateReservation inserts a booking and reads the row back so DB-side
// timestamps are populated on the model.
func (t *Tx) CreateReservation(ctx context.Context, r *model.Reservation) error {
	const q = `INSERT INTO reservations (venue_id, table_id, party_size, starts_at, duration_minutes, status)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := t.tx.ExecContext(ctx, q,
		r.VenueID, r.TableID, r.PartySize, fmtTime(r.StartsAt),
		r.DurationMinutes, string(r.Status),
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	r.ID = uint64(id)
	sel := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
	row := t.tx.QueryRowContext(ctx, sel, r.ID)
	return scanReservationRow(row.Scan, r)
}

// ReservationForUpdate loads a reservation scoped to the venue and locks
// the row for the remainder of the transaction.
func (t *Tx) ReservationForUpdate(ctx context.Context, venueID, reservationID uint64) (*model.Reservation, error) {
	r := &model.Reservation{}
	q := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ? AND venue_id = ? FOR UPDATE`
	row := t.tx.QueryRowContext(ctx, q, reservationID, venueID)
	if err := scanReservationRow(row.Scan, r); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrReservationNotFound
		}
		return nil, err
	}
	return r, nil
}

// UpdateReservation writes status and table linkage back to the row.
func (t *Tx) UpdateReservation(ctx context.Context, r *model.Reservation) error {
	const q = `UPDATE reservations
	           SET table_id = ?, status = ?, updated_at = UTC_TIMESTAMP()
	           WHERE id = ? AND venue_id = ?`
	res, err := t.tx.ExecContext(ctx, q, r.TableID, string(r.Status), r.ID, r.VenueID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrReservationNotFound
	}
	return nil
}

// ListActiveReservations returns all PENDING and CONFIRMED reservations of
// the venue ordered by start time.
func (t *Tx) ListActiveReservations(ctx context.Context, venueID uint64) ([]model.Reservation, error) {
	q := `SELECT ` + reservationColumns + ` FROM reservations
	      WHERE venue_id = ? AND status IN ('PENDING','CONFIRMED')
	      ORDER BY starts_at, id`
	return t.queryReservations(ctx, q, venueID)
}

// ActiveReservationsForTable returns the PENDING and CONFIRMED
// reservations assigned to one table.
func (t *Tx) ActiveReservationsForTable(ctx context.Context, venueID, tableID uint64) ([]model.Reservation, error) {
	q := `SELECT ` + reservationColumns + ` FROM reservations
	      WHERE venue_id = ? AND table_id = ? AND status IN ('PENDING','CONFIRMED')
	      ORDER BY starts_at, id`
	return t.queryReservations(ctx, q, venueID, tableID)
}

// HasOverlappingAssigned reports whether the table already carries an
// active booking whose half-open window intersects [start, start+minutes).
// The candidate rows are locked so a concurrent assignment for the same
// window loses the race instead of slipping through.
func (t *Tx) HasOverlappingAssigned(ctx context.Context, venueID, tableID uint64, start time.Time, minutes uint32, excludeID uint64) (bool, error) {
	end := start.Add(time.Duration(minutes) * time.Minute)
	const q = `SELECT EXISTS(
	             SELECT 1 FROM reservations
	             WHERE venue_id = ? AND table_id = ? AND id <> ?
	               AND status IN ('PENDING','CONFIRMED')
	               AND starts_at < ?
	               AND DATE_ADD(starts_at, INTERVAL duration_minutes MINUTE) > ?
	             FOR UPDATE)`
	var exists bool
	if err := t.tx.QueryRowContext(ctx, q, venueID, tableID, excludeID, fmtTime(end), fmtTime(start)).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (t *Tx) queryReservations(ctx context.Context, query string, args ...interface{}) ([]model.Reservation, error) {
	rows, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		var r model.Reservation
		if err := scanReservationRow(rows.Scan, &r); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanReservationRow(scan func(...interface{}) error, r *model.Reservation) error {
	var tableID sql.NullInt64
	var status string
	if err := scan(
		&r.ID, &r.VenueID, &tableID, &r.PartySize, &r.StartsAt,
		&r.DurationMinutes, &status, &r.CreatedAt, &r.UpdatedAt,
	); err != nil {
		return err
	}
	if tableID.Valid {
		v := uint64(tableID.Int64)
		r.TableID = &v
	}
	r.Status = model.ReservationStatus(status)
	return nil
}
