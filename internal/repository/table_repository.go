package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/tablekeeper/floorplan/internal/model"
	"github.com/tablekeeper/floorplan/internal/store"
)

const tableColumns = `id, venue_id, label, seat_count, merged_with,
	pre_merge_label, pre_merge_seats, active, created_at, updated_at`

// CreateTable inserts a new table row and populates the generated ID and
// timestamps on the passed model.
func (t *Tx) CreateTable(ctx context.Context, tbl *model.Table) error {
	const q = `INSERT INTO tables (venue_id, label, seat_count, active) VALUES (?, ?, ?, 1)`
	res, err := t.tx.ExecContext(ctx, q, tbl.VenueID, tbl.Label, tbl.SeatCount)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	tbl.ID = uint64(id)
	// Read the row back so DB defaults (timestamps) are reflected.
	return t.scanTable(ctx, `SELECT `+tableColumns+` FROM tables WHERE id = ?`, tbl, tbl.ID)
}

// GetTable loads an active table scoped to the venue without locking it.
func (t *Tx) GetTable(ctx context.Context, venueID, tableID uint64) (*model.Table, error) {
	tbl := &model.Table{}
	q := `SELECT ` + tableColumns + ` FROM tables WHERE id = ? AND venue_id = ? AND active = 1`
	if err := t.scanTable(ctx, q, tbl, tableID, venueID); err != nil {
		return nil, err
	}
	return tbl, nil
}

// TableForUpdate loads an active table scoped to the venue and locks the
// row for the remainder of the transaction.
func (t *Tx) TableForUpdate(ctx context.Context, venueID, tableID uint64) (*model.Table, error) {
	tbl := &model.Table{}
	q := `SELECT ` + tableColumns + ` FROM tables WHERE id = ? AND venue_id = ? AND active = 1 FOR UPDATE`
	if err := t.scanTable(ctx, q, tbl, tableID, venueID); err != nil {
		return nil, err
	}
	return tbl, nil
}

// TablesForUpdate locks two tables in ascending ID order to keep lock
// acquisition deadlock free, then returns them in argument order.
func (t *Tx) TablesForUpdate(ctx context.Context, venueID, firstID, secondID uint64) (*model.Table, *model.Table, error) {
	loID, hiID := firstID, secondID
	if loID > hiID {
		loID, hiID = hiID, loID
	}
	lo, err := t.TableForUpdate(ctx, venueID, loID)
	if err != nil {
		return nil, nil, err
	}
	hi, err := t.TableForUpdate(ctx, venueID, hiID)
	if err != nil {
		return nil, nil, err
	}
	if lo.ID == firstID {
		return lo, hi, nil
	}
	return hi, lo, nil
}

// UpdateTable writes label, seat count and merge linkage back to the row.
func (t *Tx) UpdateTable(ctx context.Context, tbl *model.Table) error {
	const q = `UPDATE tables
	           SET label = ?, seat_count = ?, merged_with = ?,
	               pre_merge_label = ?, pre_merge_seats = ?, updated_at = UTC_TIMESTAMP()
	           WHERE id = ? AND venue_id = ?`
	res, err := t.tx.ExecContext(ctx, q,
		tbl.Label, tbl.SeatCount, tbl.MergedWith,
		tbl.PreMergeLabel, tbl.PreMergeSeats,
		tbl.ID, tbl.VenueID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrTableNotFound
	}
	return nil
}

// SoftDeleteTable flips the active flag instead of removing the row so the
// session history stays intact.
func (t *Tx) SoftDeleteTable(ctx context.Context, venueID, tableID uint64) error {
	const q = `UPDATE tables SET active = 0, updated_at = UTC_TIMESTAMP()
	           WHERE id = ? AND venue_id = ? AND active = 1`
	res, err := t.tx.ExecContext(ctx, q, tableID, venueID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrTableNotFound
	}
	return nil
}

// ListTables returns all active tables of a venue ordered by ID.  Hiding
// secondaries from venue-facing listings is the projection's concern, so
// this returns them too.
func (t *Tx) ListTables(ctx context.Context, venueID uint64) ([]model.Table, error) {
	q := `SELECT ` + tableColumns + ` FROM tables WHERE venue_id = ? AND active = 1 ORDER BY id`
	rows, err := t.tx.QueryContext(ctx, q, venueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Table, 0)
	for rows.Next() {
		var tbl model.Table
		if err := scanTableRow(rows.Scan, &tbl); err != nil {
			return nil, err
		}
		out = append(out, tbl)
	}
	return out, rows.Err()
}

// HasSecondaries reports whether any active table is merged into tableID.
func (t *Tx) HasSecondaries(ctx context.Context, venueID, tableID uint64) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM tables WHERE venue_id = ? AND merged_with = ? AND active = 1)`
	var exists bool
	if err := t.tx.QueryRowContext(ctx, q, venueID, tableID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (t *Tx) scanTable(ctx context.Context, query string, tbl *model.Table, args ...interface{}) error {
	row := t.tx.QueryRowContext(ctx, query, args...)
	if err := scanTableRow(row.Scan, tbl); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.ErrTableNotFound
		}
		return err
	}
	return nil
}

// scanTableRow maps one tables row onto the model, converting nullable
// columns to pointers.
func scanTableRow(scan func(...interface{}) error, tbl *model.Table) error {
	var mergedWith sql.NullInt64
	var preLabel sql.NullString
	var preSeats sql.NullInt64
	if err := scan(
		&tbl.ID, &tbl.VenueID, &tbl.Label, &tbl.SeatCount, &mergedWith,
		&preLabel, &preSeats, &tbl.Active, &tbl.CreatedAt, &tbl.UpdatedAt,
	); err != nil {
		return err
	}
	if mergedWith.Valid {
		v := uint64(mergedWith.Int64)
		tbl.MergedWith = &v
	}
	if preLabel.Valid {
		v := preLabel.String
		tbl.PreMergeLabel = &v
	}
	if preSeats.Valid {
		v := uint32(preSeats.Int64)
		tbl.PreMergeSeats = &v
	}
	return nil
}
