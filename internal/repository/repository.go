// Package repository implements store.Store on MySQL using database/sql.
// All statements run inside a single transaction per operation; row locks
// are taken with SELECT ... FOR UPDATE so that concurrent transitions on
// the same table serialise at the database, which is the only concurrency
// boundary in the system.  Timestamps are stored as UTC DATETIME.
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/tablekeeper/floorplan/internal/store"
)

// dbTimeFormat is the DATETIME layout used for parameters; parseTime=true
// in the DSN handles scanning in the other direction.
const dbTimeFormat = "2006-01-02 15:04:05"

// Store wraps a MySQL handle and implements store.Store.
type Store struct {
	db *sql.DB
}

// NewStore returns a Store bound to the given database.
func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// DB exposes the underlying handle for health checks.
func (s *Store) DB() *sql.DB { return s.db }

// WithinTx begins a transaction, runs fn and commits when fn returns nil.
// Any error from fn rolls the transaction back in full and is returned to
// the caller unchanged so sentinel comparisons keep working.
func (s *Store) WithinTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(&Tx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Tx is the MySQL implementation of store.Tx.  Methods are spread across
// the per-ledger files in this package.
type Tx struct {
	tx *sql.Tx
}

var _ store.Tx = (*Tx)(nil)

// fmtTime renders a timestamp as a UTC DATETIME parameter.
func fmtTime(t time.Time) string { return t.UTC().Format(dbTimeFormat) }
