package database

import (
	"strings"
	"testing"
)

func TestDSN(t *testing.T) {
	t.Parallel()
	got := dsn("floor", "pw", "db.local", "3306", "floorplan")
	want := "floor:pw@tcp(db.local:3306)/floorplan?charset=utf8mb4&parseTime=true&loc=UTC&clientFoundRows=true"
	if got != want {
		t.Fatalf("dsn = %q, want %q", got, want)
	}
}

func TestDSNOmitsEmptyPassword(t *testing.T) {
	t.Parallel()
	got := dsn("floor", "", "db.local", "3306", "floorplan")
	if !strings.HasPrefix(got, "floor@tcp(") {
		t.Fatalf("dsn should not carry a colon for an empty password: %q", got)
	}
}

// An UPDATE that changes nothing still matched a row.  Without
// clientFoundRows the driver reports 0 and the repositories would turn a
// retried no-op, such as unassigning an already-unassigned reservation,
// into a not-found error.
func TestDSNRequestsFoundRows(t *testing.T) {
	t.Parallel()
	if got := dsn("u", "", "h", "3306", "d"); !strings.Contains(got, "clientFoundRows=true") {
		t.Fatalf("dsn missing clientFoundRows: %q", got)
	}
}
