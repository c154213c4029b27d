// Package store defines the transactional persistence boundary shared by
// the MySQL and in-memory backends, along with the sentinel errors that
// higher layers translate into API failures.  Handlers should map the
// not-found sentinels to HTTP 404, ErrInvalidState and ErrConflict to 409,
// and anything else to 500.
package store

import "errors"

// ErrTableNotFound is returned when a table does not exist or does not
// belong to the caller's venue.  Tenancy violations deliberately look the
// same as missing rows so that IDs cannot be probed across venues.
var ErrTableNotFound = errors.New("table not found")

// ErrSessionNotFound is returned when a table has no open session.
var ErrSessionNotFound = errors.New("open session not found")

// ErrReservationNotFound is returned when a reservation does not exist or
// is owned by another venue.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrInvalidState is returned when an operation's precondition on the
// current session or reservation status does not hold.  Retrying without
// re-reading state will not help.
var ErrInvalidState = errors.New("invalid state")

// ErrConflict is returned when a concurrent mutation won the race, for
// example a second open session for the same table or a double booking.
// Callers may retry after re-reading the projection.
var ErrConflict = errors.New("conflict")
