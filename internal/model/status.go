package model

import "fmt"

// SessionStatus enumerates the live-occupancy states a table session can be
// in.  The operational states form a strict forward path; FREE is the idle
// state before and after occupancy and MERGED marks the terminal session of
// a secondary table that has been absorbed into another one.
type SessionStatus string

const (
	SessionFree         SessionStatus = "FREE"
	SessionOrdering     SessionStatus = "ORDERING"
	SessionInPrep       SessionStatus = "IN_PREP"
	SessionReady        SessionStatus = "READY"
	SessionServed       SessionStatus = "SERVED"
	SessionAwaitingBill SessionStatus = "AWAITING_BILL"
	SessionMerged       SessionStatus = "MERGED"
)

// forwardPath maps each operational status to its single legal successor.
// Statuses absent from the map (FREE, AWAITING_BILL, MERGED) cannot be
// advanced; FREE is only left via seating and AWAITING_BILL only via
// closing the table.
var forwardPath = map[SessionStatus]SessionStatus{
	SessionOrdering: SessionInPrep,
	SessionInPrep:   SessionReady,
	SessionReady:    SessionServed,
	SessionServed:   SessionAwaitingBill,
}

// Next returns the status that follows s on the forward path and whether
// such a successor exists.
func (s SessionStatus) Next() (SessionStatus, bool) {
	n, ok := forwardPath[s]
	return n, ok
}

// CanAdvance reports whether moving from one status to another is a legal
// single forward step.  Skips and backward moves are rejected.
func CanAdvance(from, to SessionStatus) bool {
	n, ok := forwardPath[from]
	return ok && n == to
}

// Operational reports whether the status represents a table that is
// actively occupied (anything between ORDERING and AWAITING_BILL).
func (s SessionStatus) Operational() bool {
	switch s {
	case SessionOrdering, SessionInPrep, SessionReady, SessionServed, SessionAwaitingBill:
		return true
	}
	return false
}

// ParseSessionStatus validates a raw string against the closed set of
// session statuses.  Unknown values are rejected so that illegal states can
// never enter the ledger through request bodies.
func ParseSessionStatus(raw string) (SessionStatus, error) {
	switch SessionStatus(raw) {
	case SessionFree, SessionOrdering, SessionInPrep, SessionReady,
		SessionServed, SessionAwaitingBill, SessionMerged:
		return SessionStatus(raw), nil
	}
	return "", fmt.Errorf("unknown session status %q", raw)
}

// ReservationStatus enumerates booking states.  CHECKED_IN, CANCELLED and
// NO_SHOW are terminal; no further transition is permitted once reached.
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "PENDING"
	ReservationConfirmed ReservationStatus = "CONFIRMED"
	ReservationCheckedIn ReservationStatus = "CHECKED_IN"
	ReservationCancelled ReservationStatus = "CANCELLED"
	ReservationNoShow    ReservationStatus = "NO_SHOW"
)

// Terminal reports whether the status permits no further transitions.
func (s ReservationStatus) Terminal() bool {
	switch s {
	case ReservationCheckedIn, ReservationCancelled, ReservationNoShow:
		return true
	}
	return false
}

// Active reports whether the reservation still counts towards bookings:
// PENDING and CONFIRMED reservations occupy a table's calendar, terminal
// ones do not.
func (s ReservationStatus) Active() bool {
	return s == ReservationPending || s == ReservationConfirmed
}

// CanTransitionReservation reports whether a reservation may move from one
// status to another.  Any move out of a terminal status is illegal, as is
// re-entering PENDING.
func CanTransitionReservation(from, to ReservationStatus) bool {
	if from.Terminal() {
		return false
	}
	switch to {
	case ReservationConfirmed:
		return from == ReservationPending
	case ReservationCheckedIn, ReservationCancelled, ReservationNoShow:
		return from == ReservationPending || from == ReservationConfirmed
	}
	return false
}

// ParseReservationStatus validates a raw reservation status string.
func ParseReservationStatus(raw string) (ReservationStatus, error) {
	switch ReservationStatus(raw) {
	case ReservationPending, ReservationConfirmed, ReservationCheckedIn,
		ReservationCancelled, ReservationNoShow:
		return ReservationStatus(raw), nil
	}
	return "", fmt.Errorf("unknown reservation status %q", raw)
}
