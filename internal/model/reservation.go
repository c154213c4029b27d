package model

import "time"

// Reservation is a booking for a party.  A reservation is first-class even
// without a table: TableID stays nil until a host assigns one, and may be
// cleared again while the reservation is still PENDING or CONFIRMED.  Once
// the party is checked in the linkage is immutable.
//
// Fields:
//
//	ID              – primary key identifier.
//	VenueID         – owning venue.
//	TableID         – assigned table, nil while unassigned.
//	PartySize       – number of guests; always positive.
//	StartsAt        – booked start time (UTC).
//	DurationMinutes – booked duration; the window is [StartsAt, StartsAt+Duration).
//	Status          – booking state, see ReservationStatus.
//	CreatedAt       – creation timestamp.
//	UpdatedAt       – last update timestamp.
type Reservation struct {
	ID              uint64            // reservations.id
	VenueID         uint64            // reservations.venue_id
	TableID         *uint64           // reservations.table_id (nullable)
	PartySize       uint32            // reservations.party_size
	StartsAt        time.Time         // reservations.starts_at
	DurationMinutes uint32            // reservations.duration_minutes
	Status          ReservationStatus // reservations.status
	CreatedAt       time.Time         // reservations.created_at
	UpdatedAt       time.Time         // reservations.updated_at
}

// EndsAt returns the exclusive end of the booked window.
func (r *Reservation) EndsAt() time.Time {
	return r.StartsAt.Add(time.Duration(r.DurationMinutes) * time.Minute)
}

// Covers reports whether the booked window contains the given instant.
// The window is half-open, so a reservation never covers its own end time
// and back-to-back bookings do not overlap.
func (r *Reservation) Covers(at time.Time) bool {
	return !at.Before(r.StartsAt) && at.Before(r.EndsAt())
}

// Overlaps reports whether the booked window intersects [start, start+minutes).
func (r *Reservation) Overlaps(start time.Time, minutes uint32) bool {
	end := start.Add(time.Duration(minutes) * time.Minute)
	return r.StartsAt.Before(end) && start.Before(r.EndsAt())
}
