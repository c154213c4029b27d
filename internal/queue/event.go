// Package queue defines message payloads exchanged over the message broker.
package queue

// TableTransitionEvent is published after a transition operation commits.
// It carries enough information for downstream consumers to log, notify or
// feed analytics without querying the primary database.
type TableTransitionEvent struct {
	VenueID       uint64  `json:"venue_id"`
	TableID       uint64  `json:"table_id"`
	TableLabel    string  `json:"table_label"`
	Operation     string  `json:"operation"`
	FromStatus    string  `json:"from_status,omitempty"`
	ToStatus      string  `json:"to_status,omitempty"`
	ReservationID *uint64 `json:"reservation_id,omitempty"`
	OtherTableID  *uint64 `json:"other_table_id,omitempty"`
	OccurredAt    string  `json:"occurred_at"`
}
