package model

// CurrentState is the occupancy layer of a table's projected status.
type CurrentState string

const (
	StateFree     CurrentState = "FREE"
	StateOccupied CurrentState = "OCCUPIED"
)

// ReservationState is the booking layer of a table's projected status.  It
// is computed independently of the occupancy layer: a table can be FREE and
// RESERVED_LATER at the same time.
type ReservationState string

const (
	ReservedNow   ReservationState = "RESERVED_NOW"
	ReservedLater ReservationState = "RESERVED_LATER"
	ReservedNone  ReservationState = "NONE"
)

// LayeredStatus is the two-layer status exposed per table.  It is always
// recomputed from the ledgers and never persisted.
type LayeredStatus struct {
	TableID          uint64           `json:"table_id"`
	CurrentState     CurrentState     `json:"current_state"`
	SessionStatus    SessionStatus    `json:"session_status"`
	ReservationState ReservationState `json:"reservation_state"`
}

// Counters are the venue-level dashboard counts derived from a single
// snapshot of the three ledgers.
type Counters struct {
	TablesSetUp   int `json:"tables_set_up"`
	InUseNow      int `json:"in_use_now"`
	ReservedNow   int `json:"reserved_now"`
	ReservedLater int `json:"reserved_later"`
	Waiting       int `json:"waiting"`
}
