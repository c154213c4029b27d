package engine

import "github.com/tablekeeper/floorplan/internal/model"

// Result carries the entities touched by a successful transition.  Fields
// not relevant to the operation stay nil; Session is the open session left
// behind after the transition.
type Result struct {
	Table       *model.Table       `json:"table,omitempty"`
	Session     *model.Session     `json:"session,omitempty"`
	Reservation *model.Reservation `json:"reservation,omitempty"`
	// Secondary is the absorbed (merge) or restored (unmerge) table.
	Secondary *model.Table `json:"secondary_table,omitempty"`
	// NoOp is true when the operation found nothing to do, e.g. closing
	// a table that is already FREE.
	NoOp bool `json:"no_op,omitempty"`
}
