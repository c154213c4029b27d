package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tablekeeper/floorplan/internal/engine"
	"github.com/tablekeeper/floorplan/internal/model"
)

// TransitionHandler exposes the occupancy transitions: seat, close,
// advance, merge and unmerge.  Each route maps 1:1 onto one atomic engine
// operation; the handler only parses input, resolves the caller and maps
// the typed result or error back to HTTP.
type TransitionHandler struct {
	Engine     *engine.Engine
	Invalidate func(ctx context.Context, venueID uint64)
}

// NewTransitionHandler constructs a TransitionHandler.
func NewTransitionHandler(eng *engine.Engine, invalidate func(ctx context.Context, venueID uint64)) *TransitionHandler {
	if eng == nil {
		panic("nil engine passed to NewTransitionHandler")
	}
	return &TransitionHandler{Engine: eng, Invalidate: invalidate}
}

func (h *TransitionHandler) invalidated(c echo.Context, venueID uint64) {
	if h.Invalidate != nil {
		h.Invalidate(c.Request().Context(), venueID)
	}
}

// SeatParty handles POST /v1/tables/:id/seat.  The optional body may carry
// a reservation_id to check in a booked party.
func (h *TransitionHandler) SeatParty(c echo.Context) error {
	cal, err := getCaller(c)
	if err != nil {
		return unauthorized(c)
	}
	tableID, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid table id")
	}
	var body struct {
		ReservationID *uint64 `json:"reservation_id"`
	}
	// The body is optional for walk-ins.
	_ = c.Bind(&body)
	serverID := cal.UserID
	res, err := h.Engine.SeatParty(c.Request().Context(), cal.VenueID, tableID, body.ReservationID, &serverID)
	if err != nil {
		return writeError(c, err)
	}
	h.invalidated(c, cal.VenueID)
	return c.JSON(http.StatusOK, res)
}

// CloseTable handles POST /v1/tables/:id/close.  A second close on an
// already FREE table reports no_op instead of failing so retries after a
// client timeout are safe.
func (h *TransitionHandler) CloseTable(c echo.Context) error {
	cal, err := getCaller(c)
	if err != nil {
		return unauthorized(c)
	}
	tableID, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid table id")
	}
	res, err := h.Engine.CloseTable(c.Request().Context(), cal.VenueID, tableID)
	if err != nil {
		return writeError(c, err)
	}
	h.invalidated(c, cal.VenueID)
	return c.JSON(http.StatusOK, res)
}

// AdvanceStatus handles POST /v1/tables/:id/advance with body
// {next_status}.  Only the next step on the operational path is accepted.
func (h *TransitionHandler) AdvanceStatus(c echo.Context) error {
	cal, err := getCaller(c)
	if err != nil {
		return unauthorized(c)
	}
	tableID, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid table id")
	}
	var body struct {
		NextStatus string `json:"next_status"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	next, err := model.ParseSessionStatus(body.NextStatus)
	if err != nil {
		return badRequest(c, err.Error())
	}
	res, err := h.Engine.AdvanceStatus(c.Request().Context(), cal.VenueID, tableID, next)
	if err != nil {
		return writeError(c, err)
	}
	h.invalidated(c, cal.VenueID)
	return c.JSON(http.StatusOK, res)
}

// MergeTables handles POST /v1/tables/:id/merge with body
// {other_table_id}.  The table in the path becomes the primary.
func (h *TransitionHandler) MergeTables(c echo.Context) error {
	cal, err := getCaller(c)
	if err != nil {
		return unauthorized(c)
	}
	primaryID, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid table id")
	}
	var body struct {
		OtherTableID uint64 `json:"other_table_id"`
	}
	if err := c.Bind(&body); err != nil || body.OtherTableID == 0 {
		return badRequest(c, "other_table_id is required")
	}
	res, err := h.Engine.MergeTables(c.Request().Context(), cal.VenueID, primaryID, body.OtherTableID)
	if err != nil {
		return writeError(c, err)
	}
	h.invalidated(c, cal.VenueID)
	return c.JSON(http.StatusOK, res)
}

// UnmergeTable handles POST /v1/tables/:id/unmerge, where :id is the
// secondary (merged-away) table being split back out.
func (h *TransitionHandler) UnmergeTable(c echo.Context) error {
	cal, err := getCaller(c)
	if err != nil {
		return unauthorized(c)
	}
	secondaryID, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid table id")
	}
	res, err := h.Engine.UnmergeTable(c.Request().Context(), cal.VenueID, secondaryID)
	if err != nil {
		return writeError(c, err)
	}
	h.invalidated(c, cal.VenueID)
	return c.JSON(http.StatusOK, res)
}

// BillSettled handles POST /v1/internal/venues/:venue_id/tables/:table_id/bill-settled.
// The payment system calls it once a session's bill is settled; it is the
// same atomic close operation, authenticated by service key instead of a
// staff JWT.
func (h *TransitionHandler) BillSettled(c echo.Context) error {
	venueID, ok := pathID(c, "venue_id")
	if !ok {
		return badRequest(c, "invalid venue id")
	}
	tableID, ok := pathID(c, "table_id")
	if !ok {
		return badRequest(c, "invalid table id")
	}
	res, err := h.Engine.CloseTable(c.Request().Context(), venueID, tableID)
	if err != nil {
		return writeError(c, err)
	}
	if h.Invalidate != nil {
		h.Invalidate(c.Request().Context(), venueID)
	}
	return c.JSON(http.StatusOK, res)
}
