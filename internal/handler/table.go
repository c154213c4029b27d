package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tablekeeper/floorplan/internal/engine"
)

// TableHandler exposes the table registry operations.  Writes go through
// the transition engine so a new table always gets its initial FREE
// session and a removed table cannot leave a dangling merge.
type TableHandler struct {
	Engine *engine.Engine
	// Invalidate drops the venue's cached read responses after a write.
	// May be nil when no cache is configured.
	Invalidate func(ctx context.Context, venueID uint64)
}

// NewTableHandler constructs a TableHandler.
func NewTableHandler(eng *engine.Engine, invalidate func(ctx context.Context, venueID uint64)) *TableHandler {
	if eng == nil {
		panic("nil engine passed to NewTableHandler")
	}
	return &TableHandler{Engine: eng, Invalidate: invalidate}
}

func (h *TableHandler) invalidated(c echo.Context, venueID uint64) {
	if h.Invalidate != nil {
		h.Invalidate(c.Request().Context(), venueID)
	}
}

// CreateTable handles POST /v1/tables with body {label, seat_count}.
func (h *TableHandler) CreateTable(c echo.Context) error {
	cal, err := getCaller(c)
	if err != nil {
		return unauthorized(c)
	}
	var body struct {
		Label     string `json:"label"`
		SeatCount uint32 `json:"seat_count"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	t, err := h.Engine.CreateTable(c.Request().Context(), cal.VenueID, body.Label, body.SeatCount)
	if err != nil {
		return writeError(c, err)
	}
	h.invalidated(c, cal.VenueID)
	return c.JSON(http.StatusCreated, t)
}

// UpdateTable handles PATCH /v1/tables/:id with body {label?, seat_count?}.
// Either field may be changed; both are rejected on a merged table.
func (h *TableHandler) UpdateTable(c echo.Context) error {
	cal, err := getCaller(c)
	if err != nil {
		return unauthorized(c)
	}
	tableID, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid table id")
	}
	var body struct {
		Label     *string `json:"label"`
		SeatCount *uint32 `json:"seat_count"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if body.Label == nil && body.SeatCount == nil {
		return badRequest(c, "nothing to update")
	}
	// Both fields flow through one engine transaction so a rejected seat
	// count cannot leave a committed rename behind.
	updated, err := h.Engine.UpdateTable(c.Request().Context(), cal.VenueID, tableID, body.Label, body.SeatCount)
	if err != nil {
		return writeError(c, err)
	}
	h.invalidated(c, cal.VenueID)
	return c.JSON(http.StatusOK, updated)
}

// DeleteTable handles DELETE /v1/tables/:id (soft delete).
func (h *TableHandler) DeleteTable(c echo.Context) error {
	cal, err := getCaller(c)
	if err != nil {
		return unauthorized(c)
	}
	tableID, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid table id")
	}
	if err := h.Engine.DeleteTable(c.Request().Context(), cal.VenueID, tableID); err != nil {
		return writeError(c, err)
	}
	h.invalidated(c, cal.VenueID)
	return c.NoContent(http.StatusNoContent)
}
