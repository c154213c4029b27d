package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tablekeeper/floorplan/internal/projection"
)

// FloorHandler serves the read side: the floor view, per-table layered
// status, venue counters and reservation listings.  Everything here is
// recomputed from one store snapshot per request; the Redis response cache
// in front of these routes is invalidated by the write path.
type FloorHandler struct {
	Reader *projection.Reader
}

// NewFloorHandler constructs a FloorHandler.
func NewFloorHandler(reader *projection.Reader) *FloorHandler {
	if reader == nil {
		panic("nil reader passed to NewFloorHandler")
	}
	return &FloorHandler{Reader: reader}
}

// GetFloor handles GET /v1/floor.  It returns every non-merged table of
// the caller's venue with its layered status.
func (h *FloorHandler) GetFloor(c echo.Context) error {
	cal, err := getCaller(c)
	if err != nil {
		return unauthorized(c)
	}
	tables, err := h.Reader.Floor(c.Request().Context(), cal.VenueID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"tables": tables})
}

// GetTableStatus handles GET /v1/tables/:id/status.  Asking about a merged
// table answers with the primary's status.
func (h *FloorHandler) GetTableStatus(c echo.Context) error {
	cal, err := getCaller(c)
	if err != nil {
		return unauthorized(c)
	}
	tableID, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid table id")
	}
	status, err := h.Reader.TableStatus(c.Request().Context(), cal.VenueID, tableID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, status)
}

// GetCounters handles GET /v1/counters.
func (h *FloorHandler) GetCounters(c echo.Context) error {
	cal, err := getCaller(c)
	if err != nil {
		return unauthorized(c)
	}
	counters, err := h.Reader.Counters(c.Request().Context(), cal.VenueID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, counters)
}

// ListReservations handles GET /v1/reservations.  With ?unassigned=true it
// returns only the waiting list (active reservations without a table).
func (h *FloorHandler) ListReservations(c echo.Context) error {
	cal, err := getCaller(c)
	if err != nil {
		return unauthorized(c)
	}
	unassigned := strings.EqualFold(c.QueryParam("unassigned"), "true")
	rs, err := h.Reader.Reservations(c.Request().Context(), cal.VenueID, unassigned)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": rs})
}
