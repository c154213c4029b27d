package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tablekeeper/floorplan/internal/engine"
	"github.com/tablekeeper/floorplan/internal/model"
)

// ReservationHandler exposes the reservation ledger operations: create,
// assign, unassign, cancel and no-show.
type ReservationHandler struct {
	Engine     *engine.Engine
	Invalidate func(ctx context.Context, venueID uint64)
}

// NewReservationHandler constructs a ReservationHandler.
func NewReservationHandler(eng *engine.Engine, invalidate func(ctx context.Context, venueID uint64)) *ReservationHandler {
	if eng == nil {
		panic("nil engine passed to NewReservationHandler")
	}
	return &ReservationHandler{Engine: eng, Invalidate: invalidate}
}

func (h *ReservationHandler) invalidated(c echo.Context, venueID uint64) {
	if h.Invalidate != nil {
		h.Invalidate(c.Request().Context(), venueID)
	}
}

// CreateReservation handles POST /v1/reservations with body
// {party_size, starts_at, duration_minutes, table_id?}.  starts_at is
// RFC3339; table_id may be omitted for walk-in-list bookings.
func (h *ReservationHandler) CreateReservation(c echo.Context) error {
	cal, err := getCaller(c)
	if err != nil {
		return unauthorized(c)
	}
	var body struct {
		PartySize       uint32  `json:"party_size"`
		StartsAt        string  `json:"starts_at"`
		DurationMinutes uint32  `json:"duration_minutes"`
		TableID         *uint64 `json:"table_id"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	startsAt, err := time.Parse(time.RFC3339, body.StartsAt)
	if err != nil {
		return badRequest(c, "starts_at must be RFC3339")
	}
	r, err := h.Engine.CreateReservation(c.Request().Context(), cal.VenueID, body.PartySize, startsAt, body.DurationMinutes, body.TableID)
	if err != nil {
		return writeError(c, err)
	}
	h.invalidated(c, cal.VenueID)
	return c.JSON(http.StatusCreated, r)
}

// AssignReservation handles POST /v1/reservations/:id/assign with body
// {table_id}.
func (h *ReservationHandler) AssignReservation(c echo.Context) error {
	cal, err := getCaller(c)
	if err != nil {
		return unauthorized(c)
	}
	reservationID, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid reservation id")
	}
	var body struct {
		TableID uint64 `json:"table_id"`
	}
	if err := c.Bind(&body); err != nil || body.TableID == 0 {
		return badRequest(c, "table_id is required")
	}
	r, err := h.Engine.AssignReservation(c.Request().Context(), cal.VenueID, reservationID, body.TableID)
	if err != nil {
		return writeError(c, err)
	}
	h.invalidated(c, cal.VenueID)
	return c.JSON(http.StatusOK, r)
}

// UnassignReservation handles POST /v1/reservations/:id/unassign.
func (h *ReservationHandler) UnassignReservation(c echo.Context) error {
	cal, err := getCaller(c)
	if err != nil {
		return unauthorized(c)
	}
	reservationID, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid reservation id")
	}
	r, err := h.Engine.UnassignReservation(c.Request().Context(), cal.VenueID, reservationID)
	if err != nil {
		return writeError(c, err)
	}
	h.invalidated(c, cal.VenueID)
	return c.JSON(http.StatusOK, r)
}

// ConfirmReservation handles POST /v1/reservations/:id/confirm.
func (h *ReservationHandler) ConfirmReservation(c echo.Context) error {
	return h.transition(c, (*engine.Engine).ConfirmReservation)
}

// CancelReservation handles POST /v1/reservations/:id/cancel.
func (h *ReservationHandler) CancelReservation(c echo.Context) error {
	return h.transition(c, (*engine.Engine).CancelReservation)
}

// NoShowReservation handles POST /v1/reservations/:id/no-show.
func (h *ReservationHandler) NoShowReservation(c echo.Context) error {
	return h.transition(c, (*engine.Engine).NoShowReservation)
}

func (h *ReservationHandler) transition(c echo.Context, op func(*engine.Engine, context.Context, uint64, uint64) (*model.Reservation, error)) error {
	cal, err := getCaller(c)
	if err != nil {
		return unauthorized(c)
	}
	reservationID, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid reservation id")
	}
	r, err := op(h.Engine, c.Request().Context(), cal.VenueID, reservationID)
	if err != nil {
		return writeError(c, err)
	}
	h.invalidated(c, cal.VenueID)
	return c.JSON(http.StatusOK, r)
}
