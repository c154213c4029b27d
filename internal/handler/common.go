package handler // handler defines the HTTP handlers for the floor API

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/tablekeeper/floorplan/internal/store"
)

// caller is the identity resolved by the JWT middleware: which venue the
// request is scoped to, who is acting and in what role.
type caller struct {
	VenueID uint64
	UserID  uint64
	Role    string
}

// getCaller extracts the caller from the echo context.  JWT claims decode
// numbers as float64, so several representations are accepted.  A request
// that reaches a handler without a resolvable venue is treated as
// unauthorized, never as venue zero.
func getCaller(c echo.Context) (caller, error) {
	venueID, err := contextUint(c, "venue_id")
	if err != nil {
		return caller{}, err
	}
	userID, err := contextUint(c, "user_id")
	if err != nil {
		return caller{}, err
	}
	role, _ := c.Get("role").(string)
	return caller{VenueID: venueID, UserID: userID, Role: role}, nil
}

func contextUint(c echo.Context, key string) (uint64, error) {
	switch t := c.Get(key).(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid " + key + " in context")
}

// pathID parses a numeric path parameter, rejecting zero.
func pathID(c echo.Context, name string) (uint64, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	return n, err == nil && n != 0
}

// writeError maps the store sentinels onto the API's error envelope.
// NotFound covers missing entities and tenancy violations alike; 409 tells
// the client the operation raced or its precondition no longer holds; any
// other error is reported as internal without leaking details.
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, store.ErrTableNotFound),
		errors.Is(err, store.ErrSessionNotFound),
		errors.Is(err, store.ErrReservationNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not_found", "reason": err.Error()})
	case errors.Is(err, store.ErrInvalidState):
		return c.JSON(http.StatusConflict, echo.Map{"error": "invalid_state", "reason": err.Error()})
	case errors.Is(err, store.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "conflict", "reason": err.Error()})
	default:
		c.Logger().Errorf("internal error: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal", "reason": "internal error"})
	}
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
}

func badRequest(c echo.Context, reason string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad_request", "reason": reason})
}
