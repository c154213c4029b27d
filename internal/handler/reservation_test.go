package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestCreateReservationReturnsCreated(t *testing.T) {
	t.Parallel()
	e := echo.New()
	f := newFixture(t)
	h := NewReservationHandler(f.engine, f.invalidate)

	starts := time.Now().UTC().Add(2 * time.Hour).Format(time.RFC3339)
	c, rec := request(e, http.MethodPost, "/v1/reservations",
		`{"party_size":4,"starts_at":"`+starts+`","duration_minutes":90}`)

	if err := h.CreateReservation(c); err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status: want 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		ID     uint64 `json:"ID"`
		Status string `json:"Status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "PENDING" {
		t.Fatalf("new reservation should be PENDING, got %s", body.Status)
	}
}

func TestCreateReservationRejectsBadTimestamp(t *testing.T) {
	t.Parallel()
	e := echo.New()
	f := newFixture(t)
	h := NewReservationHandler(f.engine, f.invalidate)

	c, rec := request(e, http.MethodPost, "/v1/reservations",
		`{"party_size":4,"starts_at":"tonight at eight","duration_minutes":90}`)

	if err := h.CreateReservation(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: want 400, got %d", rec.Code)
	}
}

func TestCancelTwiceMapsToConflict(t *testing.T) {
	t.Parallel()
	e := echo.New()
	f := newFixture(t)
	h := NewReservationHandler(f.engine, f.invalidate)

	r, err := f.engine.CreateReservation(context.Background(), testVenue, 2, time.Now().UTC().Add(time.Hour), 60, nil)
	if err != nil {
		t.Fatalf("seed reservation: %v", err)
	}
	id := strconv.FormatUint(r.ID, 10)
	for i, wantCode := range []int{http.StatusOK, http.StatusConflict} {
		c, rec := request(e, http.MethodPost, "/v1/reservations/"+id+"/cancel", "")
		c.SetParamNames("id")
		c.SetParamValues(id)
		if err := h.CancelReservation(c); err != nil {
			t.Fatalf("cancel #%d: %v", i+1, err)
		}
		if rec.Code != wantCode {
			t.Fatalf("cancel #%d: want %d, got %d", i+1, wantCode, rec.Code)
		}
	}
}
