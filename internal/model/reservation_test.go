package model

import (
	"testing"
	"time"
)

func mkReservation(start time.Time, minutes uint32) *Reservation {
	return &Reservation{StartsAt: start, DurationMinutes: minutes, Status: ReservationConfirmed}
}

func TestReservationCoversHalfOpenWindow(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC)
	r := mkReservation(start, 90)

	if !r.Covers(start) {
		t.Fatal("window should cover its own start")
	}
	if !r.Covers(start.Add(89 * time.Minute)) {
		t.Fatal("window should cover the last minute")
	}
	if r.Covers(start.Add(90 * time.Minute)) {
		t.Fatal("window must not cover its own end")
	}
	if r.Covers(start.Add(-time.Second)) {
		t.Fatal("window must not cover instants before the start")
	}
}

func TestReservationOverlaps(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC)
	r := mkReservation(start, 90) // 19:00-20:30

	cases := []struct {
		name    string
		start   time.Time
		minutes uint32
		want    bool
	}{
		{"identical", start, 90, true},
		{"contained", start.Add(30 * time.Minute), 30, true},
		{"straddles start", start.Add(-30 * time.Minute), 60, true},
		{"straddles end", start.Add(60 * time.Minute), 60, true},
		{"back-to-back before", start.Add(-60 * time.Minute), 60, false},
		{"back-to-back after", start.Add(90 * time.Minute), 60, false},
		{"well before", start.Add(-3 * time.Hour), 60, false},
		{"well after", start.Add(4 * time.Hour), 60, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.Overlaps(tc.start, tc.minutes); got != tc.want {
				t.Fatalf("Overlaps(%s, %d) = %v, want %v", tc.start.Format(time.Kitchen), tc.minutes, got, tc.want)
			}
		})
	}
}

func TestReservationEndsAt(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	r := mkReservation(start, 120)
	if got, want := r.EndsAt(), start.Add(2*time.Hour); !got.Equal(want) {
		t.Fatalf("EndsAt = %s, want %s", got, want)
	}
}
