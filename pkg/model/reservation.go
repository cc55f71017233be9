package model

import (
	"fmt"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// ReservationCandidate is the untrusted output of the external extractor.
// Nothing here is assumed valid until it passes through the normalizer.
type ReservationCandidate struct {
	IsReservation bool    `json:"is_reservation"`
	Date          string  `json:"date,omitempty"`
	StartTime     string  `json:"start_time,omitempty"`
	EndTime       string  `json:"end_time,omitempty"`
	Hours         int     `json:"hours,omitempty"`
	Court         string  `json:"court,omitempty"`
	Category      string  `json:"category,omitempty"`
	IsWeekend     *bool   `json:"is_weekend,omitempty"`
	Name          string  `json:"name,omitempty"`
	Phone         string  `json:"phone,omitempty"`
	Notes         string  `json:"notes,omitempty"`
	Confidence    float64 `json:"confidence,omitempty"`
}

// ReservationRequest is a normalized, invariant-bearing reservation.
// Invariants held on construction: EndTime = StartTime + Hours, Hours is a
// positive multiple of the booking unit, Court and Category come from the
// configured sets. Treated as immutable once built.
type ReservationRequest struct {
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime   string `json:"end_time" validate:"required,datetime=15:04"`
	Hours     int    `json:"hours" validate:"required,min=1"`
	Court     string `json:"court" validate:"required"`
	Category  string `json:"category" validate:"required"`
	Weekend   bool   `json:"weekend"`
	Name      string `json:"name" validate:"required"`
	Phone     string `json:"phone,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// Window returns the [start, end) instants of the request in loc.
func (r *ReservationRequest) Window(loc *time.Location) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(DateLayout+" "+TimeLayout, r.Date+" "+r.StartTime, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start of window: %w", err)
	}
	end := start.Add(time.Duration(r.Hours) * time.Hour)
	return start, end, nil
}

// DayOfWeek returns the short weekday label ("Mon".."Sun") of the
// reservation date, or "" when the date does not parse.
func (r *ReservationRequest) DayOfWeek() string {
	d, err := time.Parse(DateLayout, r.Date)
	if err != nil {
		return ""
	}
	return d.Weekday().String()[:3]
}

const (
	DayTypeWeekday = "weekday"
	DayTypeWeekend = "weekend"
)

// DayTypeLabel maps the weekend flag onto the label used across the ledger,
// calendar descriptions and notifications.
func DayTypeLabel(weekend bool) string {
	if weekend {
		return DayTypeWeekend
	}
	return DayTypeWeekday
}
