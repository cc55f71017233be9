package normalizer

import (
	"errors"
	"testing"
	"time"

	"groundbook/pkg/config"
	"groundbook/pkg/logger"
	"groundbook/pkg/model"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Fatalf("failed to load timezone: %v", err)
	}
	return &config.Config{
		Timezone:        "Asia/Tokyo",
		Location:        loc,
		MinBookingHours: 2,
		UnitHours:       2,
		Categories:      config.DefaultCategories,
		DefaultCategory: config.DefaultCategoryID,
		Courts:          config.DefaultCourts,
		DefaultCourt:    config.DefaultDefaultCourt,
		WeekendDays:     config.DefaultWeekendDays,
		PaymentMethod:   config.DefaultPaymentMethod,
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.FormatText,
			Service: "test",
		}),
	}
}

func boolPtr(b bool) *bool { return &b }

func TestNormalize_CompleteCandidate(t *testing.T) {
	n := NewNormalizer(testConfig(t))

	// 2026-09-02 is a Wednesday.
	req, err := n.Normalize(&model.ReservationCandidate{
		IsReservation: true,
		Date:          "2026-09-02",
		StartTime:     "10:00",
		Hours:         2,
		Court:         "natural",
		Category:      "elementary",
		Name:          "  Sato   Hanako ",
		Phone:         "TEL: 090 1234 5678",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if req.EndTime != "12:00" {
		t.Errorf("expected end time 12:00, got %s", req.EndTime)
	}
	if req.Court != "natural" {
		t.Errorf("expected court natural, got %s", req.Court)
	}
	if req.Weekend {
		t.Error("expected weekday, got weekend")
	}
	if req.Name != "Sato Hanako" {
		t.Errorf("expected collapsed name, got %q", req.Name)
	}
	if req.Phone != "09012345678" {
		t.Errorf("expected normalized phone, got %q", req.Phone)
	}
}

func TestNormalize_MissingFieldsAreAggregated(t *testing.T) {
	n := NewNormalizer(testConfig(t))

	_, err := n.Normalize(&model.ReservationCandidate{
		IsReservation: true,
		Hours:         2,
	})
	if err == nil {
		t.Fatal("expected validation error")
	}

	var vErrs ValidationErrors
	if !errors.As(err, &vErrs) {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}

	fields := vErrs.Fields()
	want := map[string]bool{"date": false, "start_time": false, "name": false}
	for _, f := range fields {
		if _, ok := want[f]; ok {
			want[f] = true
		}
	}
	for f, seen := range want {
		if !seen {
			t.Errorf("expected %s to be reported, got %v", f, fields)
		}
	}
}

func TestNormalize_HoursRounding(t *testing.T) {
	tests := []struct {
		name      string
		hours     int
		endTime   string
		wantHours int
		wantEnd   string
	}{
		{name: "absent defaults to minimum", hours: 0, wantHours: 2, wantEnd: "12:00"},
		{name: "below minimum raised", hours: 1, wantHours: 2, wantEnd: "12:00"},
		{name: "odd rounded up to unit", hours: 3, wantHours: 4, wantEnd: "14:00"},
		{name: "conforming unchanged", hours: 4, wantHours: 4, wantEnd: "14:00"},
		{name: "derived from end time", hours: 0, endTime: "14:00", wantHours: 4, wantEnd: "14:00"},
		{name: "derived and rounded up", hours: 0, endTime: "13:00", wantHours: 4, wantEnd: "14:00"},
		{name: "inconsistent end recomputed", hours: 2, endTime: "17:30", wantHours: 2, wantEnd: "12:00"},
	}

	n := NewNormalizer(testConfig(t))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := n.Normalize(&model.ReservationCandidate{
				IsReservation: true,
				Date:          "2026-09-02",
				StartTime:     "10:00",
				EndTime:       tt.endTime,
				Hours:         tt.hours,
				Name:          "Tanaka",
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if req.Hours != tt.wantHours {
				t.Errorf("expected %d hours, got %d", tt.wantHours, req.Hours)
			}
			if req.EndTime != tt.wantEnd {
				t.Errorf("expected end %s, got %s", tt.wantEnd, req.EndTime)
			}
		})
	}
}

func TestNormalize_DayType(t *testing.T) {
	n := NewNormalizer(testConfig(t))

	tests := []struct {
		name        string
		date        string
		isWeekend   *bool
		wantWeekend bool
	}{
		{name: "saturday derives weekend", date: "2026-09-05", wantWeekend: true},
		{name: "wednesday derives weekday", date: "2026-09-02", wantWeekend: false},
		{name: "holiday flag overrides weekday", date: "2026-09-02", isWeekend: boolPtr(true), wantWeekend: true},
		{name: "explicit weekday override on saturday", date: "2026-09-05", isWeekend: boolPtr(false), wantWeekend: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := n.Normalize(&model.ReservationCandidate{
				IsReservation: true,
				Date:          tt.date,
				StartTime:     "10:00",
				Hours:         2,
				Name:          "Tanaka",
				IsWeekend:     tt.isWeekend,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if req.Weekend != tt.wantWeekend {
				t.Errorf("expected weekend=%v, got %v", tt.wantWeekend, req.Weekend)
			}
		})
	}
}

func TestNormalize_CourtHandling(t *testing.T) {
	n := NewNormalizer(testConfig(t))

	req, err := n.Normalize(&model.ReservationCandidate{
		IsReservation: true,
		Date:          "2026-09-02",
		StartTime:     "10:00",
		Hours:         2,
		Name:          "Tanaka",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Court != "artificial" {
		t.Errorf("expected default court artificial, got %s", req.Court)
	}

	_, err = n.Normalize(&model.ReservationCandidate{
		IsReservation: true,
		Date:          "2026-09-02",
		StartTime:     "10:00",
		Hours:         2,
		Court:         "clay",
		Name:          "Tanaka",
	})
	if err == nil {
		t.Fatal("expected error for unrecognized court")
	}
	var vErrs ValidationErrors
	if !errors.As(err, &vErrs) || vErrs[0].Field != "court" {
		t.Errorf("expected court validation error, got %v", err)
	}
}

func TestNormalize_UnknownCategoryFallsBack(t *testing.T) {
	n := NewNormalizer(testConfig(t))

	req, err := n.Normalize(&model.ReservationCandidate{
		IsReservation: true,
		Date:          "2026-09-02",
		StartTime:     "10:00",
		Hours:         2,
		Category:      "University",
		Name:          "Tanaka",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Category != "general" {
		t.Errorf("expected fallback to general, got %s", req.Category)
	}
}

func TestNormalize_ClockPadding(t *testing.T) {
	n := NewNormalizer(testConfig(t))

	req, err := n.Normalize(&model.ReservationCandidate{
		IsReservation: true,
		Date:          "2026-09-02",
		StartTime:     "9:00",
		Hours:         2,
		Name:          "Tanaka",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.StartTime != "09:00" {
		t.Errorf("expected padded start 09:00, got %s", req.StartTime)
	}
	if req.EndTime != "11:00" {
		t.Errorf("expected end 11:00, got %s", req.EndTime)
	}
}
