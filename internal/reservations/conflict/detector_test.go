package conflict

import (
	"context"
	"errors"
	"testing"
	"time"

	"groundbook/pkg/config"
	"groundbook/pkg/logger"
	"groundbook/pkg/model"
)

type mockCalendarStore struct {
	queryEventsFunc func(ctx context.Context, timeMin, timeMax time.Time, textFilter string) ([]model.CalendarEvent, error)
	createEventFunc func(ctx context.Context, ev model.CalendarEvent) (string, error)
	deleteEventFunc func(ctx context.Context, id string) error
}

func (m *mockCalendarStore) QueryEvents(ctx context.Context, timeMin, timeMax time.Time, textFilter string) ([]model.CalendarEvent, error) {
	if m.queryEventsFunc != nil {
		return m.queryEventsFunc(ctx, timeMin, timeMax, textFilter)
	}
	return nil, nil
}

func (m *mockCalendarStore) CreateEvent(ctx context.Context, ev model.CalendarEvent) (string, error) {
	if m.createEventFunc != nil {
		return m.createEventFunc(ctx, ev)
	}
	return "event-1", nil
}

func (m *mockCalendarStore) DeleteEvent(ctx context.Context, id string) error {
	if m.deleteEventFunc != nil {
		return m.deleteEventFunc(ctx, id)
	}
	return nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Fatalf("failed to load timezone: %v", err)
	}
	return &config.Config{
		Location: loc,
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.FormatText,
			Service: "test",
		}),
	}
}

func testRequest() *model.ReservationRequest {
	return &model.ReservationRequest{
		Date:      "2026-09-02",
		StartTime: "10:00",
		EndTime:   "12:00",
		Hours:     2,
		Court:     "artificial",
		Category:  "general",
		Name:      "Tanaka",
	}
}

func eventAt(t *testing.T, loc *time.Location, summary, start, end string) model.CalendarEvent {
	t.Helper()
	s, err := time.ParseInLocation("2006-01-02 15:04", "2026-09-02 "+start, loc)
	if err != nil {
		t.Fatalf("bad start %s: %v", start, err)
	}
	e, err := time.ParseInLocation("2006-01-02 15:04", "2026-09-02 "+end, loc)
	if err != nil {
		t.Fatalf("bad end %s: %v", end, err)
	}
	return model.CalendarEvent{ID: "ev-1", Summary: summary, Start: s, End: e}
}

func TestHasConflict_OverlapRules(t *testing.T) {
	cfg := testConfig(t)

	tests := []struct {
		name    string
		summary string
		start   string
		end     string
		want    bool
	}{
		{name: "full overlap", summary: "[artificial] Suzuki", start: "10:00", end: "12:00", want: true},
		{name: "partial overlap at start", summary: "[artificial] Suzuki", start: "09:00", end: "11:00", want: true},
		{name: "partial overlap at end", summary: "[artificial] Suzuki", start: "11:00", end: "13:00", want: true},
		{name: "containing event", summary: "[artificial] Suzuki", start: "08:00", end: "14:00", want: true},
		{name: "back to back before", summary: "[artificial] Suzuki", start: "08:00", end: "10:00", want: false},
		{name: "back to back after", summary: "[artificial] Suzuki", start: "12:00", end: "14:00", want: false},
		{name: "other court ignored", summary: "[natural] Suzuki", start: "10:00", end: "12:00", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockCalendarStore{
				queryEventsFunc: func(ctx context.Context, timeMin, timeMax time.Time, textFilter string) ([]model.CalendarEvent, error) {
					return []model.CalendarEvent{eventAt(t, cfg.Location, tt.summary, tt.start, tt.end)}, nil
				},
			}

			detector := NewDetector(store, cfg)
			got, err := detector.HasConflict(context.Background(), testRequest())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected conflict=%v, got %v", tt.want, got)
			}
		})
	}
}

func TestHasConflict_StoreFailureDoesNotBlock(t *testing.T) {
	store := &mockCalendarStore{
		queryEventsFunc: func(ctx context.Context, timeMin, timeMax time.Time, textFilter string) ([]model.CalendarEvent, error) {
			return nil, errors.New("connection reset")
		},
	}

	detector := NewDetector(store, testConfig(t))
	got, err := detector.HasConflict(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("expected lookup failure to be absorbed, got error: %v", err)
	}
	if got {
		t.Error("expected no conflict when the calendar is unreachable")
	}
}

func TestHasConflict_InvalidWindow(t *testing.T) {
	detector := NewDetector(&mockCalendarStore{}, testConfig(t))

	req := testRequest()
	req.Date = "not-a-date"
	if _, err := detector.HasConflict(context.Background(), req); err == nil {
		t.Fatal("expected error for unparseable window")
	}
}
