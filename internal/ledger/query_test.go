package ledger

import (
	"context"
	"testing"
	"time"

	"groundbook/pkg/config"
	"groundbook/pkg/logger"
	"groundbook/pkg/model"
)

type mockStore struct {
	ensureHeaderFunc func(ctx context.Context, columns []string) error
	appendRowFunc    func(ctx context.Context, columns []string) (int64, error)
	readRowsFunc     func(ctx context.Context) ([][]string, error)
	updateStatusFunc func(ctx context.Context, reservationID, status string) error
}

func (m *mockStore) EnsureHeaderRow(ctx context.Context, columns []string) error {
	if m.ensureHeaderFunc != nil {
		return m.ensureHeaderFunc(ctx, columns)
	}
	return nil
}

func (m *mockStore) AppendRow(ctx context.Context, columns []string) (int64, error) {
	if m.appendRowFunc != nil {
		return m.appendRowFunc(ctx, columns)
	}
	return 2, nil
}

func (m *mockStore) ReadRows(ctx context.Context) ([][]string, error) {
	if m.readRowsFunc != nil {
		return m.readRowsFunc(ctx)
	}
	return nil, nil
}

func (m *mockStore) UpdateStatus(ctx context.Context, reservationID, status string) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, reservationID, status)
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

func rowFor(id, date, start, status, total string) []string {
	row := make([]string, ColumnCount)
	row[ColReservationID] = id
	row[ColDate] = date
	row[ColStartTime] = start
	row[ColEndTime] = "23:59"
	row[ColHours] = "2"
	row[ColRatePerHour] = "12000"
	row[ColTotal] = total
	row[ColStatus] = status
	return row
}

func TestListToday_FiltersAndOrders(t *testing.T) {
	cfg := testConfig(t)
	today := time.Now().In(cfg.Location).Format(model.DateLayout)

	store := &mockStore{
		readRowsFunc: func(ctx context.Context) ([][]string, error) {
			return [][]string{
				rowFor("R3", today, "14:00", model.StatusConfirmed, "24000"),
				rowFor("R1", today, "09:00", model.StatusConfirmed, "24000"),
				rowFor("R2", today, "10:00", model.StatusCancelled, "24000"),
				rowFor("R4", "2026-01-01", "08:00", model.StatusConfirmed, "24000"),
			}, nil
		},
	}

	records, err := NewQueryService(store, cfg).ListToday(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].ReservationID != "R1" || records[1].ReservationID != "R3" {
		t.Errorf("expected order R1, R3, got %s, %s", records[0].ReservationID, records[1].ReservationID)
	}
}

func TestListToday_KeepsPartiallyReadableRows(t *testing.T) {
	cfg := testConfig(t)
	today := time.Now().In(cfg.Location).Format(model.DateLayout)

	store := &mockStore{
		readRowsFunc: func(ctx context.Context) ([][]string, error) {
			return [][]string{
				rowFor("R1", today, "09:00", model.StatusConfirmed, "24000"),
				rowFor("R2", today, "11:00", model.StatusConfirmed, "not-a-number"),
			}, nil
		},
	}

	records, err := NewQueryService(store, cfg).ListToday(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("a corrupted fee cell must not hide the booking, got %d records", len(records))
	}
	if records[1].ReservationID != "R2" {
		t.Errorf("expected R2 to be listed, got %s", records[1].ReservationID)
	}
	if records[1].Total != 0 {
		t.Errorf("unreadable total should be zero, got %d", records[1].Total)
	}
}

func TestSummarize_AggregatesMonth(t *testing.T) {
	cfg := testConfig(t)

	store := &mockStore{
		readRowsFunc: func(ctx context.Context) ([][]string, error) {
			return [][]string{
				rowFor("R1", "2026-09-02", "09:00", model.StatusConfirmed, "24000"),
				rowFor("R2", "2026-09-05", "10:00", model.StatusConfirmed, "26000"),
				rowFor("R3", "2026-09-08", "10:00", model.StatusCancelled, "24000"),
				rowFor("R4", "2026-10-01", "10:00", model.StatusConfirmed, "24000"),
				rowFor("R5", "2026-09-12", "10:00", model.StatusConfirmed, "not-a-number"),
			}, nil
		},
	}

	summary, err := NewQueryService(store, cfg).Summarize(context.Background(), 2026, 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.Count != 3 {
		t.Errorf("expected 3 active bookings in September, got %d", summary.Count)
	}
	if summary.CancelledCount != 1 {
		t.Errorf("expected 1 cancelled booking, got %d", summary.CancelledCount)
	}
	if summary.TotalFee != 50000 {
		t.Errorf("expected total 50000 with the malformed cell skipped, got %d", summary.TotalFee)
	}
}

func TestSummarize_RejectsInvalidMonth(t *testing.T) {
	svc := NewQueryService(&mockStore{}, testConfig(t))

	if _, err := svc.Summarize(context.Background(), 2026, 0); err == nil {
		t.Error("expected error for month 0")
	}
	if _, err := svc.Summarize(context.Background(), 2026, 13); err == nil {
		t.Error("expected error for month 13")
	}
}

func TestRowRoundTrip(t *testing.T) {
	rec := &model.BookingRecord{
		ReservationID:   "R20260902-abc",
		ReceivedAt:      "2026-09-02T09:00:00+09:00",
		Date:            "2026-09-02",
		DayOfWeek:       "Wed",
		StartTime:       "10:00",
		EndTime:         "12:00",
		Court:           "artificial",
		Name:            "Tanaka",
		Phone:           "09012345678",
		CategoryLabel:   "General",
		Hours:           2,
		RatePerHour:     12000,
		Total:           24000,
		DayType:         model.DayTypeWeekday,
		Status:          model.StatusConfirmed,
		CalendarEventID: "event-1",
		Notes:           "monthly practice",
	}

	row := RecordToRow(rec)
	if len(row) != ColumnCount {
		t.Fatalf("expected %d columns, got %d", ColumnCount, len(row))
	}

	back, err := RowToRecord(row)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *back != *rec {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", back, rec)
	}
}

func TestRowToRecord_ShortAndMalformedRows(t *testing.T) {
	rec, err := RowToRecord([]string{"R1", "", "2026-09-02"})
	if err != nil {
		t.Fatalf("short rows must be padded, got error: %v", err)
	}
	if rec.ReservationID != "R1" || rec.Date != "2026-09-02" {
		t.Errorf("unexpected record from short row: %+v", rec)
	}

	row := rowFor("R2", "2026-09-02", "10:00", model.StatusConfirmed, "abc")
	rec, err = RowToRecord(row)
	if err == nil {
		t.Fatal("expected error for malformed total cell")
	}
	if rec == nil || rec.ReservationID != "R2" {
		t.Error("malformed rows must still return the readable fields")
	}
}
