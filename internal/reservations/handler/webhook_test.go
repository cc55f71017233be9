package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"groundbook/internal/ledger"
	"groundbook/internal/notify"
	"groundbook/internal/pricing"
	"groundbook/internal/reservations/normalizer"
	"groundbook/internal/reservations/service"
	"groundbook/pkg/config"
	"groundbook/pkg/logger"
	"groundbook/pkg/model"
)

type mockExtractor struct {
	extractTextFunc  func(ctx context.Context, text string) (*model.ReservationCandidate, error)
	extractImageFunc func(ctx context.Context, imageData []byte, mimeType string) (*model.ReservationCandidate, error)
}

func (m *mockExtractor) ExtractText(ctx context.Context, text string) (*model.ReservationCandidate, error) {
	if m.extractTextFunc != nil {
		return m.extractTextFunc(ctx, text)
	}
	return &model.ReservationCandidate{}, nil
}

func (m *mockExtractor) ExtractImage(ctx context.Context, imageData []byte, mimeType string) (*model.ReservationCandidate, error) {
	if m.extractImageFunc != nil {
		return m.extractImageFunc(ctx, imageData, mimeType)
	}
	return &model.ReservationCandidate{}, nil
}

type mockCalendarStore struct{}

func (mockCalendarStore) QueryEvents(context.Context, time.Time, time.Time, string) ([]model.CalendarEvent, error) {
	return nil, nil
}
func (mockCalendarStore) CreateEvent(context.Context, model.CalendarEvent) (string, error) {
	return "event-1", nil
}
func (mockCalendarStore) DeleteEvent(context.Context, string) error { return nil }

type mockLedgerStore struct {
	rows [][]string
}

func (m *mockLedgerStore) EnsureHeaderRow(context.Context, []string) error { return nil }
func (m *mockLedgerStore) AppendRow(_ context.Context, columns []string) (int64, error) {
	m.rows = append(m.rows, columns)
	return int64(len(m.rows)) + 1, nil
}
func (m *mockLedgerStore) ReadRows(context.Context) ([][]string, error) { return m.rows, nil }
func (m *mockLedgerStore) UpdateStatus(context.Context, string, string) error {
	return nil
}

type noConflict struct{}

func (noConflict) HasConflict(context.Context, *model.ReservationRequest) (bool, error) {
	return false, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
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

func newTestRouter(t *testing.T, extractor *mockExtractor) (*httprouter.Router, *mockLedgerStore) {
	t.Helper()
	cfg := testConfig(t)
	led := &mockLedgerStore{}

	committer := service.NewCommitter(
		normalizer.NewNormalizer(cfg),
		noConflict{},
		pricing.NewPolicy(cfg),
		mockCalendarStore{},
		led,
		notify.NopSink{},
		cfg,
	)
	queries := ledger.NewQueryService(led, cfg)

	router := httprouter.New()
	NewWebhookHandler(extractor, committer, queries, cfg).RegisterRoutes(router)
	NewReservationHandler(queries, committer, cfg).RegisterRoutes(router)
	return router, led
}

func postWebhook(t *testing.T, router *httprouter.Router, payload string) (int, webhookResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp webhookResponse
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec.Code, resp
}

func TestWebhook_ReservationFlow(t *testing.T) {
	extractor := &mockExtractor{
		extractTextFunc: func(ctx context.Context, text string) (*model.ReservationCandidate, error) {
			return &model.ReservationCandidate{
				IsReservation: true,
				Date:          "2026-09-05",
				StartTime:     "10:00",
				Hours:         2,
				Court:         "artificial",
				Category:      "general",
				Name:          "Tanaka",
			}, nil
		},
	}
	router, led := newTestRouter(t, extractor)

	status, resp := postWebhook(t, router, `{"type":"text","text":"book saturday 10-12 for Tanaka"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, resp.Reply, "Reservation confirmed")
	assert.Contains(t, resp.Reply, "26000 yen")
	assert.Contains(t, resp.Reply, "weekend")
	require.Len(t, led.rows, 1)
}

func TestWebhook_NotAReservation(t *testing.T) {
	extractor := &mockExtractor{
		extractTextFunc: func(ctx context.Context, text string) (*model.ReservationCandidate, error) {
			return &model.ReservationCandidate{IsReservation: false}, nil
		},
	}
	router, led := newTestRouter(t, extractor)

	status, resp := postWebhook(t, router, `{"type":"text","text":"hello there"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, resp.Reply, "could not find reservation details")
	assert.Empty(t, led.rows)
}

func TestWebhook_MissingFieldsReply(t *testing.T) {
	extractor := &mockExtractor{
		extractTextFunc: func(ctx context.Context, text string) (*model.ReservationCandidate, error) {
			return &model.ReservationCandidate{IsReservation: true, Date: "2026-09-05"}, nil
		},
	}
	router, _ := newTestRouter(t, extractor)

	status, resp := postWebhook(t, router, `{"type":"text","text":"book something"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, resp.Reply, "missing some details")
	assert.Contains(t, resp.Reply, "start_time")
	assert.Contains(t, resp.Reply, "name")
}

func TestWebhook_HelpCommand(t *testing.T) {
	router, _ := newTestRouter(t, &mockExtractor{})

	status, resp := postWebhook(t, router, `{"type":"text","text":"/help"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, resp.Reply, "/list")
	assert.Contains(t, resp.Reply, "/cancel")
}

func TestWebhook_ListCommandEmpty(t *testing.T) {
	router, _ := newTestRouter(t, &mockExtractor{})

	status, resp := postWebhook(t, router, `{"type":"text","text":"/list"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "No bookings today.", resp.Reply)
}

func TestWebhook_CancelForwardsRequest(t *testing.T) {
	router, led := newTestRouter(t, &mockExtractor{})

	row := make([]string, ledger.ColumnCount)
	row[ledger.ColReservationID] = "R1"
	row[ledger.ColDate] = "2026-09-05"
	row[ledger.ColStartTime] = "10:00"
	row[ledger.ColEndTime] = "12:00"
	row[ledger.ColName] = "Tanaka"
	row[ledger.ColHours] = "2"
	row[ledger.ColRatePerHour] = "13000"
	row[ledger.ColTotal] = "26000"
	row[ledger.ColStatus] = model.StatusConfirmed
	led.rows = append(led.rows, row)

	status, resp := postWebhook(t, router, `{"type":"text","text":"/cancel R1"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, resp.Reply, "forwarded to the staff")
	assert.Equal(t, model.StatusConfirmed, led.rows[0][ledger.ColStatus], "relay must not mutate the ledger")
}

func TestWebhook_CancelUnknownID(t *testing.T) {
	router, _ := newTestRouter(t, &mockExtractor{})

	status, resp := postWebhook(t, router, `{"type":"text","text":"/cancel R-nope"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, resp.Reply, "No reservation found")
}

func TestWebhook_InvalidJSON(t *testing.T) {
	router, _ := newTestRouter(t, &mockExtractor{})

	status, _ := postWebhook(t, router, `{not json`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestReservations_TodayEndpoint(t *testing.T) {
	router, led := newTestRouter(t, &mockExtractor{})

	today := time.Now().In(time.FixedZone("JST", 9*3600)).Format(model.DateLayout)
	row := make([]string, ledger.ColumnCount)
	row[ledger.ColReservationID] = "R1"
	row[ledger.ColDate] = today
	row[ledger.ColStartTime] = "10:00"
	row[ledger.ColEndTime] = "12:00"
	row[ledger.ColHours] = "2"
	row[ledger.ColRatePerHour] = "12000"
	row[ledger.ColTotal] = "24000"
	row[ledger.ColStatus] = model.StatusConfirmed
	led.rows = append(led.rows, row)

	req := httptest.NewRequest(http.MethodGet, "/reservations/today", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":1`)
	assert.Contains(t, rec.Body.String(), "R1")
}

func TestReservations_SummaryEndpoint(t *testing.T) {
	router, led := newTestRouter(t, &mockExtractor{})

	row := make([]string, ledger.ColumnCount)
	row[ledger.ColReservationID] = "R1"
	row[ledger.ColDate] = "2026-09-05"
	row[ledger.ColStartTime] = "10:00"
	row[ledger.ColHours] = "2"
	row[ledger.ColRatePerHour] = "13000"
	row[ledger.ColTotal] = "26000"
	row[ledger.ColStatus] = model.StatusConfirmed
	led.rows = append(led.rows, row)

	req := httptest.NewRequest(http.MethodGet, "/reservations/summary/2026/9", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_fee":26000`)

	req = httptest.NewRequest(http.MethodGet, "/reservations/summary/2026/13", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
