package ledger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"groundbook/pkg/config"
	apperrors "groundbook/pkg/errors"
	"groundbook/pkg/logger"
	"groundbook/pkg/model"
)

// MonthlySummary aggregates one calendar month of the ledger. Cancelled
// rows are counted separately and contribute nothing to TotalFee.
type MonthlySummary struct {
	Year           int `json:"year"`
	Month          int `json:"month"`
	Count          int `json:"count"`
	CancelledCount int `json:"cancelled_count"`
	TotalFee       int `json:"total_fee"`
}

// QueryService is the read side of the ledger. It shares only the row
// schema with the write path.
type QueryService struct {
	store Store
	loc   *time.Location
	log   *logger.Logger
}

func NewQueryService(store Store, cfg *config.Config) *QueryService {
	return &QueryService{
		store: store,
		loc:   cfg.Location,
		log:   cfg.Log,
	}
}

// ListToday returns today's non-cancelled bookings ordered by start time.
// The fixed-width HH:MM format makes lexicographic order chronological.
// A row with an unreadable numeric cell is still listed with its readable
// fields so a corrupted fee never hides a real booking.
func (q *QueryService) ListToday(ctx context.Context) ([]*model.BookingRecord, error) {
	rows, err := q.store.ReadRows(ctx)
	if err != nil {
		q.log.Error("Failed to read ledger rows", "error", err)
		return nil, apperrors.Internal("Failed to list today's bookings", err)
	}

	today := time.Now().In(q.loc).Format(model.DateLayout)

	var records []*model.BookingRecord
	for _, row := range rows {
		if len(row) <= ColDate || row[ColDate] != today {
			continue
		}
		rec, rErr := RowToRecord(row)
		if rErr != nil {
			q.log.Warn("Booking row is partially unreadable",
				"reservation_id", rec.ReservationID,
				"error", rErr,
			)
		}
		if rec.Status == model.StatusCancelled {
			continue
		}
		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].StartTime < records[j].StartTime
	})

	return records, nil
}

// Summarize aggregates the given month. Malformed fee cells are skipped
// with a warning rather than aborting the whole aggregation.
func (q *QueryService) Summarize(ctx context.Context, year, month int) (*MonthlySummary, error) {
	if month < 1 || month > 12 {
		return nil, apperrors.InvalidInput(fmt.Sprintf("month must be between 1 and 12, got: %d", month))
	}

	rows, err := q.store.ReadRows(ctx)
	if err != nil {
		q.log.Error("Failed to read ledger rows", "error", err)
		return nil, apperrors.Internal("Failed to summarize the ledger", err)
	}

	prefix := fmt.Sprintf("%04d-%02d", year, month)
	summary := &MonthlySummary{Year: year, Month: month}

	for _, row := range rows {
		if len(row) <= ColStatus || len(row[ColDate]) < len(prefix) || row[ColDate][:len(prefix)] != prefix {
			continue
		}
		if row[ColStatus] == model.StatusCancelled {
			summary.CancelledCount++
			continue
		}
		summary.Count++

		rec, err := RowToRecord(row)
		if err != nil {
			q.log.Warn("Skipping unreadable fee cell in monthly summary",
				"reservation_id", row[ColReservationID],
				"error", err,
			)
			continue
		}
		summary.TotalFee += rec.Total
	}

	return summary, nil
}
