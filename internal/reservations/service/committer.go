// Package service drives a reservation candidate through the full commit
// pipeline: normalize, conflict-check, price, then write to the calendar,
// the ledger and the notification sinks in that order.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"groundbook/internal/calendar"
	"groundbook/internal/ledger"
	"groundbook/internal/notify"
	reservationerrors "groundbook/internal/reservations/errors"
	"groundbook/internal/reservations/normalizer"
	"groundbook/pkg/config"
	apperrors "groundbook/pkg/errors"
	"groundbook/pkg/logger"
	"groundbook/pkg/model"
)

// ConflictChecker reports whether a request overlaps an existing booking.
type ConflictChecker interface {
	HasConflict(ctx context.Context, req *model.ReservationRequest) (bool, error)
}

// FeeCalculator prices a category and day-type for a number of hours.
type FeeCalculator interface {
	ComputeFee(category string, weekend bool, hours int) model.FeeBreakdown
}

// Committer owns the calendar-then-ledger write order. The calendar write
// goes first because it is what the conflict detector reads; a ledger
// failure afterwards deletes the just-created event so the slot is not
// left occupied by a booking the ledger never saw.
type Committer struct {
	normalizer *normalizer.Normalizer
	checker    ConflictChecker
	fees       FeeCalculator
	calendar   calendar.Store
	ledger     ledger.Store
	sink       notify.Sink
	cfg        *config.Config
	log        *logger.Logger

	// courtLocks serializes conflict-check and calendar write per court so
	// two concurrent requests for the same slot cannot both pass the check.
	mu         sync.Mutex
	courtLocks map[string]*sync.Mutex
}

func NewCommitter(
	norm *normalizer.Normalizer,
	checker ConflictChecker,
	fees FeeCalculator,
	calendarStore calendar.Store,
	ledgerStore ledger.Store,
	sink notify.Sink,
	cfg *config.Config,
) *Committer {
	return &Committer{
		normalizer: norm,
		checker:    checker,
		fees:       fees,
		calendar:   calendarStore,
		ledger:     ledgerStore,
		sink:       sink,
		cfg:        cfg,
		log:        cfg.Log,
		courtLocks: make(map[string]*sync.Mutex),
	}
}

// Commit runs the whole pipeline for one candidate and returns the
// confirmation of the committed reservation.
func (c *Committer) Commit(ctx context.Context, candidate *model.ReservationCandidate) (*model.Confirmation, error) {
	if candidate == nil || !candidate.IsReservation {
		return nil, reservationerrors.ErrNotReservation
	}

	req, err := c.normalizer.Normalize(candidate)
	if err != nil {
		var vErrs normalizer.ValidationErrors
		if errors.As(err, &vErrs) {
			return nil, apperrors.Validation("Reservation request is incomplete or invalid",
				map[string]any{"fields": vErrs.Fields(), "errors": vErrs.Error()})
		}
		return nil, apperrors.Internal("Failed to normalize the reservation request", err)
	}

	lock := c.lockFor(req.Court)
	lock.Lock()
	defer lock.Unlock()

	taken, err := c.checker.HasConflict(ctx, req)
	if err != nil {
		return nil, apperrors.Internal("Conflict check failed", err)
	}
	if taken {
		if nErr := c.sink.ConflictDetected(ctx, req); nErr != nil {
			c.log.Warn("Conflict notification failed", "error", nErr)
		}
		appErr := apperrors.Conflict(fmt.Sprintf(
			"%s is already booked on %s %s-%s", req.Court, req.Date, req.StartTime, req.EndTime))
		appErr.Err = reservationerrors.ErrSlotTaken
		return nil, appErr
	}

	fee := c.fees.ComputeFee(req.Category, req.Weekend, req.Hours)
	reservationID := newReservationID()

	eventID, err := c.calendar.CreateEvent(ctx, c.buildEvent(reservationID, req, fee))
	if err != nil {
		c.log.Error("Calendar write failed, aborting commit",
			"reservation_id", reservationID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to write the reservation to the calendar", err)
	}

	record := c.buildRecord(reservationID, eventID, req, fee)
	rowIndex, err := c.appendToLedger(ctx, record)
	if err != nil {
		c.compensateCalendar(ctx, reservationID, eventID)
		return nil, apperrors.Internal("Failed to write the reservation to the ledger", err)
	}

	conf := &model.Confirmation{
		ReservationID:   reservationID,
		Request:         req,
		Fee:             fee,
		CalendarEventID: eventID,
		LedgerRow:       rowIndex,
	}

	if nErr := c.sink.ReservationConfirmed(ctx, conf); nErr != nil {
		c.log.Warn("Confirmation notification failed",
			"reservation_id", reservationID,
			"error", nErr,
		)
	}

	c.log.Info("Reservation committed",
		"reservation_id", reservationID,
		"court", req.Court,
		"date", req.Date,
		"time", req.StartTime+"-"+req.EndTime,
		"total", fee.Total,
		"ledger_row", rowIndex,
	)
	return conf, nil
}

// RequestCancel forwards a cancellation request to the sinks without
// touching any store. The inbound channel only relays the request; the
// actual status transition is the admin cancellation's job.
func (c *Committer) RequestCancel(ctx context.Context, reservationID string) (*model.BookingRecord, error) {
	record, err := c.findRecord(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	if nErr := c.sink.CancelRequested(ctx, record); nErr != nil {
		c.log.Warn("Cancellation request notification failed",
			"reservation_id", reservationID,
			"error", nErr,
		)
	}

	c.log.Info("Cancellation requested", "reservation_id", reservationID)
	return record, nil
}

// Cancel transitions a booking to cancelled, frees its calendar slot and
// notifies the sinks. The ledger row stays, only its status cell changes.
func (c *Committer) Cancel(ctx context.Context, reservationID string) (*model.BookingRecord, error) {
	record, err := c.findRecord(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if record.Status == model.StatusCancelled {
		return nil, apperrors.Conflict(fmt.Sprintf("Reservation %s is already cancelled", reservationID))
	}

	if record.CalendarEventID != "" {
		if dErr := c.calendar.DeleteEvent(ctx, record.CalendarEventID); dErr != nil {
			c.log.Warn("Failed to delete calendar event for cancelled reservation",
				"reservation_id", reservationID,
				"event_id", record.CalendarEventID,
				"error", dErr,
			)
		}
	}

	if err := c.ledger.UpdateStatus(ctx, reservationID, model.StatusCancelled); err != nil {
		if errors.Is(err, reservationerrors.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Reservation")
		}
		return nil, apperrors.Internal("Failed to update the reservation status", err)
	}
	record.Status = model.StatusCancelled

	if nErr := c.sink.CancelRequested(ctx, record); nErr != nil {
		c.log.Warn("Cancellation notification failed",
			"reservation_id", reservationID,
			"error", nErr,
		)
	}

	c.log.Info("Reservation cancelled", "reservation_id", reservationID)
	return record, nil
}

func (c *Committer) findRecord(ctx context.Context, reservationID string) (*model.BookingRecord, error) {
	rows, err := c.ledger.ReadRows(ctx)
	if err != nil {
		return nil, apperrors.Internal("Failed to read the ledger", err)
	}
	for _, row := range rows {
		if len(row) > ledger.ColReservationID && row[ledger.ColReservationID] == reservationID {
			record, rErr := ledger.RowToRecord(row)
			if rErr != nil {
				c.log.Warn("Booking row is partially unreadable",
					"reservation_id", reservationID,
					"error", rErr,
				)
			}
			return record, nil
		}
	}
	return nil, apperrors.NotFound("Reservation")
}

func (c *Committer) appendToLedger(ctx context.Context, record *model.BookingRecord) (int64, error) {
	if err := c.ledger.EnsureHeaderRow(ctx, ledger.Header); err != nil {
		return 0, err
	}
	return c.ledger.AppendRow(ctx, ledger.RecordToRow(record))
}

func (c *Committer) compensateCalendar(ctx context.Context, reservationID, eventID string) {
	if err := c.calendar.DeleteEvent(ctx, eventID); err != nil {
		c.log.Error("Compensating calendar delete failed, event is orphaned",
			"reservation_id", reservationID,
			"event_id", eventID,
			"error", err,
		)
		return
	}
	c.log.Warn("Ledger write failed, calendar event rolled back",
		"reservation_id", reservationID,
		"event_id", eventID,
	)
}

func (c *Committer) buildEvent(reservationID string, req *model.ReservationRequest, fee model.FeeBreakdown) model.CalendarEvent {
	start, end, _ := req.Window(c.cfg.Location)

	var colorTag string
	if court := c.cfg.CourtByID(req.Court); court != nil {
		colorTag = court.ColorTag
	}

	desc := []string{
		"Reservation: " + reservationID,
		"Name: " + req.Name,
		fmt.Sprintf("Category: %s (%s)", fee.CategoryLabel, model.DayTypeLabel(req.Weekend)),
		fmt.Sprintf("Fee: %d (%d/h x %dh)", fee.Total, fee.RatePerHour, fee.Hours),
		"Payment: " + fee.PaymentMethod,
	}
	if req.Phone != "" {
		desc = append(desc, "Phone: "+req.Phone)
	}
	if req.Notes != "" {
		desc = append(desc, "Notes: "+req.Notes)
	}

	return model.CalendarEvent{
		Summary:     fmt.Sprintf("[%s] %s", req.Court, req.Name),
		Description: strings.Join(desc, "\n"),
		Start:       start,
		End:         end,
		ColorTag:    colorTag,
	}
}

func (c *Committer) buildRecord(reservationID, eventID string, req *model.ReservationRequest, fee model.FeeBreakdown) *model.BookingRecord {
	return &model.BookingRecord{
		ReservationID:   reservationID,
		ReceivedAt:      time.Now().In(c.cfg.Location).Format(time.RFC3339),
		Date:            req.Date,
		DayOfWeek:       req.DayOfWeek(),
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		Court:           req.Court,
		Name:            req.Name,
		Phone:           req.Phone,
		CategoryLabel:   fee.CategoryLabel,
		Hours:           fee.Hours,
		RatePerHour:     fee.RatePerHour,
		Total:           fee.Total,
		DayType:         model.DayTypeLabel(req.Weekend),
		Status:          model.StatusConfirmed,
		CalendarEventID: eventID,
		Notes:           req.Notes,
	}
}

func (c *Committer) lockFor(court string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	lock, ok := c.courtLocks[court]
	if !ok {
		lock = &sync.Mutex{}
		c.courtLocks[court] = lock
	}
	return lock
}

func newReservationID() string {
	return fmt.Sprintf("R%s-%s", time.Now().Format("20060102150405"), uuid.NewString()[:8])
}
