package notify

import (
	"context"

	"groundbook/pkg/model"
)

// Sink receives lifecycle notifications for reservations. Implementations
// must be best-effort: a failing sink never fails the pipeline, callers
// only log the returned error.
type Sink interface {
	ReservationConfirmed(ctx context.Context, conf *model.Confirmation) error
	ConflictDetected(ctx context.Context, req *model.ReservationRequest) error
	CancelRequested(ctx context.Context, record *model.BookingRecord) error
	DailySummary(ctx context.Context, records []*model.BookingRecord) error
}

// NopSink discards every notification. Used when no sink is configured.
type NopSink struct{}

func (NopSink) ReservationConfirmed(context.Context, *model.Confirmation) error   { return nil }
func (NopSink) ConflictDetected(context.Context, *model.ReservationRequest) error { return nil }
func (NopSink) CancelRequested(context.Context, *model.BookingRecord) error       { return nil }
func (NopSink) DailySummary(context.Context, []*model.BookingRecord) error        { return nil }
