package notify

import (
	"context"
	"errors"

	"groundbook/pkg/model"
)

// MultiSink fans a notification out to every configured sink. Each sink
// is attempted even when an earlier one fails, and the errors are joined.
type MultiSink struct {
	sinks []Sink
}

func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (m *MultiSink) ReservationConfirmed(ctx context.Context, conf *model.Confirmation) error {
	return m.each(func(s Sink) error { return s.ReservationConfirmed(ctx, conf) })
}

func (m *MultiSink) ConflictDetected(ctx context.Context, req *model.ReservationRequest) error {
	return m.each(func(s Sink) error { return s.ConflictDetected(ctx, req) })
}

func (m *MultiSink) CancelRequested(ctx context.Context, record *model.BookingRecord) error {
	return m.each(func(s Sink) error { return s.CancelRequested(ctx, record) })
}

func (m *MultiSink) DailySummary(ctx context.Context, records []*model.BookingRecord) error {
	return m.each(func(s Sink) error { return s.DailySummary(ctx, records) })
}

func (m *MultiSink) each(fn func(Sink) error) error {
	var errs []error
	for _, s := range m.sinks {
		if err := fn(s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
