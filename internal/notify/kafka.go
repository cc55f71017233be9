package notify

import (
	"context"
	"fmt"
	"time"

	"groundbook/pkg/kafka"
	"groundbook/pkg/logger"
	"groundbook/pkg/model"
)

const (
	EventReservationConfirmed = "reservation.confirmed"
	EventConflictDetected     = "reservation.conflict"
	EventCancelRequested      = "reservation.cancelled"
	EventDailySummary         = "reservation.daily_summary"

	eventSource = "groundbook"
)

// KafkaSink publishes reservation lifecycle events so downstream
// consumers (reconciliation, analytics) can react asynchronously.
type KafkaSink struct {
	producer *kafka.Producer
	log      *logger.Logger
}

func NewKafkaSink(producer *kafka.Producer, log *logger.Logger) *KafkaSink {
	return &KafkaSink{
		producer: producer,
		log:      log,
	}
}

func (s *KafkaSink) ReservationConfirmed(ctx context.Context, conf *model.Confirmation) error {
	return s.publish(ctx, EventReservationConfirmed, conf.ReservationID, conf)
}

func (s *KafkaSink) ConflictDetected(ctx context.Context, req *model.ReservationRequest) error {
	key := fmt.Sprintf("%s:%s", req.Court, req.Date)
	return s.publish(ctx, EventConflictDetected, key, req)
}

func (s *KafkaSink) CancelRequested(ctx context.Context, record *model.BookingRecord) error {
	return s.publish(ctx, EventCancelRequested, record.ReservationID, record)
}

func (s *KafkaSink) DailySummary(ctx context.Context, records []*model.BookingRecord) error {
	key := time.Now().Format(model.DateLayout)
	return s.publish(ctx, EventDailySummary, key, map[string]any{
		"date":     key,
		"count":    len(records),
		"bookings": records,
	})
}

func (s *KafkaSink) publish(ctx context.Context, eventType, key string, payload any) error {
	msg := kafka.NewMessage().
		WithKey(key).
		WithValue(payload).
		WithEventType(eventType).
		WithSource(eventSource).
		Build()

	if err := s.producer.Publish(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", eventType, err)
	}
	return nil
}
