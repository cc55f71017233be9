// Package calendar contracts the external calendar the ground's operators
// live in. The pipeline only needs three operations: window queries for
// conflict detection, event creation on commit, and event deletion for the
// compensation path.
package calendar

import (
	"context"
	"time"

	"groundbook/pkg/model"
)

type Store interface {
	// QueryEvents returns events overlapping [timeMin, timeMax). textFilter,
	// when non-empty, narrows to events whose summary contains it.
	QueryEvents(ctx context.Context, timeMin, timeMax time.Time, textFilter string) ([]model.CalendarEvent, error)

	// CreateEvent inserts the event and returns its store-assigned id.
	CreateEvent(ctx context.Context, ev model.CalendarEvent) (string, error)

	// DeleteEvent removes an event. Deleting an unknown id is an error.
	DeleteEvent(ctx context.Context, id string) error
}
