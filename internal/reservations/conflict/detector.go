package conflict

import (
	"context"
	"strings"
	"time"

	"groundbook/internal/calendar"
	"groundbook/pkg/config"
	"groundbook/pkg/logger"
	"groundbook/pkg/model"
)

// Detector checks a normalized request against the calendar for
// overlapping bookings on the same court.
type Detector struct {
	store calendar.Store
	loc   *time.Location
	log   *logger.Logger
}

func NewDetector(store calendar.Store, cfg *config.Config) *Detector {
	return &Detector{
		store: store,
		loc:   cfg.Location,
		log:   cfg.Log,
	}
}

// HasConflict reports whether any existing event on the requested court
// overlaps the request's [start, end) window. Two bookings conflict when
// start1 < end2 && end1 > start2; back-to-back bookings sharing a
// boundary do not.
//
// A calendar read failure is reported as no conflict so an outage never
// blocks bookings. Double bookings created this way are resolved by the
// ledger during reconciliation.
func (d *Detector) HasConflict(ctx context.Context, req *model.ReservationRequest) (bool, error) {
	start, end, err := req.Window(d.loc)
	if err != nil {
		return false, err
	}

	events, err := d.store.QueryEvents(ctx, start, end, req.Court)
	if err != nil {
		d.log.Warn("Calendar lookup failed during conflict check, proceeding without it",
			"court", req.Court,
			"date", req.Date,
			"error", err,
		)
		return false, nil
	}

	for _, ev := range events {
		if strings.Contains(ev.Summary, req.Court) && start.Before(ev.End) && end.After(ev.Start) {
			d.log.Info("Conflicting booking found",
				"court", req.Court,
				"date", req.Date,
				"requested", req.StartTime+"-"+req.EndTime,
				"existing_event", ev.ID,
			)
			return true, nil
		}
	}
	return false, nil
}
