package notify

import (
	"context"
	"time"

	"groundbook/pkg/logger"
	"groundbook/pkg/model"
)

// TodayLister is the slice of the ledger read side the reporter needs.
type TodayLister interface {
	ListToday(ctx context.Context) ([]*model.BookingRecord, error)
}

// DailyReporter posts the day's booking list to the sinks once a day at a
// fixed local hour, the digest the operators start their morning with.
type DailyReporter struct {
	lister TodayLister
	sink   Sink
	hour   int
	loc    *time.Location
	log    *logger.Logger
	stopCh chan struct{}
}

func NewDailyReporter(lister TodayLister, sink Sink, hour int, loc *time.Location, log *logger.Logger) *DailyReporter {
	return &DailyReporter{
		lister: lister,
		sink:   sink,
		hour:   hour,
		loc:    loc,
		log:    log,
		stopCh: make(chan struct{}),
	}
}

func (r *DailyReporter) Start() {
	go r.run()
	r.log.Info("Daily summary reporting enabled", "hour", r.hour)
}

func (r *DailyReporter) Stop() {
	close(r.stopCh)
}

func (r *DailyReporter) run() {
	for {
		timer := time.NewTimer(time.Until(r.nextRun(time.Now().In(r.loc))))
		select {
		case <-timer.C:
			r.report()
		case <-r.stopCh:
			timer.Stop()
			return
		}
	}
}

// nextRun returns the next occurrence of the configured hour after now.
func (r *DailyReporter) nextRun(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), r.hour, 0, 0, 0, r.loc)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func (r *DailyReporter) report() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	records, err := r.lister.ListToday(ctx)
	if err != nil {
		r.log.Error("Daily summary skipped, ledger read failed", "error", err)
		return
	}
	if err := r.sink.DailySummary(ctx, records); err != nil {
		r.log.Warn("Daily summary notification failed", "error", err)
		return
	}
	r.log.Info("Daily summary sent", "bookings", len(records))
}
