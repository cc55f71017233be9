package model

const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// BookingRecord is one ledger row. Rows are append-only; a cancellation
// transitions Status, it never deletes the row.
type BookingRecord struct {
	ReservationID   string `json:"reservation_id"`
	ReceivedAt      string `json:"received_at"`
	Date            string `json:"date"`
	DayOfWeek       string `json:"day_of_week"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	Court           string `json:"court"`
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	CategoryLabel   string `json:"category_label"`
	Hours           int    `json:"hours"`
	RatePerHour     int    `json:"rate_per_hour"`
	Total           int    `json:"total"`
	DayType         string `json:"day_type"`
	Status          string `json:"status"`
	CalendarEventID string `json:"calendar_event_id"`
	Notes           string `json:"notes"`
}

// TimeRange renders the booked window for listings, e.g. "09:00-11:00".
func (b *BookingRecord) TimeRange() string {
	return b.StartTime + "-" + b.EndTime
}
