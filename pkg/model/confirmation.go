package model

// Confirmation is everything the caller needs to render a receipt for a
// committed reservation.
type Confirmation struct {
	ReservationID   string              `json:"reservation_id"`
	Request         *ReservationRequest `json:"request"`
	Fee             FeeBreakdown        `json:"fee"`
	CalendarEventID string              `json:"calendar_event_id"`
	LedgerRow       int64               `json:"ledger_row"`
}
