package model

// FeeBreakdown is derived from a ReservationRequest by the pricing policy.
// It is recomputed for every request and never persisted on its own.
type FeeBreakdown struct {
	Category      string `json:"category"`
	CategoryLabel string `json:"category_label"`
	RatePerHour   int    `json:"rate_per_hour"`
	Hours         int    `json:"hours"`
	Total         int    `json:"total"`
	Weekend       bool   `json:"weekend"`
	PaymentMethod string `json:"payment_method"`
}
