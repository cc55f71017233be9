package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "groundbook"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"
	DefaultTimezone = "Asia/Tokyo"

	DefaultKafkaTopic = "reservation-events"

	DefaultMinBookingHours = 2
	DefaultUnitHours       = 2
	DefaultDefaultCourt    = "artificial"
	DefaultPaymentMethod   = "invoice (prepaid)"
	DefaultCategoryID      = "general"

	// A negative hour disables the daily summary.
	DefaultDailySummaryHour = 8

	DefaultRateLimitRequests = 10
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
)

// DefaultCategories is the ground's published rate card: per-hour rates in
// whole yen, one pair per user tier. Overridable only by rebuilding the
// config, never mutated at runtime.
var DefaultCategories = map[string]CategoryRate{
	"elementary":  {Label: "Elementary", WeekdayRate: 6000, WeekendRate: 7000},
	"middle_high": {Label: "Middle/High School", WeekdayRate: 7000, WeekendRate: 8000},
	"general":     {Label: "General", WeekdayRate: 12000, WeekendRate: 13000},
}

// DefaultCourts lists the ground's bookable surfaces. The calendar color
// tags match the scheme operators already use.
var DefaultCourts = []Court{
	{ID: "artificial", Name: "Artificial Turf", ColorTag: "9"},
	{ID: "natural", Name: "Natural Turf", ColorTag: "6"},
}

// DefaultWeekendDays drives day-type derivation when the candidate carries
// no explicit weekend/holiday flag.
var DefaultWeekendDays = []time.Weekday{time.Saturday, time.Sunday}
