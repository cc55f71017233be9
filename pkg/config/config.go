package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"groundbook/pkg/client"
	"groundbook/pkg/logger"
)

// CategoryRate is one row of the rate card: a display label plus the two
// per-hour rates the day-type selects between.
type CategoryRate struct {
	Label       string
	WeekdayRate int
	WeekendRate int
}

// Court is one bookable surface of the ground.
type Court struct {
	ID       string
	Name     string
	ColorTag string
}

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port     string
	Timezone string
	Location *time.Location

	WebhookSecret     string
	DiscordWebhookURL string
	ExtractorURL      string

	KafkaBrokers []string
	KafkaTopic   string

	MinBookingHours int
	UnitHours       int
	Categories      map[string]CategoryRate
	DefaultCategory string
	Courts          []Court
	DefaultCourt    string
	WeekendDays     []time.Weekday
	PaymentMethod   string

	DailySummaryHour int

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port:     getEnvStr(EnvPort, DefaultPort),
		Timezone: getEnvStr(EnvTimezone, DefaultTimezone),

		WebhookSecret:     getEnvStr(EnvWebhookSecret, ""),
		DiscordWebhookURL: getEnvStr(EnvDiscordWebhookURL, ""),
		ExtractorURL:      getEnvStr(EnvExtractorURL, ""),

		KafkaBrokers: getEnvList(EnvKafkaBrokers),
		KafkaTopic:   getEnvStr(EnvKafkaTopic, DefaultKafkaTopic),

		MinBookingHours: getEnvNum(EnvMinBookingHours, DefaultMinBookingHours),
		UnitHours:       getEnvNum(EnvUnitHours, DefaultUnitHours),
		Categories:      DefaultCategories,
		DefaultCategory: DefaultCategoryID,
		Courts:          DefaultCourts,
		DefaultCourt:    getEnvStr(EnvDefaultCourt, DefaultDefaultCourt),
		WeekendDays:     DefaultWeekendDays,
		PaymentMethod:   getEnvStr(EnvPaymentMethod, DefaultPaymentMethod),

		DailySummaryHour: getEnvNum(EnvDailySummaryHour, DefaultDailySummaryHour),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.FormatJSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		cfg.Log.Fatal("Invalid timezone", "timezone", cfg.Timezone, "error", err)
	}
	cfg.Location = loc

	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errs = append(errs, "MongoURI cannot be empty")
	} else if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errs = append(errs, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", cfg.MongoURI))
	}
	if cfg.MongoDatabaseName == "" {
		errs = append(errs, "MongoDatabaseName cannot be empty")
	}
	if cfg.MongoConnTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}

	if cfg.UnitHours <= 0 {
		errs = append(errs, fmt.Sprintf("UnitHours must be positive, got: %d", cfg.UnitHours))
	}
	if cfg.MinBookingHours <= 0 {
		errs = append(errs, fmt.Sprintf("MinBookingHours must be positive, got: %d", cfg.MinBookingHours))
	}
	if cfg.UnitHours > 0 && cfg.MinBookingHours%cfg.UnitHours != 0 {
		errs = append(errs, fmt.Sprintf("MinBookingHours (%d) must be a multiple of UnitHours (%d)", cfg.MinBookingHours, cfg.UnitHours))
	}

	if len(cfg.Categories) == 0 {
		errs = append(errs, "Categories cannot be empty")
	}
	if _, ok := cfg.Categories[cfg.DefaultCategory]; !ok {
		errs = append(errs, fmt.Sprintf("DefaultCategory %q is not in the rate card", cfg.DefaultCategory))
	}
	for id, cat := range cfg.Categories {
		if cat.WeekdayRate <= 0 || cat.WeekendRate <= 0 {
			errs = append(errs, fmt.Sprintf("category %q must have positive rates", id))
		}
	}

	if len(cfg.Courts) == 0 {
		errs = append(errs, "Courts cannot be empty")
	}
	if cfg.CourtByID(cfg.DefaultCourt) == nil {
		errs = append(errs, fmt.Sprintf("DefaultCourt %q is not a configured court", cfg.DefaultCourt))
	}

	if cfg.DailySummaryHour > 23 {
		errs = append(errs, fmt.Sprintf("DailySummaryHour must be below 24 (negative disables it), got: %d", cfg.DailySummaryHour))
	}

	if cfg.RateLimitRequests <= 0 {
		errs = append(errs, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.RateLimitWindow <= 0 {
		errs = append(errs, fmt.Sprintf("RateLimitWindow must be positive, got: %s", cfg.RateLimitWindow))
	}
	if cfg.RequestTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.IdempotencyTTL <= 0 {
		errs = append(errs, fmt.Sprintf("IdempotencyTTL must be positive, got: %s", cfg.IdempotencyTTL))
	}
	if cfg.MaxRequestSize <= 0 {
		errs = append(errs, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.ReadTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if len(errs) > 0 {
		msg := "Configuration validation failed:\n"
		for i, e := range errs {
			msg += fmt.Sprintf("  %d. %s\n", i+1, e)
		}
		return fmt.Errorf("%s", msg)
	}

	return nil
}

// CourtByID returns the configured court with the given id, or nil.
func (cfg *Config) CourtByID(id string) *Court {
	for i := range cfg.Courts {
		if cfg.Courts[i].ID == id {
			return &cfg.Courts[i]
		}
	}
	return nil
}

// IsWeekendDay reports whether d falls on a configured weekend day.
func (cfg *Config) IsWeekendDay(d time.Weekday) bool {
	for _, w := range cfg.WeekendDays {
		if w == d {
			return true
		}
	}
	return false
}

func (cfg *Config) LogConfiguration() {
	courtIDs := make([]string, 0, len(cfg.Courts))
	for _, c := range cfg.Courts {
		courtIDs = append(courtIDs, c.ID)
	}

	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"timezone", cfg.Timezone,
		"webhook_secret_set", cfg.WebhookSecret != "",
		"discord_webhook_set", cfg.DiscordWebhookURL != "",
		"extractor_url_set", cfg.ExtractorURL != "",
		"kafka_brokers", len(cfg.KafkaBrokers),
		"kafka_topic", cfg.KafkaTopic,
		"min_booking_hours", cfg.MinBookingHours,
		"unit_hours", cfg.UnitHours,
		"categories", len(cfg.Categories),
		"default_category", cfg.DefaultCategory,
		"courts", strings.Join(courtIDs, ","),
		"default_court", cfg.DefaultCourt,
		"payment_method", cfg.PaymentMethod,
		"daily_summary_hour", cfg.DailySummaryHour,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown()
}
