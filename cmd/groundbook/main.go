package main

import (
	"groundbook/internal/calendar"
	"groundbook/internal/extract"
	"groundbook/internal/ledger"
	"groundbook/internal/notify"
	"groundbook/internal/pricing"
	"groundbook/internal/reservations/conflict"
	"groundbook/internal/reservations/handler"
	"groundbook/internal/reservations/normalizer"
	"groundbook/internal/reservations/service"
	"groundbook/pkg/app"
	"groundbook/pkg/config"
	"groundbook/pkg/kafka"
)

const ServiceName = "groundbook"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()

	cfg.Log.Info("Starting Groundbook service")
	cfg.SetMongo()
	defer cfg.Client.GracefulShutdown()

	sink, closeSink := buildSink(cfg)
	defer closeSink()

	committer, queries, extractor := initServices(cfg, sink)

	if cfg.DailySummaryHour >= 0 {
		reporter := notify.NewDailyReporter(queries, sink, cfg.DailySummaryHour, cfg.Location, cfg.Log)
		reporter.Start()
		defer reporter.Stop()
	}

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg,
		handler.NewWebhookHandler(extractor, committer, queries, cfg),
		handler.NewReservationHandler(queries, committer, cfg),
	)
	serverApp.Run()
}

func initServices(cfg *config.Config, sink notify.Sink) (*service.Committer, *ledger.QueryService, extract.Extractor) {
	calendarStore := calendar.NewMongoStore(cfg)
	ledgerStore := ledger.NewMongoStore(cfg)

	committer := service.NewCommitter(
		normalizer.NewNormalizer(cfg),
		conflict.NewDetector(calendarStore, cfg),
		pricing.NewPolicy(cfg),
		calendarStore,
		ledgerStore,
		sink,
		cfg,
	)

	queries := ledger.NewQueryService(ledgerStore, cfg)
	extractor := extract.NewHTTPExtractor(cfg.ExtractorURL, cfg.RequestTimeout, cfg.Log)

	cfg.Log.Info("Reservation pipeline initialized", "database", cfg.MongoDatabaseName)
	return committer, queries, extractor
}

func buildSink(cfg *config.Config) (notify.Sink, func()) {
	sinks := []notify.Sink{
		notify.NewDiscordSink(cfg.DiscordWebhookURL, cfg.RequestTimeout, cfg.Log),
	}
	closeSink := func() {}

	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			cfg.Log.Error("Kafka producer unavailable, continuing without event publishing", "error", err)
		} else {
			sinks = append(sinks, notify.NewKafkaSink(producer, cfg.Log))
			closeSink = func() {
				if cErr := producer.Close(); cErr != nil {
					cfg.Log.Error("Failed to close Kafka producer", "error", cErr)
				}
			}
			cfg.Log.Info("Kafka event publishing enabled", "topic", cfg.KafkaTopic)
		}
	}

	if len(sinks) == 1 {
		return sinks[0], closeSink
	}
	return notify.NewMultiSink(sinks...), closeSink
}
