package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/speedwagon-io/climate-indicator/internal/api"
	"github.com/speedwagon-io/climate-indicator/internal/collector"
	"github.com/speedwagon-io/climate-indicator/internal/collector/adapters"
	"github.com/speedwagon-io/climate-indicator/internal/config"
	"github.com/speedwagon-io/climate-indicator/internal/health"
	"github.com/speedwagon-io/climate-indicator/internal/lib/logger/sl"
	"github.com/speedwagon-io/climate-indicator/internal/sender"
	"github.com/speedwagon-io/climate-indicator/internal/slideshow"
	"github.com/speedwagon-io/climate-indicator/internal/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "", "path to config file")
	dryRun := flag.Bool("dry-run", false, "log readings instead of publishing them")
	flag.Parse()

	cfg := config.MustLoad(*configPath)

	log := sl.SetupLogger(cfg.Log.Level, cfg.Log.Format)

	log.Info("starting climate indicator",
		slog.String("env", cfg.Env),
		slog.String("source", cfg.Source.URL),
		slog.Bool("dry_run", *dryRun),
	)

	places := config.MustLoadPlaces(cfg.Places.ConfigPath)

	projects := config.MustLoadProjects(cfg.Projects.ConfigPath)

	log.Info("loaded catalogs",
		slog.Int("places", len(places.Places)),
		slog.Int("projects", len(projects.Projects)),
	)

	coll := adapters.NewClimateAPIAdapter(log, cfg.Source.URL, cfg.Source.Timeout, cfg.Source.HTTP2)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var readings store.Store
	var sqliteStore *store.SQLiteStore
	if cfg.Store.Enabled {
		var err error
		sqliteStore, err = store.NewSQLiteStore(log, cfg.Store.Path)
		if err != nil {
			log.Error("failed to open reading store", sl.Err(err))
			os.Exit(1)
		}
		readings = sqliteStore
		log.Info("reading store enabled", slog.String("path", cfg.Store.Path))
	}

	publisher := buildSender(ctx, log, cfg, *dryRun)

	healthServer := health.NewServer(log, cfg.Health.Address)

	manager := collector.NewManager(log, collector.Schedule{
		Timeout:      cfg.Source.Timeout,
		RetryInitial: cfg.Schedule.RetryInitial,
		RetryMax:     cfg.Schedule.RetryMax,
		Refresh:      cfg.Schedule.Refresh,
		Retention:    cfg.Store.MaxAge,
		PruneEvery:   cfg.Store.PruneInterval,
	}, coll, publisher, readings)

	healthServer.AddChecker(health.NewFetcherHealthChecker(manager.Snapshot))
	healthServer.AddChecker(health.NewSenderHealthChecker(publisher.Health))
	if sqliteStore != nil {
		healthServer.AddChecker(health.NewStoreHealthChecker(sqliteStore.Count))
	}

	if err := healthServer.Start(); err != nil {
		log.Error("failed to start health server", sl.Err(err))
		os.Exit(1)
	}

	rotator := slideshow.NewRotator(log, places.Places, cfg.Places.SlideInterval, cfg.Places.ViewerIdle)

	var history api.HistoryReader
	if sqliteStore != nil {
		history = sqliteStore
	}

	apiServer := api.NewServer(log, api.Options{
		Address:      cfg.HTTP.Address,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		Ceiling:      cfg.Display.Ceiling,
	}, manager, history, places.Places, projects.Projects, rotator)

	if err := apiServer.Start(); err != nil {
		log.Error("failed to start api server", sl.Err(err))
		os.Exit(1)
	}

	manager.Start(ctx)
	rotator.Start(ctx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	log.Info("received signal, shutting down", slog.String("signal", sig.String()))
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := apiServer.Stop(shutdownCtx); err != nil {
		log.Error("failed to stop api server", sl.Err(err))
	}

	rotator.Stop()
	manager.Stop()

	if err := healthServer.Stop(shutdownCtx); err != nil {
		log.Error("failed to stop health server", sl.Err(err))
	}

	if err := publisher.Close(); err != nil {
		log.Error("failed to close senders", sl.Err(err))
	}

	if sqliteStore != nil {
		if err := sqliteStore.Close(); err != nil {
			log.Error("failed to close reading store", sl.Err(err))
		}
	}

	log.Info("climate indicator stopped")
}

// buildSender collects every enabled sink. Sinks that cannot be created
// are logged and skipped; the indicator works without any of them.
func buildSender(ctx context.Context, log *slog.Logger, cfg *config.Config, dryRun bool) *sender.MultiSender {
	if dryRun {
		log.Info("dry-run mode: readings will be logged instead of published")
		return sender.NewMultiSender(sender.NewLogSender(log))
	}

	var sinks []sender.Sender

	if cfg.Sinks.Webhook.Enabled {
		sinks = append(sinks, sender.NewWebhookSender(log, &cfg.Sinks.Webhook))
	}

	if cfg.Sinks.Kafka.Enabled {
		k, err := sender.NewKafkaSender(log, &cfg.Sinks.Kafka)
		if err != nil {
			log.Error("failed to create kafka sender", sl.Err(err))
		} else {
			sinks = append(sinks, k)
		}
	}

	if cfg.Sinks.MQTT.Enabled {
		m := sender.NewMQTTSender(log, &cfg.Sinks.MQTT)
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		if err := m.Connect(connectCtx); err != nil {
			// paho keeps retrying in the background
			log.Warn("mqtt broker not reachable yet", sl.Err(err))
		}
		cancel()
		sinks = append(sinks, m)
	}

	if cfg.Sinks.Redis.Enabled {
		r, err := sender.NewRedisSender(log, &cfg.Sinks.Redis)
		if err != nil {
			log.Error("failed to create redis sender", sl.Err(err))
		} else {
			sinks = append(sinks, r)
		}
	}

	log.Info("configured reading sinks", slog.Int("count", len(sinks)))

	return sender.NewMultiSender(sinks...)
}
