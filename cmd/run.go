package cmd

import (
	"context"
	"fmt"
	"time"

	"gemwheel/application"
	"gemwheel/config"
	"gemwheel/database"
	"gemwheel/domain/interfaces"
	"gemwheel/domain/services"
	"gemwheel/events"
	"gemwheel/infrastructure"
	"gemwheel/infrastructure/observability"
	"gemwheel/repository"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Engine bundles the use cases exposed to front ends
type Engine struct {
	Wallets   *application.WalletApp
	Roulette  *application.RouletteApp
	Inventory *application.InventoryApp
	Trades    *application.TradeApp
}

// Run initializes and starts the engine, blocking until ctx is cancelled
func Run(ctx context.Context) error {
	cfg := config.Get()
	cfg.ConfigureLogging()

	_, shutdown, err := Start(ctx, cfg)
	if err != nil {
		return err
	}

	log.Info("Engine is running")
	<-ctx.Done()

	shutdown()
	return nil
}

// Start wires the engine's dependencies and background workers. The returned
// function releases them.
func Start(ctx context.Context, cfg *config.Config) (*Engine, func(), error) {
	log.WithField("environment", cfg.Environment).Info("Starting gemwheel engine...")

	if err := observability.InitializeGlobalMetrics(ctx, cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}
	metrics := observability.GetMetrics()

	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database connection established successfully")

	localBus := events.NewBus()
	application.RegisterMetricsSubscriptions(localBus, metrics)

	var publisher events.Publisher = localBus
	var natsClient *infrastructure.NATSClient
	if cfg.NATSServers != "" {
		natsClient = infrastructure.NewNATSClient(cfg.NATSServers)
		if err := natsClient.Connect(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		mapper := infrastructure.NewEventSubjectMapper()
		if err := natsClient.EnsureStream(infrastructure.DomainEventStream, mapper.GetAllSubjects()); err != nil {
			natsClient.Close()
			db.Close()
			return nil, nil, fmt.Errorf("failed to ensure event stream: %w", err)
		}
		publisher = infrastructure.NewNATSEventPublisher(natsClient, mapper, localBus)
		log.WithField("servers", cfg.NATSServers).Info("Publishing domain events to NATS")
	}

	var marketData interfaces.MarketDataProvider = infrastructure.NewMarketDataClient(cfg.MarketDataURL, cfg.MarketDataTimeout)
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = infrastructure.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.WithError(err).Warn("Price cache unavailable, using market data directly")
			rdb = nil
		} else {
			marketData = infrastructure.NewCachedMarketData(rdb, marketData, cfg.PriceCacheTTL)
		}
	}

	uowFactory := repository.NewUnitOfWorkFactory(db, publisher)
	rng := services.NewCryptoRandom()

	engine := &Engine{
		Wallets:   application.NewWalletApp(uowFactory, cfg.Economy, rng),
		Roulette:  application.NewRouletteApp(uowFactory, cfg.Economy, rng, marketData, cfg.MarketDataTimeout),
		Inventory: application.NewInventoryApp(uowFactory, cfg.Economy, rng),
		Trades:    application.NewTradeApp(uowFactory, cfg.Economy, rng),
	}

	worker := application.NewMaintenanceWorker(uowFactory, cfg.Economy, rng, cfg.TradeSweepInterval)
	stopWorker, err := worker.Start(ctx)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to start maintenance worker: %w", err)
	}

	shutdown := func() {
		log.Info("Shutting down engine...")
		stopWorker()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if natsClient != nil {
			if err := natsClient.Close(); err != nil {
				log.WithError(err).Warn("Error closing NATS connection")
			}
		}
		if rdb != nil {
			if err := rdb.Close(); err != nil {
				log.WithError(err).Warn("Error closing redis connection")
			}
		}

		log.Info("Closing database connection...")
		db.Close()

		if err := observability.ShutdownGlobalMetrics(shutdownCtx); err != nil {
			log.WithError(err).Warn("Error shutting down metrics")
		}
		log.Info("Shutdown completed")
	}

	return engine, shutdown, nil
}
