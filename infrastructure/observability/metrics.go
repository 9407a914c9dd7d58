package observability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gemwheel/config"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
)

// MetricsProvider manages OpenTelemetry metrics for the game engine
type MetricsProvider struct {
	config        *config.Config
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter
	initialized   bool
	mu            sync.RWMutex

	// Metric instruments
	betsPlacedCounter            metric.Int64Counter
	spinsCounter                 metric.Int64Counter
	payoutsCounter               metric.Int64Counter
	sessionsActiveGauge          metric.Int64UpDownCounter
	itemDropsCounter             metric.Int64Counter
	tradesCounter                metric.Int64Counter
	marketLookupCounter          metric.Int64Counter
	natsMessagesPublishedCounter metric.Int64Counter
	ledgerTransactionsCounter    metric.Int64Counter
	databaseQueriesCounter       metric.Int64Counter
	databaseQueryDurationHist    metric.Float64Histogram
}

// NewMetricsProvider creates a new metrics provider
func NewMetricsProvider(cfg *config.Config) *MetricsProvider {
	return &MetricsProvider{
		config: cfg,
	}
}

// Initialize sets up the OpenTelemetry metrics provider
func (mp *MetricsProvider) Initialize(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.initialized {
		log.Debug("Metrics provider already initialized")
		return nil
	}

	if !mp.config.OTelEnabled {
		log.Info("OpenTelemetry metrics disabled")
		mp.initialized = true
		return nil
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(mp.config.OTelServiceName),
			attribute.String("environment", mp.config.Environment),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	var exporter sdkmetric.Exporter
	switch mp.config.OTelExporterType {
	case "console":
		exporter, err = stdoutmetric.New()
		if err != nil {
			return fmt.Errorf("failed to create console exporter: %w", err)
		}
		log.Info("Using console metric exporter")

	case "otlp":
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		exporter, err = otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(mp.config.OTelOTLPEndpoint),
			otlpmetricgrpc.WithInsecure(),
		)
		if err != nil {
			return fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		log.WithField("endpoint", mp.config.OTelOTLPEndpoint).Info("Using OTLP metric exporter")

	case "none":
		log.Info("Metrics export disabled (exporter_type='none')")
		mp.initialized = true
		return nil

	default:
		return fmt.Errorf("unknown exporter type: %s", mp.config.OTelExporterType)
	}

	mp.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(
				exporter,
				sdkmetric.WithInterval(time.Duration(mp.config.OTelExportIntervalMillis)*time.Millisecond),
			),
		),
	)
	otel.SetMeterProvider(mp.meterProvider)
	mp.meter = mp.meterProvider.Meter("gemwheel")

	if err := mp.createInstruments(); err != nil {
		return fmt.Errorf("failed to create instruments: %w", err)
	}

	mp.initialized = true
	log.Info("Metrics provider initialized successfully")
	return nil
}

// createInstruments creates all metric instruments
func (mp *MetricsProvider) createInstruments() error {
	counters := []struct {
		target      *metric.Int64Counter
		name        string
		description string
		unit        string
	}{
		{&mp.betsPlacedCounter, BetsPlacedTotal, "Total number of roulette bets placed", "1"},
		{&mp.spinsCounter, SpinsTotal, "Total number of settled spins", "1"},
		{&mp.payoutsCounter, PayoutsGemsTotal, "GEM paid out by settled spins", "{gem}"},
		{&mp.itemDropsCounter, ItemDropsTotal, "Total number of items dropped", "1"},
		{&mp.tradesCounter, TradesTotal, "Total number of trade status transitions", "1"},
		{&mp.marketLookupCounter, MarketLookupTotal, "Market price lookups by result", "1"},
		{&mp.natsMessagesPublishedCounter, NATSMessagesPublishedTotal, "Total number of NATS messages published", "1"},
		{&mp.ledgerTransactionsCounter, LedgerTransactionsTotal, "Total number of ledger entries written", "1"},
		{&mp.databaseQueriesCounter, DatabaseQueriesTotal, "Total number of database operations", "1"},
	}

	for _, c := range counters {
		counter, err := mp.meter.Int64Counter(c.name,
			metric.WithDescription(c.description),
			metric.WithUnit(c.unit),
		)
		if err != nil {
			return fmt.Errorf("failed to create %s counter: %w", c.name, err)
		}
		*c.target = counter
	}

	var err error
	mp.sessionsActiveGauge, err = mp.meter.Int64UpDownCounter(
		SessionsActive,
		metric.WithDescription("Current number of open roulette sessions"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create sessions active gauge: %w", err)
	}

	mp.databaseQueryDurationHist, err = mp.meter.Float64Histogram(
		DatabaseQueryDuration,
		metric.WithDescription("Duration of database operations in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0),
	)
	if err != nil {
		return fmt.Errorf("failed to create database query duration histogram: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the metrics provider
func (mp *MetricsProvider) Shutdown(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.meterProvider != nil {
		return mp.meterProvider.Shutdown(ctx)
	}
	return nil
}

// RecordBetPlaced records an accepted bet
func (mp *MetricsProvider) RecordBetPlaced(betType string) {
	if !mp.isEnabled() {
		return
	}
	mp.betsPlacedCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String(LabelType, betType)))
}

// RecordSpin records a settled spin and the GEM it paid out
func (mp *MetricsProvider) RecordSpin(won bool, payout int64) {
	if !mp.isEnabled() {
		return
	}
	outcome := OutcomeLoss
	if won {
		outcome = OutcomeWin
	}
	ctx := context.Background()
	mp.spinsCounter.Add(ctx, 1, metric.WithAttributes(attribute.String(LabelOutcome, outcome)))
	mp.sessionsActiveGauge.Add(ctx, -1)
	if payout > 0 {
		mp.payoutsCounter.Add(ctx, payout)
	}
}

// RecordSessionOpened tracks a newly created session
func (mp *MetricsProvider) RecordSessionOpened() {
	if !mp.isEnabled() {
		return
	}
	mp.sessionsActiveGauge.Add(context.Background(), 1)
}

// RecordItemDrop records an item drop by rarity
func (mp *MetricsProvider) RecordItemDrop(rarity string) {
	if !mp.isEnabled() {
		return
	}
	mp.itemDropsCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String(LabelRarity, rarity)))
}

// RecordTradeTransition records a trade reaching a status
func (mp *MetricsProvider) RecordTradeTransition(status string, count int) {
	if !mp.isEnabled() || count <= 0 {
		return
	}
	mp.tradesCounter.Add(context.Background(), int64(count),
		metric.WithAttributes(attribute.String(LabelStatus, status)))
}

// RecordMarketLookup records the result of a market price lookup
func (mp *MetricsProvider) RecordMarketLookup(result string) {
	if !mp.isEnabled() {
		return
	}
	mp.marketLookupCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String(LabelOutcome, result)))
}

// RecordNATSMessagePublished records a NATS message being published
func (mp *MetricsProvider) RecordNATSMessagePublished(eventType string) {
	if !mp.isEnabled() {
		return
	}
	mp.natsMessagesPublishedCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String(LabelEventType, eventType)))
}

// RecordLedgerTransaction records a ledger entry by source and direction
func (mp *MetricsProvider) RecordLedgerTransaction(source, transactionType string) {
	if !mp.isEnabled() {
		return
	}
	mp.ledgerTransactionsCounter.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String(LabelSource, source),
			attribute.String(LabelType, transactionType),
		),
	)
}

// RecordDatabaseQuery records a database operation with duration
func (mp *MetricsProvider) RecordDatabaseQuery(repository, method string, duration time.Duration) {
	if !mp.isEnabled() {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(LabelRepository, repository),
		attribute.String(LabelMethod, method),
	)

	mp.databaseQueriesCounter.Add(context.Background(), 1, attrs)
	mp.databaseQueryDurationHist.Record(context.Background(), duration.Seconds(), attrs)
}

// MeasureDatabaseQuery returns a function to measure database query duration
// Usage:
//
//	defer mp.MeasureDatabaseQuery("roulette", "Spin")()
func (mp *MetricsProvider) MeasureDatabaseQuery(repository, method string) func() {
	start := time.Now()
	return func() {
		mp.RecordDatabaseQuery(repository, method, time.Since(start))
	}
}

// isEnabled checks if metrics are enabled and initialized. Safe on a nil receiver.
func (mp *MetricsProvider) isEnabled() bool {
	if mp == nil {
		return false
	}
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	return mp.initialized && mp.config.OTelEnabled && mp.meterProvider != nil
}

// Global metrics provider instance
var (
	globalMetrics *MetricsProvider
	metricsOnce   sync.Once
)

// InitializeGlobalMetrics initializes the global metrics provider
func InitializeGlobalMetrics(ctx context.Context, cfg *config.Config) error {
	var err error
	metricsOnce.Do(func() {
		globalMetrics = NewMetricsProvider(cfg)
		err = globalMetrics.Initialize(ctx)
	})
	return err
}

// GetMetrics returns the global metrics provider; nil before initialization
func GetMetrics() *MetricsProvider {
	return globalMetrics
}

// ShutdownGlobalMetrics shuts down the global metrics provider
func ShutdownGlobalMetrics(ctx context.Context) error {
	if globalMetrics != nil {
		return globalMetrics.Shutdown(ctx)
	}
	return nil
}
