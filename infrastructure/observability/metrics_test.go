package observability

import (
	"context"
	"testing"
	"time"

	"gemwheel/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsProvider_Disabled(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.OTelEnabled = false

	mp := NewMetricsProvider(cfg)
	require.NoError(t, mp.Initialize(context.Background()))
	assert.False(t, mp.isEnabled())

	// Recording on a disabled provider is a no-op
	mp.RecordBetPlaced("CRYPTO_COLOR")
	mp.RecordSpin(true, 200)
	mp.MeasureDatabaseQuery("roulette", "Spin")()
	require.NoError(t, mp.Shutdown(context.Background()))
}

func TestMetricsProvider_NilReceiver(t *testing.T) {
	var mp *MetricsProvider
	assert.NotPanics(t, func() {
		mp.RecordItemDrop("RARE")
		mp.RecordTradeTransition("EXPIRED", 2)
		mp.RecordLedgerTransaction("ROULETTE_BET", "SPEND")
	})
}

func TestMetricsProvider_ExporterNone(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.OTelEnabled = true
	cfg.OTelExporterType = "none"

	mp := NewMetricsProvider(cfg)
	require.NoError(t, mp.Initialize(context.Background()))
	assert.False(t, mp.isEnabled(), "no meter provider without an exporter")
}

func TestMetricsProvider_UnknownExporter(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.OTelEnabled = true
	cfg.OTelExporterType = "carrier-pigeon"

	err := NewMetricsProvider(cfg).Initialize(context.Background())
	assert.ErrorContains(t, err, "unknown exporter type")
}

func TestMetricsProvider_Console(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.OTelEnabled = true
	cfg.OTelExporterType = "console"
	cfg.OTelExportIntervalMillis = 60000

	mp := NewMetricsProvider(cfg)
	require.NoError(t, mp.Initialize(context.Background()))
	assert.True(t, mp.isEnabled())

	mp.RecordSessionOpened()
	mp.RecordBetPlaced("DOZEN")
	mp.RecordSpin(false, 0)
	mp.RecordMarketLookup(LookupCacheHit)
	mp.RecordDatabaseQuery("wallet", "Get", 3*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, mp.Shutdown(ctx))
}
