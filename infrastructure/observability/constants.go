package observability

// Metric name prefixes
const (
	MetricPrefix = "gemwheel"
)

// Metric names
const (
	// Roulette metrics
	BetsPlacedTotal   = MetricPrefix + ".roulette.bets_placed_total"
	SpinsTotal        = MetricPrefix + ".roulette.spins_total"
	PayoutsGemsTotal  = MetricPrefix + ".roulette.payouts_gems_total"
	SessionsActive    = MetricPrefix + ".roulette.sessions_active"
	ItemDropsTotal    = MetricPrefix + ".items.drops_total"
	TradesTotal       = MetricPrefix + ".trades.transitions_total"
	MarketLookupTotal = MetricPrefix + ".market.lookups_total"

	// NATS metrics
	NATSMessagesPublishedTotal = MetricPrefix + ".nats.messages_published_total"

	// Ledger metrics
	LedgerTransactionsTotal = MetricPrefix + ".ledger.transactions_total"

	// Database metrics
	DatabaseQueriesTotal  = MetricPrefix + ".database.queries_total"
	DatabaseQueryDuration = MetricPrefix + ".database.query_duration"
)

// Label keys
const (
	LabelType      = "type"
	LabelEventType = "event_type"
	LabelOutcome   = "outcome"
	LabelRarity    = "rarity"
	LabelStatus    = "status"
	LabelSource    = "source"

	// Database labels
	LabelRepository = "repository"
	LabelMethod     = "method"
)

// Spin outcomes
const (
	OutcomeWin  = "win"
	OutcomeLoss = "loss"
)

// Market lookup results
const (
	LookupCacheHit    = "cache_hit"
	LookupFetched     = "fetched"
	LookupUnavailable = "unavailable"
)
