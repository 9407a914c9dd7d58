package application

import (
	"context"
	"time"

	"gemwheel/config"
	"gemwheel/domain/entities"
	"gemwheel/domain/interfaces"
	"gemwheel/infrastructure/observability"

	log "github.com/sirupsen/logrus"
)

// RouletteApp exposes the roulette use cases
type RouletteApp struct {
	runner
	marketData   interfaces.MarketDataProvider
	priceTimeout time.Duration
}

// NewRouletteApp creates the roulette use cases. marketData may be nil, in
// which case spins are never enriched with a price.
func NewRouletteApp(uowFactory interfaces.UnitOfWorkFactory, economy *config.Economy, rng interfaces.RandomSource, marketData interfaces.MarketDataProvider, priceTimeout time.Duration) *RouletteApp {
	return &RouletteApp{
		runner:       runner{uowFactory: uowFactory, economy: economy, rng: rng},
		marketData:   marketData,
		priceTimeout: priceTimeout,
	}
}

// CreateSession opens a session committed to a fresh server seed
func (a *RouletteApp) CreateSession(ctx context.Context, userID int64, clientSeed string) (*entities.GameSession, error) {
	session, err := inUnitOfWork(ctx, a.runner, "roulette", "CreateSession", func(svc *domainServices) (*entities.GameSession, error) {
		return svc.roulette.CreateSession(ctx, userID, clientSeed)
	})
	if err != nil {
		return nil, err
	}
	observability.GetMetrics().RecordSessionOpened()
	return session, nil
}

// PlaceBet debits the stake and records the bet
func (a *RouletteApp) PlaceBet(ctx context.Context, req entities.BetRequest) (*entities.GameBet, error) {
	return inUnitOfWork(ctx, a.runner, "roulette", "PlaceBet", func(svc *domainServices) (*entities.GameBet, error) {
		return svc.roulette.PlaceBet(ctx, req)
	})
}

// SpinWheel settles the session. The winning crypto's price is looked up
// only after the settlement committed; a missing price is not an error.
func (a *RouletteApp) SpinWheel(ctx context.Context, sessionID, userID int64) (*entities.SpinResult, error) {
	result, err := inUnitOfWork(ctx, a.runner, "roulette", "SpinWheel", func(svc *domainServices) (*entities.SpinResult, error) {
		return svc.roulette.SpinWheel(ctx, sessionID, userID)
	})
	if err != nil {
		return nil, err
	}

	if a.marketData != nil {
		priceCtx, cancel := context.WithTimeout(ctx, a.priceTimeout)
		result.WinningCryptoPrice = a.marketData.GetCurrentPrice(priceCtx, result.Position.Crypto)
		cancel()
		if result.WinningCryptoPrice == nil {
			log.WithFields(log.Fields{
				"sessionID": sessionID,
				"crypto":    result.Position.Crypto,
			}).Warn("Spin settled without a market price")
		}
	}
	return result, nil
}

// RevealServerSeed discloses and verifies a completed session's seed
func (a *RouletteApp) RevealServerSeed(ctx context.Context, sessionID, userID int64) (*entities.SessionReveal, error) {
	return inUnitOfWork(ctx, a.runner, "roulette", "RevealServerSeed", func(svc *domainServices) (*entities.SessionReveal, error) {
		return svc.roulette.RevealServerSeed(ctx, sessionID, userID)
	})
}

// GetHistory lists a user's sessions
func (a *RouletteApp) GetHistory(ctx context.Context, filter entities.SessionHistoryFilter) ([]*entities.GameSession, error) {
	return inUnitOfWork(ctx, a.runner, "roulette", "GetHistory", func(svc *domainServices) ([]*entities.GameSession, error) {
		return svc.roulette.GetHistory(ctx, filter)
	})
}

// GetStats returns a user's rolling statistics
func (a *RouletteApp) GetStats(ctx context.Context, userID int64) (*entities.GameStats, error) {
	return inUnitOfWork(ctx, a.runner, "roulette", "GetStats", func(svc *domainServices) (*entities.GameStats, error) {
		return svc.roulette.GetStats(ctx, userID)
	})
}
