package application

import (
	"context"
	"time"

	"gemwheel/config"
	"gemwheel/domain/entities"
	"gemwheel/domain/interfaces"
)

// TradeApp exposes the peer-to-peer trade use cases
type TradeApp struct {
	runner
	now func() time.Time
}

// NewTradeApp creates the trade use cases
func NewTradeApp(uowFactory interfaces.UnitOfWorkFactory, economy *config.Economy, rng interfaces.RandomSource) *TradeApp {
	return &TradeApp{
		runner: runner{uowFactory: uowFactory, economy: economy, rng: rng},
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// CreateTrade opens an offer after checking both sides can deliver
func (a *TradeApp) CreateTrade(ctx context.Context, req entities.TradeRequest) (*entities.TradeOffer, error) {
	return inUnitOfWork(ctx, a.runner, "trade", "CreateTrade", func(svc *domainServices) (*entities.TradeOffer, error) {
		return svc.trades.CreateTrade(ctx, req, a.now())
	})
}

// AcceptTrade swaps items and gems between both parties atomically
func (a *TradeApp) AcceptTrade(ctx context.Context, tradeID, userID int64) (*entities.TradeOffer, error) {
	return inUnitOfWork(ctx, a.runner, "trade", "AcceptTrade", func(svc *domainServices) (*entities.TradeOffer, error) {
		return svc.trades.AcceptTrade(ctx, tradeID, userID, a.now())
	})
}

func (a *TradeApp) DeclineTrade(ctx context.Context, tradeID, userID int64) (*entities.TradeOffer, error) {
	return inUnitOfWork(ctx, a.runner, "trade", "DeclineTrade", func(svc *domainServices) (*entities.TradeOffer, error) {
		return svc.trades.DeclineTrade(ctx, tradeID, userID, a.now())
	})
}

func (a *TradeApp) CancelTrade(ctx context.Context, tradeID, userID int64) (*entities.TradeOffer, error) {
	return inUnitOfWork(ctx, a.runner, "trade", "CancelTrade", func(svc *domainServices) (*entities.TradeOffer, error) {
		return svc.trades.CancelTrade(ctx, tradeID, userID, a.now())
	})
}

func (a *TradeApp) ListTrades(ctx context.Context, filter entities.TradeFilter) ([]*entities.TradeOffer, error) {
	return inUnitOfWork(ctx, a.runner, "trade", "ListTrades", func(svc *domainServices) ([]*entities.TradeOffer, error) {
		return svc.trades.ListTrades(ctx, filter)
	})
}
