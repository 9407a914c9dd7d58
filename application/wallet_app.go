package application

import (
	"context"
	"time"

	"gemwheel/config"
	"gemwheel/domain/entities"
	"gemwheel/domain/interfaces"
)

// WalletApp exposes the ledger use cases
type WalletApp struct {
	runner
	now func() time.Time
}

// NewWalletApp creates the wallet use cases
func NewWalletApp(uowFactory interfaces.UnitOfWorkFactory, economy *config.Economy, rng interfaces.RandomSource) *WalletApp {
	return &WalletApp{
		runner: runner{uowFactory: uowFactory, economy: economy, rng: rng},
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// CreateWallet opens the user's wallet with the starting bonus, idempotently
func (a *WalletApp) CreateWallet(ctx context.Context, userID int64) (*entities.VirtualWallet, error) {
	return inUnitOfWork(ctx, a.runner, "wallet", "CreateWallet", func(svc *domainServices) (*entities.VirtualWallet, error) {
		return svc.ledger.CreateWallet(ctx, userID)
	})
}

// GetWallet returns the user's wallet
func (a *WalletApp) GetWallet(ctx context.Context, userID int64) (*entities.VirtualWallet, error) {
	return inUnitOfWork(ctx, a.runner, "wallet", "GetWallet", func(svc *domainServices) (*entities.VirtualWallet, error) {
		return svc.ledger.GetWallet(ctx, userID)
	})
}

// ClaimDailyReward grants today's reward; nil when it was already claimed
func (a *WalletApp) ClaimDailyReward(ctx context.Context, userID int64) (*entities.DailyRewardResult, error) {
	return inUnitOfWork(ctx, a.runner, "wallet", "ClaimDailyReward", func(svc *domainServices) (*entities.DailyRewardResult, error) {
		return svc.ledger.ClaimDailyReward(ctx, userID, a.now())
	})
}

// CheckLevelUp advances the wallet by at most one level
func (a *WalletApp) CheckLevelUp(ctx context.Context, userID int64) (*entities.LevelUpResult, error) {
	return inUnitOfWork(ctx, a.runner, "wallet", "CheckLevelUp", func(svc *domainServices) (*entities.LevelUpResult, error) {
		return svc.ledger.CheckLevelUp(ctx, userID)
	})
}

// ListTransactions returns ledger history
func (a *WalletApp) ListTransactions(ctx context.Context, filter entities.TransactionFilter) ([]*entities.VirtualTransaction, error) {
	return inUnitOfWork(ctx, a.runner, "wallet", "ListTransactions", func(svc *domainServices) ([]*entities.VirtualTransaction, error) {
		return svc.ledger.ListTransactions(ctx, filter)
	})
}

// AuditWallet checks the wallet balances against the ledger
func (a *WalletApp) AuditWallet(ctx context.Context, userID int64) error {
	_, err := inUnitOfWork(ctx, a.runner, "wallet", "AuditWallet", func(svc *domainServices) (struct{}, error) {
		return struct{}{}, svc.ledger.AuditWallet(ctx, userID)
	})
	return err
}
