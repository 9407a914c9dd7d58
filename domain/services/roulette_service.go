package services

import (
	"context"
	"fmt"
	"time"

	"gemwheel/config"
	"gemwheel/domain/common"
	"gemwheel/domain/entities"
	"gemwheel/domain/interfaces"
	"gemwheel/events"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

const defaultHistoryLimit = 20

type rouletteService struct {
	sessionRepo    interfaces.GameSessionRepository
	betRepo        interfaces.GameBetRepository
	statsRepo      interfaces.GameStatsRepository
	ledger         interfaces.LedgerService
	effects        interfaces.EffectService
	drops          interfaces.DropService
	eventPublisher interfaces.EventPublisher
	economy        *config.Economy
}

// NewRouletteService creates a new roulette settlement service
func NewRouletteService(
	sessionRepo interfaces.GameSessionRepository,
	betRepo interfaces.GameBetRepository,
	statsRepo interfaces.GameStatsRepository,
	ledger interfaces.LedgerService,
	effects interfaces.EffectService,
	drops interfaces.DropService,
	eventPublisher interfaces.EventPublisher,
	economy *config.Economy,
) interfaces.RouletteService {
	return &rouletteService{
		sessionRepo:    sessionRepo,
		betRepo:        betRepo,
		statsRepo:      statsRepo,
		ledger:         ledger,
		effects:        effects,
		drops:          drops,
		eventPublisher: eventPublisher,
		economy:        economy,
	}
}

// CreateSession commits to a fresh server seed. The returned session carries
// only the hash; the seed stays secret until the spin completes.
func (s *rouletteService) CreateSession(ctx context.Context, userID int64, clientSeed string) (*entities.GameSession, error) {
	serverSeed, err := GenerateServerSeed()
	if err != nil {
		return nil, err
	}
	client, err := GenerateClientSeed(clientSeed)
	if err != nil {
		return nil, err
	}

	session := &entities.GameSession{
		UserID:         userID,
		GameType:       entities.GameTypeCryptoRoulette,
		ServerSeed:     serverSeed,
		ServerSeedHash: HashServerSeed(serverSeed),
		ClientSeed:     client,
		Nonce:          0,
		Status:         entities.SessionStatusActive,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create game session: %w", err)
	}

	log.WithFields(log.Fields{
		"userID":    userID,
		"sessionID": session.ID,
	}).Debug("Created roulette session")
	return session.PublicView(), nil
}

// lockOwnedSession returns the caller's session, locked. Foreign sessions
// are reported as not found.
func (s *rouletteService) lockOwnedSession(ctx context.Context, sessionID, userID int64) (*entities.GameSession, error) {
	session, err := s.sessionRepo.GetByIDForUpdate(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game session: %w", err)
	}
	if session == nil || !session.IsOwnedBy(userID) {
		return nil, common.NewNotFoundError("game session", sessionID)
	}
	return session, nil
}

func (s *rouletteService) PlaceBet(ctx context.Context, req entities.BetRequest) (*entities.GameBet, error) {
	session, err := s.lockOwnedSession(ctx, req.SessionID, req.UserID)
	if err != nil {
		return nil, err
	}
	if !session.IsActive() {
		return nil, common.NewStateConflictError("this round has already been spun")
	}

	if req.Amount < s.economy.MinBet || req.Amount > s.economy.MaxBet {
		return nil, common.NewValidationError(fmt.Sprintf("bet amount must be between %d and %d", s.economy.MinBet, s.economy.MaxBet))
	}
	value, odds, err := ResolveBet(req.BetType, req.BetValue)
	if err != nil {
		return nil, err
	}

	if _, err := s.ledger.SpendCurrency(ctx, req.UserID, entities.CurrencyGemCoins, req.Amount, entities.SourceRouletteBet,
		fmt.Sprintf("Roulette bet: %s %s", req.BetType, value),
		entities.WithReference(entities.ReferenceTypeGameSession, session.ID)); err != nil {
		return nil, err
	}

	bet := &entities.GameBet{
		GameSessionID:   session.ID,
		UserID:          req.UserID,
		BetType:         req.BetType,
		BetValue:        value,
		BetAmount:       req.Amount,
		PayoutOdds:      odds,
		PotentialPayout: PotentialPayout(req.Amount, odds),
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.betRepo.Create(ctx, bet); err != nil {
		return nil, fmt.Errorf("failed to create bet: %w", err)
	}

	session.TotalBetAmount += req.Amount
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update game session: %w", err)
	}

	if err := s.eventPublisher.Publish(events.BetPlacedEvent{
		UserID:          req.UserID,
		SessionID:       session.ID,
		BetID:           bet.ID,
		BetType:         bet.BetType,
		BetValue:        bet.BetValue,
		Amount:          bet.BetAmount,
		PotentialPayout: bet.PotentialPayout,
	}); err != nil {
		log.WithError(err).Error("Failed to publish bet placed event")
	}
	return bet, nil
}

func (s *rouletteService) SpinWheel(ctx context.Context, sessionID, userID int64) (*entities.SpinResult, error) {
	session, err := s.lockOwnedSession(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if !session.IsActive() {
		return nil, common.NewStateConflictError("this round has already been spun")
	}

	bets, err := s.betRepo.GetBySession(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bets: %w", err)
	}
	if len(bets) == 0 {
		return nil, common.NewStateConflictError("place at least one bet before spinning")
	}
	// The wallet row serializes a user's settlements, including the first
	// stats insert, which has no row to lock yet.
	if err := s.ledger.LockWallets(ctx, userID); err != nil {
		return nil, err
	}

	session.Nonce++
	number := DeriveWinningNumber(session.ServerSeed, session.ClientSeed, session.Nonce)
	position, err := PositionAt(number)
	if err != nil {
		return nil, common.NewIntegrityFailure(err, fmt.Sprintf("session %d derived an impossible position", session.ID))
	}

	var totalBet, totalWinnings int64
	for _, bet := range bets {
		bet.Settle(BetWins(bet.BetType, bet.BetValue, position))
		if err := s.betRepo.UpdateSettlement(ctx, bet); err != nil {
			return nil, fmt.Errorf("failed to settle bet %d: %w", bet.ID, err)
		}
		totalBet += bet.BetAmount
		totalWinnings += bet.ActualPayout
	}
	if totalBet != session.TotalBetAmount {
		return nil, common.NewIntegrityFailure(nil, fmt.Sprintf(
			"session %d bets total %d but session recorded %d", session.ID, totalBet, session.TotalBetAmount))
	}

	if totalWinnings > 0 {
		if _, err := s.ledger.AddCurrency(ctx, userID, entities.CurrencyGemCoins, totalWinnings, entities.SourceRouletteWin,
			fmt.Sprintf("Roulette win on %s (%d)", position.Crypto, position.Number),
			entities.WithReference(entities.ReferenceTypeGameSession, session.ID)); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	if err := session.Complete(number, position.Crypto, totalWinnings, now); err != nil {
		return nil, common.NewStateConflictError(err.Error())
	}
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to complete game session: %w", err)
	}

	result := &entities.SpinResult{
		Session:       session,
		Bets:          bets,
		Position:      position,
		TotalBet:      totalBet,
		TotalWinnings: totalWinnings,
		Won:           session.IsWin(),
	}

	stats, err := s.updateStats(ctx, session, bets, now)
	if err != nil {
		return nil, err
	}
	if err := s.ledger.RecordGamePlayed(ctx, userID, result.Won); err != nil {
		return nil, err
	}
	if err := s.grantParticipation(ctx, result, stats.CurrentWinStreak, now); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"userID":        userID,
		"sessionID":     session.ID,
		"winningNumber": number,
		"winningCrypto": position.Crypto,
		"totalBet":      totalBet,
		"totalWinnings": totalWinnings,
	}).Info("Roulette session settled")

	if err := s.eventPublisher.Publish(events.SessionCompletedEvent{
		UserID:        userID,
		SessionID:     session.ID,
		WinningNumber: number,
		WinningCrypto: position.Crypto,
		TotalBet:      totalBet,
		TotalWinnings: totalWinnings,
		Won:           result.Won,
	}); err != nil {
		log.WithError(err).Error("Failed to publish session completed event")
	}
	return result, nil
}

func (s *rouletteService) updateStats(ctx context.Context, session *entities.GameSession, bets []*entities.GameBet, now time.Time) (*entities.GameStats, error) {
	stats, err := s.statsRepo.GetByUserIDForUpdate(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game stats: %w", err)
	}
	if stats == nil {
		stats = entities.NewGameStats(session.UserID)
		stats.CreatedAt = now
	}

	ApplySessionResult(stats, session, bets, now)

	if err := s.statsRepo.Upsert(ctx, stats); err != nil {
		return nil, fmt.Errorf("failed to save game stats: %w", err)
	}
	return stats, nil
}

// grantParticipation awards XP, optional GEMs and a drop roll. These rewards
// are part of settlement, so any failure aborts the spin.
func (s *rouletteService) grantParticipation(ctx context.Context, result *entities.SpinResult, winStreak int, now time.Time) error {
	userID := result.Session.UserID
	cfg := s.economy.Participation

	mods, err := s.effects.ActiveModifiers(ctx, userID, entities.EffectScopeGaming, now)
	if err != nil {
		return err
	}
	streakMultiplier := StreakMultiplier(cfg, winStreak)

	baseXP := cfg.BaseXP
	if result.Won {
		baseXP += cfg.WinXP
	}
	result.XPEarned = decimal.NewFromInt(baseXP).Mul(streakMultiplier).Mul(mods.XPMultiplier).Floor().IntPart()
	if result.XPEarned > 0 {
		_, levelUp, err := s.ledger.AddExperience(ctx, userID, result.XPEarned, entities.SourceParticipation,
			"Roulette participation XP",
			entities.WithReference(entities.ReferenceTypeGameSession, result.Session.ID))
		if err != nil {
			return err
		}
		result.LevelUp = levelUp
	}

	result.GemsEarned = decimal.NewFromInt(cfg.BaseGems).Mul(streakMultiplier).Mul(mods.GemMultiplier).Floor().IntPart()
	if result.GemsEarned > 0 {
		if _, err := s.ledger.AddCurrency(ctx, userID, entities.CurrencyGemCoins, result.GemsEarned, entities.SourceParticipation,
			"Roulette participation reward",
			entities.WithReference(entities.ReferenceTypeGameSession, result.Session.ID)); err != nil {
			return err
		}
	}

	boost := mods.DropRateMultiplier
	if winStreak >= s.economy.Drops.WinStreakThreshold {
		boost = boost.Mul(decimal.NewFromFloat(s.economy.Drops.WinStreakBoost))
	}
	opts := entities.DropOptions{Boost: boost}
	if g := mods.GuaranteedRare; g != nil {
		opts.Guaranteed = true
		opts.MinRarity = g.MinRarity
	}

	drop, err := s.drops.RollDrop(ctx, userID, opts)
	if err != nil {
		return err
	}
	result.Drop = drop
	if drop != nil && mods.GuaranteedRare != nil {
		if err := s.effects.ConsumeUse(ctx, mods.GuaranteedRare); err != nil {
			return err
		}
	}

	for _, e := range mods.Applied {
		if !effectPaidOut(e, result) {
			continue
		}
		if err := s.effects.ConsumeUse(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

// effectPaidOut reports whether a multiplier actually changed this spin's
// rewards. A multiplier on a zero reward leaves its uses intact.
func effectPaidOut(e *entities.ActiveEffect, result *entities.SpinResult) bool {
	switch e.EffectType {
	case entities.EffectTypeXPMultiplier:
		return result.XPEarned > 0
	case entities.EffectTypeGemMultiplier:
		return result.GemsEarned > 0
	default:
		return true
	}
}

func (s *rouletteService) RevealServerSeed(ctx context.Context, sessionID, userID int64) (*entities.SessionReveal, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game session: %w", err)
	}
	if session == nil || !session.IsOwnedBy(userID) {
		return nil, common.NewNotFoundError("game session", sessionID)
	}
	if !session.IsCompleted() || session.WinningNumber == nil {
		return nil, common.NewStateConflictError("the server seed is revealed only after the spin")
	}

	if err := VerifyRound(session.ServerSeed, session.ServerSeedHash, session.ClientSeed, session.Nonce, *session.WinningNumber); err != nil {
		return nil, err
	}

	reveal := &entities.SessionReveal{
		SessionID:      session.ID,
		ServerSeed:     session.ServerSeed,
		ServerSeedHash: session.ServerSeedHash,
		ClientSeed:     session.ClientSeed,
		Nonce:          session.Nonce,
		WinningNumber:  *session.WinningNumber,
		Verified:       true,
	}
	if session.WinningCrypto != nil {
		reveal.WinningCrypto = *session.WinningCrypto
	}
	return reveal, nil
}

func (s *rouletteService) GetHistory(ctx context.Context, filter entities.SessionHistoryFilter) ([]*entities.GameSession, error) {
	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, common.NewValidationError("limit and offset cannot be negative")
	}
	if filter.Limit == 0 {
		filter.Limit = defaultHistoryLimit
	}

	sessions, err := s.sessionRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list game sessions: %w", err)
	}
	out := make([]*entities.GameSession, 0, len(sessions))
	for _, session := range sessions {
		out = append(out, session.PublicView())
	}
	return out, nil
}

func (s *rouletteService) GetStats(ctx context.Context, userID int64) (*entities.GameStats, error) {
	stats, err := s.statsRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game stats: %w", err)
	}
	if stats == nil {
		return entities.NewGameStats(userID), nil
	}
	return stats, nil
}
