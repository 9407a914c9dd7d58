package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gemwheel/config"
	"gemwheel/domain/common"
	"gemwheel/domain/entities"
	"gemwheel/domain/interfaces"
	"gemwheel/events"

	log "github.com/sirupsen/logrus"
)

const maxTradeMessageLength = 500

type tradeService struct {
	tradeRepo      interfaces.TradeRepository
	inventoryRepo  interfaces.InventoryRepository
	itemRepo       interfaces.CollectibleItemRepository
	walletRepo     interfaces.WalletRepository
	ledger         interfaces.LedgerService
	eventPublisher interfaces.EventPublisher
	economy        *config.Economy
}

// NewTradeService creates a new trade service
func NewTradeService(
	tradeRepo interfaces.TradeRepository,
	inventoryRepo interfaces.InventoryRepository,
	itemRepo interfaces.CollectibleItemRepository,
	walletRepo interfaces.WalletRepository,
	ledger interfaces.LedgerService,
	eventPublisher interfaces.EventPublisher,
	economy *config.Economy,
) interfaces.TradeService {
	return &tradeService{
		tradeRepo:      tradeRepo,
		inventoryRepo:  inventoryRepo,
		itemRepo:       itemRepo,
		walletRepo:     walletRepo,
		ledger:         ledger,
		eventPublisher: eventPublisher,
		economy:        economy,
	}
}

// FeeShares splits the trade fee; the initiator pays the odd unit
func FeeShares(fee int64) (initiator, recipient int64) {
	recipient = fee / 2
	return fee - recipient, recipient
}

func (s *tradeService) CreateTrade(ctx context.Context, req entities.TradeRequest, now time.Time) (*entities.TradeOffer, error) {
	if req.InitiatorID == req.RecipientID {
		return nil, common.NewValidationError("you cannot trade with yourself")
	}
	if req.OfferedGems < 0 || req.RequestedGems < 0 {
		return nil, common.NewValidationError("GEM amounts cannot be negative")
	}
	if len(req.OfferedItems) == 0 && len(req.RequestedItems) == 0 && req.OfferedGems == 0 && req.RequestedGems == 0 {
		return nil, common.NewValidationError("a trade must include at least one item or GEM amount")
	}
	message := strings.TrimSpace(req.Message)
	if len(message) > maxTradeMessageLength {
		return nil, common.NewValidationError(fmt.Sprintf("message must be at most %d characters", maxTradeMessageLength))
	}

	recipient, err := s.walletRepo.GetByUserID(ctx, req.RecipientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get recipient wallet: %w", err)
	}
	if recipient == nil {
		return nil, common.NewNotFoundError("recipient", req.RecipientID)
	}
	initiator, err := s.walletRepo.GetByUserID(ctx, req.InitiatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get initiator wallet: %w", err)
	}
	if initiator == nil {
		return nil, common.NewNotFoundError("wallet", req.InitiatorID)
	}

	pending, err := s.tradeRepo.CountPendingByInitiator(ctx, req.InitiatorID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending trades: %w", err)
	}
	if pending >= s.economy.Trades.MaxPendingPerUser {
		return nil, common.NewStateConflictError(fmt.Sprintf("you already have %d pending trades", pending))
	}

	trade := &entities.TradeOffer{
		InitiatorID:   req.InitiatorID,
		RecipientID:   req.RecipientID,
		OfferedGems:   req.OfferedGems,
		RequestedGems: req.RequestedGems,
		Status:        entities.TradeStatusPending,
		Message:       message,
		ExpiresAt:     now.Add(s.economy.Trades.Expiry()),
		CreatedAt:     now,
	}
	lines, err := buildTradeLines(req)
	if err != nil {
		return nil, err
	}
	trade.Items = lines

	for _, line := range trade.Items {
		owner := req.InitiatorID
		if line.Side == entities.TradeSideRequested {
			owner = req.RecipientID
		}
		if _, err := s.checkHolding(ctx, owner, line); err != nil {
			return nil, err
		}
	}

	initiatorFee, recipientFee := FeeShares(s.economy.Trades.FeeGems)
	if need := req.OfferedGems + initiatorFee; initiator.GemCoins < need {
		return nil, common.NewInsufficientFundsError(string(entities.CurrencyGemCoins), initiator.GemCoins, need)
	}
	if need := req.RequestedGems + recipientFee; recipient.GemCoins < need {
		return nil, common.NewValidationError(fmt.Sprintf("the recipient cannot cover %d GEM", need))
	}

	if err := s.tradeRepo.Create(ctx, trade); err != nil {
		return nil, fmt.Errorf("failed to create trade: %w", err)
	}

	log.WithFields(log.Fields{
		"tradeID":     trade.ID,
		"initiatorID": trade.InitiatorID,
		"recipientID": trade.RecipientID,
	}).Info("Trade offer created")

	s.publishStatus(trade, "")
	return trade, nil
}

// buildTradeLines merges duplicate item ids per side and rejects bad quantities
func buildTradeLines(req entities.TradeRequest) ([]*entities.TradeOfferItem, error) {
	var lines []*entities.TradeOfferItem
	add := func(side entities.TradeSide, reqs []entities.TradeItemRequest) error {
		index := map[int64]*entities.TradeOfferItem{}
		for _, r := range reqs {
			if r.Quantity <= 0 {
				return common.NewValidationError("item quantities must be positive")
			}
			if line, ok := index[r.ItemID]; ok {
				line.Quantity += r.Quantity
				continue
			}
			line := &entities.TradeOfferItem{Side: side, ItemID: r.ItemID, Quantity: r.Quantity}
			index[r.ItemID] = line
			lines = append(lines, line)
		}
		return nil
	}
	if err := add(entities.TradeSideOffered, req.OfferedItems); err != nil {
		return nil, err
	}
	if err := add(entities.TradeSideRequested, req.RequestedItems); err != nil {
		return nil, err
	}
	return lines, nil
}

// checkHolding verifies the owner holds enough of a tradeable, unequipped item
func (s *tradeService) checkHolding(ctx context.Context, owner int64, line *entities.TradeOfferItem) (*entities.UserInventory, error) {
	item, err := s.itemRepo.GetByID(ctx, line.ItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog item: %w", err)
	}
	if item == nil {
		return nil, common.NewNotFoundError("item", line.ItemID)
	}
	if !item.IsTradeable {
		return nil, common.NewValidationError(fmt.Sprintf("%s cannot be traded", item.Name))
	}

	inv, err := s.inventoryRepo.GetByUserAndItemForUpdate(ctx, owner, line.ItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory: %w", err)
	}
	if inv == nil || !inv.HasAtLeast(line.Quantity) {
		have := 0
		if inv != nil {
			have = inv.Quantity
		}
		return nil, common.NewValidationError(fmt.Sprintf("user %d holds %d of %s, trade needs %d", owner, have, item.Name, line.Quantity))
	}
	if inv.IsEquipped {
		return nil, common.NewStateConflictError(fmt.Sprintf("%s is equipped; unequip it before trading", item.Name))
	}
	inv.Item = item
	return inv, nil
}

// loadPending locks a trade and checks it is still open
func (s *tradeService) loadPending(ctx context.Context, tradeID int64) (*entities.TradeOffer, error) {
	trade, err := s.tradeRepo.GetByIDForUpdate(ctx, tradeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get trade: %w", err)
	}
	if trade == nil {
		return nil, common.NewNotFoundError("trade", tradeID)
	}
	if !trade.IsPending() {
		return nil, common.NewStateConflictError(fmt.Sprintf("this trade is already %s", strings.ToLower(string(trade.Status))))
	}
	return trade, nil
}

// AcceptTrade re-validates both sides and performs the swap. Any error leaves
// the caller's unit of work to roll everything back.
func (s *tradeService) AcceptTrade(ctx context.Context, tradeID, userID int64, now time.Time) (*entities.TradeOffer, error) {
	trade, err := s.loadPending(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	if trade.RecipientID != userID {
		return nil, common.NewNotFoundError("trade", tradeID)
	}
	if trade.IsExpired(now) {
		return nil, common.NewStateConflictError("this trade has expired")
	}

	if err := s.ledger.LockWallets(ctx, trade.InitiatorID, trade.RecipientID); err != nil {
		return nil, err
	}

	for _, line := range trade.Items {
		from, to := trade.InitiatorID, trade.RecipientID
		if line.Side == entities.TradeSideRequested {
			from, to = trade.RecipientID, trade.InitiatorID
		}
		inv, err := s.checkHolding(ctx, from, line)
		if err != nil {
			return nil, err
		}
		if _, err := s.inventoryRepo.RemoveQuantity(ctx, inv.ID, line.Quantity); err != nil {
			return nil, fmt.Errorf("failed to remove traded item: %w", err)
		}
		if _, err := s.inventoryRepo.AddQuantity(ctx, to, line.ItemID, line.Quantity); err != nil {
			return nil, fmt.Errorf("failed to add traded item: %w", err)
		}
	}

	ref := entities.WithReference(entities.ReferenceTypeTradeOffer, trade.ID)
	if err := s.moveGems(ctx, trade.InitiatorID, trade.RecipientID, trade.OfferedGems, trade.ID, ref); err != nil {
		return nil, err
	}
	if err := s.moveGems(ctx, trade.RecipientID, trade.InitiatorID, trade.RequestedGems, trade.ID, ref); err != nil {
		return nil, err
	}

	initiatorFee, recipientFee := FeeShares(s.economy.Trades.FeeGems)
	for _, fee := range []struct {
		userID int64
		amount int64
	}{{trade.InitiatorID, initiatorFee}, {trade.RecipientID, recipientFee}} {
		if fee.amount <= 0 {
			continue
		}
		if _, err := s.ledger.SpendCurrency(ctx, fee.userID, entities.CurrencyGemCoins, fee.amount, entities.SourceTradeFee,
			fmt.Sprintf("Trade #%d fee", trade.ID), ref); err != nil {
			return nil, err
		}
	}

	return s.transition(ctx, trade, entities.TradeStatusAccepted, now)
}

func (s *tradeService) moveGems(ctx context.Context, from, to, amount, tradeID int64, ref entities.EntryOption) error {
	if amount <= 0 {
		return nil
	}
	if _, err := s.ledger.SpendCurrency(ctx, from, entities.CurrencyGemCoins, amount, entities.SourceTrade,
		fmt.Sprintf("Trade #%d payment", tradeID), ref); err != nil {
		return err
	}
	if _, err := s.ledger.AddCurrency(ctx, to, entities.CurrencyGemCoins, amount, entities.SourceTrade,
		fmt.Sprintf("Trade #%d payment", tradeID), ref); err != nil {
		return err
	}
	return nil
}

func (s *tradeService) DeclineTrade(ctx context.Context, tradeID, userID int64, now time.Time) (*entities.TradeOffer, error) {
	trade, err := s.loadPending(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	if trade.RecipientID != userID {
		return nil, common.NewNotFoundError("trade", tradeID)
	}
	return s.transition(ctx, trade, entities.TradeStatusDeclined, now)
}

func (s *tradeService) CancelTrade(ctx context.Context, tradeID, userID int64, now time.Time) (*entities.TradeOffer, error) {
	trade, err := s.loadPending(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	if trade.InitiatorID != userID {
		return nil, common.NewNotFoundError("trade", tradeID)
	}
	return s.transition(ctx, trade, entities.TradeStatusCancelled, now)
}

func (s *tradeService) transition(ctx context.Context, trade *entities.TradeOffer, status entities.TradeStatus, now time.Time) (*entities.TradeOffer, error) {
	old := trade.Status
	if err := s.tradeRepo.UpdateStatus(ctx, trade.ID, status, now); err != nil {
		return nil, fmt.Errorf("failed to update trade status: %w", err)
	}
	trade.Status = status
	trade.RespondedAt = &now

	log.WithFields(log.Fields{
		"tradeID":   trade.ID,
		"oldStatus": old,
		"newStatus": status,
	}).Info("Trade status changed")

	s.publishStatus(trade, old)
	return trade, nil
}

func (s *tradeService) publishStatus(trade *entities.TradeOffer, old entities.TradeStatus) {
	if err := s.eventPublisher.Publish(events.TradeStatusChangedEvent{
		TradeID:     trade.ID,
		InitiatorID: trade.InitiatorID,
		RecipientID: trade.RecipientID,
		OldStatus:   old,
		NewStatus:   trade.Status,
	}); err != nil {
		log.WithError(err).Error("Failed to publish trade status event")
	}
}

func (s *tradeService) ListTrades(ctx context.Context, filter entities.TradeFilter) ([]*entities.TradeOffer, error) {
	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, common.NewValidationError("limit and offset cannot be negative")
	}
	trades, err := s.tradeRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list trades: %w", err)
	}
	return trades, nil
}

// ExpireStaleTrades sweeps overdue pending offers to EXPIRED
func (s *tradeService) ExpireStaleTrades(ctx context.Context, now time.Time) (int, error) {
	expired, err := s.tradeRepo.ExpirePending(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to expire trades: %w", err)
	}
	for _, trade := range expired {
		s.publishStatus(trade, entities.TradeStatusPending)
	}
	if len(expired) > 0 {
		log.WithField("count", len(expired)).Info("Expired stale trade offers")
	}
	return len(expired), nil
}
