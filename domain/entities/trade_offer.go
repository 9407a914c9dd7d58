package entities

import (
	"fmt"
	"time"
)

// TradeStatus is the lifecycle state of a trade offer
type TradeStatus string

const (
	TradeStatusPending   TradeStatus = "PENDING"
	TradeStatusAccepted  TradeStatus = "ACCEPTED"
	TradeStatusDeclined  TradeStatus = "DECLINED"
	TradeStatusCancelled TradeStatus = "CANCELLED"
	TradeStatusExpired   TradeStatus = "EXPIRED"
)

// ParseTradeStatus validates a trade status at the boundary
func ParseTradeStatus(s string) (TradeStatus, error) {
	switch TradeStatus(s) {
	case TradeStatusPending, TradeStatusAccepted, TradeStatusDeclined, TradeStatusCancelled, TradeStatusExpired:
		return TradeStatus(s), nil
	}
	return "", fmt.Errorf("unknown trade status %q", s)
}

// TradeSide marks whether an item is offered by the initiator or requested from the recipient
type TradeSide string

const (
	TradeSideOffered   TradeSide = "OFFERED"
	TradeSideRequested TradeSide = "REQUESTED"
)

// TradeOffer is a peer-to-peer trade proposal
type TradeOffer struct {
	ID            int64       `db:"id"`
	InitiatorID   int64       `db:"initiator_id"`
	RecipientID   int64       `db:"recipient_id"`
	OfferedGems   int64       `db:"offered_gems"`
	RequestedGems int64       `db:"requested_gems"`
	Status        TradeStatus `db:"status"`
	Message       string      `db:"message"`
	ExpiresAt     time.Time   `db:"expires_at"`
	CreatedAt     time.Time   `db:"created_at"`
	RespondedAt   *time.Time  `db:"responded_at"`

	Items []*TradeOfferItem `db:"-"`
}

// IsPending returns true while the offer awaits a response
func (t *TradeOffer) IsPending() bool {
	return t.Status == TradeStatusPending
}

// IsExpired reports whether a pending offer has run past its expiry
func (t *TradeOffer) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// OfferedItems returns the initiator's side of the trade
func (t *TradeOffer) OfferedItems() []*TradeOfferItem {
	return t.itemsOn(TradeSideOffered)
}

// RequestedItems returns the recipient's side of the trade
func (t *TradeOffer) RequestedItems() []*TradeOfferItem {
	return t.itemsOn(TradeSideRequested)
}

func (t *TradeOffer) itemsOn(side TradeSide) []*TradeOfferItem {
	var out []*TradeOfferItem
	for _, item := range t.Items {
		if item.Side == side {
			out = append(out, item)
		}
	}
	return out
}

// TradeOfferItem is one line of a trade offer
type TradeOfferItem struct {
	ID           int64     `db:"id"`
	TradeOfferID int64     `db:"trade_offer_id"`
	Side         TradeSide `db:"side"`
	ItemID       int64     `db:"item_id"`
	Quantity     int       `db:"quantity"`
}

// TradeItemRequest is a caller-supplied item line
type TradeItemRequest struct {
	ItemID   int64
	Quantity int
}

// TradeRequest is the caller's input for creating a trade
type TradeRequest struct {
	InitiatorID    int64
	RecipientID    int64
	OfferedItems   []TradeItemRequest
	RequestedItems []TradeItemRequest
	OfferedGems    int64
	RequestedGems  int64
	Message        string
}

// TradeFilter narrows trade listings
type TradeFilter struct {
	UserID   int64
	Incoming bool
	Outgoing bool
	Status   *TradeStatus
	Limit    int
	Offset   int
}
