package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Bid represents an accepted, immutable offer against an auction.
// Seq is the 1-based acceptance order inside the auction, CreatedAt is assigned by the store.
type Bid struct {
	ID        uuid.UUID
	AuctionID uuid.UUID
	BidderID  uuid.UUID //bidder who placed the bid
	Amount    decimal.Decimal
	Seq       int64
	CreatedAt time.Time
}

// NewBid creates a new Bid instance
func NewBid(id, auctionID, bidderID uuid.UUID, amount decimal.Decimal, seq int64, createdAt time.Time) *Bid {
	return &Bid{
		ID:        id,
		AuctionID: auctionID,
		BidderID:  bidderID,
		Amount:    amount,
		Seq:       seq,
		CreatedAt: createdAt,
	}
}

// OutbidEvent is published after a bid commits, it carries the new highest bid.
type OutbidEvent struct {
	AuctionID uuid.UUID
	NewBid    *Bid
}
