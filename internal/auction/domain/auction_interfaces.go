package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AuctionCatalog is the read-only collaborator owning auction lifecycle
type AuctionCatalog interface {
	GetAuction(ctx context.Context, auctionID uuid.UUID) (*Auction, error)
}

// BidStore owns the append-only bid log of every auction.
type BidStore interface {
	// AppendIfHighest commits a bid only if the auction's highest amount still equals expectedPriorHighest
	// (nil meaning no bids). Fails with ErrConflict, ErrAuctionClosed or ErrAuctionNotFound.
	AppendIfHighest(ctx context.Context, auctionID, bidderID uuid.UUID, amount decimal.Decimal, expectedPriorHighest *decimal.Decimal) (*Bid, error)
	// ListBids returns the log ascending by acceptance order.
	ListBids(ctx context.Context, auctionID uuid.UUID) ([]*Bid, error)
	// GetHighest returns nil, nil when the auction has no bids.
	GetHighest(ctx context.Context, auctionID uuid.UUID) (*Bid, error)
}

// OutbidNotifier delivers a single outbid notice to one bidder
type OutbidNotifier interface {
	NotifyOutbid(ctx context.Context, auctionID, bidderID uuid.UUID, newHighest decimal.Decimal) error
}

// OutbidPublisher hands an accepted bid off for notification, it must not block the caller.
type OutbidPublisher interface {
	PublishOutbid(event OutbidEvent)
}
