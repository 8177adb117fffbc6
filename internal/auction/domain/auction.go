package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AuctionStatus represents whether an auction still accepts bids
type AuctionStatus string

const (
	StatusOpen   AuctionStatus = "OPEN"
	StatusClosed AuctionStatus = "CLOSED"
)

// Auction is the read-only catalog view the coordinator validates bids against.
// BasePrice is immutable once the auction is published.
type Auction struct {
	ID        uuid.UUID
	BasePrice decimal.Decimal
	Status    AuctionStatus
	CreatedAt time.Time
}

// NewAuction creates an open auction, rejecting negative, over-precise or out of range base prices
func NewAuction(id uuid.UUID, basePrice decimal.Decimal, createdAt time.Time) (*Auction, error) {
	if !AmountInRange(basePrice) {
		return nil, fmt.Errorf("new auction %s: base price out of range: %w", id, ErrInvalidAmount)
	}
	if basePrice.IsNegative() || !hasCurrencyPrecision(basePrice) {
		return nil, fmt.Errorf("new auction %s: base price %s: %w", id, basePrice, ErrInvalidAmount)
	}
	return &Auction{
		ID:        id,
		BasePrice: basePrice,
		Status:    StatusOpen,
		CreatedAt: createdAt,
	}, nil
}

func (a *Auction) IsOpen() bool {
	return a.Status == StatusOpen
}

// ParseAuctionStatus accepts the stored representation of a status
func ParseAuctionStatus(s string) (AuctionStatus, error) {
	switch AuctionStatus(s) {
	case StatusOpen, StatusClosed:
		return AuctionStatus(s), nil
	default:
		return "", fmt.Errorf("unknown auction status %q", s)
	}
}
