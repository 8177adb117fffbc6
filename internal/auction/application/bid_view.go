package application

import (
	"context"
	"fmt"
	"time"

	"github.com/cristianortiz/bidcoordinator/internal/auction/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AuctionStateDTO is the output DTO for exposing auction state to the UI/WS
type AuctionStateDTO struct {
	AuctionID     uuid.UUID  `json:"auction_id"`
	Status        string     `json:"status"`
	BasePrice     string     `json:"base_price"`
	DisplayAmount string     `json:"display_amount"`
	BidCount      int        `json:"bid_count"`
	HasBids       bool       `json:"has_bids"`
	LastBidID     *uuid.UUID `json:"last_bid_id,omitempty"`
	LastBidderID  *uuid.UUID `json:"last_bidder_id,omitempty"`
	LastBidTime   *time.Time `json:"last_bid_time,omitempty"`
}

// HighestDTO is the current highest amount, falling back to the base price
type HighestDTO struct {
	Amount  decimal.Decimal
	HasBids bool
}

// BidViewUseCase derives read-only views from the bid log, it never mutates state
type BidViewUseCase struct {
	catalog domain.AuctionCatalog
	store   domain.BidStore
}

// NewBidViewUseCase creates a new instance of BidViewUseCase.
func NewBidViewUseCase(catalog domain.AuctionCatalog, store domain.BidStore) *BidViewUseCase {
	return &BidViewUseCase{
		catalog: catalog,
		store:   store,
	}
}

// ListBids returns every accepted bid, oldest first
func (uc *BidViewUseCase) ListBids(ctx context.Context, auctionID uuid.UUID) ([]*domain.Bid, error) {
	if _, err := uc.catalog.GetAuction(ctx, auctionID); err != nil {
		return nil, fmt.Errorf("list bids: %w", err)
	}
	bids, err := uc.store.ListBids(ctx, auctionID)
	if err != nil {
		return nil, fmt.Errorf("list bids for auction %s: %w", auctionID, err)
	}
	return bids, nil
}

// RenderBids returns the bids most recent first, annotated for viewerID
func (uc *BidViewUseCase) RenderBids(ctx context.Context, auctionID, viewerID uuid.UUID) ([]domain.AnnotatedBid, error) {
	bids, err := uc.ListBids(ctx, auctionID)
	if err != nil {
		return nil, fmt.Errorf("render bids: %w", err)
	}
	return domain.DeriveBidView(bids, viewerID), nil
}

func (uc *BidViewUseCase) HighestDisplayAmount(ctx context.Context, auctionID uuid.UUID) (*HighestDTO, error) {
	auction, err := uc.catalog.GetAuction(ctx, auctionID)
	if err != nil {
		return nil, fmt.Errorf("highest display amount: %w", err)
	}
	highest, err := uc.store.GetHighest(ctx, auctionID)
	if err != nil {
		return nil, fmt.Errorf("highest display amount for auction %s: %w", auctionID, err)
	}
	return &HighestDTO{
		Amount:  domain.DisplayAmount(auction.BasePrice, highest),
		HasBids: highest != nil,
	}, nil
}

// AuctionState builds the snapshot pushed to websocket clients after every accepted bid
func (uc *BidViewUseCase) AuctionState(ctx context.Context, auctionID uuid.UUID) (*AuctionStateDTO, error) {
	auction, err := uc.catalog.GetAuction(ctx, auctionID)
	if err != nil {
		return nil, fmt.Errorf("auction state: %w", err)
	}
	bids, err := uc.store.ListBids(ctx, auctionID)
	if err != nil {
		return nil, fmt.Errorf("auction state for auction %s: %w", auctionID, err)
	}

	last := domain.HighestOf(bids)
	dto := &AuctionStateDTO{
		AuctionID:     auction.ID,
		Status:        string(auction.Status),
		BasePrice:     domain.FormatAmount(auction.BasePrice),
		DisplayAmount: domain.FormatAmount(domain.DisplayAmount(auction.BasePrice, last)),
		BidCount:      len(bids),
		HasBids:       last != nil,
	}
	if last != nil {
		dto.LastBidID = &last.ID
		dto.LastBidderID = &last.BidderID
		dto.LastBidTime = &last.CreatedAt
	}
	return dto, nil
}
