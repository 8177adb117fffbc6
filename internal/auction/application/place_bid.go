package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/cristianortiz/bidcoordinator/internal/auction/domain"
	"github.com/cristianortiz/bidcoordinator/internal/shared/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// maxAppendAttempts bounds the compare-and-append: the first attempt plus one retry after a conflict
const maxAppendAttempts = 2

// PlaceBidDTO is DTO input for PlaceBid useCase, contains the necesary data to make a bid
type PlaceBidDTO struct {
	AuctionID uuid.UUID
	BidderID  uuid.UUID
	Amount    decimal.Decimal
}

// PlaceBidUseCase is the bid coordinator: validates a bid against a snapshot of the auction,
// appends it atomically and hands accepted bids to the outbid publisher.
type PlaceBidUseCase struct {
	catalog   domain.AuctionCatalog
	store     domain.BidStore
	publisher domain.OutbidPublisher
}

// NewPlaceBidUseCase creates a new instace of PlaceBidUseCase struct, it receives dependency through injection
func NewPlaceBidUseCase(catalog domain.AuctionCatalog, store domain.BidStore, publisher domain.OutbidPublisher) *PlaceBidUseCase {
	return &PlaceBidUseCase{
		catalog:   catalog,
		store:     store,
		publisher: publisher,
	}
}

func (uc *PlaceBidUseCase) Execute(ctx context.Context, cmd PlaceBidDTO) (*domain.Bid, error) {
	// checked before the amount is rendered into any log field
	if !domain.AmountInRange(cmd.Amount) {
		log.Warn("PlaceBidUseCase: amount out of range",
			zap.Stringer("auctionID", cmd.AuctionID), zap.Stringer("bidderID", cmd.BidderID))
		return nil, fmt.Errorf("place bid use case: auction %s: amount out of range: %w", cmd.AuctionID, domain.ErrInvalidAmount)
	}

	fields := []zap.Field{
		zap.Stringer("auctionID", cmd.AuctionID),
		zap.Stringer("bidderID", cmd.BidderID),
		zap.String("amount", cmd.Amount.String()),
	}
	log.Debug("Executing PlaceBidUseCase", fields...)

	// 1. snapshot: auction state and current highest
	auction, err := uc.catalog.GetAuction(ctx, cmd.AuctionID)
	if err != nil {
		if !errors.Is(err, domain.ErrAuctionNotFound) {
			log.Error("PlaceBidUseCase: failed to get auction", append(fields, zap.Error(err))...)
		}
		return nil, fmt.Errorf("place bid use case: get auction %s: %w", cmd.AuctionID, err)
	}
	if !auction.IsOpen() {
		return nil, fmt.Errorf("place bid use case: auction %s: %w", cmd.AuctionID, domain.ErrAuctionClosed)
	}

	highest, err := uc.currentHighest(ctx, cmd.AuctionID)
	if err != nil {
		log.Error("PlaceBidUseCase: failed to read highest bid", append(fields, zap.Error(err))...)
		return nil, fmt.Errorf("place bid use case: read highest for auction %s: %w", cmd.AuctionID, err)
	}

	for attempt := 1; attempt <= maxAppendAttempts; attempt++ {
		// 2. validation against the snapshot is a stable rejection, never retried
		if err := domain.ValidateBid(cmd.Amount, auction.BasePrice, highest); err != nil {
			log.Warn("PlaceBidUseCase: bid rejected", append(fields, zap.Int("attempt", attempt), zap.Error(err))...)
			return nil, fmt.Errorf("place bid use case: auction %s: %w", cmd.AuctionID, err)
		}

		// 3. compare-and-append against the value just validated
		bid, err := uc.store.AppendIfHighest(ctx, cmd.AuctionID, cmd.BidderID, cmd.Amount, highest)
		if err == nil {
			log.Info("PlaceBidUseCase: bid accepted",
				append(fields, zap.Stringer("bidID", bid.ID), zap.Int64("seq", bid.Seq))...)
			uc.publisher.PublishOutbid(domain.OutbidEvent{AuctionID: cmd.AuctionID, NewBid: bid})
			return bid, nil
		}

		switch {
		case errors.Is(err, domain.ErrConflict):
			log.Warn("PlaceBidUseCase: highest bid changed during append", append(fields, zap.Int("attempt", attempt))...)
		case errors.Is(err, domain.ErrAuctionClosed), errors.Is(err, domain.ErrAuctionNotFound):
			return nil, fmt.Errorf("place bid use case: append to auction %s: %w", cmd.AuctionID, err)
		default:
			log.Error("PlaceBidUseCase: append failed, outcome unknown", append(fields, zap.Error(err))...)
			return nil, fmt.Errorf("place bid use case: append to auction %s: %w: %w", cmd.AuctionID, domain.ErrUnknownOutcome, err)
		}

		if attempt == maxAppendAttempts {
			break
		}
		// 4. someone else committed first, re-read and validate once more
		highest, err = uc.currentHighest(ctx, cmd.AuctionID)
		if err != nil {
			log.Error("PlaceBidUseCase: failed to re-read highest bid", append(fields, zap.Error(err))...)
			return nil, fmt.Errorf("place bid use case: re-read highest for auction %s: %w", cmd.AuctionID, err)
		}
	}

	log.Warn("PlaceBidUseCase: lost the append race twice", fields...)
	return nil, fmt.Errorf("place bid use case: auction %s: %w", cmd.AuctionID, domain.ErrOutbid)
}

func (uc *PlaceBidUseCase) currentHighest(ctx context.Context, auctionID uuid.UUID) (*decimal.Decimal, error) {
	bid, err := uc.store.GetHighest(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	if bid == nil {
		return nil, nil
	}
	amount := bid.Amount
	return &amount, nil
}
