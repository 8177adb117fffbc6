package application

import (
	"context"

	"github.com/cristianortiz/bidcoordinator/internal/auction/domain"
	"github.com/google/uuid"
)

// AuctionService defines application interface layer of auction module
// exposes uses cases to external layer, aka infra
type AuctionService interface {
	// PlaceBid validates and records a bid, returning the accepted bid or a domain error
	PlaceBid(ctx context.Context, cmd PlaceBidDTO) (*domain.Bid, error)
	ListBids(ctx context.Context, auctionID uuid.UUID) ([]*domain.Bid, error)
	RenderBids(ctx context.Context, auctionID, viewerID uuid.UUID) ([]domain.AnnotatedBid, error)
	GetHighest(ctx context.Context, auctionID uuid.UUID) (*HighestDTO, error)
	GetAuctionState(ctx context.Context, auctionID uuid.UUID) (*AuctionStateDTO, error)
}

// concret implementation of AuctionService (struct)
type auctionService struct {
	placeBidUC *PlaceBidUseCase
	bidViewUC  *BidViewUseCase
}

func NewAuctionService(placeBidUC *PlaceBidUseCase, bidViewUC *BidViewUseCase) AuctionService {
	return &auctionService{
		placeBidUC: placeBidUC,
		bidViewUC:  bidViewUC,
	}
}

// PlaceBid implements AuctionService.
func (as *auctionService) PlaceBid(ctx context.Context, cmd PlaceBidDTO) (*domain.Bid, error) {
	return as.placeBidUC.Execute(ctx, cmd)
}

func (as *auctionService) ListBids(ctx context.Context, auctionID uuid.UUID) ([]*domain.Bid, error) {
	return as.bidViewUC.ListBids(ctx, auctionID)
}

func (as *auctionService) RenderBids(ctx context.Context, auctionID, viewerID uuid.UUID) ([]domain.AnnotatedBid, error) {
	return as.bidViewUC.RenderBids(ctx, auctionID, viewerID)
}

func (as *auctionService) GetHighest(ctx context.Context, auctionID uuid.UUID) (*HighestDTO, error) {
	return as.bidViewUC.HighestDisplayAmount(ctx, auctionID)
}

// GetAuctionState to implementss AuctionService
func (as *auctionService) GetAuctionState(ctx context.Context, auctionID uuid.UUID) (*AuctionStateDTO, error) {
	return as.bidViewUC.AuctionState(ctx, auctionID)
}
