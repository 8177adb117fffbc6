package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cristianortiz/bidcoordinator/internal/auction/domain"
	"github.com/cristianortiz/bidcoordinator/internal/shared/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// auctionLog is one auction and its bid log, guarded by its own mutex.
// The mutex is the single writer serialization point for the auction.
type auctionLog struct {
	mu      sync.RWMutex
	auction domain.Auction
	bids    []*domain.Bid
}

// BidStore keeps auctions and bids in process memory.
// It implements both domain.AuctionCatalog and domain.BidStore.
type BidStore struct {
	mu       sync.RWMutex
	auctions map[uuid.UUID]*auctionLog
	now      func() time.Time
}

// NewBidStore creates an empty in-memory store
func NewBidStore() *BidStore {
	return &BidStore{
		auctions: make(map[uuid.UUID]*auctionLog),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// AddAuction registers an auction, an existing id is an error
func (s *BidStore) AddAuction(a *domain.Auction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.auctions[a.ID]; ok {
		return fmt.Errorf("add auction %s: already exists", a.ID)
	}
	s.auctions[a.ID] = &auctionLog{auction: *a}
	log.Info("memory store: auction added",
		zap.Stringer("auctionID", a.ID),
		zap.String("basePrice", domain.FormatAmount(a.BasePrice)))
	return nil
}

// CloseAuction flips an auction to CLOSED, later appends fail with ErrAuctionClosed.
func (s *BidStore) CloseAuction(auctionID uuid.UUID) error {
	l, err := s.get(auctionID)
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.auction.Status = domain.StatusClosed
	return nil
}

// GetAuction implements domain.AuctionCatalog
func (s *BidStore) GetAuction(_ context.Context, auctionID uuid.UUID) (*domain.Auction, error) {
	l, err := s.get(auctionID)
	if err != nil {
		return nil, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	a := l.auction
	return &a, nil
}

func (s *BidStore) AppendIfHighest(ctx context.Context, auctionID, bidderID uuid.UUID, amount decimal.Decimal, expectedPriorHighest *decimal.Decimal) (*domain.Bid, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l, err := s.get(auctionID)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.auction.IsOpen() {
		return nil, fmt.Errorf("append bid to auction %s: %w", auctionID, domain.ErrAuctionClosed)
	}

	var last *domain.Bid
	if n := len(l.bids); n > 0 {
		last = l.bids[n-1]
	}
	if !sameHighest(last, expectedPriorHighest) {
		return nil, fmt.Errorf("append bid to auction %s: %w", auctionID, domain.ErrConflict)
	}
	// the log itself refuses anything that would break monotonicity
	if last == nil && amount.LessThan(l.auction.BasePrice) {
		return nil, fmt.Errorf("append bid to auction %s: %w", auctionID, domain.ErrBelowBasePrice)
	}
	if last != nil && !amount.GreaterThan(last.Amount) {
		return nil, fmt.Errorf("append bid to auction %s: %w", auctionID, domain.ErrOutbid)
	}

	createdAt := s.now()
	seq := int64(1)
	if last != nil {
		if createdAt.Before(last.CreatedAt) {
			createdAt = last.CreatedAt
		}
		seq = last.Seq + 1
	}

	bid := domain.NewBid(uuid.New(), auctionID, bidderID, amount, seq, createdAt)
	l.bids = append(l.bids, bid)
	return bid, nil
}

// ListBids returns a copy of the log, ascending
func (s *BidStore) ListBids(_ context.Context, auctionID uuid.UUID) ([]*domain.Bid, error) {
	l, err := s.get(auctionID)
	if err != nil {
		return nil, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*domain.Bid, len(l.bids))
	copy(out, l.bids)
	return out, nil
}

func (s *BidStore) GetHighest(_ context.Context, auctionID uuid.UUID) (*domain.Bid, error) {
	l, err := s.get(auctionID)
	if err != nil {
		return nil, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.bids) == 0 {
		return nil, nil
	}
	return l.bids[len(l.bids)-1], nil
}

func (s *BidStore) get(auctionID uuid.UUID) (*auctionLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.auctions[auctionID]
	if !ok {
		return nil, fmt.Errorf("auction %s: %w", auctionID, domain.ErrAuctionNotFound)
	}
	return l, nil
}

func sameHighest(last *domain.Bid, expected *decimal.Decimal) bool {
	if last == nil || expected == nil {
		return last == nil && expected == nil
	}
	return last.Amount.Equal(*expected)
}
