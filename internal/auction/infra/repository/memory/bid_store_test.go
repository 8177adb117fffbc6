package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cristianortiz/bidcoordinator/internal/auction/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newStoreWithAuction(t *testing.T, basePrice string) (*BidStore, uuid.UUID) {
	t.Helper()
	s := NewBidStore()
	a, err := domain.NewAuction(uuid.New(), dec(basePrice), time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, s.AddAuction(a))
	return s, a.ID
}

func TestBidStore_AppendIfHighest(t *testing.T) {
	ctx := context.Background()
	s, auctionID := newStoreWithAuction(t, "100.00")
	bidder := uuid.New()

	first, err := s.AppendIfHighest(ctx, auctionID, bidder, dec("100.00"), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.Seq)
	assert.Equal(t, auctionID, first.AuctionID)

	// stale expectation
	_, err = s.AppendIfHighest(ctx, auctionID, bidder, dec("120.00"), nil)
	require.ErrorIs(t, err, domain.ErrConflict)

	prior := dec("100")
	second, err := s.AppendIfHighest(ctx, auctionID, bidder, dec("120.00"), &prior)
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.Seq)
	assert.False(t, second.CreatedAt.Before(first.CreatedAt))

	highest, err := s.GetHighest(ctx, auctionID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, highest.ID)

	bids, err := s.ListBids(ctx, auctionID)
	require.NoError(t, err)
	require.Len(t, bids, 2)
	assert.Equal(t, first.ID, bids[0].ID)
}

func TestBidStore_AppendGuards(t *testing.T) {
	ctx := context.Background()
	s, auctionID := newStoreWithAuction(t, "100.00")

	_, err := s.AppendIfHighest(ctx, auctionID, uuid.New(), dec("99.99"), nil)
	require.ErrorIs(t, err, domain.ErrBelowBasePrice)

	_, err = s.AppendIfHighest(ctx, auctionID, uuid.New(), dec("150.00"), nil)
	require.NoError(t, err)

	expected := dec("150.00")
	_, err = s.AppendIfHighest(ctx, auctionID, uuid.New(), dec("150.00"), &expected)
	require.ErrorIs(t, err, domain.ErrOutbid)

	_, err = s.AppendIfHighest(ctx, uuid.New(), uuid.New(), dec("1"), nil)
	require.ErrorIs(t, err, domain.ErrAuctionNotFound)

	require.NoError(t, s.CloseAuction(auctionID))
	_, err = s.AppendIfHighest(ctx, auctionID, uuid.New(), dec("500.00"), &expected)
	require.ErrorIs(t, err, domain.ErrAuctionClosed)

	a, err := s.GetAuction(ctx, auctionID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusClosed, a.Status)

	bids, err := s.ListBids(ctx, auctionID)
	require.NoError(t, err)
	assert.Len(t, bids, 1)
}

func TestBidStore_CreatedAtNeverGoesBackwards(t *testing.T) {
	ctx := context.Background()
	s, auctionID := newStoreWithAuction(t, "1.00")

	clock := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }
	first, err := s.AppendIfHighest(ctx, auctionID, uuid.New(), dec("1.00"), nil)
	require.NoError(t, err)

	clock = clock.Add(-time.Minute)
	prior := first.Amount
	second, err := s.AppendIfHighest(ctx, auctionID, uuid.New(), dec("2.00"), &prior)
	require.NoError(t, err)
	assert.True(t, second.CreatedAt.Equal(first.CreatedAt))
	assert.Greater(t, second.Seq, first.Seq)
}

func TestBidStore_AddAuctionTwice(t *testing.T) {
	s, auctionID := newStoreWithAuction(t, "1.00")
	a, err := s.GetAuction(context.Background(), auctionID)
	require.NoError(t, err)
	require.Error(t, s.AddAuction(a))
}

func TestBidStore_ConcurrentAppendsSameExpectation(t *testing.T) {
	ctx := context.Background()
	s, auctionID := newStoreWithAuction(t, "1.00")

	const writers = 32
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			amount := decimal.NewFromInt(int64(10 + i))
			if _, err := s.AppendIfHighest(ctx, auctionID, uuid.New(), amount, nil); err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			} else {
				assert.ErrorIs(t, err, domain.ErrConflict)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, accepted)
	bids, err := s.ListBids(ctx, auctionID)
	require.NoError(t, err)
	assert.Len(t, bids, 1)
}
