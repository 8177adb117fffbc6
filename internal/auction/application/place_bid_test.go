package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/cristianortiz/bidcoordinator/internal/auction/domain"
	"github.com/cristianortiz/bidcoordinator/internal/auction/domain/mocks"
	"github.com/cristianortiz/bidcoordinator/internal/auction/infra/repository/memory"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// decimalPtrMatcher matches a *decimal.Decimal by value, nil only matches nil
type decimalPtrMatcher struct {
	want *decimal.Decimal
}

func eqAmountPtr(s string) gomock.Matcher {
	if s == "" {
		return decimalPtrMatcher{}
	}
	d := dec(s)
	return decimalPtrMatcher{want: &d}
}

func (m decimalPtrMatcher) Matches(x interface{}) bool {
	got, ok := x.(*decimal.Decimal)
	if !ok {
		return false
	}
	if m.want == nil || got == nil {
		return m.want == nil && got == nil
	}
	return got.Equal(*m.want)
}

func (m decimalPtrMatcher) String() string {
	if m.want == nil {
		return "is nil amount"
	}
	return fmt.Sprintf("amount equal to %s", m.want)
}

// recordingPublisher collects published events
type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.OutbidEvent
}

func (p *recordingPublisher) PublishOutbid(e domain.OutbidEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

func openAuction(basePrice string) *domain.Auction {
	return &domain.Auction{ID: uuid.New(), BasePrice: dec(basePrice), Status: domain.StatusOpen}
}

func TestPlaceBid_Mocked(t *testing.T) {
	ctx := context.Background()
	bidderID := uuid.New()

	tests := []struct {
		name          string
		auction       *domain.Auction
		amount        string
		mockSetup     func(a *domain.Auction, catalog *mocks.MockAuctionCatalog, store *mocks.MockBidStore)
		expectedError error
		published     int
	}{
		{
			name:    "accepted_first_bid",
			auction: openAuction("100.00"),
			amount:  "100.00",
			mockSetup: func(a *domain.Auction, catalog *mocks.MockAuctionCatalog, store *mocks.MockBidStore) {
				catalog.EXPECT().GetAuction(gomock.Any(), a.ID).Return(a, nil)
				store.EXPECT().GetHighest(gomock.Any(), a.ID).Return(nil, nil)
				store.EXPECT().AppendIfHighest(gomock.Any(), a.ID, bidderID, gomock.Any(), eqAmountPtr("")).
					Return(domain.NewBid(uuid.New(), a.ID, bidderID, dec("100.00"), 1, time.Now()), nil)
			},
			published: 1,
		},
		{
			name:    "auction_not_found",
			auction: openAuction("100.00"),
			amount:  "100.00",
			mockSetup: func(a *domain.Auction, catalog *mocks.MockAuctionCatalog, store *mocks.MockBidStore) {
				catalog.EXPECT().GetAuction(gomock.Any(), a.ID).Return(nil, domain.ErrAuctionNotFound)
			},
			expectedError: domain.ErrAuctionNotFound,
		},
		{
			name:          "out_of_range_amount_touches_nothing",
			auction:       openAuction("100.00"),
			amount:        "1e30000000",
			mockSetup:     func(a *domain.Auction, catalog *mocks.MockAuctionCatalog, store *mocks.MockBidStore) {},
			expectedError: domain.ErrInvalidAmount,
		},
		{
			name:    "auction_closed_no_store_calls",
			auction: &domain.Auction{ID: uuid.New(), BasePrice: dec("100"), Status: domain.StatusClosed},
			amount:  "500.00",
			mockSetup: func(a *domain.Auction, catalog *mocks.MockAuctionCatalog, store *mocks.MockBidStore) {
				catalog.EXPECT().GetAuction(gomock.Any(), a.ID).Return(a, nil)
			},
			expectedError: domain.ErrAuctionClosed,
		},
		{
			name:    "validation_rejection_is_not_retried",
			auction: openAuction("100.00"),
			amount:  "150.00",
			mockSetup: func(a *domain.Auction, catalog *mocks.MockAuctionCatalog, store *mocks.MockBidStore) {
				catalog.EXPECT().GetAuction(gomock.Any(), a.ID).Return(a, nil)
				store.EXPECT().GetHighest(gomock.Any(), a.ID).
					Return(domain.NewBid(uuid.New(), a.ID, uuid.New(), dec("150.00"), 2, time.Now()), nil)
			},
			expectedError: domain.ErrOutbid,
		},
		{
			name:    "conflict_then_success",
			auction: openAuction("100.00"),
			amount:  "300.00",
			mockSetup: func(a *domain.Auction, catalog *mocks.MockAuctionCatalog, store *mocks.MockBidStore) {
				catalog.EXPECT().GetAuction(gomock.Any(), a.ID).Return(a, nil)
				gomock.InOrder(
					store.EXPECT().GetHighest(gomock.Any(), a.ID).
						Return(domain.NewBid(uuid.New(), a.ID, uuid.New(), dec("150.00"), 1, time.Now()), nil),
					store.EXPECT().AppendIfHighest(gomock.Any(), a.ID, bidderID, gomock.Any(), eqAmountPtr("150.00")).
						Return(nil, domain.ErrConflict),
					store.EXPECT().GetHighest(gomock.Any(), a.ID).
						Return(domain.NewBid(uuid.New(), a.ID, uuid.New(), dec("200.00"), 2, time.Now()), nil),
					store.EXPECT().AppendIfHighest(gomock.Any(), a.ID, bidderID, gomock.Any(), eqAmountPtr("200.00")).
						Return(domain.NewBid(uuid.New(), a.ID, bidderID, dec("300.00"), 3, time.Now()), nil),
				)
			},
			published: 1,
		},
		{
			name:    "conflict_then_revalidation_rejects",
			auction: openAuction("100.00"),
			amount:  "180.00",
			mockSetup: func(a *domain.Auction, catalog *mocks.MockAuctionCatalog, store *mocks.MockBidStore) {
				catalog.EXPECT().GetAuction(gomock.Any(), a.ID).Return(a, nil)
				gomock.InOrder(
					store.EXPECT().GetHighest(gomock.Any(), a.ID).
						Return(domain.NewBid(uuid.New(), a.ID, uuid.New(), dec("150.00"), 1, time.Now()), nil),
					store.EXPECT().AppendIfHighest(gomock.Any(), a.ID, bidderID, gomock.Any(), eqAmountPtr("150.00")).
						Return(nil, domain.ErrConflict),
					store.EXPECT().GetHighest(gomock.Any(), a.ID).
						Return(domain.NewBid(uuid.New(), a.ID, uuid.New(), dec("200.00"), 2, time.Now()), nil),
				)
			},
			expectedError: domain.ErrOutbid,
		},
		{
			name:    "conflict_twice_is_outbid",
			auction: openAuction("100.00"),
			amount:  "1000.00",
			mockSetup: func(a *domain.Auction, catalog *mocks.MockAuctionCatalog, store *mocks.MockBidStore) {
				catalog.EXPECT().GetAuction(gomock.Any(), a.ID).Return(a, nil)
				store.EXPECT().GetHighest(gomock.Any(), a.ID).Return(nil, nil).Times(2)
				store.EXPECT().AppendIfHighest(gomock.Any(), a.ID, bidderID, gomock.Any(), gomock.Any()).
					Return(nil, domain.ErrConflict).Times(2)
			},
			expectedError: domain.ErrOutbid,
		},
		{
			name:    "closed_during_append",
			auction: openAuction("100.00"),
			amount:  "100.00",
			mockSetup: func(a *domain.Auction, catalog *mocks.MockAuctionCatalog, store *mocks.MockBidStore) {
				catalog.EXPECT().GetAuction(gomock.Any(), a.ID).Return(a, nil)
				store.EXPECT().GetHighest(gomock.Any(), a.ID).Return(nil, nil)
				store.EXPECT().AppendIfHighest(gomock.Any(), a.ID, bidderID, gomock.Any(), gomock.Any()).
					Return(nil, domain.ErrAuctionClosed)
			},
			expectedError: domain.ErrAuctionClosed,
		},
		{
			name:    "storage_failure_is_unknown_outcome",
			auction: openAuction("100.00"),
			amount:  "100.00",
			mockSetup: func(a *domain.Auction, catalog *mocks.MockAuctionCatalog, store *mocks.MockBidStore) {
				catalog.EXPECT().GetAuction(gomock.Any(), a.ID).Return(a, nil)
				store.EXPECT().GetHighest(gomock.Any(), a.ID).Return(nil, nil)
				store.EXPECT().AppendIfHighest(gomock.Any(), a.ID, bidderID, gomock.Any(), gomock.Any()).
					Return(nil, context.DeadlineExceeded)
			},
			expectedError: domain.ErrUnknownOutcome,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			catalog := mocks.NewMockAuctionCatalog(ctrl)
			store := mocks.NewMockBidStore(ctrl)
			publisher := &recordingPublisher{}
			tt.mockSetup(tt.auction, catalog, store)

			uc := NewPlaceBidUseCase(catalog, store, publisher)
			bid, err := uc.Execute(ctx, PlaceBidDTO{AuctionID: tt.auction.ID, BidderID: bidderID, Amount: dec(tt.amount)})

			if tt.expectedError != nil {
				require.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, bid)
			} else {
				require.NoError(t, err)
				require.NotNil(t, bid)
			}
			assert.Equal(t, tt.published, publisher.count())
		})
	}
}

func TestPlaceBid_UnknownOutcomeKeepsCause(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	a := openAuction("1.00")
	catalog := mocks.NewMockAuctionCatalog(ctrl)
	store := mocks.NewMockBidStore(ctrl)
	cause := errors.New("connection reset by peer")
	catalog.EXPECT().GetAuction(gomock.Any(), a.ID).Return(a, nil)
	store.EXPECT().GetHighest(gomock.Any(), a.ID).Return(nil, nil)
	store.EXPECT().AppendIfHighest(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, cause)

	_, err := NewPlaceBidUseCase(catalog, store, &recordingPublisher{}).
		Execute(context.Background(), PlaceBidDTO{AuctionID: a.ID, BidderID: uuid.New(), Amount: dec("5")})
	require.ErrorIs(t, err, domain.ErrUnknownOutcome)
	require.ErrorIs(t, err, cause)
	assert.Equal(t, domain.CodeUnknownOutcome, domain.ErrorCode(err))
}

func newMemoryCoordinator(t *testing.T, basePrice string) (*PlaceBidUseCase, *memory.BidStore, *recordingPublisher, uuid.UUID) {
	t.Helper()
	store := memory.NewBidStore()
	a, err := domain.NewAuction(uuid.New(), dec(basePrice), time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, store.AddAuction(a))
	publisher := &recordingPublisher{}
	return NewPlaceBidUseCase(store, store, publisher), store, publisher, a.ID
}

func TestPlaceBid_Scenarios(t *testing.T) {
	ctx := context.Background()
	uc, store, publisher, auctionID := newMemoryCoordinator(t, "100.00")
	a, b := uuid.New(), uuid.New()

	place := func(bidder uuid.UUID, amount string) (*domain.Bid, error) {
		return uc.Execute(ctx, PlaceBidDTO{AuctionID: auctionID, BidderID: bidder, Amount: dec(amount)})
	}

	_, err := place(a, "99.00")
	require.ErrorIs(t, err, domain.ErrBelowBasePrice)

	first, err := place(a, "100.00")
	require.NoError(t, err)
	assert.Equal(t, "100.00", domain.FormatAmount(first.Amount))

	_, err = place(b, "100.00")
	require.ErrorIs(t, err, domain.ErrOutbid)

	second, err := place(b, "150.00")
	require.NoError(t, err)

	highest, err := store.GetHighest(ctx, auctionID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, highest.ID)

	require.Equal(t, 2, publisher.count())
	last := publisher.events[1]
	bids, err := store.ListBids(ctx, auctionID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a}, domain.OutbidRecipients(bids, last.NewBid))

	require.NoError(t, store.CloseAuction(auctionID))
	_, err = place(uuid.New(), "500.00")
	require.ErrorIs(t, err, domain.ErrAuctionClosed)

	bids, err = store.ListBids(ctx, auctionID)
	require.NoError(t, err)
	assert.Len(t, bids, 2)
}

func TestPlaceBid_ConcurrentBiddersStayMonotonic(t *testing.T) {
	ctx := context.Background()
	uc, store, _, auctionID := newMemoryCoordinator(t, "10.00")

	const bidders = 50
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < bidders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			amount := decimal.NewFromInt(int64(10 + i%25)).Add(decimal.New(int64(i), -2))
			_, err := uc.Execute(ctx, PlaceBidDTO{AuctionID: auctionID, BidderID: uuid.New(), Amount: amount})
			if err != nil {
				assert.True(t, errors.Is(err, domain.ErrOutbid), "unexpected error: %v", err)
			}
		}(i)
	}
	close(start)
	wg.Wait()

	bids, err := store.ListBids(ctx, auctionID)
	require.NoError(t, err)
	require.NotEmpty(t, bids)
	assert.False(t, bids[0].Amount.LessThan(dec("10.00")))
	for i := 1; i < len(bids); i++ {
		assert.True(t, bids[i].Amount.GreaterThan(bids[i-1].Amount), "bid %d does not exceed its predecessor", i)
		assert.Equal(t, bids[i-1].Seq+1, bids[i].Seq)
		assert.False(t, bids[i].CreatedAt.Before(bids[i-1].CreatedAt))
	}

	highest, err := store.GetHighest(ctx, auctionID)
	require.NoError(t, err)
	assert.Equal(t, bids[len(bids)-1].ID, highest.ID)
}
