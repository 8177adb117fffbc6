package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cristianortiz/bidcoordinator/internal/auction/domain"
	"github.com/cristianortiz/bidcoordinator/internal/shared/logger"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// compare-and-increment on the auction row, the row lock it takes serializes concurrent appends
const guardHighestQuery = `
        UPDATE auctions
        SET highest_amount = $2::numeric, bid_seq = bid_seq + 1, updated_at = NOW()
        WHERE id = $1
          AND status = 'OPEN'
          AND highest_amount IS NOT DISTINCT FROM $3::numeric
          AND ((highest_amount IS NULL AND $2::numeric >= base_price) OR $2::numeric > highest_amount)
        RETURNING bid_seq
    `

const insertBidQuery = `
        INSERT INTO bids (id, auction_id, bidder_id, amount, seq)
        VALUES ($1, $2, $3, $4::numeric, $5)
        RETURNING created_at
    `

const diagnoseAuctionQuery = `
        SELECT status, COALESCE(highest_amount::text, '')
        FROM auctions
        WHERE id = $1
    `

// BidStore implements domain.BidStore with an optimistic lock on auctions.highest_amount
type BidStore struct {
	pool DBPool
}

// NewBidStore creates new instance of BidStore.
func NewBidStore(pool DBPool) *BidStore {
	return &BidStore{pool: pool}
}

// AppendIfHighest guards the auction row and inserts the bid in one transaction.
func (s *BidStore) AppendIfHighest(ctx context.Context, auctionID, bidderID uuid.UUID, amount decimal.Decimal, expectedPriorHighest *decimal.Decimal) (_ *domain.Bid, err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("append bid: begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				log.Warn("BidStore: rollback failed", zap.Stringer("auctionID", auctionID), zap.Error(rbErr))
			}
		}
	}()

	var expected any
	if expectedPriorHighest != nil {
		expected = domain.FormatAmount(*expectedPriorHighest)
	}

	var seq int64
	err = tx.QueryRow(ctx, guardHighestQuery, auctionID, domain.FormatAmount(amount), expected).Scan(&seq)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = s.diagnose(ctx, tx, auctionID, expectedPriorHighest)
			return nil, err
		}
		return nil, fmt.Errorf("append bid to auction %s: guard: %w", auctionID, err)
	}

	bid := domain.NewBid(uuid.New(), auctionID, bidderID, amount, seq, time.Time{})
	err = tx.QueryRow(ctx, insertBidQuery, bid.ID, auctionID, bidderID, domain.FormatAmount(amount), seq).Scan(&bid.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("append bid to auction %s: insert: %w", auctionID, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("append bid to auction %s: commit: %w", auctionID, err)
	}
	return bid, nil
}

// diagnose explains why the guard matched no row
func (s *BidStore) diagnose(ctx context.Context, tx pgx.Tx, auctionID uuid.UUID, expected *decimal.Decimal) error {
	var status, highest string
	err := tx.QueryRow(ctx, diagnoseAuctionQuery, auctionID).Scan(&status, &highest)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("append bid: auction %s: %w", auctionID, domain.ErrAuctionNotFound)
		}
		return fmt.Errorf("append bid to auction %s: diagnose: %w", auctionID, err)
	}
	if status != string(domain.StatusOpen) {
		return fmt.Errorf("append bid to auction %s: %w", auctionID, domain.ErrAuctionClosed)
	}

	switch {
	case highest == "" && expected == nil:
		return fmt.Errorf("append bid to auction %s: %w", auctionID, domain.ErrBelowBasePrice)
	case highest == "" || expected == nil:
		return fmt.Errorf("append bid to auction %s: %w", auctionID, domain.ErrConflict)
	}
	current, err := domain.ParseAmount(highest)
	if err != nil {
		return fmt.Errorf("append bid to auction %s: %w", auctionID, err)
	}
	if !current.Equal(*expected) {
		return fmt.Errorf("append bid to auction %s: %w", auctionID, domain.ErrConflict)
	}
	return fmt.Errorf("append bid to auction %s: %w", auctionID, domain.ErrOutbid)
}

func (s *BidStore) ListBids(ctx context.Context, auctionID uuid.UUID) ([]*domain.Bid, error) {
	query := `
        SELECT id, auction_id, bidder_id, amount::text, seq, created_at
        FROM bids
        WHERE auction_id = $1
        ORDER BY seq ASC
    `
	rows, err := s.pool.Query(ctx, query, auctionID)
	if err != nil {
		return nil, fmt.Errorf("list bids for auction %s: %w", auctionID, err)
	}
	defer rows.Close()

	bids := []*domain.Bid{}
	for rows.Next() {
		bid, err := scanBid(rows)
		if err != nil {
			return nil, fmt.Errorf("list bids for auction %s: %w", auctionID, err)
		}
		bids = append(bids, bid)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list bids for auction %s: %w", auctionID, err)
	}
	return bids, nil
}

func (s *BidStore) GetHighest(ctx context.Context, auctionID uuid.UUID) (*domain.Bid, error) {
	query := `
        SELECT id, auction_id, bidder_id, amount::text, seq, created_at
        FROM bids
        WHERE auction_id = $1
        ORDER BY seq DESC
        LIMIT 1
    `
	bid, err := scanBid(s.pool.QueryRow(ctx, query, auctionID))
	if err != nil {
		//no bids for this auction yet
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get highest bid for auction %s: %w", auctionID, err)
	}
	return bid, nil
}

func scanBid(row pgx.Row) (*domain.Bid, error) {
	var (
		bid    domain.Bid
		amount string
	)
	if err := row.Scan(&bid.ID, &bid.AuctionID, &bid.BidderID, &amount, &bid.Seq, &bid.CreatedAt); err != nil {
		return nil, err
	}
	parsed, err := domain.ParseAmount(amount)
	if err != nil {
		return nil, err
	}
	bid.Amount = parsed
	return &bid, nil
}
