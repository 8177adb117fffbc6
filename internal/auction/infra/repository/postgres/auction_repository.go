package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/cristianortiz/bidcoordinator/internal/auction/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBPool is the subset of *pgxpool.Pool used by the repositories
type DBPool interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// AuctionRepository implements domain.AuctionCatalog on the auctions table
type AuctionRepository struct {
	pool DBPool
}

// NewAuctionRepository creates a new instance of AuctionRepository
func NewAuctionRepository(pool DBPool) *AuctionRepository {
	return &AuctionRepository{pool: pool}
}

// Create inserts a new auction, created_at and updated_at use the DB defaults
func (r *AuctionRepository) Create(ctx context.Context, a *domain.Auction) error {
	query := `
        INSERT INTO auctions (id, base_price, status)
        VALUES ($1, $2::numeric, $3)
    `
	_, err := r.pool.Exec(ctx, query, a.ID, domain.FormatAmount(a.BasePrice), string(a.Status))
	if err != nil {
		return fmt.Errorf("create auction %s: %w", a.ID, err)
	}
	return nil
}

// Close marks an auction CLOSED, pending appends see the new status inside their own transaction
func (r *AuctionRepository) Close(ctx context.Context, auctionID uuid.UUID) error {
	query := `
        UPDATE auctions SET status = 'CLOSED', updated_at = NOW()
        WHERE id = $1
    `
	tag, err := r.pool.Exec(ctx, query, auctionID)
	if err != nil {
		return fmt.Errorf("close auction %s: %w", auctionID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("close auction %s: %w", auctionID, domain.ErrAuctionNotFound)
	}
	return nil
}

// GetAuction recupera un Auction por su ID.
func (r *AuctionRepository) GetAuction(ctx context.Context, auctionID uuid.UUID) (*domain.Auction, error) {
	query := `
        SELECT id, base_price::text, status, created_at
        FROM auctions
        WHERE id = $1
    `
	var (
		a         domain.Auction
		basePrice string
		status    string
	)
	err := r.pool.QueryRow(ctx, query, auctionID).Scan(&a.ID, &basePrice, &status, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("auction %s: %w", auctionID, domain.ErrAuctionNotFound)
		}
		return nil, fmt.Errorf("get auction %s: %w", auctionID, err)
	}

	if a.BasePrice, err = domain.ParseAmount(basePrice); err != nil {
		return nil, fmt.Errorf("get auction %s: %w", auctionID, err)
	}
	if a.Status, err = domain.ParseAuctionStatus(status); err != nil {
		return nil, fmt.Errorf("get auction %s: %w", auctionID, err)
	}
	return &a, nil
}
