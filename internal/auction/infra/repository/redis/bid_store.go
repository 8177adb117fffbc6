package redis

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cristianortiz/bidcoordinator/internal/auction/domain"
	"github.com/cristianortiz/bidcoordinator/internal/shared/logger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// bidRecord is the msgpack payload of one list entry, seq is the entry position
type bidRecord struct {
	ID       string
	BidderID string
	Amount   string
}

type storeOptions struct {
	prefix string
	now    func() time.Time
}

type StoreOption func(*storeOptions)

// WithKeyPrefix sets the prefix of every key the store touches
func WithKeyPrefix(prefix string) StoreOption {
	return func(o *storeOptions) {
		o.prefix = prefix
	}
}

// WithClock replaces time.Now, used by tests
func WithClock(now func() time.Time) StoreOption {
	return func(o *storeOptions) {
		o.now = now
	}
}

// BidStore keeps each auction as a hash and its bids as an append-only list.
// It implements domain.AuctionCatalog and domain.BidStore.
type BidStore struct {
	client  *redis.Client
	options storeOptions
}

func NewBidStore(client *redis.Client, opts ...StoreOption) *BidStore {
	options := storeOptions{now: time.Now}
	for _, opt := range opts {
		opt(&options)
	}
	return &BidStore{client: client, options: options}
}

func (s *BidStore) auctionKey(auctionID uuid.UUID) string {
	return s.options.prefix + "auction:" + auctionID.String()
}

func (s *BidStore) bidsKey(auctionID uuid.UUID) string {
	return s.auctionKey(auctionID) + ":bids"
}

// PutAuction stores the catalog fields of an auction, bids already recorded are kept
func (s *BidStore) PutAuction(ctx context.Context, a *domain.Auction) error {
	const op = "redis.BidStore.PutAuction"
	err := s.client.HSet(ctx, s.auctionKey(a.ID),
		"base_price", domain.FormatAmount(a.BasePrice),
		"status", string(a.Status),
		"created_at", strconv.FormatInt(a.CreatedAt.UnixMicro(), 10),
	).Err()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CloseAuction marks the auction CLOSED
func (s *BidStore) CloseAuction(ctx context.Context, auctionID uuid.UUID) error {
	const op = "redis.BidStore.CloseAuction"
	key := s.auctionKey(auctionID)
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: auction %s: %w", op, auctionID, domain.ErrAuctionNotFound)
	}
	if err := s.client.HSet(ctx, key, "status", string(domain.StatusClosed)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *BidStore) GetAuction(ctx context.Context, auctionID uuid.UUID) (*domain.Auction, error) {
	const op = "redis.BidStore.GetAuction"
	fields, err := s.client.HGetAll(ctx, s.auctionKey(auctionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	// Redis returns empty map when key doesn't exist
	if len(fields) == 0 {
		return nil, fmt.Errorf("auction %s: %w", auctionID, domain.ErrAuctionNotFound)
	}

	basePrice, err := domain.ParseAmount(fields["base_price"])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	status, err := domain.ParseAuctionStatus(fields["status"])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	a := &domain.Auction{ID: auctionID, BasePrice: basePrice, Status: status}
	if micros, err := strconv.ParseInt(fields["created_at"], 10, 64); err == nil {
		a.CreatedAt = time.UnixMicro(micros).UTC()
	}
	return a, nil
}

func (s *BidStore) AppendIfHighest(ctx context.Context, auctionID, bidderID uuid.UUID, amount decimal.Decimal, expectedPriorHighest *decimal.Decimal) (*domain.Bid, error) {
	const op = "redis.BidStore.AppendIfHighest"

	bidID := uuid.New()
	record, err := encodeRecord(bidRecord{ID: bidID.String(), BidderID: bidderID.String(), Amount: domain.FormatAmount(amount)})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	expected := ""
	if expectedPriorHighest != nil {
		expected = domain.FormatAmount(*expectedPriorHighest)
	}

	res, err := appendIfHighestScript.Run(ctx, s.client,
		[]string{s.auctionKey(auctionID), s.bidsKey(auctionID)},
		domain.FormatAmount(amount), expected, strconv.FormatInt(s.options.now().UnixMicro(), 10), record,
	).Slice()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(res) == 0 {
		return nil, fmt.Errorf("%s: empty script reply", op)
	}

	status, ok := res[0].(int64)
	if !ok {
		return nil, fmt.Errorf("%s: invalid script return value: %v", op, res[0])
	}
	switch status {
	case 1:
	case 0:
		return nil, fmt.Errorf("append bid to auction %s: %w", auctionID, domain.ErrConflict)
	case -1:
		return nil, fmt.Errorf("append bid: auction %s: %w", auctionID, domain.ErrAuctionNotFound)
	case -2:
		return nil, fmt.Errorf("append bid to auction %s: %w", auctionID, domain.ErrAuctionClosed)
	case -3:
		return nil, fmt.Errorf("append bid to auction %s: %w", auctionID, domain.ErrBelowBasePrice)
	case -4:
		return nil, fmt.Errorf("append bid to auction %s: %w", auctionID, domain.ErrOutbid)
	default:
		return nil, fmt.Errorf("%s: invalid script return value: %v", op, res[0])
	}

	if len(res) != 3 {
		return nil, fmt.Errorf("%s: malformed script reply %v", op, res)
	}
	seq, _ := res[1].(int64)
	ts, _ := res[2].(string)
	createdAt, err := parseMicros(ts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return domain.NewBid(bidID, auctionID, bidderID, amount, seq, createdAt), nil
}

func (s *BidStore) ListBids(ctx context.Context, auctionID uuid.UUID) ([]*domain.Bid, error) {
	const op = "redis.BidStore.ListBids"
	entries, err := s.client.LRange(ctx, s.bidsKey(auctionID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	bids := make([]*domain.Bid, 0, len(entries))
	for i, entry := range entries {
		bid, err := decodeEntry(auctionID, int64(i+1), entry)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		bids = append(bids, bid)
	}
	return bids, nil
}

func (s *BidStore) GetHighest(ctx context.Context, auctionID uuid.UUID) (*domain.Bid, error) {
	const op = "redis.BidStore.GetHighest"
	key := s.bidsKey(auctionID)

	var (
		last *redis.StringCmd
		size *redis.IntCmd
	)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		last = pipe.LIndex(ctx, key, -1)
		size = pipe.LLen(ctx, key)
		return nil
	})
	if err != nil {
		//no bids for this auction yet
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	bid, err := decodeEntry(auctionID, size.Val(), last.Val())
	if err != nil {
		log.Error("redis bid store: corrupt bid entry", zap.Stringer("auctionID", auctionID), zap.Error(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return bid, nil
}

func encodeRecord(r bidRecord) (string, error) {
	b, err := msgpack.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("marshal bid record: %w", err)
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

func decodeEntry(auctionID uuid.UUID, seq int64, entry string) (*domain.Bid, error) {
	ts, payload, ok := strings.Cut(entry, "|")
	if !ok {
		return nil, fmt.Errorf("bid entry %d: missing timestamp", seq)
	}
	createdAt, err := parseMicros(ts)
	if err != nil {
		return nil, fmt.Errorf("bid entry %d: %w", seq, err)
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("bid entry %d: %w", seq, err)
	}
	var r bidRecord
	if err := msgpack.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("bid entry %d: %w", seq, err)
	}

	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, fmt.Errorf("bid entry %d: %w", seq, err)
	}
	bidderID, err := uuid.Parse(r.BidderID)
	if err != nil {
		return nil, fmt.Errorf("bid entry %d: %w", seq, err)
	}
	amount, err := domain.ParseAmount(r.Amount)
	if err != nil {
		return nil, fmt.Errorf("bid entry %d: %w", seq, err)
	}
	return domain.NewBid(id, auctionID, bidderID, amount, seq, createdAt), nil
}

func parseMicros(s string) (time.Time, error) {
	micros, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return time.UnixMicro(micros).UTC(), nil
}
