package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cristianortiz/bidcoordinator/internal/auction/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// OutbidEvent is the JSON document published for external notification services
type OutbidEvent struct {
	AuctionID  uuid.UUID `json:"auction_id"`
	BidderID   uuid.UUID `json:"bidder_id"`
	NewHighest string    `json:"new_highest"`
	SentAt     time.Time `json:"sent_at"`
}

// RedisPublisher publishes one outbid event per notified bidder on a pub/sub channel
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

func (p *RedisPublisher) NotifyOutbid(ctx context.Context, auctionID, bidderID uuid.UUID, newHighest decimal.Decimal) error {
	const op = "notifier.RedisPublisher.NotifyOutbid"
	payload, err := json.Marshal(OutbidEvent{
		AuctionID:  auctionID,
		BidderID:   bidderID,
		NewHighest: domain.FormatAmount(newHighest),
		SentAt:     time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
