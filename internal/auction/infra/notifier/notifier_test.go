package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/cristianortiz/bidcoordinator/internal/auction/domain/mocks"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

type fakeSender struct {
	full     bool
	auction  string
	bidder   string
	messages [][]byte
}

func (f *fakeSender) SendToBidder(auctionID, bidderID string, data []byte) bool {
	if f.full {
		return false
	}
	f.auction, f.bidder = auctionID, bidderID
	f.messages = append(f.messages, data)
	return true
}

func TestHubNotifier_NotifyOutbid(t *testing.T) {
	sender := &fakeSender{}
	n := NewHubNotifier(sender)
	auctionID, bidderID := uuid.New(), uuid.New()

	require.NoError(t, n.NotifyOutbid(context.Background(), auctionID, bidderID, decimal.RequireFromString("150.5")))
	require.Len(t, sender.messages, 1)
	assert.Equal(t, auctionID.String(), sender.auction)
	assert.Equal(t, bidderID.String(), sender.bidder)

	var msg OutbidMessage
	require.NoError(t, json.Unmarshal(sender.messages[0], &msg))
	assert.Equal(t, MessageTypeServerOutbid, msg.Type)
	assert.Equal(t, "150.50", msg.Payload.NewHighest)
	assert.Equal(t, auctionID, msg.Payload.AuctionID)

	sender.full = true
	require.Error(t, n.NotifyOutbid(context.Background(), auctionID, bidderID, decimal.NewFromInt(1)))
}

func TestRedisPublisher_NotifyOutbid(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	ctx := context.Background()
	sub := client.Subscribe(ctx, "auction_outbid")
	defer sub.Close()
	_, err = sub.Receive(ctx)
	require.NoError(t, err)

	auctionID, bidderID := uuid.New(), uuid.New()
	p := NewRedisPublisher(client, "auction_outbid")
	require.NoError(t, p.NotifyOutbid(ctx, auctionID, bidderID, decimal.RequireFromString("200")))

	select {
	case msg := <-sub.Channel():
		var event OutbidEvent
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &event))
		assert.Equal(t, auctionID, event.AuctionID)
		assert.Equal(t, bidderID, event.BidderID)
		assert.Equal(t, "200.00", event.NewHighest)
		assert.False(t, event.SentAt.IsZero())
	case <-time.After(2 * time.Second):
		t.Fatal("no outbid event published")
	}
}

func TestRedisPublisher_ServerDown(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	err = NewRedisPublisher(client, "auction_outbid").NotifyOutbid(ctx, uuid.New(), uuid.New(), decimal.NewFromInt(1))
	require.Error(t, err)
}

func TestMultiNotifier_CallsEveryNotifier(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	first := mocks.NewMockOutbidNotifier(ctrl)
	second := mocks.NewMockOutbidNotifier(ctrl)
	third := mocks.NewMockOutbidNotifier(ctrl)
	errA, errB := errors.New("ws down"), errors.New("redis down")

	first.EXPECT().NotifyOutbid(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errA)
	second.EXPECT().NotifyOutbid(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	third.EXPECT().NotifyOutbid(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errB)

	err := NewMultiNotifier(first, second, third).
		NotifyOutbid(context.Background(), uuid.New(), uuid.New(), decimal.NewFromInt(5))
	require.Error(t, err)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	assert.Len(t, multierr.Errors(err), 2)
}
