package websocket

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func startHub(t *testing.T) (*Hub, func()) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub()
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()
	return hub, func() {
		cancel()
		<-done
	}
}

func register(t *testing.T, hub *Hub, id, auctionID, bidderID string) *Client {
	t.Helper()
	c := NewClient(hub, nil, id, auctionID, bidderID, "127.0.0.1")
	before := hub.ClientCount(auctionID)
	hub.RegisterClient(c)
	require.Eventually(t, func() bool { return hub.ClientCount(auctionID) == before+1 }, time.Second, 5*time.Millisecond)
	return c
}

func receive(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case msg, ok := <-c.Send:
		require.True(t, ok, "send channel closed")
		return msg
	case <-time.After(time.Second):
		t.Fatalf("client %s received nothing", c.ID)
		return nil
	}
}

func TestHub_BroadcastToAuction(t *testing.T) {
	defer goleak.VerifyNone(t)
	hub, stop := startHub(t)
	defer stop()

	a1 := register(t, hub, "c1", "auction-a", "bidder-1")
	a2 := register(t, hub, "c2", "auction-a", "bidder-2")
	b1 := register(t, hub, "c3", "auction-b", "bidder-3")

	require.True(t, hub.BroadcastToAuction("auction-a", []byte("update")))
	assert.Equal(t, "update", string(receive(t, a1)))
	assert.Equal(t, "update", string(receive(t, a2)))

	require.True(t, hub.BroadcastToAuction("auction-b", []byte("other")))
	assert.Equal(t, "other", string(receive(t, b1)))
	assert.Empty(t, a1.Send)
}

func TestHub_SendToBidder(t *testing.T) {
	defer goleak.VerifyNone(t)
	hub, stop := startHub(t)
	defer stop()

	mine := register(t, hub, "c1", "auction-a", "bidder-1")
	otherTab := register(t, hub, "c2", "auction-b", "bidder-1")
	someoneElse := register(t, hub, "c3", "auction-a", "bidder-2")

	require.True(t, hub.SendToBidder("auction-a", "bidder-1", []byte("outbid")))
	assert.Equal(t, "outbid", string(receive(t, mine)))
	assert.Equal(t, "outbid", string(receive(t, otherTab)))

	// deliveries are processed in order, a follow-up broadcast proves nothing else was queued for c3
	require.True(t, hub.BroadcastToAuction("auction-a", []byte("update")))
	assert.Equal(t, "update", string(receive(t, someoneElse)))
}

func TestHub_SendToClient(t *testing.T) {
	defer goleak.VerifyNone(t)
	hub, stop := startHub(t)
	defer stop()

	target := register(t, hub, "c1", "auction-a", "bidder-1")
	sameBidder := register(t, hub, "c2", "auction-a", "bidder-1")

	require.True(t, hub.SendToClient(target, []byte("reply")))
	assert.Equal(t, "reply", string(receive(t, target)))

	require.True(t, hub.BroadcastToAuction("auction-a", []byte("update")))
	assert.Equal(t, "update", string(receive(t, sameBidder)))
	assert.Equal(t, "update", string(receive(t, target)))
}

func TestHub_SendToClientAfterUnregister(t *testing.T) {
	defer goleak.VerifyNone(t)
	hub, stop := startHub(t)
	defer stop()

	c := register(t, hub, "c1", "auction-a", "bidder-1")
	other := register(t, hub, "c2", "auction-a", "bidder-2")
	hub.UnregisterClient(c)
	require.Eventually(t, func() bool { return hub.ClientCount("auction-a") == 1 }, time.Second, 5*time.Millisecond)

	// Send is closed, the hub must not write to it
	assert.True(t, hub.SendToClient(c, []byte("late reply")))
	require.True(t, hub.BroadcastToAuction("auction-a", []byte("update")))
	assert.Equal(t, "update", string(receive(t, other)))

	_, ok := <-c.Send
	assert.False(t, ok)
}

func TestHub_Unregister(t *testing.T) {
	defer goleak.VerifyNone(t)
	hub, stop := startHub(t)
	defer stop()

	c := register(t, hub, "c1", "auction-a", "bidder-1")
	hub.UnregisterClient(c)
	require.Eventually(t, func() bool { return hub.ClientCount("auction-a") == 0 }, time.Second, 5*time.Millisecond)

	_, ok := <-c.Send
	assert.False(t, ok)

	// a second unregister is a no-op
	hub.UnregisterClient(c)
	assert.True(t, hub.SendToBidder("auction-a", "bidder-1", []byte("x")))
}

func TestHub_SlowClientIsDropped(t *testing.T) {
	defer goleak.VerifyNone(t)
	hub, stop := startHub(t)
	defer stop()

	c := register(t, hub, "c1", "auction-a", "bidder-1")
	// nobody drains c.Send
	require.Eventually(t, func() bool {
		for i := 0; i < cap(c.Send); i++ {
			hub.BroadcastToAuction("auction-a", []byte("tick"))
		}
		return hub.ClientCount("auction-a") == 0
	}, 2*time.Second, 10*time.Millisecond)
}
