package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cristianortiz/bidcoordinator/internal/auction/domain"
	"github.com/cristianortiz/bidcoordinator/internal/shared/websocket"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MessageTypeServerOutbid is pushed to a bidder whose bid was exceeded
const MessageTypeServerOutbid = "server_outbid"

// OutbidMessage is the server_outbid frame
type OutbidMessage struct {
	Type    string `json:"type"`
	Payload struct {
		AuctionID  uuid.UUID `json:"auction_id"`
		BidderID   uuid.UUID `json:"bidder_id"`
		NewHighest string    `json:"new_highest"`
	} `json:"payload"`
}

// BidderSender is the part of the hub used to reach one bidder
type BidderSender interface {
	SendToBidder(auctionID, bidderID string, data []byte) bool
}

var _ BidderSender = (*websocket.Hub)(nil)

// HubNotifier delivers outbid notices to the bidder's open websocket connections
type HubNotifier struct {
	hub BidderSender
}

func NewHubNotifier(hub BidderSender) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) NotifyOutbid(_ context.Context, auctionID, bidderID uuid.UUID, newHighest decimal.Decimal) error {
	msg := OutbidMessage{Type: MessageTypeServerOutbid}
	msg.Payload.AuctionID = auctionID
	msg.Payload.BidderID = bidderID
	msg.Payload.NewHighest = domain.FormatAmount(newHighest)

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal outbid message: %w", err)
	}
	if !n.hub.SendToBidder(auctionID.String(), bidderID.String(), data) {
		return errors.New("hub queue full, outbid message dropped")
	}
	return nil
}
