package websocket

import (
	"github.com/cristianortiz/bidcoordinator/internal/auction/application"
	"github.com/shopspring/decimal"
)

// MessageType defines ws type message
type MessageType string

const (
	MessageTypeClientBid           MessageType = "client_bid"            // client msg to make a bid
	MessageTypeServerAuctionUpdate MessageType = "server_auction_update" // server msg with the auction state after an accepted bid
	MessageTypeServerBidAccepted   MessageType = "server_bid_accepted"   // server msg confirming the bid to its sender
	MessageTypeServerError         MessageType = "server_error"          // server msg indicating error
	MessageTypeServerInitialState  MessageType = "server_initial_state"  // server msg with auction state on connect
)

// BaseMessage is base struct for all the WS messages, includes a Type field for identify the message type
type BaseMessage struct {
	Type MessageType `json:"type"`
}

// ClientBidMessage is sent by a bidder, auction and bidder come from the connection itself
type ClientBidMessage struct {
	BaseMessage
	Payload struct {
		Amount decimal.Decimal `json:"amount"`
	} `json:"payload"`
}

// ServerAuctionStateMessage carries the auction state, used for both server_initial_state and server_auction_update
type ServerAuctionStateMessage struct {
	BaseMessage
	Payload *application.AuctionStateDTO `json:"payload"`
}

type ServerBidAcceptedMessage struct {
	BaseMessage
	Payload struct {
		BidID  string `json:"bid_id"`
		Amount string `json:"amount"`
		Seq    int64  `json:"seq"`
	} `json:"payload"`
}

type ServerErrorMessage struct {
	BaseMessage
	Payload struct {
		ErrorCode string `json:"error_code"`
		Message   string `json:"message"`
	} `json:"payload"`
}
