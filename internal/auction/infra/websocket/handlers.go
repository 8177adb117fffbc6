package websocket

import (
	"context"
	"encoding/json"

	"github.com/cristianortiz/bidcoordinator/internal/auction/application"
	"github.com/cristianortiz/bidcoordinator/internal/auction/domain"
	"github.com/cristianortiz/bidcoordinator/internal/shared/logger"
	"github.com/cristianortiz/bidcoordinator/internal/shared/websocket"
	"github.com/gofiber/fiber/v2"
	fiberws "github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

const codeBadMessage = "BadMessage"

// AuctionWSHandler handles the ws inbound msgs wich are specific for auction module (remember is a bounded context)
type AuctionWSHandler struct {
	auctionService application.AuctionService // application layer dependency
	hub            *websocket.Hub             // shared hub dependency to send msgs
}

// NewAuctionWSHandler creates a new instance of AuctionWSHandler
func NewAuctionWSHandler(auctionService application.AuctionService, hub *websocket.Hub) *AuctionWSHandler {
	return &AuctionWSHandler{
		auctionService: auctionService,
		hub:            hub,
	}
}

// RegisterRoutes mounts GET /ws/auctions/:auctionID?bidder_id= on router.
// ctx bounds the lifetime of the pumps.
func (h *AuctionWSHandler) RegisterRoutes(ctx context.Context, router fiber.Router) {
	router.Use("/ws", func(c *fiber.Ctx) error {
		if fiberws.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	router.Get("/ws/auctions/:auctionID", h.checkParams, fiberws.New(func(conn *fiberws.Conn) {
		h.serve(ctx, conn)
	}))
}

// checkParams rejects the upgrade when the auction or bidder ids are not uuids
func (h *AuctionWSHandler) checkParams(c *fiber.Ctx) error {
	if _, err := uuid.Parse(c.Params("auctionID")); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid auction id")
	}
	if _, err := uuid.Parse(c.Query("bidder_id")); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid bidder id")
	}
	return c.Next()
}

func (h *AuctionWSHandler) serve(ctx context.Context, conn *fiberws.Conn) {
	client := websocket.NewClient(h.hub, conn,
		uuid.NewString(),
		conn.Params("auctionID"),
		conn.Query("bidder_id"),
		conn.RemoteAddr().String(),
	)
	// queued before registration, the hub does not own Send yet
	if data, ok := h.initialState(ctx, client); ok {
		client.Send <- data
	}
	h.hub.RegisterClient(client)

	go client.WritePump(ctx)
	// blocks until the connection goes away, fiber closes conn when the handler returns
	client.ReadPump(ctx)
}

// ListenForMessages starts a go routine that listen the Hub inbound channel for messages and proccess every one of them
func (h *AuctionWSHandler) ListenForMessages(ctx context.Context) {
	log.Info("AuctionWSHandler started listening for inbound messages from hub")
	for {
		select {
		case <-ctx.Done():
			log.Info("AuctionWSHandler stopped listening for inbound messages from hub")
			return
		case msg := <-h.hub.InboundMessages:
			go h.processMessage(ctx, msg.Client, msg.Data)
		}
	}
}

// processMesssage dispatch the message by this type
func (h *AuctionWSHandler) processMessage(ctx context.Context, client *websocket.Client, data []byte) {
	var baseMsg BaseMessage
	if err := json.Unmarshal(data, &baseMsg); err != nil {
		h.sendErrorToClient(client, codeBadMessage, "invalid message format")
		return
	}
	switch baseMsg.Type {
	case MessageTypeClientBid:
		h.handleClientBidMessage(ctx, client, data)
	default:
		h.sendErrorToClient(client, codeBadMessage, "unknown message type")
	}
}

func (h *AuctionWSHandler) handleClientBidMessage(ctx context.Context, client *websocket.Client, data []byte) {
	var bidMsg ClientBidMessage
	if err := json.Unmarshal(data, &bidMsg); err != nil {
		h.sendErrorToClient(client, domain.CodeInvalidAmount, "invalid bid message format")
		return
	}
	auctionID, err := uuid.Parse(client.AuctionID)
	if err != nil {
		h.sendErrorToClient(client, codeBadMessage, "invalid auction id")
		return
	}
	bidderID, err := uuid.Parse(client.BidderID)
	if err != nil {
		h.sendErrorToClient(client, codeBadMessage, "invalid bidder id")
		return
	}

	bid, err := h.auctionService.PlaceBid(ctx, application.PlaceBidDTO{
		AuctionID: auctionID,
		BidderID:  bidderID,
		Amount:    bidMsg.Payload.Amount,
	})
	if err != nil {
		code := domain.ErrorCode(err)
		if code == domain.CodeInternal || code == domain.CodeUnknownOutcome {
			log.Error("AuctionWSHandler: place bid failed", zap.String("clientID", client.ID), zap.Error(err))
		}
		h.sendErrorToClient(client, code, domain.ErrorMessage(err))
		return
	}

	accepted := ServerBidAcceptedMessage{BaseMessage: BaseMessage{Type: MessageTypeServerBidAccepted}}
	accepted.Payload.BidID = bid.ID.String()
	accepted.Payload.Amount = domain.FormatAmount(bid.Amount)
	accepted.Payload.Seq = bid.Seq
	h.sendToClient(client, accepted)

	state, err := h.auctionService.GetAuctionState(ctx, auctionID)
	if err != nil {
		log.Warn("AuctionWSHandler: failed to read auction state after bid", zap.String("auctionID", client.AuctionID), zap.Error(err))
		return
	}
	update, err := json.Marshal(ServerAuctionStateMessage{
		BaseMessage: BaseMessage{Type: MessageTypeServerAuctionUpdate},
		Payload:     state,
	})
	if err != nil {
		log.Error("failed to marshal auction update", zap.Error(err))
		return
	}
	h.hub.BroadcastToAuction(client.AuctionID, update)
}

// initialState renders the server_initial_state frame, or a server_error when the state cannot be read
func (h *AuctionWSHandler) initialState(ctx context.Context, client *websocket.Client) ([]byte, bool) {
	var msg any
	auctionID, err := uuid.Parse(client.AuctionID)
	if err != nil {
		return nil, false
	}
	state, err := h.auctionService.GetAuctionState(ctx, auctionID)
	if err != nil {
		errMsg := ServerErrorMessage{BaseMessage: BaseMessage{Type: MessageTypeServerError}}
		errMsg.Payload.ErrorCode = domain.ErrorCode(err)
		errMsg.Payload.Message = domain.ErrorMessage(err)
		msg = errMsg
	} else {
		msg = ServerAuctionStateMessage{BaseMessage: BaseMessage{Type: MessageTypeServerInitialState}, Payload: state}
	}
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error("failed to marshal initial state", zap.Error(err))
		return nil, false
	}
	return data, true
}

// sendErrorToClient serializes and sends an error msg to a specific client
func (h *AuctionWSHandler) sendErrorToClient(client *websocket.Client, code, message string) {
	errMsg := ServerErrorMessage{BaseMessage: BaseMessage{Type: MessageTypeServerError}}
	errMsg.Payload.ErrorCode = code
	errMsg.Payload.Message = message
	h.sendToClient(client, errMsg)
}

// sendToClient goes through the hub, the only writer of client.Send once registered
func (h *AuctionWSHandler) sendToClient(client *websocket.Client, msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error("failed to marshal ws message", zap.Error(err))
		return
	}
	if !h.hub.SendToClient(client, data) {
		log.Warn("hub queue full, could not send msg", zap.String("clientID", client.ID))
	}
}
