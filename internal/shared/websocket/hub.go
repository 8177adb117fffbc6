package websocket

import (
	"context"
	"sync"
	"time"

	"github.com/cristianortiz/bidcoordinator/internal/shared/logger"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// Constants for WebSocket configuration (adjust as needed)
const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	// queued hub operations before Register/Unregister/Broadcast start dropping
	hubQueueSize = 256
)

// Hub keeps client's registry and handle messages broadcasting
type Hub struct {
	mu sync.RWMutex
	// Registered clients grouped by auction ID, the boolean value is ignored.
	clients map[string]map[*Client]bool
	// Same clients indexed by bidder ID, for messages addressed to one bidder.
	bidders map[string]map[*Client]bool

	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client
	// InboundMessages is listened to by module-specific handlers (e.g, auction handler)
	InboundMessages chan *ClientMessage
}

// Client represents a ws individual connection
type Client struct {
	Hub *Hub
	// The websocket connection.
	Conn *websocket.Conn
	// Buffered channel of outbound messages.
	Send chan []byte
	// The auction this client is connected to.
	AuctionID string
	// The bidder behind the connection.
	BidderID string
	// Unique identifier for the client
	ID         string
	RemoteAddr string
}

// Message is routed to one auction group, or only to BidderID's connections when set,
// or only to Client when set
type Message struct {
	AuctionID string
	BidderID  string
	Client    *Client
	Data      []byte
}

// ClientMessage is used for wraping the client and data message received.
// is used to send inbound messages from the client to the hub handlers
type ClientMessage struct {
	Client *Client
	Data   []byte
}

func NewHub() *Hub {
	return &Hub{
		broadcast:       make(chan *Message, hubQueueSize),
		register:        make(chan *Client, hubQueueSize),
		unregister:      make(chan *Client, hubQueueSize),
		clients:         make(map[string]map[*Client]bool),
		bidders:         make(map[string]map[*Client]bool),
		InboundMessages: make(chan *ClientMessage, hubQueueSize),
	}
}

// NewClient builds a client for conn, conn may be nil in tests
func NewClient(hub *Hub, conn *websocket.Conn, id, auctionID, bidderID, remoteAddr string) *Client {
	return &Client{
		Hub:        hub,
		Conn:       conn,
		Send:       make(chan []byte, 256),
		AuctionID:  auctionID,
		BidderID:   bidderID,
		ID:         id,
		RemoteAddr: remoteAddr,
	}
}

// Run starts the hub listening in their channels
func (h *Hub) Run(ctx context.Context) {
	log.Info("Websocket Hub started")
	for {
		select {
		case <-ctx.Done():
			log.Info("WebSocket Hub shutting down due to context cancellation")
			h.closeAll()
			return
		case client := <-h.register:
			h.add(client)
		case client := <-h.unregister:
			h.remove(client)
		case message := <-h.broadcast:
			h.deliver(message)
		}
	}
}

func (h *Hub) add(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client.AuctionID]; !ok {
		h.clients[client.AuctionID] = make(map[*Client]bool)
	}
	h.clients[client.AuctionID][client] = true
	if _, ok := h.bidders[client.BidderID]; !ok {
		h.bidders[client.BidderID] = make(map[*Client]bool)
	}
	h.bidders[client.BidderID][client] = true

	log.Info("Client registered",
		zap.String("clientID", client.ID),
		zap.String("auctionID", client.AuctionID),
		zap.String("bidderID", client.BidderID),
		zap.String("remote_addr", client.RemoteAddr),
		zap.Int("auction_clients", len(h.clients[client.AuctionID])),
	)
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.detach(client) {
		log.Info("Client unregistered",
			zap.String("clientID", client.ID),
			zap.String("auctionID", client.AuctionID),
			zap.String("remote_addr", client.RemoteAddr),
		)
	}
}

// detach drops client from both indexes and closes its Send channel once, h.mu must be held
func (h *Hub) detach(client *Client) bool {
	group, ok := h.clients[client.AuctionID]
	if !ok || !group[client] {
		return false
	}
	delete(group, client)
	if len(group) == 0 {
		delete(h.clients, client.AuctionID)
		log.Debug("Auction group removed as empty", zap.String("auctionID", client.AuctionID))
	}
	if own, ok := h.bidders[client.BidderID]; ok {
		delete(own, client)
		if len(own) == 0 {
			delete(h.bidders, client.BidderID)
		}
	}
	close(client.Send)
	return true
}

func (h *Hub) deliver(message *Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	targets := h.clients[message.AuctionID]
	switch {
	case message.Client != nil:
		// a client that already left gets nothing, its Send is closed
		targets = nil
		if h.clients[message.Client.AuctionID][message.Client] {
			targets = map[*Client]bool{message.Client: true}
		}
	case message.BidderID != "":
		targets = h.bidders[message.BidderID]
	}
	log.Debug("Delivering message",
		zap.String("auctionID", message.AuctionID),
		zap.String("bidderID", message.BidderID),
		zap.Int("clients", len(targets)))

	for client := range targets {
		select {
		case client.Send <- message.Data:
		default:
			//client is not draining its queue, probably disconnected
			h.detach(client)
			log.Warn("Failed to Send message to client, unregistering",
				zap.String("clientID", client.ID),
				zap.String("auctionID", client.AuctionID),
				zap.String("remote_addr", client.RemoteAddr),
			)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, group := range h.clients {
		for client := range group {
			h.detach(client)
		}
	}
}

// ClientCount returns the number of registered connections on an auction
func (h *Hub) ClientCount(auctionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[auctionID])
}

// RegisterClient register a new client in the hub
func (h *Hub) RegisterClient(client *Client) {
	select {
	case h.register <- client:
		log.Debug("Client queued for registration",
			zap.String("clientID", client.ID),
			zap.String("auctionID", client.AuctionID),
		)
	default:
		log.Error("Register channel is full, client registration failed",
			zap.String("clientID", client.ID),
			zap.String("auctionID", client.AuctionID),
		)
		if client.Conn != nil {
			_ = client.Conn.Close()
		}
	}
}

// UnregisterClient delete a client from the hub
func (h *Hub) UnregisterClient(client *Client) {
	select {
	case h.unregister <- client:
		log.Debug("Client queued for unregistration",
			zap.String("clientID", client.ID),
			zap.String("auctionID", client.AuctionID),
		)
	default:
		log.Error("Unregister channel is full, client unregistration failed",
			zap.String("clientID", client.ID),
			zap.String("auctionID", client.AuctionID),
		)
	}
}

// BroadcastToAuction sends data to every client connected to auctionID
func (h *Hub) BroadcastToAuction(auctionID string, data []byte) bool {
	return h.enqueue(&Message{AuctionID: auctionID, Data: data})
}

// SendToBidder sends data to every connection of bidderID, whatever auction they watch
func (h *Hub) SendToBidder(auctionID, bidderID string, data []byte) bool {
	return h.enqueue(&Message{AuctionID: auctionID, BidderID: bidderID, Data: data})
}

// SendToClient sends data to one connection, dropped if it is no longer registered
func (h *Hub) SendToClient(client *Client, data []byte) bool {
	return h.enqueue(&Message{AuctionID: client.AuctionID, Client: client, Data: data})
}

func (h *Hub) enqueue(m *Message) bool {
	select {
	case h.broadcast <- m:
		log.Debug("Message queued for delivery", zap.String("auctionID", m.AuctionID))
		return true
	default:
		log.Error("Broadcast channel is full, message dropped",
			zap.String("auctionID", m.AuctionID),
			zap.String("bidderID", m.BidderID))
		return false
	}
}
