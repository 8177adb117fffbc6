package http

import (
	"github.com/cristianortiz/bidcoordinator/internal/auction/application"
	"github.com/cristianortiz/bidcoordinator/internal/auction/domain"
	"github.com/cristianortiz/bidcoordinator/internal/shared/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// AuctionHandler exposes the bid coordinator over HTTP
type AuctionHandler struct {
	service application.AuctionService
}

func NewAuctionHandler(service application.AuctionService) *AuctionHandler {
	return &AuctionHandler{service: service}
}

// RegisterRoutes mounts the auction endpoints under router
func (h *AuctionHandler) RegisterRoutes(router fiber.Router) {
	auctions := router.Group("/auctions/:auctionID")
	auctions.Post("/bids", h.PlaceBid)
	auctions.Get("/bids", h.ListBids)
	auctions.Get("/bids/view", h.RenderBids)
	auctions.Get("/highest", h.GetHighest)
	auctions.Get("/state", h.GetState)
}

// PlaceBid handles POST /auctions/:auctionID/bids
func (h *AuctionHandler) PlaceBid(c *fiber.Ctx) error {
	auctionID, err := uuid.Parse(c.Params("auctionID"))
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, ErrorResponse{ErrorCode: "BadRequest", Message: "invalid auction id"})
	}

	var req PlaceBidRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, ErrorResponse{ErrorCode: domain.CodeInvalidAmount, Message: "invalid request body"})
	}
	if req.BidderID == uuid.Nil {
		return writeError(c, fiber.StatusBadRequest, ErrorResponse{ErrorCode: "BadRequest", Message: "bidder_id is required"})
	}

	bid, err := h.service.PlaceBid(c.UserContext(), application.PlaceBidDTO{
		AuctionID: auctionID,
		BidderID:  req.BidderID,
		Amount:    req.Amount,
	})
	if err != nil {
		status, resp := MapErrorToHTTP(err)
		if status >= fiber.StatusInternalServerError {
			log.Error("PlaceBid handler: failed to place bid",
				zap.Stringer("auctionID", auctionID), zap.Stringer("bidderID", req.BidderID), zap.Error(err))
		}
		return writeError(c, status, resp)
	}
	return c.Status(fiber.StatusCreated).JSON(toBidResponse(bid))
}

// ListBids handles GET /auctions/:auctionID/bids, oldest first
func (h *AuctionHandler) ListBids(c *fiber.Ctx) error {
	auctionID, err := uuid.Parse(c.Params("auctionID"))
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, ErrorResponse{ErrorCode: "BadRequest", Message: "invalid auction id"})
	}
	bids, err := h.service.ListBids(c.UserContext(), auctionID)
	if err != nil {
		status, resp := MapErrorToHTTP(err)
		return writeError(c, status, resp)
	}
	return c.JSON(lo.Map(bids, func(b *domain.Bid, _ int) BidResponse {
		return toBidResponse(b)
	}))
}

// RenderBids handles GET /auctions/:auctionID/bids/view?viewer_id=, most recent first
func (h *AuctionHandler) RenderBids(c *fiber.Ctx) error {
	auctionID, err := uuid.Parse(c.Params("auctionID"))
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, ErrorResponse{ErrorCode: "BadRequest", Message: "invalid auction id"})
	}
	viewerID := uuid.Nil
	if raw := c.Query("viewer_id"); raw != "" {
		if viewerID, err = uuid.Parse(raw); err != nil {
			return writeError(c, fiber.StatusBadRequest, ErrorResponse{ErrorCode: "BadRequest", Message: "invalid viewer id"})
		}
	}

	view, err := h.service.RenderBids(c.UserContext(), auctionID, viewerID)
	if err != nil {
		status, resp := MapErrorToHTTP(err)
		return writeError(c, status, resp)
	}
	return c.JSON(lo.Map(view, func(a domain.AnnotatedBid, _ int) AnnotatedBidResponse {
		return AnnotatedBidResponse{BidResponse: toBidResponse(a.Bid), IsOutbid: a.IsOutbid, IsMine: a.IsMine}
	}))
}

// GetHighest handles GET /auctions/:auctionID/highest
func (h *AuctionHandler) GetHighest(c *fiber.Ctx) error {
	auctionID, err := uuid.Parse(c.Params("auctionID"))
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, ErrorResponse{ErrorCode: "BadRequest", Message: "invalid auction id"})
	}
	highest, err := h.service.GetHighest(c.UserContext(), auctionID)
	if err != nil {
		status, resp := MapErrorToHTTP(err)
		return writeError(c, status, resp)
	}
	return c.JSON(toHighestResponse(highest))
}

// GetState handles GET /auctions/:auctionID/state
func (h *AuctionHandler) GetState(c *fiber.Ctx) error {
	auctionID, err := uuid.Parse(c.Params("auctionID"))
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, ErrorResponse{ErrorCode: "BadRequest", Message: "invalid auction id"})
	}
	state, err := h.service.GetAuctionState(c.UserContext(), auctionID)
	if err != nil {
		status, resp := MapErrorToHTTP(err)
		return writeError(c, status, resp)
	}
	return c.JSON(state)
}

func writeError(c *fiber.Ctx, status int, resp ErrorResponse) error {
	return c.Status(status).JSON(resp)
}
