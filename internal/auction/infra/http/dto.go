package http

import (
	"time"

	"github.com/cristianortiz/bidcoordinator/internal/auction/application"
	"github.com/cristianortiz/bidcoordinator/internal/auction/domain"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PlaceBidRequest is the POST /bids body. Amount accepts a decimal string or a JSON number,
// both parsed from their text so no float rounding happens.
type PlaceBidRequest struct {
	BidderID uuid.UUID       `json:"bidder_id"`
	Amount   decimal.Decimal `json:"amount"`
}

type BidResponse struct {
	BidID     uuid.UUID `json:"bid_id"`
	BidderID  uuid.UUID `json:"bidder_id"`
	Amount    string    `json:"amount"`
	Seq       int64     `json:"seq"`
	CreatedAt string    `json:"created_at"`
}

type AnnotatedBidResponse struct {
	BidResponse
	IsOutbid bool `json:"is_outbid"`
	IsMine   bool `json:"is_mine"`
}

type HighestResponse struct {
	Amount  string `json:"amount"`
	HasBids bool   `json:"has_bids"`
}

type ErrorResponse struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
}

func toBidResponse(b *domain.Bid) BidResponse {
	return BidResponse{
		BidID:     b.ID,
		BidderID:  b.BidderID,
		Amount:    domain.FormatAmount(b.Amount),
		Seq:       b.Seq,
		CreatedAt: b.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toHighestResponse(h *application.HighestDTO) HighestResponse {
	return HighestResponse{Amount: domain.FormatAmount(h.Amount), HasBids: h.HasBids}
}

// errorStatus maps a client error code to its HTTP status
var errorStatus = map[string]int{
	domain.CodeInvalidAmount:   fiber.StatusBadRequest,
	domain.CodeBelowBasePrice:  fiber.StatusConflict,
	domain.CodeOutbid:          fiber.StatusConflict,
	domain.CodeAuctionClosed:   fiber.StatusConflict,
	domain.CodeAuctionNotFound: fiber.StatusNotFound,
	domain.CodeUnknownOutcome:  fiber.StatusServiceUnavailable,
	domain.CodeInternal:        fiber.StatusInternalServerError,
}

// MapErrorToHTTP returns the status and body for err. Internal errors do not leak their text.
func MapErrorToHTTP(err error) (int, ErrorResponse) {
	code := domain.ErrorCode(err)
	return errorStatus[code], ErrorResponse{ErrorCode: code, Message: domain.ErrorMessage(err)}
}
