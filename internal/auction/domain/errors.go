package domain

import "errors"

// validation errors, returned to the bidder verbatim
var (
	ErrInvalidAmount  = errors.New("bid amount must be a positive value with at most two decimal places")
	ErrBelowBasePrice = errors.New("bid amount is below the auction base price")
	ErrOutbid         = errors.New("bid amount does not exceed the current highest bid")
)

// state errors, not retryable
var (
	ErrAuctionClosed   = errors.New("auction is closed")
	ErrAuctionNotFound = errors.New("auction not found")
)

var (
	// ErrConflict is returned by BidStore.AppendIfHighest when another bid committed first.
	// It never leaves the coordinator.
	ErrConflict = errors.New("highest bid changed before append")
	// ErrUnknownOutcome wraps storage failures during the append, the bid may or may not be recorded.
	ErrUnknownOutcome = errors.New("bid outcome unknown, re-fetch the highest bid before retrying")
)

// Error codes exposed to clients
const (
	CodeInvalidAmount   = "InvalidAmount"
	CodeBelowBasePrice  = "BelowBasePrice"
	CodeOutbid          = "Outbid"
	CodeAuctionClosed   = "AuctionClosed"
	CodeAuctionNotFound = "AuctionNotFound"
	CodeUnknownOutcome  = "UnknownOutcome"
	CodeInternal        = "Internal"
)

// ErrorCode classifies err into one of the client error codes
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidAmount):
		return CodeInvalidAmount
	case errors.Is(err, ErrBelowBasePrice):
		return CodeBelowBasePrice
	case errors.Is(err, ErrOutbid), errors.Is(err, ErrConflict):
		return CodeOutbid
	case errors.Is(err, ErrAuctionClosed):
		return CodeAuctionClosed
	case errors.Is(err, ErrAuctionNotFound):
		return CodeAuctionNotFound
	case errors.Is(err, ErrUnknownOutcome):
		return CodeUnknownOutcome
	default:
		return CodeInternal
	}
}

// ErrorMessage is the client-facing text of err: the message of the sentinel it wraps,
// never the wrapped chain. Unclassified errors do not leak their text.
func ErrorMessage(err error) string {
	switch ErrorCode(err) {
	case CodeInvalidAmount:
		return ErrInvalidAmount.Error()
	case CodeBelowBasePrice:
		return ErrBelowBasePrice.Error()
	case CodeOutbid:
		return ErrOutbid.Error()
	case CodeAuctionClosed:
		return ErrAuctionClosed.Error()
	case CodeAuctionNotFound:
		return ErrAuctionNotFound.Error()
	case CodeUnknownOutcome:
		return ErrUnknownOutcome.Error()
	default:
		return "internal error"
	}
}
