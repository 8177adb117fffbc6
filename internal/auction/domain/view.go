package domain

import (
	"sort"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// AnnotatedBid is a bid as shown to one viewer
type AnnotatedBid struct {
	Bid      *Bid
	IsOutbid bool
	IsMine   bool
}

// HighestOf returns the last bid of an ascending log, nil if empty
func HighestOf(bids []*Bid) *Bid {
	if len(bids) == 0 {
		return nil
	}
	return bids[len(bids)-1]
}

// DeriveBidView sorts bids most recent first and flags them for viewerID.
// The input slice is not modified.
func DeriveBidView(bids []*Bid, viewerID uuid.UUID) []AnnotatedBid {
	if len(bids) == 0 {
		return []AnnotatedBid{}
	}
	highest := bids[0].Amount
	for _, b := range bids[1:] {
		if b.Amount.GreaterThan(highest) {
			highest = b.Amount
		}
	}

	sorted := make([]*Bid, len(bids))
	copy(sorted, bids)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
		}
		return sorted[i].Seq > sorted[j].Seq
	})

	return lo.Map(sorted, func(b *Bid, _ int) AnnotatedBid {
		return AnnotatedBid{
			Bid:      b,
			IsOutbid: b.Amount.LessThan(highest),
			IsMine:   b.BidderID == viewerID,
		}
	})
}

// OutbidRecipients lists the distinct bidders that placed a bid before newBid,
// in order of their first bid, excluding newBid's own bidder.
func OutbidRecipients(bids []*Bid, newBid *Bid) []uuid.UUID {
	prior := lo.Filter(bids, func(b *Bid, _ int) bool {
		return b.Seq < newBid.Seq && b.BidderID != newBid.BidderID
	})
	return lo.Uniq(lo.Map(prior, func(b *Bid, _ int) uuid.UUID {
		return b.BidderID
	}))
}

// DisplayAmount is the highest amount when bids exist, otherwise the base price
func DisplayAmount(basePrice decimal.Decimal, highest *Bid) decimal.Decimal {
	if highest == nil {
		return basePrice
	}
	return highest.Amount
}
