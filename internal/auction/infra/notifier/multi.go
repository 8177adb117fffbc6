package notifier

import (
	"context"

	"github.com/cristianortiz/bidcoordinator/internal/auction/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

// MultiNotifier calls every notifier, one failing does not stop the others
type MultiNotifier struct {
	notifiers []domain.OutbidNotifier
}

func NewMultiNotifier(notifiers ...domain.OutbidNotifier) *MultiNotifier {
	return &MultiNotifier{notifiers: notifiers}
}

func (m *MultiNotifier) NotifyOutbid(ctx context.Context, auctionID, bidderID uuid.UUID, newHighest decimal.Decimal) error {
	var err error
	for _, n := range m.notifiers {
		err = multierr.Append(err, n.NotifyOutbid(ctx, auctionID, bidderID, newHighest))
	}
	return err
}
