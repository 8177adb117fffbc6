package notifier

import (
	"context"
	"sync"
	"time"

	"github.com/cristianortiz/bidcoordinator/internal/auction/domain"
	"github.com/cristianortiz/bidcoordinator/internal/shared/logger"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

type dispatcherOptions struct {
	queueSize int
	workers   int
	timeout   time.Duration
}

type DispatcherOption func(*dispatcherOptions)

// WithQueueSize bounds the number of pending outbid events
func WithQueueSize(size int) DispatcherOption {
	return func(o *dispatcherOptions) {
		o.queueSize = size
	}
}

func WithWorkers(n int) DispatcherOption {
	return func(o *dispatcherOptions) {
		o.workers = n
	}
}

// WithNotifyTimeout bounds every NotifyOutbid call
func WithNotifyTimeout(d time.Duration) DispatcherOption {
	return func(o *dispatcherOptions) {
		o.timeout = d
	}
}

// Dispatcher implements domain.OutbidPublisher: events are queued without blocking the bidder
// and fanned out to the prior bidders of the auction by a pool of workers.
type Dispatcher struct {
	store    domain.BidStore
	notifier domain.OutbidNotifier
	events   chan domain.OutbidEvent
	options  dispatcherOptions

	mu      sync.RWMutex
	started bool
	stopped bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewDispatcher(store domain.BidStore, notifier domain.OutbidNotifier, opts ...DispatcherOption) *Dispatcher {
	options := dispatcherOptions{queueSize: 1024, workers: 4, timeout: 3 * time.Second}
	for _, opt := range opts {
		opt(&options)
	}
	if options.queueSize < 1 {
		options.queueSize = 1
	}
	if options.workers < 1 {
		options.workers = 1
	}
	return &Dispatcher{
		store:    store,
		notifier: notifier,
		events:   make(chan domain.OutbidEvent, options.queueSize),
		options:  options,
	}
}

// Start launches the workers, they run until Stop or ctx is done.
// Cancelling ctx abandons the queued events, Stop delivers them first.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started {
		return
	}
	d.started = true

	ctx, d.cancel = context.WithCancel(ctx)
	for i := 0; i < d.options.workers; i++ {
		d.wg.Add(1)
		go d.work(ctx)
	}
	log.Info("Outbid dispatcher started",
		zap.Int("workers", d.options.workers),
		zap.Int("queueSize", d.options.queueSize))
}

// Stop drains the events already queued, then waits for the workers
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.stopped || !d.started {
		d.stopped = true
		d.mu.Unlock()
		return
	}
	d.stopped = true
	close(d.events)
	d.mu.Unlock()

	d.wg.Wait()
	d.cancel()
	log.Info("Outbid dispatcher stopped")
}

// PublishOutbid never blocks: a full queue drops the event.
func (d *Dispatcher) PublishOutbid(event domain.OutbidEvent) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		log.Warn("Outbid dispatcher stopped, event dropped", zap.Stringer("auctionID", event.AuctionID))
		return
	}
	select {
	case d.events <- event:
	default:
		log.Warn("Outbid queue is full, event dropped",
			zap.Stringer("auctionID", event.AuctionID),
			zap.Stringer("bidID", event.NewBid.ID))
	}
}

func (d *Dispatcher) work(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-d.events:
			if !ok {
				return
			}
			d.handle(ctx, event)
		}
	}
}

func (d *Dispatcher) handle(ctx context.Context, event domain.OutbidEvent) {
	bids, err := d.store.ListBids(ctx, event.AuctionID)
	if err != nil {
		log.Error("Outbid dispatcher: failed to load bid log",
			zap.Stringer("auctionID", event.AuctionID), zap.Error(err))
		return
	}

	recipients := domain.OutbidRecipients(bids, event.NewBid)
	for _, bidderID := range recipients {
		callCtx, cancel := context.WithTimeout(ctx, d.options.timeout)
		err := d.notifier.NotifyOutbid(callCtx, event.AuctionID, bidderID, event.NewBid.Amount)
		cancel()
		if err != nil {
			log.Error("Outbid notification failed",
				zap.Stringer("auctionID", event.AuctionID),
				zap.Stringer("bidderID", bidderID),
				zap.Error(err))
		}
	}
	log.Debug("Outbid notifications sent",
		zap.Stringer("auctionID", event.AuctionID),
		zap.Int("recipients", len(recipients)))
}
