package app

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/ViniciusItoi/filae-mobile/internal/filae"
	"github.com/ViniciusItoi/filae-mobile/internal/state"
)

const defaultPollInterval = 10 * time.Second

// refreshFn performs one sequence-stamped fetch-and-apply round trip.
// Implementations obtain their sequence number from the store before the
// network call so that stale completions are discarded on apply.
type refreshFn func(ctx context.Context) error

// Poller drives a fixed-interval refresh of one store section: an
// immediate fetch on Start, then one per tick. Kick requests an immediate
// refresh (screen focus); a kick arriving while a fetch is in flight is
// satisfied by that fetch's result instead of issuing a duplicate call.
// Poll failures are logged, never surfaced: the next cycle retries
// implicitly.
type Poller struct {
	name     string
	refresh  refreshFn
	interval time.Duration

	mu       sync.Mutex
	running  bool
	inflight bool
	cancel   context.CancelFunc
	kick     chan struct{}
}

// NewPoller builds a poller for the given refresh function.
func NewPoller(name string, interval time.Duration, refresh refreshFn) *Poller {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &Poller{
		name:     name,
		refresh:  refresh,
		interval: interval,
		kick:     make(chan struct{}, 1),
	}
}

// Start launches the poll loop. Starting a running poller is a no-op.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}
	p.running = true
	ctx, p.cancel = context.WithCancel(ctx)
	p.mu.Unlock()

	go p.loop(ctx)
}

// Stop cancels the loop. A fetch already in flight completes on its own;
// its result is discarded by the store's sequence gate if a newer one has
// landed, and no further fetches are issued.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return
	}
	p.running = false
	if p.cancel != nil {
		p.cancel()
	}
}

// Kick requests an immediate refresh. Returns without blocking; the
// request coalesces with an in-flight fetch or a pending kick.
func (p *Poller) Kick() {
	p.mu.Lock()
	if !p.running || p.inflight {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	select {
	case p.kick <- struct{}{}:
	default:
	}
}

func (p *Poller) loop(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		p.runOnce(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-p.kick:
		}
	}
}

func (p *Poller) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	p.mu.Lock()
	p.inflight = true
	p.mu.Unlock()

	if err := p.refresh(ctx); err != nil && ctx.Err() == nil {
		log.Printf("%s poll failed: %v", p.name, err)
	}

	p.mu.Lock()
	p.inflight = false
	p.mu.Unlock()
}

// refreshMyQueues builds the my-queues refresh function.
func refreshMyQueues(store *state.Store, api filae.QueueAPI) refreshFn {
	return func(ctx context.Context) error {
		seq := store.Begin()
		view, err := api.FetchMyQueues(ctx)
		if err != nil {
			store.FailMyQueues(seq, err)
			return err
		}
		store.ApplyMyQueues(seq, view)
		return nil
	}
}

// refreshRoster builds the roster refresh function for one establishment.
func refreshRoster(store *state.Store, api filae.QueueAPI, establishmentID int64) refreshFn {
	return func(ctx context.Context) error {
		seq := store.Begin()
		roster, err := api.FetchEstablishmentQueue(ctx, establishmentID)
		if err != nil {
			store.FailRoster(seq, err)
			return err
		}
		store.ApplyRoster(seq, roster)
		return nil
	}
}

// TicketPoller refreshes one ticket's position detail while it is WAITING.
// Position stops changing once the ticket is called or terminal, so the
// poller stops itself permanently on the first non-WAITING status.
type TicketPoller struct {
	store    *state.Store
	api      filae.QueueAPI
	ticketID int64
	interval time.Duration

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
}

// NewTicketPoller builds a poller for one ticket's detail view.
func NewTicketPoller(store *state.Store, api filae.QueueAPI, ticketID int64, interval time.Duration) *TicketPoller {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &TicketPoller{
		store:    store,
		api:      api,
		ticketID: ticketID,
		interval: interval,
	}
}

// Start resets the store's watched-ticket section to this ticket and
// launches the loop.
func (w *TicketPoller) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	ctx, w.cancel = context.WithCancel(ctx)
	w.mu.Unlock()

	w.store.WatchTicket(w.ticketID)
	go w.loop(ctx)
}

// Stop cancels the loop.
func (w *TicketPoller) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	w.running = false
	if w.cancel != nil {
		w.cancel()
	}
}

func (w *TicketPoller) loop(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if done := w.refreshOnce(ctx); done {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// refreshOnce fetches the ticket once and reports whether polling should
// stop for good.
func (w *TicketPoller) refreshOnce(ctx context.Context) bool {
	if ctx.Err() != nil {
		return true
	}
	seq := w.store.Begin()
	pos, err := w.api.FetchTicket(ctx, w.ticketID)
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("ticket %d poll failed: %v", w.ticketID, err)
		}
		w.store.FailTicket(seq, err)
		return false
	}
	w.store.ApplyTicket(seq, pos)
	return pos.Ticket.Status != filae.StatusWaiting
}
