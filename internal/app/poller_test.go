package app

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ViniciusItoi/filae-mobile/internal/filae"
	"github.com/ViniciusItoi/filae-mobile/internal/state"
)

func TestPoller_FetchesImmediatelyOnStart(t *testing.T) {
	fetched := make(chan struct{}, 1)
	p := NewPoller("test", time.Hour, func(ctx context.Context) error {
		select {
		case fetched <- struct{}{}:
		default:
		}
		return nil
	})
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	t.Cleanup(p.Stop)

	p.Start(ctx)

	select {
	case <-fetched:
	case <-time.After(2 * time.Second):
		t.Fatalf("no fetch within 2s of Start")
	}
}

func TestPoller_KickTriggersRefreshWhenIdle(t *testing.T) {
	var calls atomic.Int64
	p := NewPoller("test", time.Hour, func(ctx context.Context) error {
		calls.Add(1)
		return nil
	})
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	t.Cleanup(p.Stop)

	p.Start(ctx)
	waitFor(t, func() bool { return calls.Load() == 1 })

	p.Kick()
	waitFor(t, func() bool { return calls.Load() == 2 })
}

func TestPoller_KickCoalescesWithInflightFetch(t *testing.T) {
	var calls atomic.Int64
	release := make(chan struct{})
	p := NewPoller("test", time.Hour, func(ctx context.Context) error {
		calls.Add(1)
		<-release
		return nil
	})
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	t.Cleanup(p.Stop)

	p.Start(ctx)
	waitFor(t, func() bool { return calls.Load() == 1 })

	// These arrive while the first fetch is in flight and must be
	// satisfied by its result, not by extra round trips.
	p.Kick()
	p.Kick()
	p.Kick()
	close(release)

	time.Sleep(100 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Fatalf("refresh calls = %d, want 1 (kicks coalesced into in-flight fetch)", got)
	}
}

func TestPoller_StopHaltsPolling(t *testing.T) {
	var calls atomic.Int64
	p := NewPoller("test", 10*time.Millisecond, func(ctx context.Context) error {
		calls.Add(1)
		return nil
	})
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	p.Start(ctx)
	waitFor(t, func() bool { return calls.Load() >= 2 })
	p.Stop()

	settled := calls.Load()
	time.Sleep(100 * time.Millisecond)
	// One tick may already have been past the ctx check when Stop hit.
	if got := calls.Load(); got > settled+1 {
		t.Fatalf("refresh calls grew from %d to %d after Stop", settled, got)
	}

	// Kick after Stop must be ignored.
	p.Kick()
	time.Sleep(50 * time.Millisecond)
	if got := calls.Load(); got > settled+1 {
		t.Fatalf("Kick after Stop triggered a refresh")
	}
}

func TestTicketPoller_StopsOnNonWaitingStatus(t *testing.T) {
	api := newFakeAPI()
	api.ticket = filae.TicketPosition{
		Ticket:   filae.Ticket{ID: 42, Status: filae.StatusCalled},
		Position: 1,
	}
	store := &state.Store{}
	w := NewTicketPoller(store, api, 42, 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	t.Cleanup(w.Stop)

	w.Start(ctx)
	waitFor(t, func() bool { return api.count("fetchTicket") >= 1 })

	time.Sleep(100 * time.Millisecond)
	if got := api.count("fetchTicket"); got != 1 {
		t.Fatalf("fetchTicket calls = %d, want 1 (polling stops once not WAITING)", got)
	}
	snap := store.Ticket()
	if !snap.HasTicket || snap.Position.Ticket.Status != filae.StatusCalled {
		t.Fatalf("ticket snapshot = %+v, want cached CALLED ticket", snap)
	}
}

func TestTicketPoller_KeepsPollingWhileWaiting(t *testing.T) {
	api := newFakeAPI()
	api.ticket = filae.TicketPosition{
		Ticket:   filae.Ticket{ID: 42, Status: filae.StatusWaiting},
		Position: 3,
	}
	store := &state.Store{}
	w := NewTicketPoller(store, api, 42, 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	w.Start(ctx)
	waitFor(t, func() bool { return api.count("fetchTicket") >= 3 })
	w.Stop()
}

func TestTicketPoller_ErrorKeepsPolling(t *testing.T) {
	api := newFakeAPI()
	api.ticketErr = &filae.APIError{Message: "flaky", Status: 500}
	store := &state.Store{}
	w := NewTicketPoller(store, api, 42, 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	t.Cleanup(w.Stop)

	w.Start(ctx)
	waitFor(t, func() bool { return api.count("fetchTicket") >= 2 })

	snap := store.Ticket()
	if snap.HasTicket || snap.LastError == nil {
		t.Fatalf("ticket snapshot = %+v, want recorded error and no data", snap)
	}
}

// waitFor polls cond for up to 2s.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within 2s")
}
