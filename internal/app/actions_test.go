package app

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/ViniciusItoi/filae-mobile/internal/filae"
	"github.com/ViniciusItoi/filae-mobile/internal/state"
)

// fakeAPI is a scriptable filae.QueueAPI. Call counts let tests assert
// that guards short-circuit before the gateway.
type fakeAPI struct {
	mu sync.Mutex

	myQueues    filae.MyQueues
	myQueuesErr error
	ticket      filae.TicketPosition
	ticketErr   error
	roster      filae.Roster
	rosterErr   error
	joinResp    filae.JoinResponse
	joinErr     error
	cancelErr   error
	callNext    filae.CallNextResponse
	callNextErr error
	finishErr   error

	calls map[string]int
}

var _ filae.QueueAPI = (*fakeAPI)(nil)

func newFakeAPI() *fakeAPI {
	return &fakeAPI{calls: make(map[string]int)}
}

func (f *fakeAPI) record(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
}

func (f *fakeAPI) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeAPI) FetchMyQueues(ctx context.Context) (filae.MyQueues, error) {
	f.record("fetchMyQueues")
	return f.myQueues, f.myQueuesErr
}

func (f *fakeAPI) FetchTicket(ctx context.Context, id int64) (filae.TicketPosition, error) {
	f.record("fetchTicket")
	return f.ticket, f.ticketErr
}

func (f *fakeAPI) Join(ctx context.Context, req filae.JoinRequest) (filae.JoinResponse, error) {
	f.record("join")
	return f.joinResp, f.joinErr
}

func (f *fakeAPI) UpdateTicket(ctx context.Context, id int64, req filae.UpdateRequest) (filae.Ticket, error) {
	f.record("update")
	return f.joinResp.Ticket, nil
}

func (f *fakeAPI) Cancel(ctx context.Context, id int64) error {
	f.record("cancel")
	return f.cancelErr
}

func (f *fakeAPI) FetchEstablishmentQueue(ctx context.Context, establishmentID int64) (filae.Roster, error) {
	f.record("fetchRoster")
	return f.roster, f.rosterErr
}

func (f *fakeAPI) CallNext(ctx context.Context, establishmentID int64) (filae.CallNextResponse, error) {
	f.record("callNext")
	return f.callNext, f.callNextErr
}

func (f *fakeAPI) Finish(ctx context.Context, id int64) error {
	f.record("finish")
	return f.finishErr
}

func (f *fakeAPI) FetchMerchantAll(ctx context.Context) ([]filae.Ticket, error) {
	f.record("merchantAll")
	return nil, nil
}

func (f *fakeAPI) FetchMerchantActive(ctx context.Context) ([]filae.Ticket, error) {
	f.record("merchantActive")
	return nil, nil
}

func (f *fakeAPI) FetchMerchantStats(ctx context.Context) (filae.MerchantStats, error) {
	f.record("merchantStats")
	return filae.MerchantStats{}, nil
}

func TestCoordinator_JoinValidatesBeforeGateway(t *testing.T) {
	api := newFakeAPI()
	store := &state.Store{}
	c := NewCoordinator(api, store)

	for _, size := range []int{0, 21} {
		_, err := c.Join(context.Background(), 7, size, "")
		var vErr *filae.ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("Join partySize=%d error = %v, want ValidationError", size, err)
		}
	}
	long := make([]byte, filae.MaxNotesLen+1)
	for i := range long {
		long[i] = 'x'
	}
	_, err := c.Join(context.Background(), 7, 2, string(long))
	var vErr *filae.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("Join long notes error = %v, want ValidationError", err)
	}

	if api.count("join") != 0 || api.count("fetchMyQueues") != 0 {
		t.Fatalf("gateway called despite validation failure: %v", api.calls)
	}
}

func TestCoordinator_JoinGuardsDuplicate(t *testing.T) {
	api := newFakeAPI()
	store := &state.Store{}
	store.ApplyMyQueues(store.Begin(), filae.MyQueues{
		ActiveQueues: []filae.Ticket{{ID: 11, EstablishmentID: 7, Status: filae.StatusWaiting}},
	})
	c := NewCoordinator(api, store)

	ticket, err := c.Join(context.Background(), 7, 3, "")
	if !errors.Is(err, filae.ErrAlreadyQueued) {
		t.Fatalf("Join error = %v, want ErrAlreadyQueued", err)
	}
	if ticket.ID != 11 {
		t.Fatalf("Join returned ticket %d, want existing ticket 11", ticket.ID)
	}
	var aqErr *filae.AlreadyQueuedError
	if !errors.As(err, &aqErr) || aqErr.Ticket.ID != 11 {
		t.Fatalf("AlreadyQueuedError = %#v, want ticket 11 attached", aqErr)
	}
	if api.count("join") != 0 {
		t.Fatalf("join called %d times, want 0", api.count("join"))
	}
}

func TestCoordinator_JoinCallsGatewayOnceAndRefreshes(t *testing.T) {
	api := newFakeAPI()
	api.joinResp = filae.JoinResponse{Ticket: filae.Ticket{ID: 20, EstablishmentID: 7, Status: filae.StatusWaiting}}
	api.myQueues = filae.MyQueues{
		ActiveQueues: []filae.Ticket{{ID: 20, EstablishmentID: 7, Status: filae.StatusWaiting, Position: 4}},
	}
	store := &state.Store{}
	c := NewCoordinator(api, store)

	ticket, err := c.Join(context.Background(), 7, 3, "")
	if err != nil {
		t.Fatalf("Join returned error: %v", err)
	}
	if ticket.ID != 20 {
		t.Fatalf("Join ticket = %d, want 20", ticket.ID)
	}
	if api.count("join") != 1 {
		t.Fatalf("join calls = %d, want 1", api.count("join"))
	}
	if api.count("fetchMyQueues") != 1 {
		t.Fatalf("refresh calls = %d, want exactly 1 forced refresh", api.count("fetchMyQueues"))
	}

	// The cache must reflect the post-mutation fetch.
	snap := store.MyQueues()
	if len(snap.View.ActiveQueues) != 1 || snap.View.ActiveQueues[0].Position != 4 {
		t.Fatalf("cache after join = %#v, want refreshed view", snap.View)
	}
}

func TestCoordinator_MutationFailureLeavesCacheUntouched(t *testing.T) {
	api := newFakeAPI()
	api.cancelErr = &filae.APIError{Message: "too late", Status: 409}
	store := &state.Store{}
	before := filae.MyQueues{ActiveQueues: []filae.Ticket{{ID: 1, Status: filae.StatusWaiting}}}
	store.ApplyMyQueues(store.Begin(), before)
	c := NewCoordinator(api, store)

	err := c.Cancel(context.Background(), 1)
	var apiErr *filae.APIError
	if !errors.As(err, &apiErr) || apiErr.Status != 409 {
		t.Fatalf("Cancel error = %v, want 409 APIError", err)
	}
	if api.count("fetchMyQueues") != 0 {
		t.Fatalf("refresh issued after failed mutation")
	}
	snap := store.MyQueues()
	if len(snap.View.ActiveQueues) != 1 || snap.View.ActiveQueues[0].ID != 1 {
		t.Fatalf("cache changed after failed mutation: %#v", snap.View)
	}
}

func TestCoordinator_MutationThenRefreshOutranksStalePoll(t *testing.T) {
	api := newFakeAPI()
	store := &state.Store{}
	c := NewCoordinator(api, store)

	// A poll was issued before the mutation but its completion arrives
	// after the mutation's forced refresh.
	pollSeq := store.Begin()

	api.myQueues = filae.MyQueues{} // post-cancel view: empty
	if err := c.Cancel(context.Background(), 5); err != nil {
		t.Fatalf("Cancel returned error: %v", err)
	}

	stale := filae.MyQueues{ActiveQueues: []filae.Ticket{{ID: 5, Status: filae.StatusWaiting}}}
	if store.ApplyMyQueues(pollSeq, stale) {
		t.Fatalf("stale pre-mutation poll applied over forced refresh")
	}
	if n := len(store.MyQueues().View.ActiveQueues); n != 0 {
		t.Fatalf("active queues = %d, want 0 from post-mutation refresh", n)
	}
}

func TestCoordinator_UpdateValidatesFields(t *testing.T) {
	api := newFakeAPI()
	c := NewCoordinator(api, &state.Store{})

	_, err := c.Update(context.Background(), 1, nil, nil)
	var vErr *filae.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("Update with no fields error = %v, want ValidationError", err)
	}

	bad := 0
	_, err = c.Update(context.Background(), 1, &bad, nil)
	if !errors.As(err, &vErr) {
		t.Fatalf("Update partySize=0 error = %v, want ValidationError", err)
	}
	if api.count("update") != 0 {
		t.Fatalf("gateway called despite validation failure")
	}

	good := 4
	if _, err := c.Update(context.Background(), 1, &good, nil); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if api.count("update") != 1 || api.count("fetchMyQueues") != 1 {
		t.Fatalf("calls = %v, want one update and one refresh", api.calls)
	}
}

func TestCoordinator_CallNextAndFinishRefreshRoster(t *testing.T) {
	api := newFakeAPI()
	api.callNext = filae.CallNextResponse{CalledTicket: filae.Ticket{ID: 2, Status: filae.StatusCalled}}
	api.roster = filae.Roster{TotalCalled: 1}
	store := &state.Store{}
	c := NewCoordinator(api, store)

	called, err := c.CallNext(context.Background(), 9)
	if err != nil {
		t.Fatalf("CallNext returned error: %v", err)
	}
	if called.ID != 2 || called.Status != filae.StatusCalled {
		t.Fatalf("CallNext ticket = %#v, want called ticket 2", called)
	}
	if api.count("fetchRoster") != 1 {
		t.Fatalf("roster refresh calls = %d, want 1", api.count("fetchRoster"))
	}
	if !store.Roster().HasRoster {
		t.Fatalf("roster not cached after CallNext")
	}

	if err := c.Finish(context.Background(), 2, 9); err != nil {
		t.Fatalf("Finish returned error: %v", err)
	}
	if api.count("finish") != 1 || api.count("fetchRoster") != 2 {
		t.Fatalf("calls = %v, want finish plus second roster refresh", api.calls)
	}
}
