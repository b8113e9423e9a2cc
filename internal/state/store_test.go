package state

import (
	"errors"
	"testing"
	"time"

	"github.com/ViniciusItoi/filae-mobile/internal/filae"
)

func TestStore_ApplyAndSnapshotClone(t *testing.T) {
	var s Store

	view := filae.MyQueues{
		ActiveQueues:  []filae.Ticket{{ID: 1, Status: filae.StatusWaiting}},
		HistoryQueues: []filae.Ticket{{ID: 2, Status: filae.StatusFinished}},
	}

	before := time.Now()
	if !s.ApplyMyQueues(s.Begin(), view) {
		t.Fatalf("ApplyMyQueues discarded a fresh snapshot")
	}

	snap := s.MyQueues()
	if len(snap.View.ActiveQueues) != 1 || snap.View.ActiveQueues[0].ID != 1 {
		t.Fatalf("snapshot view = %#v, want active ticket 1", snap.View)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError != nil {
		t.Fatalf("LastError = %v, want nil", snap.LastError)
	}

	// Returned snapshot should be independent of the stored one.
	snap.View.ActiveQueues[0].ID = 999
	snap2 := s.MyQueues()
	if snap2.View.ActiveQueues[0].ID != 1 {
		t.Fatalf("MyQueues should clone the view; got id %d want 1", snap2.View.ActiveQueues[0].ID)
	}
}

func TestStore_StaleCompletionDiscarded(t *testing.T) {
	var s Store

	// Refresh A issued first, refresh B second; B's completion lands first.
	seqA := s.Begin()
	seqB := s.Begin()

	fresh := filae.MyQueues{ActiveQueues: []filae.Ticket{{ID: 2, Position: 1}}}
	stale := filae.MyQueues{ActiveQueues: []filae.Ticket{{ID: 2, Position: 5}}}

	if !s.ApplyMyQueues(seqB, fresh) {
		t.Fatalf("fresh completion discarded")
	}
	if s.ApplyMyQueues(seqA, stale) {
		t.Fatalf("stale completion applied, want discarded")
	}

	snap := s.MyQueues()
	if snap.View.ActiveQueues[0].Position != 1 {
		t.Fatalf("position = %d, want fresher snapshot's 1", snap.View.ActiveQueues[0].Position)
	}
}

func TestStore_StaleFailureDiscarded(t *testing.T) {
	var s Store

	seqA := s.Begin()
	seqB := s.Begin()

	if !s.ApplyMyQueues(seqB, filae.MyQueues{}) {
		t.Fatalf("fresh completion discarded")
	}
	if s.FailMyQueues(seqA, errors.New("late timeout")) {
		t.Fatalf("stale failure applied, want discarded")
	}
	snap := s.MyQueues()
	if snap.LastError != nil || snap.ConsecutiveFailures != 0 {
		t.Fatalf("snapshot = %+v, want clean after stale failure", snap)
	}
}

func TestStore_FailureKeepsDataAndCountsStreak(t *testing.T) {
	var s Store

	view := filae.MyQueues{ActiveQueues: []filae.Ticket{{ID: 1, Status: filae.StatusWaiting}}}
	s.ApplyMyQueues(s.Begin(), view)

	s.FailMyQueues(s.Begin(), errors.New("poll failed"))
	snap := s.MyQueues()
	if len(snap.View.ActiveQueues) != 1 {
		t.Fatalf("data dropped on failure: %#v", snap.View)
	}
	if snap.ConsecutiveFailures != 1 || snap.IsOffline() {
		t.Fatalf("failures = %d offline = %v, want 1/false", snap.ConsecutiveFailures, snap.IsOffline())
	}

	s.FailMyQueues(s.Begin(), errors.New("poll failed again"))
	snap = s.MyQueues()
	if snap.ConsecutiveFailures != 2 || !snap.IsOffline() {
		t.Fatalf("failures = %d offline = %v, want 2/true", snap.ConsecutiveFailures, snap.IsOffline())
	}

	s.ApplyMyQueues(s.Begin(), view)
	snap = s.MyQueues()
	if snap.ConsecutiveFailures != 0 || snap.LastError != nil {
		t.Fatalf("failure streak not reset: %+v", snap)
	}
}

func TestStore_ActiveAt(t *testing.T) {
	var s Store

	s.ApplyMyQueues(s.Begin(), filae.MyQueues{
		ActiveQueues: []filae.Ticket{
			{ID: 1, EstablishmentID: 7, Status: filae.StatusWaiting},
			{ID: 2, EstablishmentID: 8, Status: filae.StatusCalled},
		},
	})

	ticket, ok := s.ActiveAt(7)
	if !ok || ticket.ID != 1 {
		t.Fatalf("ActiveAt(7) = %#v/%v, want ticket 1", ticket, ok)
	}
	// CALLED does not block a new join; only WAITING does.
	if _, ok := s.ActiveAt(8); ok {
		t.Fatalf("ActiveAt(8) = true, want false for CALLED ticket")
	}
	if _, ok := s.ActiveAt(99); ok {
		t.Fatalf("ActiveAt(99) = true, want false")
	}
}

func TestStore_RosterSection(t *testing.T) {
	var s Store

	snap := s.Roster()
	if snap.HasRoster {
		t.Fatalf("HasRoster = true before any apply")
	}

	roster := filae.Roster{
		Establishment: filae.EstablishmentRef{ID: 9, Name: "Cafe"},
		Queues:        []filae.Ticket{{ID: 1}},
		TotalWaiting:  4,
	}
	seqA := s.Begin()
	seqB := s.Begin()
	if !s.ApplyRoster(seqB, roster) {
		t.Fatalf("ApplyRoster discarded fresh roster")
	}
	if s.ApplyRoster(seqA, filae.Roster{TotalWaiting: 99}) {
		t.Fatalf("stale roster applied")
	}

	snap = s.Roster()
	if !snap.HasRoster || snap.Roster.TotalWaiting != 4 {
		t.Fatalf("roster snapshot = %+v, want 4 waiting", snap)
	}

	snap.Roster.Queues[0].ID = 999
	if s.Roster().Roster.Queues[0].ID != 1 {
		t.Fatalf("Roster should clone the ticket list")
	}
}

func TestStore_WatchedTicket(t *testing.T) {
	var s Store

	s.WatchTicket(42)
	seq := s.Begin()
	if !s.ApplyTicket(seq, filae.TicketPosition{Ticket: filae.Ticket{ID: 42}, Position: 3}) {
		t.Fatalf("ApplyTicket discarded a fresh completion")
	}
	snap := s.Ticket()
	if !snap.HasTicket || snap.Position.Position != 3 {
		t.Fatalf("ticket snapshot = %+v, want position 3", snap)
	}

	// Switching the watched ticket invalidates late completions for the
	// old one.
	s.WatchTicket(43)
	if s.ApplyTicket(s.Begin(), filae.TicketPosition{Ticket: filae.Ticket{ID: 42}, Position: 1}) {
		t.Fatalf("completion for unwatched ticket applied")
	}
	if s.Ticket().HasTicket {
		t.Fatalf("HasTicket = true after WatchTicket reset")
	}
}

func TestStore_WatchCoalescesSignals(t *testing.T) {
	var s Store

	ch := s.Watch()
	for i := 0; i < 5; i++ {
		s.ApplyMyQueues(s.Begin(), filae.MyQueues{})
	}

	select {
	case <-ch:
	default:
		t.Fatalf("no signal after updates")
	}
	select {
	case <-ch:
		t.Fatalf("signals not coalesced")
	default:
	}
}
