package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/ViniciusItoi/filae-mobile/internal/filae"
)

// MyQueuesSnapshot is the latest my-queues view available to the UI.
type MyQueuesSnapshot struct {
	View                filae.MyQueues
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// IsOffline returns true when the API has been unreachable for multiple polls.
func (s MyQueuesSnapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// RosterSnapshot is the latest merchant roster available to the UI.
type RosterSnapshot struct {
	Roster              filae.Roster
	HasRoster           bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// IsOffline returns true when the API has been unreachable for multiple polls.
func (s RosterSnapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// TicketSnapshot is the latest position detail for the watched ticket.
type TicketSnapshot struct {
	Position    filae.TicketPosition
	HasTicket   bool
	LastUpdated time.Time
	LastError   error
}

// cell gates one snapshot section. seq is the newest sequence number this
// cell has observed; completions carrying an older sequence are stale and
// must be discarded, which is what keeps "replace, don't merge" safe when
// the transport reorders responses.
type cell struct {
	seq      uint64
	updated  time.Time
	err      error
	failures int
}

// admit records the completion's sequence and reports whether it may be
// applied. Callers hold the store mutex.
func (c *cell) admit(seq uint64) bool {
	if seq <= c.seq {
		return false
	}
	c.seq = seq
	c.updated = time.Now()
	return true
}

// Store owns the in-memory queue state for the session: the signed-in
// user's my-queues view, the merchant roster, and one watched ticket. Every
// update is a full-snapshot replacement obtained from a fresh fetch; no
// entry is ever mutated field by field.
type Store struct {
	mu      sync.Mutex
	nextSeq uint64

	myCell cell
	my     filae.MyQueues

	rosterCell cell
	roster     filae.Roster
	hasRoster  bool

	ticketID   int64
	ticketCell cell
	ticket     filae.TicketPosition
	hasTicket  bool

	watcher chan struct{}
}

// Begin hands out the sequence number for a fetch about to be issued. The
// counter is shared across all sections, so a refresh begun after a
// mutation always outranks any poll that was already in flight.
func (s *Store) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSeq++
	return s.nextSeq
}

// ApplyMyQueues installs a my-queues snapshot fetched under seq. It returns
// false when the completion is stale and was discarded.
func (s *Store) ApplyMyQueues(seq uint64, view filae.MyQueues) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.myCell.admit(seq) {
		return false
	}
	s.my = cloneView(view)
	s.myCell.err = nil
	s.myCell.failures = 0
	s.notifyLocked()
	return true
}

// FailMyQueues records a my-queues fetch failure. Previous data is kept;
// the error and failure streak are exposed for the offline indicator.
func (s *Store) FailMyQueues(seq uint64, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.myCell.admit(seq) {
		return false
	}
	s.myCell.err = err
	s.myCell.failures++
	s.notifyLocked()
	return true
}

// MyQueues returns a copy of the current my-queues snapshot.
func (s *Store) MyQueues() MyQueuesSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return MyQueuesSnapshot{
		View:                cloneView(s.my),
		LastUpdated:         s.myCell.updated,
		LastError:           cloneErr(s.myCell.err),
		ConsecutiveFailures: s.myCell.failures,
	}
}

// ActiveAt returns the WAITING ticket for the given establishment when the
// cached view holds one. It answers "is the user already queued here"
// before a join is allowed.
func (s *Store) ActiveAt(establishmentID int64) (filae.Ticket, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.my.ActiveQueues {
		if t.EstablishmentID == establishmentID && t.Status == filae.StatusWaiting {
			return t, true
		}
	}
	return filae.Ticket{}, false
}

// ApplyRoster installs a roster snapshot fetched under seq.
func (s *Store) ApplyRoster(seq uint64, roster filae.Roster) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.rosterCell.admit(seq) {
		return false
	}
	s.roster = cloneRoster(roster)
	s.hasRoster = true
	s.rosterCell.err = nil
	s.rosterCell.failures = 0
	s.notifyLocked()
	return true
}

// FailRoster records a roster fetch failure.
func (s *Store) FailRoster(seq uint64, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.rosterCell.admit(seq) {
		return false
	}
	s.rosterCell.err = err
	s.rosterCell.failures++
	s.notifyLocked()
	return true
}

// Roster returns a copy of the current roster snapshot.
func (s *Store) Roster() RosterSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return RosterSnapshot{
		Roster:              cloneRoster(s.roster),
		HasRoster:           s.hasRoster,
		LastUpdated:         s.rosterCell.updated,
		LastError:           cloneErr(s.rosterCell.err),
		ConsecutiveFailures: s.rosterCell.failures,
	}
}

// WatchTicket resets the watched-ticket section for a new ticket id.
// Completions for a previously watched ticket are rejected afterwards.
func (s *Store) WatchTicket(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ticketID = id
	s.ticket = filae.TicketPosition{}
	s.hasTicket = false
	s.ticketCell.err = nil
	s.ticketCell.failures = 0
}

// ApplyTicket installs a ticket detail snapshot fetched under seq. A
// completion for a ticket that is no longer watched is discarded.
func (s *Store) ApplyTicket(seq uint64, pos filae.TicketPosition) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pos.Ticket.ID != s.ticketID {
		return false
	}
	if !s.ticketCell.admit(seq) {
		return false
	}
	s.ticket = pos
	s.hasTicket = true
	s.ticketCell.err = nil
	s.notifyLocked()
	return true
}

// FailTicket records a ticket detail fetch failure.
func (s *Store) FailTicket(seq uint64, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ticketCell.admit(seq) {
		return false
	}
	s.ticketCell.err = err
	s.ticketCell.failures++
	s.notifyLocked()
	return true
}

// Ticket returns a copy of the watched ticket snapshot.
func (s *Store) Ticket() TicketSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return TicketSnapshot{
		Position:    s.ticket,
		HasTicket:   s.hasTicket,
		LastUpdated: s.ticketCell.updated,
		LastError:   cloneErr(s.ticketCell.err),
	}
}

// Watch returns a channel that receives a signal after any snapshot
// changes. Signals are coalesced; a reader that is behind sees one.
func (s *Store) Watch() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.watcher == nil {
		s.watcher = make(chan struct{}, 1)
	}
	return s.watcher
}

func (s *Store) notifyLocked() {
	if s.watcher == nil {
		return
	}
	select {
	case s.watcher <- struct{}{}:
	default:
	}
}

func cloneView(view filae.MyQueues) filae.MyQueues {
	return filae.MyQueues{
		ActiveQueues:  cloneTickets(view.ActiveQueues),
		HistoryQueues: cloneTickets(view.HistoryQueues),
	}
}

func cloneRoster(roster filae.Roster) filae.Roster {
	dup := roster
	dup.Queues = cloneTickets(roster.Queues)
	return dup
}

func cloneTickets(tickets []filae.Ticket) []filae.Ticket {
	if len(tickets) == 0 {
		return nil
	}
	dup := make([]filae.Ticket, len(tickets))
	copy(dup, tickets)
	return dup
}

func cloneErr(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w", err)
}
