package ui

import (
	"testing"
	"time"

	"github.com/ViniciusItoi/filae-mobile/internal/filae"
)

func TestRelTime(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"zero", time.Time{}, "never"},
		{"just now", now.Add(-2 * time.Second), "just now"},
		{"seconds", now.Add(-30 * time.Second), "30s ago"},
		{"minutes", now.Add(-5 * time.Minute), "5m ago"},
		{"hours", now.Add(-3 * time.Hour), "3h ago"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := relTime(tt.t); got != tt.want {
				t.Errorf("relTime() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate(short, 10) = %q", got)
	}
	if got := truncate("a long establishment name", 10); got != "a long es…" {
		t.Errorf("truncate long = %q", got)
	}
	// Multibyte runes must not be split.
	if got := truncate("Café São Jorge", 8); got != "Café Sã…" {
		t.Errorf("truncate multibyte = %q", got)
	}
}

func TestTicketsWithStatus(t *testing.T) {
	tickets := []filae.Ticket{
		{ID: 1, Status: filae.StatusWaiting},
		{ID: 2, Status: filae.StatusCalled},
		{ID: 3, Status: filae.StatusWaiting},
		{ID: 4, Status: filae.StatusCalled},
	}

	called := ticketsWithStatus(tickets, filae.StatusCalled)
	if len(called) != 2 || called[0].ID != 2 || called[1].ID != 4 {
		t.Errorf("called = %+v, want tickets 2 and 4 in order", called)
	}
	if got := ticketsWithStatus(tickets, filae.StatusFinished); len(got) != 0 {
		t.Errorf("finished = %+v, want empty", got)
	}
}

func TestRosterFinishTarget(t *testing.T) {
	entries := []filae.Ticket{
		{ID: 1, Status: filae.StatusWaiting},
		{ID: 2, Status: filae.StatusCalled},
		{ID: 3, Status: filae.StatusWaiting},
		{ID: 4, Status: filae.StatusCalled},
	}

	// The highlighted entry wins when it is CALLED.
	if got, ok := rosterFinishTarget(entries, 3); !ok || got.ID != 4 {
		t.Errorf("cursor on called ticket: got %v ok=%v, want ticket 4", got.ID, ok)
	}
	// A cursor on a waiting entry falls back to the first called ticket.
	if got, ok := rosterFinishTarget(entries, 2); !ok || got.ID != 2 {
		t.Errorf("cursor on waiting ticket: got %v ok=%v, want ticket 2", got.ID, ok)
	}
	// An out-of-range cursor also falls back.
	if got, ok := rosterFinishTarget(entries, 10); !ok || got.ID != 2 {
		t.Errorf("cursor out of range: got %v ok=%v, want ticket 2", got.ID, ok)
	}
	// No called ticket anywhere means nothing to finish.
	waitingOnly := []filae.Ticket{{ID: 5, Status: filae.StatusWaiting}}
	if _, ok := rosterFinishTarget(waitingOnly, 0); ok {
		t.Errorf("waiting-only roster: ok = true, want false")
	}
}

func TestCurrentQueueTab(t *testing.T) {
	m := Model{}
	m.my.View = filae.MyQueues{
		ActiveQueues:  []filae.Ticket{{ID: 1}},
		HistoryQueues: []filae.Ticket{{ID: 2}, {ID: 3}},
	}

	if got := m.currentQueueTab(); len(got) != 1 || got[0].ID != 1 {
		t.Errorf("active tab = %+v", got)
	}
	m.historyTab = true
	if got := m.currentQueueTab(); len(got) != 2 {
		t.Errorf("history tab = %+v", got)
	}
}
