package ui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ViniciusItoi/filae-mobile/internal/config"
	"github.com/ViniciusItoi/filae-mobile/internal/filae"
	"github.com/ViniciusItoi/filae-mobile/internal/session"
	"github.com/ViniciusItoi/filae-mobile/internal/state"
)

// Actions is the mutation surface the UI drives. Implemented by
// app.Coordinator.
type Actions interface {
	Join(ctx context.Context, establishmentID int64, partySize int, notes string) (filae.Ticket, error)
	Cancel(ctx context.Context, ticketID int64) error
	Update(ctx context.Context, ticketID int64, partySize *int, notes *string) (filae.Ticket, error)
	CallNext(ctx context.Context, establishmentID int64) (filae.Ticket, error)
	Finish(ctx context.Context, ticketID, establishmentID int64) error
}

// TicketWatch is a start/stoppable poller for one ticket's detail view.
// Implemented by app.TicketPoller.
type TicketWatch interface {
	Start(ctx context.Context)
	Stop()
}

// Options configures the UI.
type Options struct {
	Context context.Context
	Client  *filae.Client
	Store   *state.Store
	Actions Actions
	Session session.Session
	Config  config.Config

	// ConfigPath is where a theme change is persisted.
	ConfigPath string

	// MyQueuesKick and RosterKick request an immediate poll when the
	// matching screen gains focus.
	MyQueuesKick func()
	RosterKick   func()

	// EstablishmentID is the merchant's establishment; zero for
	// customer sessions.
	EstablishmentID int64

	// WatchTicket builds a poller for one ticket's detail view.
	WatchTicket func(ticketID int64) TicketWatch
}

// Run starts the Bubble Tea program and blocks until exit.
func Run(opts Options) error {
	if opts.Store == nil {
		return fmt.Errorf("ui: store is required")
	}
	if opts.Client == nil {
		return fmt.Errorf("ui: client is required")
	}
	if opts.Actions == nil {
		return fmt.Errorf("ui: actions are required")
	}

	if opts.Context == nil {
		opts.Context = context.Background()
	}

	model := New(opts)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(opts.Context))
	_, err := program.Run()
	if err != nil && opts.Context.Err() != nil {
		// Signal-driven shutdown is a normal exit.
		return nil
	}
	return err
}
