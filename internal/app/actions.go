package app

import (
	"context"
	"fmt"

	"github.com/ViniciusItoi/filae-mobile/internal/filae"
	"github.com/ViniciusItoi/filae-mobile/internal/state"
)

// Coordinator wraps every state-changing queue operation with input
// validation, a single gateway call, and a forced sequence-stamped refresh
// before returning, so a caller never observes a successful mutation
// against pre-mutation cached data. On failure the cache is left untouched
// and the error propagates for user-facing display. Nothing here retries:
// a failed mutation must be re-initiated explicitly to avoid duplicate
// side effects.
type Coordinator struct {
	api   filae.QueueAPI
	store *state.Store
}

// NewCoordinator builds a Coordinator over the given gateway and cache.
func NewCoordinator(api filae.QueueAPI, store *state.Store) *Coordinator {
	return &Coordinator{api: api, store: store}
}

// Join validates the request, guards against a duplicate join, creates the
// ticket, and refreshes the my-queues view. When the cache already holds a
// WAITING ticket for the establishment, Join returns that ticket and an
// error wrapping filae.ErrAlreadyQueued without calling the gateway. The
// guard is a client-side convenience; the server still enforces
// uniqueness and may reject the join.
func (c *Coordinator) Join(ctx context.Context, establishmentID int64, partySize int, notes string) (filae.Ticket, error) {
	if err := filae.ValidatePartySize(partySize); err != nil {
		return filae.Ticket{}, err
	}
	if err := filae.ValidateNotes(notes); err != nil {
		return filae.Ticket{}, err
	}

	if existing, ok := c.store.ActiveAt(establishmentID); ok {
		return existing, &filae.AlreadyQueuedError{Ticket: existing}
	}

	resp, err := c.api.Join(ctx, filae.JoinRequest{
		EstablishmentID: establishmentID,
		PartySize:       partySize,
		Notes:           notes,
	})
	if err != nil {
		return filae.Ticket{}, err
	}

	if err := refreshMyQueues(c.store, c.api)(ctx); err != nil {
		return resp.Ticket, fmt.Errorf("joined, but refreshing queues failed: %w", err)
	}
	return resp.Ticket, nil
}

// Cancel withdraws a ticket and refreshes the my-queues view.
func (c *Coordinator) Cancel(ctx context.Context, ticketID int64) error {
	if err := c.api.Cancel(ctx, ticketID); err != nil {
		return err
	}
	if err := refreshMyQueues(c.store, c.api)(ctx); err != nil {
		return fmt.Errorf("cancelled, but refreshing queues failed: %w", err)
	}
	return nil
}

// Update changes a ticket's party size and/or notes, then refreshes the
// my-queues view. Nil fields are left unchanged.
func (c *Coordinator) Update(ctx context.Context, ticketID int64, partySize *int, notes *string) (filae.Ticket, error) {
	if partySize == nil && notes == nil {
		return filae.Ticket{}, &filae.ValidationError{Field: "update", Reason: "nothing to change"}
	}
	if partySize != nil {
		if err := filae.ValidatePartySize(*partySize); err != nil {
			return filae.Ticket{}, err
		}
	}
	if notes != nil {
		if err := filae.ValidateNotes(*notes); err != nil {
			return filae.Ticket{}, err
		}
	}

	ticket, err := c.api.UpdateTicket(ctx, ticketID, filae.UpdateRequest{
		PartySize: partySize,
		Notes:     notes,
	})
	if err != nil {
		return filae.Ticket{}, err
	}

	if err := refreshMyQueues(c.store, c.api)(ctx); err != nil {
		return ticket, fmt.Errorf("updated, but refreshing queues failed: %w", err)
	}
	return ticket, nil
}

// CallNext asks the server to call the next waiting customer, then
// refreshes the roster.
func (c *Coordinator) CallNext(ctx context.Context, establishmentID int64) (filae.Ticket, error) {
	resp, err := c.api.CallNext(ctx, establishmentID)
	if err != nil {
		return filae.Ticket{}, err
	}
	if err := refreshRoster(c.store, c.api, establishmentID)(ctx); err != nil {
		return resp.CalledTicket, fmt.Errorf("called, but refreshing roster failed: %w", err)
	}
	return resp.CalledTicket, nil
}

// Finish marks a called ticket as served, then refreshes the roster.
func (c *Coordinator) Finish(ctx context.Context, ticketID, establishmentID int64) error {
	if err := c.api.Finish(ctx, ticketID); err != nil {
		return err
	}
	if err := refreshRoster(c.store, c.api, establishmentID)(ctx); err != nil {
		return fmt.Errorf("finished, but refreshing roster failed: %w", err)
	}
	return nil
}
