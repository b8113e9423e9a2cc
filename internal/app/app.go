package app

import (
	"context"
	"fmt"
	"time"

	"github.com/ViniciusItoi/filae-mobile/internal/config"
	"github.com/ViniciusItoi/filae-mobile/internal/filae"
	"github.com/ViniciusItoi/filae-mobile/internal/session"
	"github.com/ViniciusItoi/filae-mobile/internal/state"
	"github.com/ViniciusItoi/filae-mobile/internal/ui"
)

// Options configure the Filae application.
type Options struct {
	ConfigPath  string
	SessionPath string // empty uses default ~/.config/filae/session.toml
	PollEvery   int    // seconds; zero uses the configured interval
}

// Run boots the Filae TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.PollEvery > 0 {
		cfg.PollInterval = time.Duration(opts.PollEvery) * time.Second
	}

	sess, err := session.Load(opts.SessionPath)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if !sess.SignedIn() {
		return fmt.Errorf("not signed in; run `filae login` first")
	}
	if sess.Expired() {
		return fmt.Errorf("session expired; run `filae login` again")
	}

	client, err := filae.NewClient(cfg.BaseURL, sess.Token)
	if err != nil {
		return fmt.Errorf("init filae client: %w", err)
	}
	client.SetTimeout(cfg.RequestTimeout)

	store := &state.Store{}
	coordinator := NewCoordinator(client, store)

	myPoller := NewPoller("my-queues", cfg.PollInterval, refreshMyQueues(store, client))
	myPoller.Start(ctx)
	defer myPoller.Stop()

	var rosterPoller *Poller
	var rosterEstablishmentID int64
	if sess.Merchant() {
		establishment, err := resolveMerchantEstablishment(ctx, client, sess.UserID)
		if err != nil {
			return err
		}
		rosterEstablishmentID = establishment.ID
		rosterPoller = NewPoller("roster", cfg.PollInterval, refreshRoster(store, client, establishment.ID))
		rosterPoller.Start(ctx)
		defer rosterPoller.Stop()
	}

	uiOpts := ui.Options{
		Context:         ctx,
		Client:          client,
		Store:           store,
		Actions:         coordinator,
		Session:         sess,
		Config:          cfg,
		ConfigPath:      opts.ConfigPath,
		MyQueuesKick:    myPoller.Kick,
		RosterKick:      kickOrNop(rosterPoller),
		EstablishmentID: rosterEstablishmentID,
		WatchTicket: func(id int64) ui.TicketWatch {
			return NewTicketPoller(store, client, id, cfg.TicketInterval)
		},
	}
	return ui.Run(uiOpts)
}

// resolveMerchantEstablishment finds the establishment owned by the
// signed-in merchant. The backend has no dedicated endpoint for this; the
// listing is scanned for a matching merchant id.
func resolveMerchantEstablishment(ctx context.Context, client *filae.Client, merchantID int64) (filae.Establishment, error) {
	establishments, err := client.FetchEstablishments(ctx, filae.EstablishmentFilter{})
	if err != nil {
		return filae.Establishment{}, fmt.Errorf("load merchant establishment: %w", err)
	}
	for _, e := range establishments {
		if e.MerchantID == merchantID {
			return e, nil
		}
	}
	return filae.Establishment{}, fmt.Errorf("no establishment registered for this merchant account")
}

func kickOrNop(p *Poller) func() {
	if p == nil {
		return func() {}
	}
	return p.Kick
}
