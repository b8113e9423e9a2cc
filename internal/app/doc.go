// Package app is the composition and coordination layer of the Filae client.
//
// # Overview
//
// The package wires configuration, session, gateway client, state store,
// and UI together, and owns the two moving parts of queue synchronization:
//
//   - Poller / TicketPoller: drive periodic and focus-triggered refreshes
//     of the store. One poller per store section; the my-queues poller
//     always runs, the roster poller only for merchant sessions, and a
//     ticket poller runs while a ticket detail view is open.
//   - Coordinator: wraps join/cancel/update/call-next/finish with input
//     validation, one gateway call, and a forced refresh before returning.
//
// # Refresh discipline
//
// Every refresh, polled or forced, follows the same shape:
//
//	seq := store.Begin()        // before the network call
//	payload, err := api.Fetch...(ctx)
//	store.Apply...(seq, payload) // or store.Fail...(seq, err)
//
// The store discards completions that lost the race to a newer one, which
// is the only ordering guarantee this subsystem needs: there are no locks
// around the network, no merge logic, and no optimistic local writes.
//
// # Error policy
//
// Poll failures are logged and absorbed; the next cycle retries
// implicitly, and the store's consecutive-failure streak drives the UI's
// offline indicator. Mutation failures propagate to the caller untouched
// for display, with the cache left as it was. Nothing is retried
// automatically.
package app
