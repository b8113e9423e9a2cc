// Package ui renders the Filae client as a full-screen terminal
// application built on Bubble Tea.
//
// # Views
//
// The interface is a small set of views switched with number keys:
//
//   - Browse: the establishment directory, with search and favorites.
//     Selecting an establishment opens the join form, or jumps straight
//     to an existing ticket when the user already waits there.
//   - My Queues: the caller's tickets split into Active and History tabs,
//     mirroring the server's partition.
//   - Ticket: live detail for one ticket, backed by a dedicated fast
//     poller that is started on entry and stopped on exit.
//   - Roster: the merchant queue console with call-next and finish,
//     shown only for merchant sessions.
//
// # Data flow
//
// The model never fetches queue state itself. Pollers elsewhere write
// into the state store; the model blocks on the store's change channel
// through a self-re-arming command and re-reads immutable snapshots
// when it fires. Mutations go through the Actions interface and come
// back as a single actionMsg, so the Update loop stays free of I/O.
//
// Establishment browsing and favorites are the exception: they are
// request/response screens with no background poller, so the model
// issues those fetches directly as commands.
package ui
