// Package state provides the in-memory queue state cache for the Filae client.
//
// # Overview
//
// The Store is the single owner of everything the client believes about the
// remote queues: the signed-in user's my-queues view, the merchant's
// establishment roster, and one watched ticket's position detail. It sits
// between the background pollers/mutation coordinator (producers) and the
// UI (consumer).
//
// # Replace, don't merge
//
// Every update is a wholesale snapshot replacement obtained from a fresh
// fetch. The Store never patches individual fields; the server recomputes
// position and wait-time estimates on every fetch and a field-level merge
// would let a locally stale value survive. Failures keep the previous data
// and only record the error and a consecutive-failure streak driving the
// offline indicator.
//
// # Sequence gating
//
// Network completions are not ordered: a refresh issued first can finish
// last. Callers obtain a sequence number from Begin() before issuing a
// fetch and pass it back to Apply*/Fail*. A completion carrying a sequence
// number at or below the newest one a section has observed is discarded.
// The counter is shared across sections, so a forced refresh that begins
// after a mutation resolves always outranks any poll that was already in
// flight when the mutation started.
//
//	seqA := store.Begin()   // poll A issued
//	seqB := store.Begin()   // focus refresh B issued
//	store.ApplyMyQueues(seqB, fresh) // applied
//	store.ApplyMyQueues(seqA, stale) // discarded, returns false
//
// # Concurrency
//
// A single mutex guards all sections, so a reader can never observe a torn
// snapshot. Reads return defensive copies. Watch() gives the UI a
// coalescing change signal; a consumer that falls behind receives exactly
// one pending signal.
package state
