// Package filae is the client for the Filae queue service HTTP API.
//
// # Overview
//
// The package has three responsibilities:
//
//   - Client: a stateless gateway with one method per server endpoint. It
//     decodes payloads and classifies failures, nothing more. It never
//     retries and never touches the in-memory cache; retry-by-polling and
//     snapshot replacement are policies of the app layer.
//   - NormalizeMyQueues: converts the two observed shapes of the my-queues
//     endpoint (flat ticket list, pre-partitioned object) into the single
//     canonical MyQueues view. Unrecognized shapes degrade to an empty
//     view instead of failing; the server contract drifting is not
//     something the user can act on.
//   - Transport types: Ticket, Roster, Establishment and friends, mirroring
//     the REST contract with string timestamps and parse helpers.
//
// # Error classification
//
// A non-2xx response with the standard {message, status, timestamp}
// envelope becomes an *APIError; use errors.As to inspect the status
// (APIError.Unauthorized flags an expired session). Transport failures are
// returned as wrapped errors from net/http. *ValidationError never
// originates here: input validation happens in the app layer before a
// request is built.
//
// # Usage
//
//	client, err := filae.NewClient(cfg.BaseURL, sess.Token)
//	if err != nil { ... }
//	view, err := client.FetchMyQueues(ctx)
package filae
