// Package config loads the Filae client configuration.
//
// # Configuration Source
//
// Settings live in ~/.config/filae/config.toml (override with -config):
//
//	base_url = "http://localhost:8080"
//	request_timeout_seconds = 30
//	poll_seconds = 10
//	ticket_poll_seconds = 5
//	theme = "Dracula"
//
// A missing file is not an error: every field has a built-in default, so a
// fresh install talks to a local backend with the standard poll cadence.
// Malformed TOML is an error; silently guessing at a file the user wrote
// would be worse than failing.
//
// # Fields
//
//   - base_url: Filae backend root. Schemeless values get http://.
//   - request_timeout_seconds: transport timeout for every API call.
//   - poll_seconds: my-queues and merchant roster refresh cadence.
//   - ticket_poll_seconds: watched-ticket refresh cadence while WAITING.
//   - theme: UI color theme name, rewritten by Save when cycled in the UI.
package config
