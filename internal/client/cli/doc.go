// Package cli provides the interactive weatherdesk terminal client.
//
// It wires configuration, the local token store, the REST client and the
// session controller, then runs a REPL. On start the persisted token, if any,
// is resolved against the server before the first prompt is shown.
//
// Commands:
//   - register / login / logout
//   - whoami (alias profile)
//   - weather <city>: current conditions, forecast and air quality, saved to history
//   - history: the last searches, newest first
//   - status: server health and session state
//
// A 401 or 403 from any protected command expires the session.
package cli
