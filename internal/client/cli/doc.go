// Package cli provides the interactive Maya command-line client.
//
// It wires configuration, local session storage, the API client, and an
// interactive REPL with a background connectivity watcher. Typical flow:
// restore a stored session, start the watcher, and execute user commands.
//
// Key features:
//   - Signup via the OTP flow: register / verify / complete
//   - Login / Logout with locally persisted tokens
//   - whoami (local token claims) and me (server-side profile)
//   - profile: merge name=value fields into the stored record
//   - passwd: OTP-based password reset
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
