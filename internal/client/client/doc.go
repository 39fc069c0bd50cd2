// Package client contains client-side building blocks for the Maya CLI.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) to talk
//     to the Maya backend: Register/Login, the OTP signup flow (SendOTP,
//     VerifyOTP, CompleteRegistration), UpdatePassword, EmailAvailable, Me
//     and Ping.
//  2. A concrete HTTP implementation (see HTTPClient) that targets the
//     /api/auth routes, transparently retries each call once against the
//     legacy /auth routes, tags requests with an X-Request-Id header and
//     maps response status codes to sentinel errors.
//  3. Local persistence bootstrap utilities (InitDatabase, RunMigrations)
//     for the CLI, wiring an SQLite database and applying embedded goose
//     migrations.
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors that callers can match
// with errors.Is: ErrUnavailable, ErrUnauthorized, ErrEmailTaken. Non-2xx
// responses are returned as *StatusError values that unwrap to the matching
// sentinel. When both the primary and the legacy route fail, the primary
// attempt's error is returned unchanged.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept
// context.Context and honor cancellation; no timeouts are imposed beyond
// what the caller configures.
//
// See Also
//
//   - Interface:  Client
//   - HTTP impl:  HTTPClient
//   - DB helpers: InitDatabase, RunMigrations
//   - Errors:     ErrUnavailable, ErrUnauthorized, ErrEmailTaken, StatusError
package client
