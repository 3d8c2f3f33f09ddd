// Package middleware provides the HTTP middleware of the PackList API.
//
// Server-wide, in chain order:
//
//   - RequestID: assigns or propagates X-Request-ID
//   - Trace: one OpenTelemetry server span per request
//   - Logger: one structured log line per request
//   - Recovery: turns panics into a 500 problem response
//   - CORS: allows the configured client origins
//   - RateLimit: per-client token buckets (golang.org/x/time/rate)
//   - Compress: gzip for clients that accept it
//
// Per route:
//
//   - Auth: requires a bearer token and puts the principal on the context
//   - Idempotency: replays POST responses for a repeated Idempotency-Key
//
// Handlers read the principal with GetUserID, GetUsername and GetUserEmail.
package middleware
