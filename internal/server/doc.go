// Package server assembles the HTTP surface of the packing list API.
//
// NewRouter registers the routes on a standard ServeMux and wraps them in
// the global middleware chain:
//
//	RequestID -> Trace -> Logger -> Recovery -> CORS -> RateLimit -> Compress
//
// Packing list and refresh routes additionally require a bearer token, and
// creates honour an Idempotency-Key header.
//
// Start and Stop own the listener lifecycle. Stop drains HTTP first, then
// runs the hooks registered with Handle.OnStop in reverse order.
package server
