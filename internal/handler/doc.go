// Package handler provides the HTTP handlers of the PackList API.
//
// Handlers decode the request, call a service through a small interface and
// write JSON. Packing lists and tokens are written as bare JSON bodies; every
// error is an RFC 9457 problem document built by MapServiceError, except
// unmatched routes which answer {"message":"Not Found"}.
//
// Handlers that need the caller read it from the context populated by
// middleware.Auth.
package handler
