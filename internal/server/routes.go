package server

import (
	"net/http"

	"github.com/forgo/packlist/internal/handler"
	"github.com/forgo/packlist/internal/middleware"
)

// Deps are the collaborators the router wires into handlers and middleware.
type Deps struct {
	PackLists      handler.PackListService
	Auth           handler.AuthService
	Tokens         middleware.AuthService
	DB             handler.Pinger
	AllowedOrigins []string

	// RateLimiter and Idempotency are optional; nil disables them.
	RateLimiter *middleware.RateLimiter
	Idempotency *middleware.IdempotencyStore
}

// NewRouter registers every route and wraps the mux in the global
// middleware chain.
func NewRouter(d Deps) http.Handler {
	packListHandler := handler.NewPackListHandler(d.PackLists)
	authHandler := handler.NewAuthHandler(d.Auth)
	healthHandler := handler.NewHealthHandler(d.DB)

	authMiddleware := middleware.Auth(d.Tokens)
	protected := func(h http.HandlerFunc) http.Handler {
		return authMiddleware(h)
	}

	create := http.Handler(http.HandlerFunc(packListHandler.Create))
	if d.Idempotency != nil {
		create = middleware.Idempotency(d.Idempotency)(create)
	}
	create = authMiddleware(create)

	mux := http.NewServeMux()

	// Health
	mux.HandleFunc("GET /health", healthHandler.Health)

	// Accounts
	mux.HandleFunc("POST /api/users", authHandler.Register)
	mux.HandleFunc("POST /auth/login", authHandler.Login)
	mux.Handle("POST /auth/refresh", protected(authHandler.Refresh))

	// Packing lists
	mux.Handle("POST /api/packList", create)
	mux.Handle("POST /api/packList/{$}", create)
	mux.Handle("GET /api/packList/db/{username}", protected(packListHandler.ListByOwner))
	mux.Handle("GET /api/packList/{id}", protected(packListHandler.Get))
	mux.Handle("PUT /api/packList/{id}", protected(packListHandler.Update))
	mux.Handle("DELETE /api/packList/{id}", protected(packListHandler.Delete))

	// Anything else under the collection, and any other path, is not found.
	mux.HandleFunc("/api/packList", handler.WriteRouteNotFound)
	mux.HandleFunc("/api/packList/", handler.WriteRouteNotFound)
	mux.HandleFunc("/", handler.WriteRouteNotFound)

	chain := []middleware.Middleware{
		middleware.RequestID,
		middleware.Trace,
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(d.AllowedOrigins),
	}
	if d.RateLimiter != nil {
		chain = append(chain, middleware.RateLimit(d.RateLimiter))
	}
	chain = append(chain, middleware.Compress)

	return middleware.Chain(mux, chain...)
}
