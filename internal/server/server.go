package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"
)

// Config holds HTTP server settings
type Config struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration // Default: 120s
	ShutdownTimeout time.Duration // Default: 30s
}

// Hook is a cleanup step run by Stop after HTTP has drained.
type Hook func(ctx context.Context) error

// Handle is a running server started by Start.
type Handle struct {
	srv             *http.Server
	ln              net.Listener
	errCh           chan error
	shutdownTimeout time.Duration

	mu    sync.Mutex
	hooks []namedHook
}

type namedHook struct {
	name string
	fn   Hook
}

// Start binds the listener and serves handler in the background. Bind
// errors are returned directly; later serve errors arrive on Err.
func Start(ctx context.Context, cfg Config, handler http.Handler) (*Handle, error) {
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = 120 * time.Second
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", ":"+cfg.Port)
	if err != nil {
		return nil, fmt.Errorf("listen on port %s: %w", cfg.Port, err)
	}

	h := &Handle{
		srv: &http.Server{
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		ln:              ln,
		errCh:           make(chan error, 1),
		shutdownTimeout: cfg.ShutdownTimeout,
	}

	go func() {
		defer close(h.errCh)
		if err := h.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			h.errCh <- err
		}
	}()

	slog.Info("server listening", slog.String("addr", h.Addr()))
	return h, nil
}

// Addr is the address the server is bound to.
func (h *Handle) Addr() string {
	return h.ln.Addr().String()
}

// Err reports a serve failure. It is closed once the server stops.
func (h *Handle) Err() <-chan error {
	return h.errCh
}

// OnStop registers a cleanup hook. Hooks run in reverse registration order.
func (h *Handle) OnStop(name string, fn Hook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hooks = append(h.hooks, namedHook{name: name, fn: fn})
}

// Stop gracefully shuts down HTTP and then runs every cleanup hook, newest
// first. All failures are returned joined.
func Stop(ctx context.Context, h *Handle) error {
	ctx, cancel := context.WithTimeout(ctx, h.shutdownTimeout)
	defer cancel()

	var errs []error
	if err := h.srv.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}

	h.mu.Lock()
	hooks := h.hooks
	h.hooks = nil
	h.mu.Unlock()

	for i := len(hooks) - 1; i >= 0; i-- {
		hook := hooks[i]
		if err := hook.fn(ctx); err != nil {
			slog.Error("shutdown hook failed",
				slog.String("hook", hook.name),
				slog.String("error", err.Error()),
			)
			errs = append(errs, fmt.Errorf("%s: %w", hook.name, err))
		}
	}

	slog.Info("server stopped")
	return errors.Join(errs...)
}
