package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/forgo/packlist/internal/model"
)

// maxIdempotentBodyBytes caps the body buffered for fingerprinting. It
// matches the limit the handlers decode with.
const maxIdempotentBodyBytes = 1 << 20

// transportHeaders describe how Compress encoded the first response, not the
// recorded body, so they are never replayed.
var transportHeaders = []string{"Content-Encoding", "Content-Length", "Vary"}

// IdempotencyStore remembers responses to POST requests that carried an
// Idempotency-Key header, so a retried create does not store a second
// packing list.
type IdempotencyStore struct {
	mu       sync.Mutex
	entries  map[string]*idempotencyEntry
	ttl      time.Duration
	stopOnce sync.Once
	stopChan chan struct{}
}

type idempotencyEntry struct {
	status    int
	headers   http.Header
	body      []byte
	expiresAt time.Time
	inFlight  bool
	done      chan struct{}
}

// IdempotencyConfig holds configuration for idempotency middleware
type IdempotencyConfig struct {
	TTL     time.Duration // How long to keep idempotency results (default 24h)
	Cleanup time.Duration // Cleanup interval (default 1h)
}

// NewIdempotencyStore creates a new idempotency store
func NewIdempotencyStore(cfg IdempotencyConfig) *IdempotencyStore {
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	if cfg.Cleanup <= 0 {
		cfg.Cleanup = time.Hour
	}

	store := &IdempotencyStore{
		entries:  make(map[string]*idempotencyEntry),
		ttl:      cfg.TTL,
		stopChan: make(chan struct{}),
	}

	go store.cleanupLoop(cfg.Cleanup)

	return store
}

// Stop stops the cleanup goroutine. It is safe to call more than once.
func (s *IdempotencyStore) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
}

func (s *IdempotencyStore) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopChan:
			return
		}
	}
}

func (s *IdempotencyStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for key, entry := range s.entries {
		if !entry.inFlight && entry.expiresAt.Before(now) {
			delete(s.entries, key)
		}
	}
}

// claim returns a finished entry to replay, or nil after registering the
// caller as the one in flight for key. Concurrent duplicates wait for the
// first request to finish.
func (s *IdempotencyStore) claim(key string) (replay *idempotencyEntry, own *idempotencyEntry) {
	for {
		s.mu.Lock()
		entry, ok := s.entries[key]
		switch {
		case !ok || (!entry.inFlight && entry.expiresAt.Before(time.Now())):
			own = &idempotencyEntry{inFlight: true, done: make(chan struct{})}
			s.entries[key] = own
			s.mu.Unlock()
			return nil, own
		case entry.inFlight:
			s.mu.Unlock()
			<-entry.done
		default:
			s.mu.Unlock()
			return entry, nil
		}
	}
}

// finish records the response for key. Server errors are forgotten so the
// client can retry.
func (s *IdempotencyStore) finish(key string, entry *idempotencyEntry, rec *idempotencyResponseWriter) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.status >= http.StatusInternalServerError {
		delete(s.entries, key)
	} else {
		entry.status = rec.status
		entry.headers = rec.Header().Clone()
		for _, h := range transportHeaders {
			entry.headers.Del(h)
		}
		entry.body = rec.body.Bytes()
		entry.expiresAt = time.Now().Add(s.ttl)
	}
	entry.inFlight = false
	close(entry.done)
}

// generateKey creates a unique key from caller, idempotency key, and request fingerprint
func generateKey(caller, idempotencyKey, method, path string, body []byte) string {
	h := sha256.New()
	for _, part := range []string{caller, idempotencyKey, method, path} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

// idempotencyResponseWriter captures the response for caching
type idempotencyResponseWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (w *idempotencyResponseWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *idempotencyResponseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency returns middleware that replays responses for POST requests
// repeating an Idempotency-Key. It must run after Auth so keys are scoped
// to the caller.
func Idempotency(store *IdempotencyStore) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			idempotencyKey := r.Header.Get("Idempotency-Key")
			if r.Method != http.MethodPost || idempotencyKey == "" {
				next.ServeHTTP(w, r)
				return
			}

			caller := GetUserID(r.Context())
			if caller == "" {
				caller = clientIP(r)
			}

			body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxIdempotentBodyBytes))
			if err != nil {
				var maxErr *http.MaxBytesError
				if errors.As(err, &maxErr) {
					model.NewRequestTooLargeError().WriteJSON(w)
					return
				}
				model.NewBadRequestError("could not read request body").WriteJSON(w)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			key := generateKey(caller, idempotencyKey, r.Method, r.URL.Path, body)

			replay, own := store.claim(key)
			if replay != nil {
				for k, v := range replay.headers {
					if k == "X-Request-Id" {
						continue
					}
					w.Header()[k] = append([]string(nil), v...)
				}
				w.Header().Set("X-Idempotent-Replayed", "true")
				w.WriteHeader(replay.status)
				_, _ = w.Write(replay.body)
				return
			}

			irw := &idempotencyResponseWriter{ResponseWriter: w, status: http.StatusOK}
			completed := false
			defer func() {
				if !completed {
					irw.status = http.StatusInternalServerError
				}
				store.finish(key, own, irw)
			}()

			next.ServeHTTP(irw, r)
			completed = true
		})
	}
}
