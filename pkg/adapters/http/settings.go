package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/aretw0/peek"
	"github.com/aretw0/peek/internal/logging"
	"github.com/aretw0/peek/pkg/domain"
	"github.com/aretw0/peek/pkg/ports"
	"github.com/go-chi/chi/v5"
)

// SettingsResponse is the body of GET and PUT /settings.
type SettingsResponse struct {
	Enabled bool `json:"enabled"`
}

// SettingsRequest is the body accepted by PUT /settings.
type SettingsRequest struct {
	Enabled *bool `json:"enabled"`
}

// Server serves the settings API.
type Server struct {
	Store   ports.SettingsStore
	Streams *StreamManager
	logger  *slog.Logger
}

// HandlerOption configures the settings handler.
type HandlerOption func(*Server)

// WithLogger sets the logger used for request failures.
func WithLogger(logger *slog.Logger) HandlerOption {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSettingsHandler creates the HTTP handler for the settings API:
//
//	GET  /settings         current flag
//	PUT  /settings         update the flag
//	GET  /settings/events  server-sent events on every change
//	GET  /health
//	GET  /info
func NewSettingsHandler(store ports.SettingsStore, opts ...HandlerOption) http.Handler {
	server := &Server{
		Store:   store,
		Streams: NewStreamManager(),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()
	r.Get("/settings", server.GetSettings)
	r.Put("/settings", server.PutSettings)
	r.Get("/settings/events", server.SubscribeEvents)
	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetSettings handles GET /settings.
func (s *Server) GetSettings(w http.ResponseWriter, r *http.Request) {
	enabled, err := s.Store.Enabled(r.Context())
	if err != nil {
		s.storeError(w, "read", err)
		return
	}
	s.writeJSON(w, SettingsResponse{Enabled: enabled})
}

// PutSettings handles PUT /settings.
func (s *Server) PutSettings(w http.ResponseWriter, r *http.Request) {
	var body SettingsRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<10)).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("PutSettings: invalid request body", "error", err)
		return
	}
	if body.Enabled == nil {
		http.Error(w, `Missing field "enabled"`, http.StatusBadRequest)
		return
	}

	if err := s.Store.SetEnabled(r.Context(), *body.Enabled); err != nil {
		s.storeError(w, "write", err)
		return
	}
	s.logger.Info("settings updated", "enabled", *body.Enabled)
	s.Streams.Broadcast(*body.Enabled)
	s.writeJSON(w, SettingsResponse{Enabled: *body.Enabled})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"app":     "peek-http",
		"version": peek.Version,
	})
}

func (s *Server) storeError(w http.ResponseWriter, op string, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, domain.ErrStoreUnavailable) {
		status = http.StatusServiceUnavailable
	}
	http.Error(w, fmt.Sprintf("Settings %s error: %v", op, err), status)
	s.logger.Error("settings store failed", "op", op, "error", err)
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}

// StreamManager fans settings changes out to SSE subscribers.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[chan<- bool]struct{}
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[chan<- bool]struct{}),
	}
}

// Subscribe registers a subscriber. The returned function unregisters it and
// closes the channel.
func (sm *StreamManager) Subscribe() (<-chan bool, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan bool, 10)
	sm.subscribers[ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			defer sm.mu.Unlock()
			delete(sm.subscribers, ch)
			close(ch)
		})
	}
}

// Broadcast sends the flag to every subscriber, dropping it for slow ones.
func (sm *StreamManager) Broadcast(enabled bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers {
		select {
		case ch <- enabled:
		default:
			slog.Warn("SSE: client buffer full, dropping settings event")
		}
	}
}

// Len returns the number of active subscribers.
func (sm *StreamManager) Len() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers)
}

// SubscribeEvents handles GET /settings/events (SSE). Changes made through the
// API are always reported; when the store implements ports.SettingsWatcher,
// changes made by other processes are reported too.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: streaming not supported")
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	ch, unsubscribe := s.Streams.Subscribe()
	defer unsubscribe()

	var external <-chan bool
	if watcher, ok := s.Store.(ports.SettingsWatcher); ok {
		events, err := watcher.Watch(ctx)
		if err != nil {
			s.logger.Warn("SubscribeEvents: store watch unavailable", "error", err)
		} else {
			external = events
		}
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	send := func(enabled bool) {
		payload, _ := json.Marshal(SettingsResponse{Enabled: enabled})
		fmt.Fprintf(w, "data: %s\n\n", payload)
		flusher.Flush()
	}

	for {
		select {
		case <-ctx.Done():
			return
		case enabled, ok := <-ch:
			if !ok {
				return
			}
			send(enabled)
		case enabled, ok := <-external:
			if !ok {
				external = nil
				continue
			}
			send(enabled)
		}
	}
}
