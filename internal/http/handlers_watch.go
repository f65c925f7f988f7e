package httpx

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	domainauth "github.com/zoohub/zookeeper-hub/internal/domain/auth"
)

// AuthStateWatcher is the subset of the auth state store the SSE endpoint
// needs. Each connection gets its own watcher so a slow client never
// blocks another.
type AuthStateWatcher interface {
	Initialize()
	State() domainauth.AuthState
	Watch() (<-chan domainauth.AuthState, func())
	Teardown()
}

// WatchHandlers streams auth state changes to the browser over SSE so open
// tabs react to sign-ins and sign-outs without polling. Each stream is
// scoped to the session named by the caller's cookie; a request without a
// session cookie has nothing to watch and is rejected.
type WatchHandlers struct {
	NewWatcher func(sessionID string) (AuthStateWatcher, error)
	Logger     *slog.Logger
}

const watchHeartbeat = 30 * time.Second

// Watch streams auth state snapshots for the caller's session.
// GET /auth/watch.
func (h *WatchHandlers) Watch(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	watcher, err := h.NewWatcher(cookie.Value)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "auth watch setup failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	watcher.Initialize()
	defer watcher.Teardown()

	updates, cancel := watcher.Watch()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// The stream outlives the server's write timeout; lift the deadline
	// for this response only. Not every ResponseWriter supports
	// deadlines, so failure here is non-fatal.
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
		h.logger().DebugContext(r.Context(), "auth watch write deadline not cleared", "error", err)
	}

	h.writeEvent(w, watcher.State())
	flusher.Flush()

	heartbeat := time.NewTicker(watchHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case state, open := <-updates:
			if !open {
				return
			}
			h.writeEvent(w, state)
			flusher.Flush()
		case <-heartbeat.C:
			if _, err := w.Write([]byte(": ping\n\n")); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

type authStateEvent struct {
	Authenticated bool            `json:"authenticated"`
	Resolving     bool            `json:"resolving"`
	Role          domainauth.Role `json:"role,omitempty"`
	Email         string          `json:"email,omitempty"`
}

func (h *WatchHandlers) writeEvent(w http.ResponseWriter, state domainauth.AuthState) {
	ev := authStateEvent{
		Authenticated: state.Session != nil,
		Resolving:     state.Resolving,
		Role:          state.Role,
	}
	if state.Session != nil {
		ev.Email = state.Session.Email
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}
	w.Write([]byte("event: auth\ndata: "))   //nolint:errcheck // stream write
	w.Write(payload)                         //nolint:errcheck // stream write
	w.Write([]byte("\n\n"))                  //nolint:errcheck // stream write
}

func (h *WatchHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}
