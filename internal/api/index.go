package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ashureev/apex-collect/internal/identity"
)

// SessionResetter drops the state of a session.
type SessionResetter interface {
	ResetSession(ctx context.Context, sessionID string) error
}

// IndexHandler serves the chat UI. Every page load starts a new session:
// the previous session's state is dropped and a fresh cookie is issued.
type IndexHandler struct {
	signer   *identity.Signer
	sessions SessionResetter
	static   http.Handler
}

// NewIndexHandler creates a new index handler serving static for GET /.
func NewIndexHandler(signer *identity.Signer, sessions SessionResetter, static http.Handler) *IndexHandler {
	return &IndexHandler{signer: signer, sessions: sessions, static: static}
}

// ServeHTTP resets the caller's session and serves the UI.
func (h *IndexHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if previous, ok := h.signer.SessionIDFromRequest(r); ok {
		if err := h.sessions.ResetSession(r.Context(), previous); err != nil {
			slog.Warn("Failed to reset previous session", "session_id", previous, "error", err)
		}
	}

	sessionID := h.signer.Issue(w)
	w.Header().Set("Cache-Control", "no-store")
	slog.Debug("New session started", "session_id", sessionID, "remote_ip", identity.IPFromRequest(r))

	h.static.ServeHTTP(w, r)
}
