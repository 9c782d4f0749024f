package agent

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ashureev/apex-collect/internal/api"
	"github.com/ashureev/apex-collect/internal/identity"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

const defaultMaxRequestBodySize = 64 << 10

// Handler serves the lookup and chat endpoints.
type Handler struct {
	svc         *Service
	maxBodySize int64
}

// NewHandler creates a new agent handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc, maxBodySize: defaultMaxRequestBodySize}
}

// RegisterRoutes registers the conversation routes. The identity middleware
// must run before them.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/find_customer", h.HandleFindCustomer)
	r.Post("/chat", h.HandleChat)
}

// HandleFindCustomer binds the session to the named customer.
func (h *Handler) HandleFindCustomer(w http.ResponseWriter, r *http.Request) {
	sessionID := identity.SessionIDFromContext(r.Context())

	// An unreadable body is treated as a blank name.
	var req FindCustomerRequest
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Invalid find_customer body", "session_id", sessionID, "error", err)
		req = FindCustomerRequest{}
	}

	slog.Info("Customer lookup request",
		"session_id", sessionID,
		"request_id", chiMiddleware.GetReqID(r.Context()),
		"remote_ip", identity.IPFromRequest(r),
	)

	result, err := h.svc.FindCustomer(r.Context(), sessionID, req.CustomerName)
	if err != nil {
		slog.Error("Customer lookup failed", "session_id", sessionID, "error", err)
		api.Error(w, http.StatusInternalServerError, "failed to update session")
		return
	}

	switch result.Status {
	case LookupDataUnavailable:
		api.JSON(w, http.StatusInternalServerError, FindCustomerResponse{Response: result.Message})
	case LookupNameRequired:
		api.JSON(w, http.StatusBadRequest, FindCustomerResponse{Response: result.Message})
	default:
		found := result.Status == LookupFound
		api.JSON(w, http.StatusOK, FindCustomerResponse{Response: result.Message, CustomerFound: &found})
	}
}

// HandleChat runs one conversation turn. Every outcome other than a missing
// dataset is a conversational 200 reply.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	sessionID := identity.SessionIDFromContext(r.Context())

	// An unreadable body is treated as empty input.
	var req ChatRequest
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Invalid chat body", "session_id", sessionID, "error", err)
		req = ChatRequest{}
	}

	slog.Info("Chat request",
		"session_id", sessionID,
		"request_id", chiMiddleware.GetReqID(r.Context()),
		"message_length", len(req.Text),
	)

	result := h.svc.Chat(r.Context(), sessionID, req.Text)

	status := http.StatusOK
	if result.Status == TurnDataUnavailable {
		status = http.StatusInternalServerError
	}
	api.JSON(w, status, ChatResponse{Response: result.Reply})
}
