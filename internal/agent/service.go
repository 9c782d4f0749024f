package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ashureev/apex-collect/internal/directory"
	"github.com/ashureev/apex-collect/internal/domain"
	"github.com/ashureev/apex-collect/internal/llm"
	"github.com/ashureev/apex-collect/internal/prompt"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// Deps are the collaborators of a Service. Directory and Generator may be
// nil: each entry point then reports the missing dependency instead of
// failing.
type Deps struct {
	Directory CustomerDirectory
	Generator llm.Generator
	Sessions  SessionStore
	Log       ConversationLogger
	Logger    *slog.Logger
}

// Service runs customer lookups and conversation turns.
type Service struct {
	dir      CustomerDirectory
	gen      llm.Generator
	sessions SessionStore
	log      ConversationLogger
	logger   *slog.Logger
}

// NewService creates a new agent service.
func NewService(deps Deps) (*Service, error) {
	if deps.Sessions == nil {
		return nil, errors.New("agent: session store is required")
	}
	if deps.Log == nil {
		deps.Log = noopConversationLogger{}
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Service{
		dir:      deps.Directory,
		gen:      deps.Generator,
		sessions: deps.Sessions,
		log:      deps.Log,
		logger:   deps.Logger,
	}, nil
}

// DataLoaded reports whether the customer directory is available.
func (s *Service) DataLoaded() bool { return s.dir != nil }

// Customers returns the number of loaded customer records.
func (s *Service) Customers() int {
	if s.dir == nil {
		return 0
	}
	return s.dir.Len()
}

// AIEnabled reports whether a language model is configured.
func (s *Service) AIEnabled() bool { return s.gen != nil }

// ResetSession drops all state of a session.
func (s *Service) ResetSession(ctx context.Context, sessionID string) error {
	if err := s.sessions.DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("reset session: %w", err)
	}
	return nil
}

// FindCustomer resolves name and, on a match, rebinds the session to that
// customer with an empty transcript. A miss clears the session. The error is
// non-nil only when session state could not be written.
func (s *Service) FindCustomer(ctx context.Context, sessionID, name string) (LookupResult, error) {
	logger := s.logger.With("session_id", sessionID)

	if s.dir == nil {
		logger.Error("Customer lookup without loaded dataset")
		return LookupResult{Status: LookupDataUnavailable, Message: prompt.MsgLookupDataError}, nil
	}

	if strings.TrimSpace(name) == "" {
		logger.Warn("Customer lookup with empty name")
		return LookupResult{Status: LookupNameRequired, Message: prompt.MsgNameRequired}, nil
	}

	customer, err := s.dir.Lookup(name)
	if errors.Is(err, directory.ErrNotFound) {
		logger.Warn("Customer not found", "requested_name", name)
		if err := s.sessions.DeleteSession(ctx, sessionID); err != nil {
			return LookupResult{}, fmt.Errorf("clear session after miss: %w", err)
		}
		return LookupResult{Status: LookupNotFound, Message: prompt.CustomerNotFound(name)}, nil
	}
	if err != nil {
		return LookupResult{}, fmt.Errorf("lookup customer: %w", err)
	}

	session := &domain.Session{ID: sessionID}
	session.Select(customer.Row, customer.Name)
	if err := s.sessions.UpsertSession(ctx, session); err != nil {
		return LookupResult{}, fmt.Errorf("store selected customer: %w", err)
	}

	logger.Info("Customer found", "customer_row", customer.Row, "customer_name", customer.Name)
	s.log.Log(ConversationLogEvent{
		SessionID: sessionID,
		EventType: EventCustomerSelected,
		Content:   customer.Name,
		Meta: map[string]any{
			"customer_row": customer.Row,
			"request_id":   chiMiddleware.GetReqID(ctx),
		},
	})

	return LookupResult{Status: LookupFound, Message: prompt.CustomerFound(customer.Name), Customer: customer}, nil
}

// Chat runs one conversation turn. It never returns model or transport
// failures: those become a conversational reply that is still appended to
// the transcript.
func (s *Service) Chat(ctx context.Context, sessionID, text string) TurnResult {
	logger := s.logger.With("session_id", sessionID)

	if s.dir == nil {
		logger.Error("Chat without loaded dataset")
		return TurnResult{Status: TurnDataUnavailable, Reply: prompt.MsgChatDataError}
	}

	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		logger.Error("Failed to load session state", "error", err)
		session = nil
	}
	if !session.HasCustomer() {
		logger.Warn("Chat without a selected customer")
		return TurnResult{Status: TurnSessionLost, Reply: prompt.MsgSessionLost}
	}
	logger = logger.With("customer_row", session.Customer.Row, "customer_name", session.Customer.Name)

	customer, ok := s.dir.Get(session.Customer.Row)
	if !ok {
		logger.Error("Stored customer row no longer resolves")
		if err := s.sessions.DeleteSession(context.WithoutCancel(ctx), sessionID); err != nil {
			logger.Error("Failed to clear stale session", "error", err)
		}
		return TurnResult{Status: TurnStaleCustomer, Reply: prompt.MsgStaleCustomer}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		logger.Warn("Empty chat input, skipping generation")
		return TurnResult{Status: TurnEmptyInput, Reply: prompt.MsgEmptyInput}
	}

	if s.gen == nil {
		logger.Error("Language model is not initialized")
		return TurnResult{Status: TurnAIUnavailable, Reply: prompt.MsgAIUnavailable}
	}

	userTurn := domain.Turn{Role: domain.RoleUser, Text: text}
	s.log.Log(ConversationLogEvent{
		SessionID:  sessionID,
		Direction:  "inbound",
		EventType:  EventUserMessage,
		ContentRaw: text,
		Meta:       map[string]any{"request_id": chiMiddleware.GetReqID(ctx)},
	})

	outbound := buildPrompt(customer, session.Transcript, userTurn)
	working := make([]domain.Turn, 0, len(session.Transcript)+2)
	working = append(working, session.Transcript...)
	working = append(working, userTurn)

	started := time.Now()
	result := s.gen.Generate(ctx, outbound)
	reply := s.replyFor(result, session.Customer.Row)
	logger.Info("Model turn completed",
		"outcome", result.Outcome.String(),
		"duration_ms", time.Since(started).Milliseconds(),
		"transcript_len", len(working)+1,
	)
	if result.Outcome == llm.OutcomeFailed {
		logger.Error("Model call failed, using fallback reply", "error", result.Err)
	}

	working = append(working, domain.Turn{Role: domain.RoleModel, Text: reply})
	session.Transcript = working
	if err := s.sessions.UpsertSession(context.WithoutCancel(ctx), session); err != nil {
		logger.Error("Failed to persist transcript", "error", err)
	}

	s.log.Log(ConversationLogEvent{
		SessionID:  sessionID,
		Direction:  "outbound",
		EventType:  EventModelMessage,
		ContentRaw: reply,
		Meta: map[string]any{
			"outcome":    result.Outcome.String(),
			"request_id": chiMiddleware.GetReqID(ctx),
		},
	})

	return TurnResult{Status: TurnReplied, Reply: reply, Outcome: result.Outcome}
}

// buildPrompt assembles what the model sees: the instructions and the live
// customer file as a leading user turn, then the stored transcript, then the
// new user turn. The leading turn is never stored.
func buildPrompt(customer domain.Customer, transcript []domain.Turn, next domain.Turn) []domain.Turn {
	turns := make([]domain.Turn, 0, len(transcript)+2)
	turns = append(turns, domain.Turn{Role: domain.RoleUser, Text: prompt.Preamble(customer)})
	turns = append(turns, transcript...)
	return append(turns, next)
}

func (s *Service) replyFor(result llm.Result, rowKey int) string {
	switch result.Outcome {
	case llm.OutcomeText:
		return result.Text
	case llm.OutcomeBlocked:
		return prompt.Blocked(result.BlockReason)
	case llm.OutcomeEmpty:
		return prompt.MsgEmptyGeneration
	default:
		var amount *float64
		if customer, ok := s.dir.Get(rowKey); ok {
			amount = &customer.CurrentLoanAmount
		}
		return prompt.Fallback(amount)
	}
}
