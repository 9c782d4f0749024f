// Package agent implements the simulated collection call: customer lookup
// and the per-turn conversation with the language model.
package agent

import (
	"context"

	"github.com/ashureev/apex-collect/internal/domain"
	"github.com/ashureev/apex-collect/internal/llm"
)

// FindCustomerRequest is the body of POST /find_customer.
type FindCustomerRequest struct {
	CustomerName string `json:"customer_name"`
}

// FindCustomerResponse is the reply to POST /find_customer. CustomerFound is
// omitted on request errors.
type FindCustomerResponse struct {
	Response      string `json:"response"`
	CustomerFound *bool  `json:"customer_found,omitempty"`
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Text string `json:"text"`
}

// ChatResponse is the reply to POST /chat.
type ChatResponse struct {
	Response string `json:"response"`
}

// CustomerDirectory resolves customers by name and by row key.
type CustomerDirectory interface {
	Lookup(name string) (domain.Customer, error)
	Get(rowKey int) (domain.Customer, bool)
	Len() int
}

// SessionStore is the per-session conversation state the service reads once
// at request start and writes once at request end.
type SessionStore interface {
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)
	UpsertSession(ctx context.Context, session *domain.Session) error
	DeleteSession(ctx context.Context, sessionID string) error
}

// LookupStatus classifies a lookup.
type LookupStatus int

const (
	LookupFound LookupStatus = iota
	LookupNotFound
	LookupNameRequired
	LookupDataUnavailable
)

// LookupResult is the outcome of FindCustomer.
type LookupResult struct {
	Status   LookupStatus
	Message  string
	Customer domain.Customer
}

// TurnStatus classifies a chat turn.
type TurnStatus int

const (
	// TurnReplied means the transcript grew by a user turn and a model turn.
	TurnReplied TurnStatus = iota
	TurnDataUnavailable
	TurnSessionLost
	TurnStaleCustomer
	TurnEmptyInput
	TurnAIUnavailable
)

// TurnResult is the outcome of Chat.
type TurnResult struct {
	Status  TurnStatus
	Reply   string
	Outcome llm.Outcome // meaningful only for TurnReplied
}
