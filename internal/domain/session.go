package domain

import (
	"time"
)

// Role identifies the speaker of a transcript turn.
type Role string

const (
	// RoleUser is the customer side of the call.
	RoleUser Role = "user"
	// RoleModel is the collection agent.
	RoleModel Role = "model"
)

// Turn is one utterance in a transcript.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// SelectedCustomer pins a session to one directory row. Row and Name travel
// together so a session can never hold one without the other.
type SelectedCustomer struct {
	Row  int    `json:"row"`
	Name string `json:"name"`
}

// Session is the persisted conversation state for one browser session.
type Session struct {
	ID         string
	Customer   *SelectedCustomer
	Transcript []Turn
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// HasCustomer returns true if a customer has been looked up for this session.
func (s *Session) HasCustomer() bool {
	return s != nil && s.Customer != nil
}

// Select binds the session to a customer and starts an empty transcript.
func (s *Session) Select(row int, name string) {
	s.Customer = &SelectedCustomer{Row: row, Name: name}
	s.Transcript = []Turn{}
}
