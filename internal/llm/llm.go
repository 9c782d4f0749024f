// Package llm wraps the language model behind a single call that never
// fails: every outcome, including transport errors, comes back as a Result.
package llm

import (
	"context"

	"github.com/ashureev/apex-collect/internal/domain"
)

// Outcome classifies a generation attempt.
type Outcome int

const (
	// OutcomeText means the model produced a non-empty reply.
	OutcomeText Outcome = iota
	// OutcomeBlocked means the prompt or reply was refused by content policy.
	OutcomeBlocked
	// OutcomeEmpty means the call succeeded but carried no usable text.
	OutcomeEmpty
	// OutcomeFailed means the call itself failed (network, API, malformed response).
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeText:
		return "text"
	case OutcomeBlocked:
		return "blocked"
	case OutcomeEmpty:
		return "empty"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the interpreted outcome of one generation.
type Result struct {
	Outcome     Outcome
	Text        string // trimmed reply, set for OutcomeText
	BlockReason string // set for OutcomeBlocked
	Err         error  // set for OutcomeFailed
}

// Text returns a successful result.
func Text(s string) Result { return Result{Outcome: OutcomeText, Text: s} }

// Blocked returns a content-policy refusal.
func Blocked(reason string) Result { return Result{Outcome: OutcomeBlocked, BlockReason: reason} }

// Empty returns a result with no usable text.
func Empty() Result { return Result{Outcome: OutcomeEmpty} }

// Failed wraps a call failure.
func Failed(err error) Result { return Result{Outcome: OutcomeFailed, Err: err} }

// Generator produces the next model turn for an ordered conversation.
type Generator interface {
	Generate(ctx context.Context, turns []domain.Turn) Result
}
