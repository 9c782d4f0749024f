package llm

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/ashureev/apex-collect/internal/config"
	"github.com/ashureev/apex-collect/internal/domain"
	"google.golang.org/genai"
)

func candidate(text string, finish genai.FinishReason) *genai.Candidate {
	c := &genai.Candidate{FinishReason: finish}
	if text != "" {
		c.Content = &genai.Content{Role: genai.RoleModel, Parts: []*genai.Part{{Text: text}}}
	}
	return c
}

func TestInterpret(t *testing.T) {
	tests := []struct {
		name       string
		resp       *genai.GenerateContentResponse
		want       Outcome
		wantText   string
		wantReason string
	}{
		{
			name:     "text is trimmed",
			resp:     &genai.GenerateContentResponse{Candidates: []*genai.Candidate{candidate("  Hello Jane.\n", genai.FinishReasonStop)}},
			want:     OutcomeText,
			wantText: "Hello Jane.",
		},
		{
			name: "prompt blocked",
			resp: &genai.GenerateContentResponse{
				PromptFeedback: &genai.GenerateContentResponsePromptFeedback{BlockReason: genai.BlockedReasonSafety},
			},
			want:       OutcomeBlocked,
			wantReason: string(genai.BlockedReasonSafety),
		},
		{
			name:       "candidate stopped for safety",
			resp:       &genai.GenerateContentResponse{Candidates: []*genai.Candidate{candidate("", genai.FinishReasonSafety)}},
			want:       OutcomeBlocked,
			wantReason: string(genai.FinishReasonSafety),
		},
		{
			name: "whitespace only",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{candidate("   ", genai.FinishReasonStop)}},
			want: OutcomeEmpty,
		},
		{
			name: "no candidates",
			resp: &genai.GenerateContentResponse{},
			want: OutcomeEmpty,
		},
		{
			name: "nil response",
			resp: nil,
			want: OutcomeEmpty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := interpret(tt.resp)
			if got.Outcome != tt.want {
				t.Fatalf("expected outcome %v, got %v", tt.want, got.Outcome)
			}
			if got.Text != tt.wantText {
				t.Errorf("expected text %q, got %q", tt.wantText, got.Text)
			}
			if got.BlockReason != tt.wantReason {
				t.Errorf("expected reason %q, got %q", tt.wantReason, got.BlockReason)
			}
		})
	}
}

func TestToContentsPreservesOrderAndRoles(t *testing.T) {
	turns := []domain.Turn{
		{Role: domain.RoleUser, Text: "instructions"},
		{Role: domain.RoleUser, Text: "hello"},
		{Role: domain.RoleModel, Text: "Hi Jane"},
		{Role: domain.RoleUser, Text: "I lost my job"},
	}
	contents := toContents(turns)
	if len(contents) != len(turns) {
		t.Fatalf("expected %d contents, got %d", len(turns), len(contents))
	}
	for i, c := range contents {
		if c.Role != string(turns[i].Role) {
			t.Errorf("content %d role = %q, want %q", i, c.Role, turns[i].Role)
		}
		if c.Parts[0].Text != turns[i].Text {
			t.Errorf("content %d text = %q, want %q", i, c.Parts[0].Text, turns[i].Text)
		}
	}
}

func TestNewGeminiRequiresKey(t *testing.T) {
	if _, err := NewGemini(context.Background(), config.GeminiConfig{Model: "gemini-2.0-flash"}, nil); err == nil {
		t.Fatal("expected error without API key")
	}
}

func TestOutcomeConstructors(t *testing.T) {
	boom := errors.New("boom")
	if r := Failed(boom); r.Outcome != OutcomeFailed || !errors.Is(r.Err, boom) {
		t.Errorf("unexpected failed result: %+v", r)
	}
	if OutcomeBlocked.String() != "blocked" {
		t.Errorf("unexpected outcome name %q", OutcomeBlocked.String())
	}
}

func newTestGemini(t *testing.T, handler http.HandlerFunc) *Gemini {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	g, err := NewGemini(context.Background(), config.GeminiConfig{
		APIKey:          "test-key",
		Model:           "gemini-test-model",
		BaseURL:         srv.URL,
		Temperature:     1.0,
		TopP:            1.0,
		MaxOutputTokens: 500,
	}, slog.Default())
	if err != nil {
		t.Fatalf("NewGemini failed: %v", err)
	}
	return g
}

var testTurns = []domain.Turn{
	{Role: domain.RoleUser, Text: "preamble"},
	{Role: domain.RoleUser, Text: "I can pay next week"},
}

func TestGenerateServerErrorIsFailed(t *testing.T) {
	var hits atomic.Int32
	g := newTestGemini(t, func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":{"code":500,"message":"backend unavailable","status":"INTERNAL"}}`)
	})

	result := g.Generate(context.Background(), testTurns)
	if result.Outcome != OutcomeFailed || result.Err == nil {
		t.Fatalf("expected failed outcome with error, got %+v", result)
	}
	if hits.Load() == 0 {
		t.Fatal("expected the model endpoint to be called")
	}
}

func TestGenerateSendsConversation(t *testing.T) {
	var path, body string
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		path, body = r.URL.Path, string(raw)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"  Hello, this is Apex.  "}]},"finishReason":"STOP"}]}`)
	})

	result := g.Generate(context.Background(), testTurns)
	if result.Outcome != OutcomeText || result.Text != "Hello, this is Apex." {
		t.Fatalf("unexpected result %+v", result)
	}
	if !strings.Contains(path, "gemini-test-model:generateContent") {
		t.Errorf("unexpected request path %q", path)
	}
	if !strings.Contains(body, "I can pay next week") || !strings.Contains(body, `"maxOutputTokens":500`) {
		t.Errorf("request body missing conversation or settings: %s", body)
	}
}

func TestGenerateRecoversPanic(t *testing.T) {
	g := &Gemini{model: "gemini-test-model", logger: slog.Default()}

	result := g.Generate(context.Background(), testTurns)
	if result.Outcome != OutcomeFailed || result.Err == nil {
		t.Fatalf("expected panic to become a failed outcome, got %+v", result)
	}
}
