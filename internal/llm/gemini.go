package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ashureev/apex-collect/internal/config"
	"github.com/ashureev/apex-collect/internal/domain"
	"google.golang.org/genai"
)

// Gemini implements Generator with the Google GenAI SDK.
type Gemini struct {
	client *genai.Client
	model  string
	config *genai.GenerateContentConfig
	logger *slog.Logger
}

// Ensure interface compliance.
var _ Generator = (*Gemini)(nil)

// NewGemini creates a client once at startup. It fails when no API key is
// configured so callers can treat the model as unavailable.
func NewGemini(ctx context.Context, cfg config.GeminiConfig, logger *slog.Logger) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("GEMINI_API_KEY not set")
	}
	if logger == nil {
		logger = slog.Default()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("create GenAI client: %w", err)
	}

	return &Gemini{
		client: client,
		model:  cfg.Model,
		config: &genai.GenerateContentConfig{
			Temperature:     genai.Ptr(cfg.Temperature),
			TopP:            genai.Ptr(cfg.TopP),
			MaxOutputTokens: cfg.MaxOutputTokens,
		},
		logger: logger,
	}, nil
}

// Model returns the configured model name.
func (g *Gemini) Model() string {
	return g.model
}

// Generate sends the conversation and interprets the response.
func (g *Gemini) Generate(ctx context.Context, turns []domain.Turn) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("Gemini call panicked", "panic", r)
			result = Failed(fmt.Errorf("gemini call panicked: %v", r))
		}
	}()

	resp, err := g.client.Models.GenerateContent(ctx, g.model, toContents(turns), g.config)
	if err != nil {
		return Failed(fmt.Errorf("gemini generation failed: %w", err))
	}
	return interpret(resp)
}

func toContents(turns []domain.Turn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(turns))
	for _, t := range turns {
		role := genai.RoleUser
		if t.Role == domain.RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: t.Text}},
		})
	}
	return contents
}

// interpret maps a response onto a Result: text wins, then an explicit
// block, then empty.
func interpret(resp *genai.GenerateContentResponse) Result {
	if resp == nil {
		return Empty()
	}

	if text := strings.TrimSpace(resp.Text()); text != "" {
		return Text(text)
	}

	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" {
		return Blocked(string(fb.BlockReason))
	}

	if len(resp.Candidates) > 0 && resp.Candidates[0] != nil {
		switch reason := resp.Candidates[0].FinishReason; reason {
		case genai.FinishReasonSafety, genai.FinishReasonProhibitedContent, genai.FinishReasonBlocklist, genai.FinishReasonSPII:
			return Blocked(string(reason))
		}
	}

	return Empty()
}
