// Package genai implements the generation backend over Google's Gemini
// API. It asks the model for JSON and decodes the result into the design
// output shape.
package genai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	genai "google.golang.org/genai"

	"github.com/uxforge/maestro/pkg/domain"
	"github.com/uxforge/maestro/pkg/ports"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.0-flash"

// ErrEmptyResponse is returned when the model produces no candidates.
var ErrEmptyResponse = errors.New("backend returned no candidates")

// Backend implements ports.GenerationBackend via the official genai client.
// Cross-cutting concerns (timeouts, cancellation, retry policy) belong to
// the session manager; this type only performs the call.
type Backend struct {
	cli   *genai.Client
	model string
}

// Option configures the Backend.
type Option func(*Backend)

// WithModel overrides the model name.
func WithModel(model string) Option {
	return func(b *Backend) {
		if model != "" {
			b.model = model
		}
	}
}

// New creates a Gemini backend. The client reads its API key from the
// GEMINI_API_KEY environment variable.
func New(ctx context.Context, opts ...Option) (*Backend, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	b := &Backend{cli: cli, model: DefaultModel}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// designResponse is the JSON shape the prompt asks the model for.
type designResponse struct {
	Markup string `json:"markup"`
	Style  string `json:"style"`
	Script string `json:"script"`
	Notes  string `json:"notes"`
}

// ExecuteDesign renders the request into a prompt, asks for
// application/json, and decodes the model's output.
func (b *Backend) ExecuteDesign(ctx context.Context, req ports.DesignRequest) (*domain.DesignOutput, error) {
	prompt, err := buildPrompt(req)
	if err != nil {
		return nil, err
	}

	resp, err := b.cli.Models.GenerateContent(ctx, b.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
	)
	if err != nil {
		return nil, err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, ErrEmptyResponse
	}

	var out designResponse
	text := resp.Candidates[0].Content.Parts[0].Text
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil, fmt.Errorf("backend returned malformed JSON: %w", err)
	}

	return &domain.DesignOutput{
		Markup: out.Markup,
		Style:  out.Style,
		Script: out.Script,
		Notes:  out.Notes,
	}, nil
}

func buildPrompt(req ports.DesignRequest) (string, error) {
	params, err := json.MarshalIndent(req.Parameters, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode parameters: %w", err)
	}

	prompt := fmt.Sprintf(`You are a frontend design generator.
Mode: %s
Quality target: %s
Parameters:
%s

Respond with a JSON object with keys "markup", "style", "script" and "notes".
"markup" is a complete HTML fragment, "style" its CSS, "script" any needed
JavaScript (empty string if none), and "notes" a short explanation of the
design choices.`, req.Mode, req.QualityTarget, params)

	if req.UseTrifecta {
		prompt += "\nProduce three stylistic variants inside the markup, clearly separated by comments."
	}
	if req.PreviousOutput != "" {
		prompt += "\n\n[PREVIOUS OUTPUT]\n" + req.PreviousOutput
	}
	if req.ReferenceImage != "" {
		prompt += "\n\n[REFERENCE IMAGE PATH]\n" + req.ReferenceImage
	}
	return prompt, nil
}
