package content

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/genai"
)

// ErrGenerationUnavailable wraps any failure of the generation service:
// network error, timeout, empty response, or a malformed payload. It is
// always recovered by the deterministic fallback, never propagated.
var ErrGenerationUnavailable = errors.New("generation service unavailable")

// TextGenerator is the outbound contract to the generative-text service.
// wantJSON asks the service to respond with a JSON document.
type TextGenerator interface {
	Generate(ctx context.Context, system, prompt string, temperature float32, wantJSON bool) (string, error)
}

// GeminiGenerator calls the Gemini API through the official client.
type GeminiGenerator struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGeminiGenerator creates a generator for the given model. An empty API
// key is rejected up front so a misconfigured run fails before processing.
func NewGeminiGenerator(ctx context.Context, apiKey, model string, timeout time.Duration) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	if timeout <= 0 {
		timeout = 45 * time.Second
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	return &GeminiGenerator{client: client, model: model, timeout: timeout}, nil
}

// Generate issues one completion request. A timeout is enforced per call so
// a stalled request degrades to a per-locality failure, not a hung run.
func (g *GeminiGenerator) Generate(ctx context.Context, system, prompt string, temperature float32, wantJSON bool) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		Temperature:       genai.Ptr[float32](temperature),
		MaxOutputTokens:   1024,
	}
	if wantJSON {
		cfg.ResponseMIMEType = "application/json"
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationUnavailable, err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("%w: empty response", ErrGenerationUnavailable)
	}

	return text, nil
}
