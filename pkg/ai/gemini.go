package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Gemini completes prompts with the Gemini API. JSON output is requested
// when JSON is set.
type Gemini struct {
	client *genai.Client
	model  string
	JSON   bool
}

// NewGemini creates a client for the Gemini API backend. baseURL is only set
// when pointing at a proxy or a test server.
func NewGemini(ctx context.Context, apiKey, model, baseURL string) (*Gemini, error) {
	cfg := &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Complete(ctx context.Context, prompt string) (string, error) {
	const provider = "gemini"
	temp := float32(0.2)
	cfg := &genai.GenerateContentConfig{Temperature: &temp}
	if g.JSON {
		cfg.ResponseMIMEType = "application/json"
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), cfg)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			ce := statusError(provider, apiErr.Code, err)
			if apiErr.Code == 0 {
				ce.Kind = grpcStatusKind(apiErr.Status)
			}
			return "", ce
		}
		return "", transportError(provider, err)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", &CompletionError{Kind: KindOther, Provider: provider, Err: ErrNoContent}
	}
	return text, nil
}

// grpcStatusKind maps the canonical status names Google APIs report.
func grpcStatusKind(status string) ErrorKind {
	switch status {
	case "UNAUTHENTICATED", "PERMISSION_DENIED":
		return KindUnauthorized
	case "RESOURCE_EXHAUSTED":
		return KindRateLimited
	case "UNAVAILABLE", "DEADLINE_EXCEEDED":
		return KindNetwork
	default:
		return KindOther
	}
}
