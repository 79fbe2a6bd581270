package ai

import (
	"context"
	"fmt"
	"time"
)

// Config selects and configures one provider.
type Config struct {
	Provider      string
	OpenAIKey     string
	OpenAIModel   string
	OpenAIBaseURL string
	GeminiKey     string
	GeminiModel   string
	GeminiBaseURL string
	ServiceURL    string
	Timeout       time.Duration
	// JSON asks openai and gemini for a JSON object response. Structuring
	// sets it; the legacy plain-text rewrite must not.
	JSON bool
}

// ResolveProvider returns the provider name New will use. An empty name
// means openai when an OpenAI key is configured and mock otherwise.
func (c Config) ResolveProvider() string {
	if c.Provider != "" {
		return c.Provider
	}
	if c.OpenAIKey != "" {
		return "openai"
	}
	return "mock"
}

// New builds the configured Completer. The second value is the provider
// name, used for logs and metrics.
func New(ctx context.Context, c Config) (Completer, string, error) {
	name := c.ResolveProvider()
	switch name {
	case "openai":
		if c.OpenAIKey == "" {
			return nil, name, fmt.Errorf("provider openai requires an API key")
		}
		o := NewOpenAI(c.OpenAIKey, c.OpenAIModel, c.OpenAIBaseURL, c.Timeout)
		if c.JSON {
			o = o.WithJSON()
		}
		return o, name, nil
	case "gemini":
		if c.GeminiKey == "" {
			return nil, name, fmt.Errorf("provider gemini requires an API key")
		}
		g, err := NewGemini(ctx, c.GeminiKey, c.GeminiModel, c.GeminiBaseURL)
		if err != nil {
			return nil, name, err
		}
		g.JSON = c.JSON
		return g, name, nil
	case "http":
		return NewClient(c.ServiceURL, c.Timeout), name, nil
	case "mock":
		return NewMock(), name, nil
	default:
		return nil, name, fmt.Errorf("unknown llm provider %q", name)
	}
}
