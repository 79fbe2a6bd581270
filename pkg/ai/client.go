package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Client calls the internal ai-service chat endpoint.
type Client struct {
	BaseURL string
	Agent   string
	HTTP    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = "http://ai-service:8000"
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), Agent: "auto", HTTP: &http.Client{Timeout: timeout}}
}

type chatRequest struct {
	Agent string `json:"agent"`
	Input string `json:"input"`
}

type chatResponse struct {
	Agent  string `json:"agent"`
	Output string `json:"output"`
}

func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	const provider = "ai-service"
	b, err := json.Marshal(chatRequest{Agent: c.Agent, Input: prompt})
	if err != nil {
		return "", &CompletionError{Kind: KindOther, Provider: provider, Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/chat", bytes.NewReader(b))
	if err != nil {
		return "", &CompletionError{Kind: KindOther, Provider: provider, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	slog.DebugContext(ctx, "ai.client: POST /v1/chat", "url", c.BaseURL, "prompt_bytes", len(prompt))
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", transportError(provider, err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", transportError(provider, err)
	}
	slog.DebugContext(ctx, "ai.client: response", "status", resp.StatusCode, "bytes", len(respBytes))

	if resp.StatusCode != http.StatusOK {
		return "", statusError(provider, resp.StatusCode, fmt.Errorf("ai-service returned status %d: %s", resp.StatusCode, snippet(respBytes)))
	}

	var chat chatResponse
	if err := json.Unmarshal(respBytes, &chat); err != nil {
		return "", &CompletionError{Kind: KindOther, Provider: provider, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode chat response: %w", err)}
	}
	if strings.TrimSpace(chat.Output) == "" {
		return "", &CompletionError{Kind: KindOther, Provider: provider, StatusCode: resp.StatusCode, Err: ErrNoContent}
	}
	return chat.Output, nil
}

func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
