// Package renderclient talks to a render service exposing POST /render.
package renderclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"resume-optimizer/internal/model"
)

// ErrRemote wraps every failure of the remote render call.
var ErrRemote = errors.New("remote render failed")

const DefaultTimeout = 2 * time.Minute

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), HTTP: &http.Client{Timeout: timeout}}
}

type errorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Render posts req and returns the PDF bytes. There is no retry.
func (c *Client) Render(ctx context.Context, req model.RenderRequest) ([]byte, error) {
	b, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %v", ErrRemote, err)
	}
	hreq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/render", bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemote, err)
	}
	hreq.Header.Set("Content-Type", "application/json")
	hreq.Header.Set("Accept", "application/pdf")

	start := time.Now()
	resp, err := c.HTTP.Do(hreq)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRemote, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", ErrRemote, err)
	}
	slog.DebugContext(ctx, "renderclient: POST /render", "status", resp.StatusCode, "bytes", len(body), "duration", time.Since(start))

	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(body))
		var eb errorBody
		if json.Unmarshal(body, &eb) == nil && eb.Message != "" {
			msg = eb.Message
		}
		return nil, &StatusError{StatusCode: resp.StatusCode, Message: msg}
	}
	if !bytes.HasPrefix(body, []byte("%PDF")) {
		return nil, fmt.Errorf("%w: response is not a PDF (content-type %q, %d bytes)", ErrRemote, resp.Header.Get("Content-Type"), len(body))
	}
	return body, nil
}

// StatusError is a non-200 answer from the render service. It matches
// ErrRemote with errors.Is.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("remote render failed with status %d: %s", e.StatusCode, e.Message)
}

func (e *StatusError) Is(target error) bool { return target == ErrRemote }
