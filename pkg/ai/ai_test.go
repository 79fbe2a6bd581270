package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat", r.URL.Path)
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "auto", req.Agent)
		assert.Equal(t, "hello", req.Input)
		_ = json.NewEncoder(w).Encode(chatResponse{Agent: "auto", Output: `{"ok":true}`})
	}))
	defer srv.Close()

	out, err := NewClient(srv.URL, time.Second).Complete(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, out)
}

func TestClient_StatusMapping(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorKind
	}{
		{http.StatusUnauthorized, KindUnauthorized},
		{http.StatusForbidden, KindUnauthorized},
		{http.StatusTooManyRequests, KindRateLimited},
		{http.StatusServiceUnavailable, KindNetwork},
		{http.StatusGatewayTimeout, KindNetwork},
		{http.StatusInternalServerError, KindOther},
		{http.StatusBadRequest, KindOther},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.status)
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, time.Second).Complete(context.Background(), "p")
			var ce *CompletionError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.want, ce.Kind)
			assert.Equal(t, tt.status, ce.StatusCode)
			assert.Equal(t, "ai-service", ce.Provider)
		})
	}
}

func TestClient_EmptyOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"agent":"auto","output":"  "}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).Complete(context.Background(), "p")
	assert.ErrorIs(t, err, ErrNoContent)
	assert.Equal(t, KindOther, KindOf(err))
}

func TestClient_TimeoutIsNetwork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, 20*time.Millisecond).Complete(context.Background(), "p")
	assert.Equal(t, KindNetwork, KindOf(err))
}

func TestClient_UnreachableIsNetwork(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second).Complete(context.Background(), "p")
	assert.Equal(t, KindNetwork, KindOf(err))
}

func openAIServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAI_Complete(t *testing.T) {
	srv := openAIServer(t, http.StatusOK, `{"id":"c1","object":"chat.completion","created":1,"model":"gpt-3.5-turbo",
		"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"{\"contact\":{}}"}}]}`)

	out, err := NewOpenAI("sk-test", "", srv.URL+"/v1", time.Second).WithJSON().Complete(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, `{"contact":{}}`, out)
}

func TestOpenAI_ResponseFormat(t *testing.T) {
	const ok = `{"id":"c1","object":"chat.completion","created":1,"model":"m",
		"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"x"}}]}`

	for _, jsonMode := range []bool{false, true} {
		t.Run(fmt.Sprintf("json=%v", jsonMode), func(t *testing.T) {
			var format string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				body, _ := io.ReadAll(r.Body)
				var req struct {
					ResponseFormat *struct {
						Type string `json:"type"`
					} `json:"response_format"`
				}
				_ = json.Unmarshal(body, &req)
				if req.ResponseFormat != nil {
					format = req.ResponseFormat.Type
				}
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(ok))
			}))
			defer srv.Close()

			c, _, err := New(context.Background(), Config{OpenAIKey: "sk-test", OpenAIBaseURL: srv.URL + "/v1", Timeout: time.Second, JSON: jsonMode})
			require.NoError(t, err)
			_, err = c.Complete(context.Background(), "p")
			require.NoError(t, err)
			if jsonMode {
				assert.Equal(t, "json_object", format)
			} else {
				assert.Empty(t, format)
			}
		})
	}
}

func TestOpenAI_ErrorMapping(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorKind
	}{
		{http.StatusUnauthorized, KindUnauthorized},
		{http.StatusTooManyRequests, KindRateLimited},
		{http.StatusBadRequest, KindOther},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := openAIServer(t, tt.status, `{"error":{"message":"denied","type":"invalid_request_error","code":"x","param":""}}`)

			_, err := NewOpenAI("sk-test", "gpt-4o-mini", srv.URL+"/v1", time.Second).Complete(context.Background(), "p")
			var ce *CompletionError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.want, ce.Kind)
			assert.Equal(t, "openai", ce.Provider)
			assert.Equal(t, tt.status, ce.StatusCode)
		})
	}
}

func TestOpenAI_NoChoices(t *testing.T) {
	srv := openAIServer(t, http.StatusOK, `{"id":"c1","object":"chat.completion","created":1,"model":"m","choices":[]}`)

	_, err := NewOpenAI("sk-test", "", srv.URL+"/v1", time.Second).Complete(context.Background(), "p")
	assert.ErrorIs(t, err, ErrNoContent)
}

func TestGeminiStatusKind(t *testing.T) {
	assert.Equal(t, KindUnauthorized, grpcStatusKind("UNAUTHENTICATED"))
	assert.Equal(t, KindRateLimited, grpcStatusKind("RESOURCE_EXHAUSTED"))
	assert.Equal(t, KindNetwork, grpcStatusKind("DEADLINE_EXCEEDED"))
	assert.Equal(t, KindOther, grpcStatusKind("INVALID_ARGUMENT"))
}

func TestMock(t *testing.T) {
	ctx := context.Background()

	out, err := NewMock().Complete(ctx, `return {"contact": ...}`)
	require.NoError(t, err)
	var v map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Contains(t, v, "contact")

	out, err = NewMock().Complete(ctx, "rewrite this")
	require.NoError(t, err)
	assert.Contains(t, out, "Professional Summary:")

	boom := &CompletionError{Kind: KindUnauthorized, Provider: "mock", StatusCode: 401}
	_, err = (&Mock{Err: boom}).Complete(ctx, "p")
	assert.Equal(t, KindUnauthorized, KindOf(err))
}

func TestCompletionError(t *testing.T) {
	err := &CompletionError{Kind: KindRateLimited, Provider: "openai", StatusCode: 429, Err: errors.New("slow down")}
	assert.Equal(t, "openai completion failed (rate_limited, status 429): slow down", err.Error())
	assert.Equal(t, KindOther, KindOf(errors.New("plain")))
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	_, name, err := New(ctx, Config{})
	require.NoError(t, err)
	assert.Equal(t, "mock", name)

	c, name, err := New(ctx, Config{OpenAIKey: "sk"})
	require.NoError(t, err)
	assert.Equal(t, "openai", name)
	assert.IsType(t, &OpenAI{}, c)

	assert.False(t, c.(*OpenAI).JSON)

	c, _, err = New(ctx, Config{OpenAIKey: "sk", JSON: true})
	require.NoError(t, err)
	assert.True(t, c.(*OpenAI).JSON)

	c, _, err = New(ctx, Config{Provider: "http", ServiceURL: "http://ai:8000/"})
	require.NoError(t, err)
	assert.Equal(t, "http://ai:8000", c.(*Client).BaseURL)

	_, _, err = New(ctx, Config{Provider: "gemini"})
	assert.Error(t, err)

	_, _, err = New(ctx, Config{Provider: "llama"})
	assert.Error(t, err)
}
