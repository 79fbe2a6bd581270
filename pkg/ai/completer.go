// Package ai holds the language-model completion collaborators. Every
// provider returns *CompletionError so callers classify failures by Kind
// rather than by message text.
package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// Completer sends one prompt and returns the model's text reply. There is
// no conversation state and no retry.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ErrNoContent is returned when a provider answers without any text.
var ErrNoContent = errors.New("model returned no content")

type ErrorKind int

const (
	KindOther ErrorKind = iota
	KindUnauthorized
	KindRateLimited
	KindNetwork
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindRateLimited:
		return "rate_limited"
	case KindNetwork:
		return "network"
	default:
		return "other"
	}
}

type CompletionError struct {
	Kind       ErrorKind
	Provider   string
	StatusCode int
	Err        error
}

func (e *CompletionError) Error() string {
	var b strings.Builder
	b.WriteString(e.Provider)
	b.WriteString(" completion failed (")
	b.WriteString(e.Kind.String())
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, ", status %d", e.StatusCode)
	}
	b.WriteString(")")
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *CompletionError) Unwrap() error { return e.Err }

// KindOf returns the kind of a *CompletionError in err's chain, or
// KindOther.
func KindOf(err error) ErrorKind {
	var ce *CompletionError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindOther
}

// statusKind maps an HTTP status from any provider onto a kind.
func statusKind(status int) ErrorKind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindUnauthorized
	case status == http.StatusTooManyRequests:
		return KindRateLimited
	case status == http.StatusRequestTimeout || status == http.StatusBadGateway ||
		status == http.StatusServiceUnavailable || status == http.StatusGatewayTimeout:
		return KindNetwork
	default:
		return KindOther
	}
}

// transportError wraps a failure that happened before any HTTP status was
// received.
func transportError(provider string, err error) *CompletionError {
	kind := KindOther
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.As(err, &netErr) {
		kind = KindNetwork
	}
	return &CompletionError{Kind: kind, Provider: provider, Err: err}
}

func statusError(provider string, status int, err error) *CompletionError {
	return &CompletionError{Kind: statusKind(status), Provider: provider, StatusCode: status, Err: err}
}
