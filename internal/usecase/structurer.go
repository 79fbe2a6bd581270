package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"resume-optimizer/internal/model"
	"resume-optimizer/internal/prompt"
	ai "resume-optimizer/pkg/ai"
)

const (
	SuggestionOptimized    = "Resume optimized for the provided job description with enhanced keywords and formatting."
	SuggestionAuth         = "The language model rejected our credentials. Check the configured API key and try again."
	SuggestionRateLimited  = "The language model quota or rate limit was exceeded. Wait a moment and try again."
	SuggestionNetwork      = "The language model could not be reached or timed out. Check the connection and try again."
	SuggestionGeneric      = "The resume could not be generated because the language model request failed. Please try again."
	SuggestionUnreadable   = "The resume could not be generated because the model's response could not be read. Please try again."
	suggestionDroppedNotes = " %d incomplete entries were left out."
)

// Result is the outcome of one structuring call. A degraded result carries
// the empty skeleton and a suggestion explaining what went wrong.
type Result struct {
	Resume      model.StructuredResume `json:"resume"`
	Suggestions string                 `json:"suggestions"`
	Degraded    bool                   `json:"degraded"`
	FailureKind ai.ErrorKind           `json:"-"`
	Issues      []DecodeIssue          `json:"issues,omitempty"`
}

// Structurer turns free resume text into a StructuredResume with one model
// call. Failures never escape: they become a degraded Result.
type Structurer struct {
	llm      ai.Completer
	provider string
	timeout  time.Duration
	log      *slog.Logger
	observe  func(provider, outcome string)
}

func NewStructurer(llm ai.Completer, provider string, timeout time.Duration, log *slog.Logger) *Structurer {
	if log == nil {
		log = slog.Default()
	}
	return &Structurer{llm: llm, provider: provider, timeout: timeout, log: log}
}

// OnOutcome registers a callback invoked once per Structure call with the
// provider name and "ok", "decode" or the failure kind.
func (s *Structurer) OnOutcome(fn func(provider, outcome string)) *Structurer {
	s.observe = fn
	return s
}

func (s *Structurer) Structure(ctx context.Context, resumeText, jobDescription string) Result {
	start := time.Now()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	text, err := prompt.BuildStructuringPrompt(resumeText, jobDescription)
	if err != nil {
		s.log.Error("prompt failed", "provider", s.provider, "error", err)
		s.report("prompt")
		return Result{Suggestions: failureSuggestion(ai.KindOther), Degraded: true, FailureKind: ai.KindOther}
	}

	raw, err := s.llm.Complete(ctx, text)
	if err != nil {
		kind := ai.KindOf(err)
		if kind == ai.KindOther && errors.Is(err, context.DeadlineExceeded) {
			kind = ai.KindNetwork
		}
		s.log.Warn("completion failed", "provider", s.provider, "kind", kind.String(), "error", err, "duration", time.Since(start))
		s.report(kind.String())
		return Result{Suggestions: failureSuggestion(kind), Degraded: true, FailureKind: kind}
	}

	resume, issues, err := DecodeStructuredResume(raw)
	if err != nil {
		s.log.Warn("decode failed", "provider", s.provider, "error", err, "duration", time.Since(start))
		s.report("decode")
		return Result{Suggestions: SuggestionUnreadable, Degraded: true, FailureKind: ai.KindOther, Issues: issues}
	}

	msg := SuggestionOptimized
	if dropped := countDropped(issues); dropped > 0 {
		msg += fmt.Sprintf(suggestionDroppedNotes, dropped)
	}
	for _, is := range issues {
		s.log.Debug("decode issue", "path", is.Path, "reason", is.Reason)
	}
	s.log.Info("resume structured", "provider", s.provider, "issues", len(issues), "duration", time.Since(start))
	s.report("ok")
	return Result{Resume: resume, Suggestions: msg, Issues: issues}
}

func (s *Structurer) report(outcome string) {
	if s.observe != nil {
		s.observe(s.provider, outcome)
	}
}

func failureSuggestion(kind ai.ErrorKind) string {
	switch kind {
	case ai.KindUnauthorized:
		return SuggestionAuth
	case ai.KindRateLimited:
		return SuggestionRateLimited
	case ai.KindNetwork:
		return SuggestionNetwork
	default:
		return SuggestionGeneric
	}
}

// countDropped ignores issues that only lost a sub-field, such as an
// unrecognised skill level.
func countDropped(issues []DecodeIssue) int {
	n := 0
	for _, is := range issues {
		if is.Path != "contact.name" && !strings.HasSuffix(is.Path, ".level") {
			n++
		}
	}
	return n
}
