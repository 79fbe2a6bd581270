package ai

import (
	"context"
	"encoding/json"
	"strings"
)

// Mock answers without calling a model. Structuring prompts, recognized by
// their JSON skeleton, get a small valid resume; anything else gets Text.
type Mock struct {
	Text string
	Err  error
}

func NewMock() *Mock { return &Mock{} }

var mockResume = map[string]any{
	"contact": map[string]any{
		"name":     "Alex Morgan",
		"email":    "alex.morgan@example.com",
		"phone":    "+1 555 0100",
		"location": "Remote",
	},
	"summary": "Software engineer with experience building reliable backend services. This is a sample response; configure a language model provider for real optimization.",
	"experience": []any{map[string]any{
		"company":          "Example Corp",
		"position":         "Software Engineer",
		"startDate":        "2021-01",
		"endDate":          nil,
		"responsibilities": []any{"Built and operated backend services", "Improved deployment automation"},
	}},
	"education": []any{map[string]any{
		"institution": "Example University",
		"degree":      "BSc",
		"field":       "Computer Science",
	}},
	"skills": []any{
		map[string]any{"name": "Go", "level": "Advanced", "category": "Languages"},
		map[string]any{"name": "PostgreSQL", "level": "Intermediate", "category": "Data"},
	},
}

func (m *Mock) Complete(ctx context.Context, prompt string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	if err := ctx.Err(); err != nil {
		return "", transportError("mock", err)
	}
	if m.Text != "" {
		return m.Text, nil
	}
	if strings.Contains(prompt, `"contact"`) {
		b, _ := json.Marshal(mockResume)
		return string(b), nil
	}
	return "Professional Summary:\nSample rewrite. Configure a language model provider for real optimization.\n", nil
}
