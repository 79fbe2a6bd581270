// Package prompt builds the instruction sent to the language model when a
// resume is structured.
package prompt

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed structuring.tmpl
var structuringText string

var structuring = template.Must(template.New("structuring").Parse(structuringText))

// BuildStructuringPrompt returns the same text for the same inputs. Inputs
// are trimmed and line endings normalized.
func BuildStructuringPrompt(resumeText, jobDescription string) (string, error) {
	var b strings.Builder
	data := struct{ ResumeText, JobDescription string }{
		ResumeText:     normalize(resumeText),
		JobDescription: normalize(jobDescription),
	}
	if err := structuring.Execute(&b, data); err != nil {
		return "", fmt.Errorf("structuring prompt: %w", err)
	}
	return b.String(), nil
}

func normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.TrimSpace(strings.ReplaceAll(s, "\r", "\n"))
}
