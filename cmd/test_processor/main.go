package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"time"

	"resume-optimizer/internal/adapter/repository"
	"resume-optimizer/internal/usecase"
	ai "resume-optimizer/pkg/ai"
)

// Runs the generate-then-render flow end to end against a local mock of the
// ai-service chat endpoint and writes the PDF to disk.

const sampleText = `Test User
t@example.com | Berlin

Backend engineer with seven years of Go and Postgres.

Acme GmbH, Senior Engineer, 2019 - present
- Built a real-time data processing pipeline
- Reduced incident rate with retries and alerts`

func mockResume(malformed bool) string {
	if malformed {
		return "Sorry, I cannot help with that."
	}
	resume := map[string]interface{}{
		"contact": map[string]interface{}{"name": "Test User", "email": "t@example.com", "location": "Berlin"},
		"summary": "Backend engineer with seven years of Go and Postgres, focused on reliable data pipelines.",
		"experience": []map[string]interface{}{{
			"company":          "Acme GmbH",
			"position":         "Senior Engineer",
			"startDate":        "2019",
			"endDate":          nil,
			"responsibilities": []string{"Built a real-time data processing pipeline", "Reduced incident rate with retries and alerts"},
		}},
		// comma separated skills and language objects go through coercion
		"skills":    "Go, PostgreSQL, Kubernetes",
		"languages": []map[string]interface{}{{"language": "English", "proficiency": "Fluent"}},
	}
	b, _ := json.Marshal(resume)
	return "```json\n" + string(b) + "\n```"
}

func startMockAI(malformed bool) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/chat", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req map[string]interface{}
		_ = json.Unmarshal(body, &req)
		input, _ := req["input"].(string)

		if input == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		b, _ := json.Marshal(map[string]interface{}{"agent": "mock", "output": mockResume(malformed)})
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(b)
	})
	return httptest.NewServer(mux)
}

func main() {
	out := flag.String("out", "test-resume.pdf", "output PDF path")
	template := flag.String("template", "modern", "template id")
	scheme := flag.String("color", "", "color scheme")
	malformed := flag.Bool("malformed", false, "make the mock answer with prose")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)

	srv := startMockAI(*malformed)
	defer srv.Close()

	llm, provider, err := ai.New(context.Background(), ai.Config{Provider: "http", ServiceURL: srv.URL, Timeout: 10 * time.Second})
	if err != nil {
		logger.Error("provider", "error", err)
		os.Exit(1)
	}

	processor := usecase.NewProcessor(usecase.Deps{
		Structurer: usecase.NewStructurer(llm, provider, 10*time.Second, logger),
		Repo:       repository.NewJobsRepo(nil),
		Log:        logger,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	art, res, err := processor.GeneratePDF(ctx, usecase.GenerateRequest{
		ResumeText:     sampleText,
		JobDescription: "Senior Go engineer for streaming data platform",
		Template:       *template,
		ColorScheme:    *scheme,
	})
	for _, is := range res.Issues {
		logger.Info("decode issue", "issue", is.String())
	}
	if err != nil {
		logger.Error("generate failed", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, art.Data, 0o644); err != nil {
		logger.Error("write pdf", "error", err)
		os.Exit(1)
	}
	logger.Info("generated",
		"file", *out,
		"download_name", art.FileName,
		"pages", art.Pages,
		"degraded", res.Degraded,
		"suggestions", strings.TrimSpace(res.Suggestions),
	)
}
