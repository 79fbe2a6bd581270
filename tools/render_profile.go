// Renders a RenderRequest JSON file to PDF (or HTML) without the server.
//
//	go run ./tools -in request.json -out resume.pdf
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"strings"

	"resume-optimizer/internal/export"
	"resume-optimizer/internal/model"
	"resume-optimizer/internal/render"
	"resume-optimizer/internal/usecase"
)

func main() {
	in := flag.String("in", "render_request.json", "RenderRequest JSON file")
	out := flag.String("out", "", "output file; .html writes the browser markup instead of a PDF")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	raw, err := os.ReadFile(*in)
	if err != nil {
		logger.Error("read request", "file", *in, "error", err)
		os.Exit(2)
	}

	req, err := model.ValidateRenderRequest(raw)
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		for _, fe := range ve.Errors {
			logger.Error("invalid request", "field", fe.Field, "message", fe.Message)
		}
		os.Exit(2)
	}
	if err != nil {
		logger.Error("validate request", "error", err)
		os.Exit(2)
	}

	target := *out
	if target == "" {
		target = model.FileName(req.Resume.Contact.Name, "pdf")
	}

	var data []byte
	if strings.HasSuffix(target, ".html") {
		doc, err := render.Render(&req.Resume, string(req.Template), req.Options, export.NewPDFMeasurer())
		if err != nil {
			logger.Error("render", "error", err)
			os.Exit(1)
		}
		html, err := export.NewHTML().String(doc)
		if err != nil {
			logger.Error("html export", "error", err)
			os.Exit(1)
		}
		data = []byte(html)
	} else {
		art, err := usecase.NewProcessor(usecase.Deps{Log: logger}).RenderRequest(context.Background(), req)
		if err != nil {
			logger.Error("render", "error", err)
			os.Exit(1)
		}
		data = art.Data
	}

	if err := os.WriteFile(target, data, 0o644); err != nil {
		logger.Error("write output", "file", target, "error", err)
		os.Exit(1)
	}
	logger.Info("wrote", "file", target, "bytes", len(data))
}
