package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"resume-optimizer/internal/domain"
	"resume-optimizer/internal/export"
	"resume-optimizer/internal/layout"
	"resume-optimizer/internal/legacy"
	"resume-optimizer/internal/model"
	"resume-optimizer/internal/render"
	ai "resume-optimizer/pkg/ai"
)

// DefaultTemplate is used by generation when the caller names none.
const DefaultTemplate = model.TemplateModern

// Renderer prints HTML to PDF in a browser.
type Renderer interface {
	RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error)
}

// RemoteRenderer renders a request in a separate render service.
type RemoteRenderer interface {
	Render(ctx context.Context, req model.RenderRequest) ([]byte, error)
}

type JobsRepo interface {
	Save(ctx context.Context, j *domain.RenderJob) error
}

// Metrics receives pipeline outcomes. Outcome is "ok" or the failed stage.
type Metrics interface {
	ObserveRender(template, outcome string, pages int)
}

// Deps wires a Processor. Only Structurer is required for generation;
// Render works with none of them.
type Deps struct {
	Structurer *Structurer
	// Browser switches the export stage to HTML printed by chromedp.
	Browser Renderer
	// Remote, when set, replaces in-process rendering for generation.
	Remote  RemoteRenderer
	Repo    JobsRepo
	Metrics Metrics
	Log     *slog.Logger

	// Rewriter and MockRewrite drive the legacy raw-text mode.
	Rewriter    ai.Completer
	MockRewrite bool
}

type Processor struct {
	structurer  *Structurer
	browser     Renderer
	remote      RemoteRenderer
	repo        JobsRepo
	metrics     Metrics
	log         *slog.Logger
	rewriter    ai.Completer
	mockRewrite bool
}

func NewProcessor(d Deps) *Processor {
	log := d.Log
	if log == nil {
		log = slog.Default()
	}
	return &Processor{
		structurer:  d.Structurer,
		browser:     d.Browser,
		remote:      d.Remote,
		repo:        d.Repo,
		metrics:     d.Metrics,
		log:         log,
		rewriter:    d.Rewriter,
		mockRewrite: d.MockRewrite,
	}
}

const (
	ContentTypePDF  = "application/pdf"
	ContentTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Artifact is a finished document ready to be sent as an attachment.
type Artifact struct {
	JobID       string
	Data        []byte
	FileName    string
	ContentType string
	Pages       int
}

// Render validates a raw render request and turns it into a PDF.
func (p *Processor) Render(ctx context.Context, raw []byte) (*Artifact, error) {
	job := domain.NewRenderJob(domain.KindRender, "", "")
	r := newRun(ctx, job, p.log, p.repo)
	if err := r.advance(ctx, StageValidating); err != nil {
		return nil, err
	}
	req, err := model.ValidateRenderRequest(raw)
	if err != nil {
		p.observe("", StageValidating, 0)
		return nil, r.fail(ctx, err)
	}
	job.Template, job.ColorScheme = string(req.Template), req.Options.ColorScheme
	return p.render(ctx, r, req)
}

// RenderRequest renders an already validated request.
func (p *Processor) RenderRequest(ctx context.Context, req model.RenderRequest) (*Artifact, error) {
	job := domain.NewRenderJob(domain.KindRender, string(req.Template), req.Options.ColorScheme)
	return p.render(ctx, newRun(ctx, job, p.log, p.repo), req)
}

func (p *Processor) render(ctx context.Context, r *run, req model.RenderRequest) (*Artifact, error) {
	tpl := string(req.Template)
	fail := func(err error) (*Artifact, error) {
		p.observe(tpl, r.stage, 0)
		return nil, r.fail(ctx, err)
	}

	if err := r.advance(ctx, StageBuildingHeader); err != nil {
		return fail(err)
	}
	b, err := render.NewBuilder(&req.Resume, tpl, req.Options, export.NewPDFMeasurer())
	if err != nil {
		return fail(err)
	}
	b.Header()

	if err := r.advance(ctx, StageBuildingSections); err != nil {
		return fail(err)
	}
	b.Sections()

	if err := r.advance(ctx, StagePaginating); err != nil {
		return fail(err)
	}
	doc, err := b.Paginate()
	if err != nil {
		return fail(err)
	}
	r.job.Pages = len(doc.Pages)
	r.job.ColorScheme = doc.ColorScheme

	if err := r.advance(ctx, StageExporting); err != nil {
		return fail(err)
	}
	if err := ctx.Err(); err != nil {
		return fail(err)
	}
	pdf, err := p.export(ctx, doc)
	if err != nil {
		return fail(err)
	}

	if err := r.advance(ctx, StageDone); err != nil {
		return nil, err
	}
	p.observe(tpl, StageDone, len(doc.Pages))
	r.log.Info("render completed", "template", tpl, "color_scheme", doc.ColorScheme, "pages", len(doc.Pages), "bytes", len(pdf), "duration", r.elapsed())
	return &Artifact{
		JobID:       r.job.ID.String(),
		Data:        pdf,
		FileName:    model.FileName(req.Resume.Contact.Name, "pdf"),
		ContentType: ContentTypePDF,
		Pages:       len(doc.Pages),
	}, nil
}

func (p *Processor) export(ctx context.Context, doc *layout.Document) ([]byte, error) {
	if p.browser == nil {
		return export.NewPDF().Bytes(doc)
	}
	html, err := export.NewHTML().String(doc)
	if err != nil {
		return nil, err
	}
	pdf, err := p.browser.RenderHTMLToPDF(ctx, html)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", export.ErrExport, err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		return nil, fmt.Errorf("%w: browser returned invalid PDF output (len=%d)", export.ErrExport, len(pdf))
	}
	return pdf, nil
}

func (p *Processor) observe(template string, stage Stage, pages int) {
	if p.metrics == nil {
		return
	}
	outcome := "ok"
	if stage != StageDone {
		outcome = stage.String()
	}
	p.metrics.ObserveRender(template, outcome, pages)
}

// Structure runs the structuring service alone.
func (p *Processor) Structure(ctx context.Context, resumeText, jobDescription string) (Result, error) {
	if p.structurer == nil {
		return Result{}, errors.New("generation is not configured")
	}
	return p.structurer.Structure(ctx, resumeText, jobDescription), nil
}

// GenerateRequest is the input of the two-stage generate-then-render flow.
type GenerateRequest struct {
	ResumeText     string
	JobDescription string
	Template       string
	ColorScheme    string
}

// GeneratePDF structures the resume text and renders the result. A degraded
// or nameless resume is still rendered, under the name "Resume". The
// returned Result is valid even when rendering fails.
func (p *Processor) GeneratePDF(ctx context.Context, in GenerateRequest) (*Artifact, Result, error) {
	tpl := strings.TrimSpace(in.Template)
	if tpl == "" {
		tpl = string(DefaultTemplate)
	}
	if _, ok := model.LookupTemplate(tpl); !ok {
		return nil, Result{}, &render.UnknownTemplateError{Requested: tpl, Valid: model.TemplateIDs()}
	}

	res, err := p.Structure(ctx, in.ResumeText, in.JobDescription)
	if err != nil {
		return nil, res, err
	}
	resume := res.Resume
	if strings.TrimSpace(resume.Contact.Name) == "" {
		resume.Contact.Name = "Resume"
	}
	req := model.RenderRequest{
		Resume:   resume,
		Template: model.TemplateID(tpl),
		Options:  model.RenderOptions{ColorScheme: strings.TrimSpace(in.ColorScheme)},
	}

	if p.remote == nil {
		job := domain.NewRenderJob(domain.KindGenerate, tpl, req.Options.ColorScheme)
		art, err := p.render(ctx, newRun(ctx, job, p.log, p.repo), req)
		return art, res, err
	}

	job := domain.NewRenderJob(domain.KindGenerate, tpl, req.Options.ColorScheme)
	r := newRun(ctx, job, p.log, p.repo)
	if err := r.advance(ctx, StageExporting); err != nil {
		return nil, res, err
	}
	pdf, err := p.remote.Render(ctx, req)
	if err != nil {
		p.observe(tpl, StageExporting, 0)
		return nil, res, r.fail(ctx, err)
	}
	_ = r.advance(ctx, StageDone)
	p.observe(tpl, StageDone, 0)
	return &Artifact{JobID: job.ID.String(), Data: pdf, FileName: model.FileName(resume.Contact.Name, "pdf"), ContentType: ContentTypePDF}, res, nil
}

// LegacyResult is the raw-text rewrite returned by the legacy mode.
type LegacyResult struct {
	RewrittenResume string   `json:"rewrittenResume"`
	Sections        []string `json:"sections"`
	Suggestions     string   `json:"suggestions"`
	Keywords        []string `json:"keywords"`
}

const mockRewriteSuggestions = "MOCK RESPONSE: This is a sample optimized resume. To get real AI-powered optimization, configure a language model API key."

// Rewrite asks the model for a plain-text rewrite. Unlike structuring, a
// failed completion is returned to the caller.
func (p *Processor) Rewrite(ctx context.Context, resumeText, jobDescription string) (LegacyResult, error) {
	job := domain.NewRenderJob(domain.KindLegacy, "legacy", "")
	r := newRun(ctx, job, p.log, p.repo)

	var text, suggestions string
	switch {
	case p.mockRewrite:
		text, suggestions = legacy.MockRewrite(resumeText, jobDescription), mockRewriteSuggestions
	case p.rewriter == nil:
		return LegacyResult{}, r.fail(ctx, errors.New("legacy rewrite is not configured"))
	default:
		out, err := p.rewriter.Complete(ctx, legacy.BuildRewritePrompt(resumeText, jobDescription))
		if err != nil {
			return LegacyResult{}, r.fail(ctx, fmt.Errorf("generate optimized resume: %w", err))
		}
		text, suggestions = out, legacy.Suggestions
	}
	_ = r.advance(ctx, StageDone)
	return LegacyResult{
		RewrittenResume: text,
		Sections:        legacy.ExtractSections(text),
		Suggestions:     suggestions,
		Keywords:        legacy.Keywords(jobDescription),
	}, nil
}

// LegacyPDF lays parsed raw text out with the legacy layout.
func (p *Processor) LegacyPDF(ctx context.Context, text string) (*Artifact, error) {
	job := domain.NewRenderJob(domain.KindLegacy, "legacy", "")
	r := newRun(ctx, job, p.log, p.repo)
	if err := r.advance(ctx, StagePaginating); err != nil {
		return nil, err
	}
	d := legacy.Parse(text)
	doc := legacy.Layout(d, export.NewPDFMeasurer())
	job.Pages = len(doc.Pages)
	if err := r.advance(ctx, StageExporting); err != nil {
		return nil, err
	}
	pdf, err := export.NewPDF().Bytes(doc)
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	_ = r.advance(ctx, StageDone)
	return &Artifact{JobID: job.ID.String(), Data: pdf, FileName: model.FileName(d.Name, "pdf"), ContentType: ContentTypePDF, Pages: len(doc.Pages)}, nil
}

// LegacyDOCX exports parsed raw text as a Word document.
func (p *Processor) LegacyDOCX(ctx context.Context, text string) (*Artifact, error) {
	job := domain.NewRenderJob(domain.KindLegacy, "legacy", "")
	r := newRun(ctx, job, p.log, p.repo)
	if err := r.advance(ctx, StageExporting); err != nil {
		return nil, err
	}
	d := legacy.Parse(text)
	b, err := export.NewDOCX().Bytes(d)
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	_ = r.advance(ctx, StageDone)
	return &Artifact{JobID: job.ID.String(), Data: b, FileName: model.FileName(d.Name, "docx"), ContentType: ContentTypeDOCX}, nil
}
