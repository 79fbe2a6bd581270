package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"resume-optimizer/internal/adapter/repository"
	"resume-optimizer/internal/domain"
	"resume-optimizer/internal/extract"
	"resume-optimizer/internal/model"
	"resume-optimizer/internal/render"
	"resume-optimizer/internal/usecase"
	"resume-optimizer/pkg/renderclient"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// MaxUploadSize bounds request bodies and uploaded resume files.
const MaxUploadSize = 10 << 20

// JobsReader looks up ledger records.
type JobsReader interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.RenderJob, error)
}

type Handler struct {
	processor *usecase.Processor
	jobs      JobsReader
}

func NewHandler(p *usecase.Processor, jobs JobsReader) *Handler {
	return &Handler{processor: p, jobs: jobs}
}

// generateReq is the body of every text based route. resumeText is accepted
// as an alias of resume.
type generateReq struct {
	Resume         string `json:"resume"`
	ResumeText     string `json:"resumeText"`
	JobDescription string `json:"jobDescription"`
}

func (r generateReq) text() string {
	if strings.TrimSpace(r.Resume) != "" {
		return r.Resume
	}
	return r.ResumeText
}

func (r generateReq) check(needJob bool) string {
	if strings.TrimSpace(r.text()) == "" {
		return "Resume content is required."
	}
	if needJob && strings.TrimSpace(r.JobDescription) == "" {
		return "Job description is required."
	}
	return ""
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "message": message})
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "availableTemplates": model.TemplateIDs()})
}

func (h *Handler) Templates(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"templates": model.Templates()})
}

// Render turns a RenderRequest into a PDF attachment.
func (h *Handler) Render(c *fiber.Ctx) error {
	art, err := h.processor.Render(c.UserContext(), c.Body())
	if err != nil {
		return h.renderError(c, err)
	}
	return sendArtifact(c, art)
}

func (h *Handler) renderError(c *fiber.Ctx, err error) error {
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": ve.Error(),
			"errors":  ve.Errors,
		})
	}
	var ute *render.UnknownTemplateError
	if errors.As(err, &ute) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success":   false,
			"message":   ute.Error(),
			"templates": ute.Valid,
		})
	}

	LoggerFromCtx(c).Error("render failed", "error", err)
	status := fiber.StatusInternalServerError
	if errors.Is(err, renderclient.ErrRemote) {
		status = fiber.StatusBadGateway
	}
	return fail(c, status, "Error generating PDF: "+err.Error())
}

func sendArtifact(c *fiber.Ctx, art *usecase.Artifact) error {
	c.Set(fiber.HeaderContentType, art.ContentType)
	c.Set(fiber.HeaderContentDisposition, contentDisposition(art.FileName))
	c.Set("X-Job-ID", art.JobID)
	if art.Pages > 0 {
		c.Set("X-Page-Count", strconv.Itoa(art.Pages))
	}
	return c.Send(art.Data)
}

// contentDisposition quotes an ASCII fallback name and, when the name has
// bytes outside it, adds the RFC 5987 filename* form.
func contentDisposition(name string) string {
	var plain strings.Builder
	ascii := true
	for _, r := range name {
		switch {
		case r == '"' || r == '\\':
			plain.WriteByte('_')
		case r < 0x20 || r > 0x7e:
			plain.WriteByte('_')
			ascii = false
		default:
			plain.WriteRune(r)
		}
	}
	v := `attachment; filename="` + plain.String() + `"`
	if ascii {
		return v
	}
	return v + "; filename*=UTF-8''" + encodeExtValue(name)
}

// encodeExtValue percent-encodes everything outside RFC 5987 attr-char.
func encodeExtValue(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9') ||
			strings.IndexByte("!#$&+-.^_`|~", c) >= 0 {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0xf])
	}
	return b.String()
}

// GenerateStructured runs the structuring service and returns its result.
// Model failures are absorbed into a degraded 200 response.
func (h *Handler) GenerateStructured(c *fiber.Ctx) error {
	var req generateReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid payload")
	}
	if msg := req.check(true); msg != "" {
		return fail(c, fiber.StatusBadRequest, msg)
	}

	res, err := h.processor.Structure(c.UserContext(), req.text(), req.JobDescription)
	if err != nil {
		LoggerFromCtx(c).Error("structuring unavailable", "error", err)
		return fail(c, fiber.StatusServiceUnavailable, err.Error())
	}
	if res.Degraded {
		LoggerFromCtx(c).Warn("structuring degraded", "kind", res.FailureKind.String())
	}
	return c.JSON(fiber.Map{
		"resume":      res.Resume,
		"suggestions": res.Suggestions,
		"degraded":    res.Degraded,
	})
}

// GeneratePDF structures the text and returns the rendered PDF.
func (h *Handler) GeneratePDF(c *fiber.Ctx) error {
	var req generateReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid payload")
	}
	if msg := req.check(true); msg != "" {
		return fail(c, fiber.StatusBadRequest, msg)
	}

	art, res, err := h.processor.GeneratePDF(c.UserContext(), usecase.GenerateRequest{
		ResumeText:     req.text(),
		JobDescription: req.JobDescription,
		Template:       c.Query("template"),
		ColorScheme:    c.Query("colorScheme"),
	})
	if res.Suggestions != "" {
		c.Set("X-Resume-Suggestions", headerValue(res.Suggestions))
	}
	if res.Degraded {
		c.Set("X-Resume-Degraded", "true")
	}
	if err != nil {
		return h.renderError(c, err)
	}
	return sendArtifact(c, art)
}

// headerValue keeps a value on one line.
func headerValue(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

var fileTypes = map[string]string{
	extract.MimePDF:  "pdf",
	extract.MimeDOCX: "docx",
	extract.MimeText: "txt",
}

// Extract returns the plain text of an uploaded pdf, docx or txt file.
func (h *Handler) Extract(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "file is required")
	}
	if fh.Size > MaxUploadSize {
		return fail(c, fiber.StatusRequestEntityTooLarge, "file exceeds the 10MB limit")
	}
	f, err := fh.Open()
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "cannot open upload")
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, MaxUploadSize))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "cannot read upload")
	}

	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	kind := extract.Kind(fh.Header.Get(fiber.HeaderContentType), fh.Filename, head)
	text, err := extract.Text(kind, data)
	if errors.Is(err, extract.ErrUnsupported) {
		return fail(c, fiber.StatusUnsupportedMediaType, "Unsupported file type. Please upload PDF, DOCX, or TXT files.")
	}
	if err != nil {
		LoggerFromCtx(c).Warn("extraction failed", "filename", fh.Filename, "error", err)
		return fail(c, fiber.StatusUnprocessableEntity, fmt.Sprintf("Failed to process %s: %v", fh.Filename, err))
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return fail(c, fiber.StatusUnprocessableEntity, "No text found in the file. Please check if the file contains readable content.")
	}
	return c.JSON(fiber.Map{"text": text, "filename": fh.Filename, "fileType": fileTypes[kind]})
}

// Generate is the legacy raw-text rewrite.
func (h *Handler) Generate(c *fiber.Ctx) error {
	var req generateReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid payload")
	}
	if msg := req.check(true); msg != "" {
		return fail(c, fiber.StatusBadRequest, msg)
	}

	out, err := h.processor.Rewrite(c.UserContext(), req.text(), req.JobDescription)
	if err != nil {
		LoggerFromCtx(c).Error("legacy rewrite failed", "error", err)
		return fail(c, fiber.StatusInternalServerError, "An error occurred while processing your request.")
	}
	return c.JSON(out)
}

func (h *Handler) DownloadPDF(c *fiber.Ctx) error {
	return h.download(c, h.processor.LegacyPDF)
}

func (h *Handler) DownloadDOCX(c *fiber.Ctx) error {
	return h.download(c, h.processor.LegacyDOCX)
}

func (h *Handler) download(c *fiber.Ctx, export func(context.Context, string) (*usecase.Artifact, error)) error {
	var req generateReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid payload")
	}
	if msg := req.check(false); msg != "" {
		return fail(c, fiber.StatusBadRequest, msg)
	}
	art, err := export(c.UserContext(), req.text())
	if err != nil {
		LoggerFromCtx(c).Error("legacy export failed", "error", err)
		return fail(c, fiber.StatusInternalServerError, "Error generating document: "+err.Error())
	}
	return sendArtifact(c, art)
}

// Job returns one ledger record.
func (h *Handler) Job(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid job id")
	}
	if h.jobs == nil {
		return fail(c, fiber.StatusNotFound, "job not found")
	}
	j, err := h.jobs.Get(c.UserContext(), id)
	if errors.Is(err, repository.ErrNotFound) {
		return fail(c, fiber.StatusNotFound, "job not found")
	}
	if err != nil {
		LoggerFromCtx(c).Error("job lookup failed", "job_id", id.String(), "error", err)
		return fail(c, fiber.StatusInternalServerError, "job lookup failed")
	}
	return c.JSON(j)
}
