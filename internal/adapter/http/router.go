package http

import (
	"errors"
	"log/slog"

	"resume-optimizer/internal/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

type AppConfig struct {
	CORSOrigins   string
	LegacyEnabled bool
	Logger        *slog.Logger
}

// NewApp builds the fiber app with middleware and every route mounted.
func NewApp(h *Handler, cfg AppConfig) *fiber.App {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	app := fiber.New(fiber.Config{
		AppName:      "resume-optimizer",
		BodyLimit:    MaxUploadSize + 1<<20,
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.CORSOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept, X-Correlation-ID",
		ExposeHeaders: "Content-Disposition, X-Resume-Suggestions, X-Resume-Degraded, X-Job-ID, X-Correlation-ID",
	}))
	app.Use(CorrelationID())
	app.Use(RequestLogger(logger))
	app.Use(metrics.FiberMiddleware())

	app.Get("/health", h.Health)
	app.Get("/templates", h.Templates)
	app.Get("/metrics", metrics.Handler())
	app.Post("/render", h.Render)
	app.Get("/jobs/:id", h.Job)

	api := app.Group("/api/resume")
	api.Post("/generate-structured", h.GenerateStructured)
	api.Post("/generate-pdf", h.GeneratePDF)
	api.Post("/extract", h.Extract)

	if cfg.LegacyEnabled {
		api.Post("/generate", h.Generate)
		api.Post("/download/pdf", h.DownloadPDF)
		api.Post("/download/docx", h.DownloadDOCX)
	}

	return app
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		LoggerFromCtx(c).Error("unhandled error", "error", err)
	}
	return c.Status(code).JSON(fiber.Map{"success": false, "message": err.Error()})
}
