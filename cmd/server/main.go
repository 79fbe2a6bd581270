package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "resume-optimizer/internal/adapter/http"
	repo "resume-optimizer/internal/adapter/repository"
	"resume-optimizer/internal/config"
	"resume-optimizer/internal/infrastructure/migration"
	"resume-optimizer/internal/metrics"
	"resume-optimizer/internal/usecase"
	ai "resume-optimizer/pkg/ai"
	infra "resume-optimizer/pkg/infrastructure"
	"resume-optimizer/pkg/renderclient"
)

func main() {
	cfg := config.MustLoad()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Log.SlogLevel()}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// job ledger, optional
	jobsPool, err := infra.NewJobsPool(ctx, cfg.Database.URL)
	if err != nil {
		logger.Warn("jobs DB not available, ledger disabled", "error", err)
		jobsPool = nil
	}
	if jobsPool != nil {
		defer jobsPool.Close()
	}
	if err := migration.RunMigrations(ctx, jobsPool); err != nil {
		logger.Error("migrations failed", "error", err)
		os.Exit(1)
	}
	jobsRepo := repo.NewJobsRepo(jobsPool)

	aiCfg := cfg.LLM.AI()
	rewriter, provider, err := ai.New(ctx, aiCfg)
	if err != nil {
		logger.Error("language model provider unavailable", "error", err)
		os.Exit(1)
	}
	aiCfg.JSON = true
	llm, _, err := ai.New(ctx, aiCfg)
	if err != nil {
		logger.Error("language model provider unavailable", "error", err)
		os.Exit(1)
	}
	logger.Info("language model provider selected", "provider", provider)

	pipeline := metrics.NewPipeline()
	deps := usecase.Deps{
		Structurer:  usecase.NewStructurer(llm, provider, cfg.LLM.Timeout, logger).OnOutcome(pipeline.ObserveGeneration),
		Repo:        jobsRepo,
		Metrics:     pipeline,
		Log:         logger,
		Rewriter:    rewriter,
		MockRewrite: provider == "mock",
	}
	if cfg.Render.Engine == config.EngineChromedp {
		deps.Browser = infra.NewChromedpRenderer(cfg.Render.ChromePath, cfg.Render.Timeout)
	}
	if cfg.Render.ServiceURL != "" {
		deps.Remote = renderclient.New(cfg.Render.ServiceURL, cfg.Render.Timeout)
		logger.Info("generation renders through remote service", "url", cfg.Render.ServiceURL)
	}
	processor := usecase.NewProcessor(deps)

	h := httpadapter.NewHandler(processor, jobsRepo)
	app := httpadapter.NewApp(h, httpadapter.AppConfig{
		CORSOrigins:   cfg.Server.CORSOrigins,
		LegacyEnabled: cfg.Legacy.Enabled,
		Logger:        logger,
	})

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		logger.Info("server listening", "addr", addr, "engine", cfg.Render.Engine, "legacy", cfg.Legacy.Enabled, "ledger", jobsRepo.Enabled())
		if err := app.Listen(addr); err != nil {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}
