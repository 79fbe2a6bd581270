package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	ai "resume-optimizer/pkg/ai"
)

// Config aggregates application settings sourced from the environment and
// an optional .env file.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Render   RenderConfig   `mapstructure:"render"`
	Legacy   LegacyConfig   `mapstructure:"legacy"`
	Database DatabaseConfig `mapstructure:"database"`
}

type ServerConfig struct {
	Port        int    `mapstructure:"port"`
	CORSOrigins string `mapstructure:"cors_origins"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

func (c LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LLMConfig selects the completion provider. An empty provider resolves to
// openai when an OpenAI key is present and to mock otherwise.
type LLMConfig struct {
	Provider      string        `mapstructure:"provider"`
	OpenAIKey     string        `mapstructure:"openai_api_key"`
	OpenAIModel   string        `mapstructure:"openai_model"`
	OpenAIBaseURL string        `mapstructure:"openai_base_url"`
	GeminiKey     string        `mapstructure:"gemini_api_key"`
	GeminiModel   string        `mapstructure:"gemini_model"`
	ServiceURL    string        `mapstructure:"service_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// RenderConfig picks the export engine and, when ServiceURL is set, a
// separate render service for generation.
type RenderConfig struct {
	Engine     string        `mapstructure:"engine"`
	ServiceURL string        `mapstructure:"service_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	ChromePath string        `mapstructure:"chrome_path"`
}

type LegacyConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// DatabaseConfig enables the job ledger when URL is set.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

const (
	EngineFPDF     = "fpdf"
	EngineChromedp = "chromedp"
)

// AI converts the LLM section into the provider factory's config.
func (c LLMConfig) AI() ai.Config {
	return ai.Config{
		Provider:      c.Provider,
		OpenAIKey:     c.OpenAIKey,
		OpenAIModel:   c.OpenAIModel,
		OpenAIBaseURL: c.OpenAIBaseURL,
		GeminiKey:     c.GeminiKey,
		GeminiModel:   c.GeminiModel,
		ServiceURL:    c.ServiceURL,
		Timeout:       c.Timeout,
	}
}

// Load reads .env if present, then the environment, applying defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	cfg.Render.Engine = strings.ToLower(strings.TrimSpace(cfg.Render.Engine))

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// MustLoad wraps Load and panics on failure.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", "http://localhost:5173")
	v.SetDefault("log.level", "info")
	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.openai_api_key", "")
	v.SetDefault("llm.openai_model", "gpt-3.5-turbo")
	v.SetDefault("llm.openai_base_url", "")
	v.SetDefault("llm.gemini_api_key", "")
	v.SetDefault("llm.gemini_model", "gemini-2.0-flash")
	v.SetDefault("llm.service_url", "http://ai-service:8000")
	v.SetDefault("llm.timeout", 60*time.Second)
	v.SetDefault("render.engine", EngineFPDF)
	v.SetDefault("render.service_url", "")
	v.SetDefault("render.timeout", 2*time.Minute)
	v.SetDefault("render.chrome_path", "")
	v.SetDefault("legacy.enabled", false)
	v.SetDefault("database.url", "")
}

func bindEnv(v *viper.Viper) error {
	mappings := map[string]string{
		"server.port":         "PORT",
		"server.cors_origins": "CORS_ALLOWED_ORIGINS",
		"log.level":           "LOG_LEVEL",
		"llm.provider":        "LLM_PROVIDER",
		"llm.openai_api_key":  "OPENAI_API_KEY",
		"llm.openai_model":    "OPENAI_MODEL",
		"llm.openai_base_url": "OPENAI_BASE_URL",
		"llm.gemini_api_key":  "GEMINI_API_KEY",
		"llm.gemini_model":    "GEMINI_MODEL",
		"llm.service_url":     "AI_SERVICE_URL",
		"llm.timeout":         "LLM_TIMEOUT",
		"render.engine":       "RENDER_ENGINE",
		"render.service_url":  "RENDER_SERVICE_URL",
		"render.timeout":      "RENDER_TIMEOUT",
		"render.chrome_path":  "CHROME_PATH",
		"legacy.enabled":      "LEGACY_MODE_ENABLED",
		"database.url":        "JOBS_DATABASE_URL",
	}

	for key, env := range mappings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s to %s: %w", key, env, err)
		}
	}

	return nil
}

func validate(cfg Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return errors.New("server port must be between 1 and 65535")
	}
	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", cfg.Log.Level)
	}
	switch cfg.LLM.Provider {
	case "", "openai", "gemini", "http", "mock":
	default:
		return fmt.Errorf("unknown llm provider %q", cfg.LLM.Provider)
	}
	if cfg.LLM.Provider == "openai" && cfg.LLM.OpenAIKey == "" {
		return errors.New("llm provider openai requires OPENAI_API_KEY")
	}
	if cfg.LLM.Provider == "gemini" && cfg.LLM.GeminiKey == "" {
		return errors.New("llm provider gemini requires GEMINI_API_KEY")
	}
	if cfg.LLM.Timeout <= 0 {
		return errors.New("llm timeout must be positive")
	}
	switch cfg.Render.Engine {
	case EngineFPDF, EngineChromedp:
	default:
		return fmt.Errorf("unknown render engine %q", cfg.Render.Engine)
	}
	if cfg.Render.Timeout <= 0 {
		return errors.New("render timeout must be positive")
	}
	return nil
}
