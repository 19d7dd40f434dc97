package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath   string     `env:"DB_PATH" envDefault:"data/horacero.db"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	SPADir   string     `env:"SPA_DIR" envDefault:"web/dist"`

	// Provider selects the dilemma/evaluation backend: genai, dataset
	// or stub.
	Provider     string `env:"PROVIDER" envDefault:"dataset"`
	GenAIAPIKey  string `env:"GENAI_API_KEY"`
	GenAIModel   string `env:"GENAI_MODEL" envDefault:"gemini-2.5-flash"`
	GenAIBaseURL string `env:"GENAI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta2"`

	AdminPassword string `env:"ADMIN_PASSWORD" envDefault:"horacero"`
	SeedDemo      bool   `env:"SEED_DEMO" envDefault:"false"`

	// Game pacing.
	FetchDelay   time.Duration `env:"FETCH_DELAY" envDefault:"1500ms"`
	SpeechTTL    time.Duration `env:"SPEECH_TTL" envDefault:"4s"`
	PollInterval time.Duration `env:"POLL_INTERVAL" envDefault:"3s"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
