package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// Core
	APIBaseURL string `env:"RYSEN_API_URL,required"`
	IDToken    string `env:"RYSEN_ID_TOKEN,required"`

	// Session policy. Source variants disagree on whether a prior
	// session is resumed after a restart; both paths exist behind
	// this flag.
	ResumeLastSession bool `env:"RYSEN_RESUME_LAST_SESSION" envDefault:"false"`

	// Donation prompt: surface the modal every Nth login. Zero
	// disables the prompt entirely.
	DonationPromptEvery int    `env:"RYSEN_DONATION_PROMPT_EVERY" envDefault:"5"`
	DonationSuccessURL  string `env:"RYSEN_DONATION_SUCCESS_URL" envDefault:"https://rysen.app/donate-success"`
	DonationCancelURL   string `env:"RYSEN_DONATION_CANCEL_URL" envDefault:"https://rysen.app/welcome"`

	// HTTP
	RequestTimeout time.Duration `env:"RYSEN_REQUEST_TIMEOUT" envDefault:"30s"`

	// Readings cache directory. Empty keeps the cache in memory only.
	CacheDir string `env:"RYSEN_CACHE_DIR"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
