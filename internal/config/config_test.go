package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("RYSEN_API_URL", "http://localhost:8800")
	t.Setenv("RYSEN_ID_TOKEN", "token")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8800", cfg.APIBaseURL)
	assert.False(t, cfg.ResumeLastSession)
	assert.Equal(t, 5, cfg.DonationPromptEvery)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Empty(t, cfg.CacheDir)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("RYSEN_API_URL", "http://localhost:8800")
	t.Setenv("RYSEN_ID_TOKEN", "token")
	t.Setenv("RYSEN_RESUME_LAST_SESSION", "true")
	t.Setenv("RYSEN_DONATION_PROMPT_EVERY", "3")
	t.Setenv("RYSEN_REQUEST_TIMEOUT", "10s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.ResumeLastSession)
	assert.Equal(t, 3, cfg.DonationPromptEvery)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
}

func TestLoadRequiresAPIURL(t *testing.T) {
	// t.Setenv restores the original value; unsetting afterwards makes
	// the variable genuinely absent for the required check.
	t.Setenv("RYSEN_API_URL", "")
	os.Unsetenv("RYSEN_API_URL")
	t.Setenv("RYSEN_ID_TOKEN", "token")

	_, err := Load()
	assert.Error(t, err)
}
