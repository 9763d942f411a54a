package config

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodexForgeBR/storyboard-artist/internal/ai"
)

func TestNewDefaultConfigValues(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Empty(t, cfg.APIKey)
	assert.Equal(t, "https://generativelanguage.googleapis.com/v1beta", cfg.BaseURL)
	assert.Equal(t, "gemini-2.5-flash", cfg.AnalysisModel)
	assert.Equal(t, "imagen-4.0-generate-001", cfg.ImageModel)
	assert.Equal(t, 5, cfg.MaxAttempts)
	assert.Equal(t, 5*time.Second, cfg.InitialDelay)
	assert.Equal(t, 60*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "storyboard.jpg", cfg.Output)
	assert.False(t, cfg.Verbose)
	assert.False(t, cfg.JSON)
}

func TestWhitelistedVarsHasNoDuplicates(t *testing.T) {
	seen := make(map[string]bool)
	for _, v := range WhitelistedVars {
		assert.False(t, seen[v], "duplicate whitelisted var: %s", v)
		seen[v] = true
	}
}

// ---------------------------------------------------------------------------
// Validate tests
// ---------------------------------------------------------------------------

func validConfig() *Config {
	cfg := NewDefaultConfig()
	cfg.APIKey = "key"
	return cfg
}

func TestValidateAcceptsDefaultsWithKey(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidateZeroHTTPTimeoutAllowed(t *testing.T) {
	cfg := validConfig()
	cfg.HTTPTimeout = 0
	assert.NoError(t, cfg.Validate())
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		target error
	}{
		{"missing key", func(c *Config) { c.APIKey = "" }, ErrMissingAPIKey},
		{"zero attempts", func(c *Config) { c.MaxAttempts = 0 }, ErrInvalidMaxAttempts},
		{"negative attempts", func(c *Config) { c.MaxAttempts = -2 }, ErrInvalidMaxAttempts},
		{"negative delay", func(c *Config) { c.InitialDelay = -time.Second }, ErrInvalidInitialDelay},
		{"zero delay", func(c *Config) { c.InitialDelay = 0 }, ErrInvalidInitialDelay},
		{"negative timeout", func(c *Config) { c.HTTPTimeout = -time.Second }, ErrInvalidHTTPTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.target)
		})
	}
}

func TestValidateReportsAllProblems(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.MaxAttempts = 0
	cfg.InitialDelay = -time.Millisecond

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
	assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
	assert.ErrorIs(t, err, ErrInvalidInitialDelay)
	assert.Contains(t, err.Error(), "(got 0)")
}

// ---------------------------------------------------------------------------
// Derived settings
// ---------------------------------------------------------------------------

func TestRetryConfig(t *testing.T) {
	cfg := validConfig()
	cfg.MaxAttempts = 3
	cfg.InitialDelay = 250 * time.Millisecond

	rc := cfg.RetryConfig()
	assert.Equal(t, 3, rc.MaxAttempts)
	assert.Equal(t, 250*time.Millisecond, rc.InitialDelay)
	assert.Nil(t, rc.OnRetry)
}

func TestGeminiOptions(t *testing.T) {
	cfg := validConfig()
	cfg.BaseURL = "http://localhost:1234"
	cfg.ImageModel = "imagen-test"

	opts := cfg.GeminiOptions()
	assert.Equal(t, "key", opts.APIKey)
	assert.Equal(t, "http://localhost:1234", opts.BaseURL)
	assert.Equal(t, "gemini-2.5-flash", opts.AnalysisModel)
	assert.Equal(t, "imagen-test", opts.ImageModel)
	assert.Nil(t, opts.HTTPClient)
}

func TestRetryConfigDrivesBackoff(t *testing.T) {
	cfg, err := LoadWithPrecedence("", "", []string{"GEMINI_API_KEY=k", "INITIAL_DELAY_MS=250", "MAX_ATTEMPTS=3"}, nil)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	var delays []time.Duration
	retry := cfg.RetryConfig()
	retry.Sleep = func(_ context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}

	_, err = ai.Run(context.Background(), retry, func(context.Context) (int, error) {
		return 0, errors.New("RESOURCE_EXHAUSTED")
	})

	var exhausted *ai.ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, []time.Duration{250 * time.Millisecond, 500 * time.Millisecond}, delays)
}

func TestZeroInitialDelayRejectedBeforeRetry(t *testing.T) {
	cfg, err := LoadWithPrecedence("", "", []string{"GEMINI_API_KEY=k", "INITIAL_DELAY_MS=0"}, nil)
	require.NoError(t, err)

	assert.Equal(t, time.Duration(0), cfg.InitialDelay)
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidInitialDelay)
}
