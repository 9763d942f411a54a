// Package config defines the storyboard configuration model and default values.
//
// Configuration is assembled from multiple sources with a strict precedence
// chain: built-in defaults < .env file < explicit config file < process
// environment < CLI flag overrides. The result is validated once at startup
// and then passed by value to the components that need it.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/CodexForgeBR/storyboard-artist/internal/ai"
	"github.com/CodexForgeBR/storyboard-artist/internal/gemini"
)

// WhitelistedVars lists every configuration variable name that may appear in
// config files or the environment. Other variables are silently ignored.
var WhitelistedVars = [11]string{
	"GEMINI_API_KEY",
	"API_KEY",
	"GEMINI_BASE_URL",
	"ANALYSIS_MODEL",
	"IMAGE_MODEL",
	"MAX_ATTEMPTS",
	"INITIAL_DELAY_MS",
	"HTTP_TIMEOUT_SEC",
	"VERBOSE",
	"LISTEN_ADDR",
	"NOTIFY_WEBHOOK",
}

// Defaults not owned by another package.
const (
	DefaultHTTPTimeout = gemini.DefaultTimeout
	DefaultListenAddr  = ":8080"
	DefaultOutput      = "storyboard.jpg"
	DefaultDotEnvFile  = ".env"
)

// Validation errors.
var (
	ErrMissingAPIKey       = errors.New("GEMINI_API_KEY (or API_KEY) is not set")
	ErrInvalidMaxAttempts  = errors.New("max attempts must be at least 1")
	ErrInvalidInitialDelay = errors.New("initial delay must be positive")
	ErrInvalidHTTPTimeout  = errors.New("http timeout must not be negative")
)

// Config holds every configuration field for the storyboard CLI and server.
type Config struct {
	// Gemini API access.
	APIKey        string
	BaseURL       string
	AnalysisModel string
	ImageModel    string

	// Retry policy.
	MaxAttempts  int
	InitialDelay time.Duration

	// Transport.
	HTTPTimeout time.Duration

	// Server.
	ListenAddr string

	// Notifications.
	NotifyWebhook string

	// Runtime flags.
	Verbose bool

	// CLI-only flags (not loaded from config files).
	ConfigFile string
	SceneFile  string
	Output     string
	JSON       bool
}

// NewDefaultConfig returns a Config populated with all built-in default values.
func NewDefaultConfig() *Config {
	return &Config{
		BaseURL:       gemini.DefaultBaseURL,
		AnalysisModel: gemini.DefaultAnalysisModel,
		ImageModel:    gemini.DefaultImageModel,
		MaxAttempts:   ai.DefaultMaxAttempts,
		InitialDelay:  ai.DefaultInitialDelay,
		HTTPTimeout:   DefaultHTTPTimeout,
		ListenAddr:    DefaultListenAddr,
		Output:        DefaultOutput,
	}
}

// Validate reports every problem that would prevent a generation from
// running. It is called once after all layers have been applied.
func (c *Config) Validate() error {
	var errs []error
	if c.APIKey == "" {
		errs = append(errs, ErrMissingAPIKey)
	}
	if c.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("%w (got %d)", ErrInvalidMaxAttempts, c.MaxAttempts))
	}
	if c.InitialDelay <= 0 {
		errs = append(errs, fmt.Errorf("%w (got %s)", ErrInvalidInitialDelay, c.InitialDelay))
	}
	if c.HTTPTimeout < 0 {
		errs = append(errs, fmt.Errorf("%w (got %s)", ErrInvalidHTTPTimeout, c.HTTPTimeout))
	}
	return errors.Join(errs...)
}

// RetryConfig returns the executor settings derived from c.
func (c *Config) RetryConfig() ai.RetryConfig {
	return ai.RetryConfig{
		MaxAttempts:  c.MaxAttempts,
		InitialDelay: c.InitialDelay,
	}
}

// GeminiOptions returns the client options derived from c. The HTTP client
// is left for the caller to build from HTTPTimeout.
func (c *Config) GeminiOptions() gemini.Options {
	return gemini.Options{
		APIKey:        c.APIKey,
		BaseURL:       c.BaseURL,
		AnalysisModel: c.AnalysisModel,
		ImageModel:    c.ImageModel,
	}
}
