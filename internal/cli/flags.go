// Package cli provides flag binding, validation and input handling for the
// storyboard CLI.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/CodexForgeBR/storyboard-artist/internal/config"
)

// ErrNoDescription is returned when no scene description was supplied.
var ErrNoDescription = errors.New("a scene description is required (arguments, --scene-file, or - for stdin)")

// BindPersistentFlags registers the flags shared by every subcommand on the
// root command. The flags directly modify fields in the provided config
// pointer. Call BuildOverrides after parsing so that only flags the user set
// take precedence over files and the environment.
func BindPersistentFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.PersistentFlags()

	// Gemini API
	flags.StringVar(&cfg.APIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY)")
	flags.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "Generative Language API base URL")
	flags.StringVar(&cfg.AnalysisModel, "analysis-model", cfg.AnalysisModel, "Model for scene analysis")
	flags.StringVar(&cfg.ImageModel, "image-model", cfg.ImageModel, "Model for frame generation")

	// Retry & transport
	flags.IntVar(&cfg.MaxAttempts, "max-attempts", cfg.MaxAttempts, "Total attempts per API call, including the first")
	flags.DurationVar(&cfg.InitialDelay, "initial-delay", cfg.InitialDelay, "Backoff before the second attempt, doubled on each retry")
	flags.DurationVar(&cfg.HTTPTimeout, "http-timeout", cfg.HTTPTimeout, "Timeout for a single HTTP request (0 disables)")

	// Notifications
	flags.StringVar(&cfg.NotifyWebhook, "notify-webhook", "", "URL that receives a JSON event per generation outcome")

	// Config & runtime
	flags.StringVar(&cfg.ConfigFile, "config", "", "Path to additional config file")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Enable debug logging")
}

// BindGenerateFlags registers the flags of the generate subcommand.
func BindGenerateFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	flags.StringVarP(&cfg.SceneFile, "scene-file", "f", "", "Read the scene description from a file")
	flags.StringVarP(&cfg.Output, "output", "o", cfg.Output, "Path for the generated frame image")
	flags.BoolVar(&cfg.JSON, "json", false, "Print the result as JSON instead of a banner")
}

// BindServeFlags registers the flags of the serve subcommand.
func BindServeFlags(cmd *cobra.Command, cfg *config.Config) {
	cmd.Flags().StringVar(&cfg.ListenAddr, "listen", cfg.ListenAddr, "Address for the HTTP server")
}

// BuildOverrides creates a map of CLI flag overrides from the config.
// Uses cmd.Flags().Changed() to only include flags explicitly set by the user,
// ensuring config file values are not accidentally overridden by default values.
func BuildOverrides(cmd *cobra.Command, cfg *config.Config) map[string]string {
	overrides := make(map[string]string)
	flags := cmd.Flags()

	stringFlags := map[string]struct {
		key string
		val string
	}{
		"api-key":        {"GEMINI_API_KEY", cfg.APIKey},
		"base-url":       {"GEMINI_BASE_URL", cfg.BaseURL},
		"analysis-model": {"ANALYSIS_MODEL", cfg.AnalysisModel},
		"image-model":    {"IMAGE_MODEL", cfg.ImageModel},
		"listen":         {"LISTEN_ADDR", cfg.ListenAddr},
		"notify-webhook": {"NOTIFY_WEBHOOK", cfg.NotifyWebhook},
	}
	for flag, mapping := range stringFlags {
		if flags.Lookup(flag) != nil && flags.Changed(flag) {
			overrides[mapping.key] = mapping.val
		}
	}

	if flags.Changed("max-attempts") {
		overrides["MAX_ATTEMPTS"] = strconv.Itoa(cfg.MaxAttempts)
	}
	if flags.Changed("initial-delay") {
		overrides["INITIAL_DELAY_MS"] = strconv.FormatInt(cfg.InitialDelay.Milliseconds(), 10)
	}
	if flags.Changed("http-timeout") {
		overrides["HTTP_TIMEOUT_SEC"] = strconv.FormatInt(int64(cfg.HTTPTimeout/time.Second), 10)
	}
	if flags.Changed("verbose") {
		overrides["VERBOSE"] = strconv.FormatBool(cfg.Verbose)
	}

	return overrides
}

// ValidateFlags checks for invalid flag combinations after parsing.
// Must be called after cmd.Execute() or cmd.ParseFlags().
func ValidateFlags(cmd *cobra.Command, cfg *config.Config, args []string) error {
	// --config must exist if provided
	if cfg.ConfigFile != "" {
		if _, err := os.Stat(cfg.ConfigFile); err != nil {
			return fmt.Errorf("--config: %w", err)
		}
	}

	// --scene-file must exist and excludes positional text
	if cfg.SceneFile != "" {
		if len(args) > 0 {
			return fmt.Errorf("--scene-file and a positional description are mutually exclusive")
		}
		if _, err := os.Stat(cfg.SceneFile); err != nil {
			return fmt.Errorf("--scene-file: %w", err)
		}
	}

	if cmd.Flags().Changed("max-attempts") && cfg.MaxAttempts < 1 {
		return fmt.Errorf("--max-attempts must be at least 1, got: %d", cfg.MaxAttempts)
	}
	if cmd.Flags().Changed("initial-delay") && cfg.InitialDelay <= 0 {
		return fmt.Errorf("--initial-delay must be positive, got: %s", cfg.InitialDelay)
	}

	if lookup := cmd.Flags().Lookup("output"); lookup != nil && strings.TrimSpace(cfg.Output) == "" {
		return fmt.Errorf("--output must not be empty")
	}

	return nil
}

// ReadDescription returns the scene description from, in order, the scene
// file, stdin when args is exactly "-", or the joined positional arguments.
func ReadDescription(args []string, sceneFile string, stdin io.Reader) (string, error) {
	var text string

	switch {
	case sceneFile != "":
		data, err := os.ReadFile(sceneFile)
		if err != nil {
			return "", fmt.Errorf("read scene file: %w", err)
		}
		text = string(data)
	case len(args) == 1 && args[0] == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		text = string(data)
	default:
		text = strings.Join(args, " ")
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrNoDescription
	}
	return text, nil
}
