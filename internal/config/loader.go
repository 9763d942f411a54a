package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// whitelistSet is a precomputed lookup table for fast whitelist membership checks.
var whitelistSet map[string]bool

func init() {
	whitelistSet = make(map[string]bool, len(WhitelistedVars))
	for _, v := range WhitelistedVars {
		whitelistSet[v] = true
	}
}

// LoadFile parses a dotenv-style config file at the given path.
//
// Parsing follows godotenv: comments, blank lines, export prefixes and quoted
// values are handled there. Keys not present in WhitelistedVars are dropped.
func LoadFile(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return filterWhitelisted(values), nil
}

// FromEnviron extracts whitelisted variables from KEY=VALUE pairs as returned
// by os.Environ.
func FromEnviron(environ []string) map[string]string {
	values := make(map[string]string)
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		values[key] = value
	}
	return filterWhitelisted(values)
}

func filterWhitelisted(values map[string]string) map[string]string {
	result := make(map[string]string)
	for key, value := range values {
		key = strings.TrimSpace(key)
		if whitelistSet[key] {
			result[key] = strings.TrimSpace(value)
		}
	}
	return result
}

// LoadWithPrecedence assembles a Config by merging sources in order of
// increasing priority:
//
//  1. Built-in defaults
//  2. Dotenv file (dotenvPath), skipped when missing
//  3. Explicit config file (explicitPath), which must exist
//  4. Process environment (environ)
//  5. CLI overrides (cliOverrides map)
//
// Any path that is empty is skipped.
func LoadWithPrecedence(dotenvPath, explicitPath string, environ []string, cliOverrides map[string]string) (*Config, error) {
	cfg := NewDefaultConfig()

	// Layer 2: .env file.
	if dotenvPath != "" {
		m, err := LoadFile(dotenvPath)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("dotenv config: %w", err)
			}
		} else {
			ApplyMapToConfig(cfg, m)
		}
	}

	// Layer 3: explicit config file (must exist if specified).
	if explicitPath != "" {
		m, err := LoadFile(explicitPath)
		if err != nil {
			return nil, fmt.Errorf("explicit config: %w", err)
		}
		ApplyMapToConfig(cfg, m)
	}

	// Layer 4: process environment.
	if len(environ) > 0 {
		ApplyMapToConfig(cfg, FromEnviron(environ))
	}

	// Layer 5: CLI overrides (highest priority).
	if len(cliOverrides) > 0 {
		ApplyMapToConfig(cfg, cliOverrides)
	}

	return cfg, nil
}

// ApplyMapToConfig sets fields on cfg from the key-value pairs in m.
// Keys must use the WhitelistedVars naming convention (e.g., "IMAGE_MODEL").
// Unknown keys are silently ignored. Numeric fields that fail to parse
// are silently ignored (the previous value is preserved). API_KEY is an
// alias for GEMINI_API_KEY; when both are present GEMINI_API_KEY wins.
func ApplyMapToConfig(cfg *Config, m map[string]string) {
	if v, ok := m["API_KEY"]; ok {
		if _, primary := m["GEMINI_API_KEY"]; !primary {
			cfg.APIKey = v
		}
	}

	for key, value := range m {
		switch key {
		case "GEMINI_API_KEY":
			cfg.APIKey = value
		case "GEMINI_BASE_URL":
			cfg.BaseURL = value
		case "ANALYSIS_MODEL":
			cfg.AnalysisModel = value
		case "IMAGE_MODEL":
			cfg.ImageModel = value
		case "MAX_ATTEMPTS":
			if v, err := strconv.Atoi(value); err == nil {
				cfg.MaxAttempts = v
			}
		case "INITIAL_DELAY_MS":
			if v, err := strconv.Atoi(value); err == nil {
				cfg.InitialDelay = time.Duration(v) * time.Millisecond
			}
		case "HTTP_TIMEOUT_SEC":
			if v, err := strconv.Atoi(value); err == nil {
				cfg.HTTPTimeout = time.Duration(v) * time.Second
			}
		case "VERBOSE":
			cfg.Verbose = parseBool(value)
		case "LISTEN_ADDR":
			cfg.ListenAddr = value
		case "NOTIFY_WEBHOOK":
			cfg.NotifyWebhook = value
		}
	}
}

// parseBool interprets common boolean representations.
// "true", "1", "yes" (case-insensitive) return true; everything else returns false.
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}
