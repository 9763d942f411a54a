package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/CodexForgeBR/storyboard-artist/internal/banner"
	"github.com/CodexForgeBR/storyboard-artist/internal/cli"
	"github.com/CodexForgeBR/storyboard-artist/internal/config"
	"github.com/CodexForgeBR/storyboard-artist/internal/exitcode"
	"github.com/CodexForgeBR/storyboard-artist/internal/gemini"
	"github.com/CodexForgeBR/storyboard-artist/internal/logging"
	"github.com/CodexForgeBR/storyboard-artist/internal/metrics"
	"github.com/CodexForgeBR/storyboard-artist/internal/notification"
	"github.com/CodexForgeBR/storyboard-artist/internal/server"
	sighandler "github.com/CodexForgeBR/storyboard-artist/internal/signal"
	"github.com/CodexForgeBR/storyboard-artist/internal/storyboard"
)

// version vars injected via ldflags at build time
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// exitError carries a process exit code out of a RunE.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func main() {
	cfg := config.NewDefaultConfig()

	rootCmd := &cobra.Command{
		Use:           "storyboard",
		Short:         "Storyboard frame generator backed by Gemini and Imagen",
		Long:          "Storyboard turns a scene description into a cinematic frame, with a camera angle and mood picked by a language model.",
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cli.BindPersistentFlags(rootCmd, cfg)
	cli.SetCustomHelp(rootCmd)

	generateCmd := &cobra.Command{
		Use:   "generate [flags] <scene description...>",
		Short: "Generate one storyboard frame and save the image",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cli.ValidateFlags(cmd, cfg, args); err != nil {
				return err
			}
			return runGenerate(cmd, cfg, args)
		},
	}
	cli.BindGenerateFlags(generateCmd, cfg)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := cli.ValidateFlags(cmd, cfg, nil); err != nil {
				return err
			}
			return runServe(cmd, cfg)
		},
	}
	cli.BindServeFlags(serveCmd, cfg)

	rootCmd.AddCommand(generateCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		code := exitcode.Error
		var ee *exitError
		if errors.As(err, &ee) {
			code = ee.code
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(code)
	}
}

// loadConfig merges ./.env, --config, the environment and changed flags, then
// carries over the CLI-only fields and applies verbosity.
func loadConfig(cmd *cobra.Command, cfg *config.Config) (*config.Config, error) {
	finalCfg, err := config.LoadWithPrecedence(config.DefaultDotEnvFile, cfg.ConfigFile, os.Environ(), cli.BuildOverrides(cmd, cfg))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// Merge CLI-only flags (not in config files)
	finalCfg.ConfigFile = cfg.ConfigFile
	finalCfg.SceneFile = cfg.SceneFile
	finalCfg.Output = cfg.Output
	finalCfg.JSON = cfg.JSON

	if err := finalCfg.Validate(); err != nil {
		return nil, err
	}

	logging.SetVerbose(finalCfg.Verbose)
	return finalCfg, nil
}

// newGenerator wires the Gemini client, metrics, retry policy and webhook
// notifications.
func newGenerator(cfg *config.Config, m *metrics.Metrics) (*notifyingGenerator, *gemini.Client, error) {
	opts := cfg.GeminiOptions()
	opts.HTTPClient = &http.Client{Timeout: cfg.HTTPTimeout}

	client, err := gemini.NewClient(opts)
	if err != nil {
		return nil, nil, err
	}

	sender := notification.NewSender(cfg.NotifyWebhook, nil)
	orch := storyboard.NewOrchestrator(client, client,
		storyboard.WithRetry(notifyOnRetry(cfg.RetryConfig(), sender)),
		storyboard.WithObserver(m),
	)
	return &notifyingGenerator{orch: orch, sender: sender}, client, nil
}

func runGenerate(cmd *cobra.Command, flagCfg *config.Config, args []string) error {
	cfg, err := loadConfig(cmd, flagCfg)
	if err != nil {
		return err
	}

	description, err := cli.ReadDescription(args, cfg.SceneFile, cmd.InOrStdin())
	if err != nil {
		return err
	}

	gen, client, err := newGenerator(cfg, metrics.New())
	if err != nil {
		return err
	}

	ctx, sig := sighandler.Notify(context.Background(), func(s os.Signal) {
		logging.Warn(fmt.Sprintf("Received %s, stopping", s))
	})
	defer sig.Stop()

	logging.Info(fmt.Sprintf("Generating frame with %s and %s", client.AnalysisModel(), client.ImageModel()))
	start := time.Now()
	result, err := gen.Generate(ctx, description)
	elapsed := time.Since(start)

	out := cmd.OutOrStdout()
	if err != nil {
		if sig.Interrupted() {
			banner.PrintInterrupted(out)
			return &exitError{code: exitcode.Interrupted, err: err}
		}
		if cfg.JSON {
			_ = json.NewEncoder(out).Encode(map[string]string{"error": err.Error()})
		} else {
			banner.PrintFailure(out, err.Error())
		}
		return &exitError{code: exitcode.GenerationFailed, err: err}
	}

	_, image, err := storyboard.DecodeDataURI(result.ImageURL)
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}
	if err := os.WriteFile(cfg.Output, image, 0644); err != nil {
		return fmt.Errorf("write image: %w", err)
	}
	logging.Success(fmt.Sprintf("Saved frame to %s", cfg.Output))

	if cfg.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	banner.PrintResult(out, result, cfg.Output, len(image), elapsed)
	return nil
}

func runServe(cmd *cobra.Command, flagCfg *config.Config) error {
	cfg, err := loadConfig(cmd, flagCfg)
	if err != nil {
		return err
	}

	m := metrics.New()
	gen, client, err := newGenerator(cfg, m)
	if err != nil {
		return err
	}

	ctx, sig := sighandler.Notify(context.Background(), func(s os.Signal) {
		logging.Warn(fmt.Sprintf("Received %s, shutting down", s))
	})
	defer sig.Stop()

	banner.PrintServerBanner(cmd.OutOrStdout(), cfg.ListenAddr, client.AnalysisModel(), client.ImageModel(), cfg.MaxAttempts, cfg.InitialDelay)

	return server.New(gen, m).ListenAndServe(ctx, cfg.ListenAddr)
}
