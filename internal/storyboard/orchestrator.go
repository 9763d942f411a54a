package storyboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/CodexForgeBR/storyboard-artist/internal/ai"
	"github.com/CodexForgeBR/storyboard-artist/internal/logging"
	"github.com/CodexForgeBR/storyboard-artist/internal/ratelimit"
)

// Orchestrator runs the scene analysis and the image generation for one
// description and merges them into a Result.
//
// An Orchestrator holds no per-call state; Generate may be called
// concurrently and each call is independent.
type Orchestrator struct {
	analyzer SceneAnalyzer
	images   ImageGenerator
	retry    ai.RetryConfig
	observer Observer
	now      func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithRetry sets the backoff policy applied to each outbound call.
func WithRetry(cfg ai.RetryConfig) Option {
	return func(o *Orchestrator) {
		o.retry = cfg
	}
}

// WithObserver registers an Observer for attempt and outcome telemetry.
func WithObserver(obs Observer) Option {
	return func(o *Orchestrator) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// NewOrchestrator builds an Orchestrator over the given collaborators.
func NewOrchestrator(analyzer SceneAnalyzer, images ImageGenerator, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		analyzer: analyzer,
		images:   images,
		observer: nopObserver{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Generate produces one storyboard frame for description.
//
// The analysis call runs first and the image call only after it succeeds.
// Both go through ai.Run, so rate-limit failures are retried with
// exponential backoff. Any failure yields an *Error carrying the normalized
// message; an analysis that succeeded is discarded when the image call fails.
func (o *Orchestrator) Generate(ctx context.Context, description string) (*Result, error) {
	start := o.now()

	result, err := o.generate(ctx, description)

	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	o.observer.GenerationFinished(outcome, o.now().Sub(start))

	if err != nil {
		return nil, newError(err)
	}
	return result, nil
}

func (o *Orchestrator) generate(ctx context.Context, description string) (*Result, error) {
	if strings.TrimSpace(description) == "" {
		return nil, ErrEmptyDescription
	}

	logging.Debug("Analyzing scene")
	analysis, err := ai.Run(ctx, o.retryFor(CallAnalyze), func(ctx context.Context) (Analysis, error) {
		o.observer.CallAttempted(CallAnalyze)
		return o.analyzer.AnalyzeScene(ctx, description)
	})
	if err != nil {
		return nil, err
	}
	logging.Debug(fmt.Sprintf("Scene analysis: %s, %s", analysis.CameraAngle, analysis.Mood))

	logging.Debug("Generating frame")
	imageURL, err := ai.Run(ctx, o.retryFor(CallImage), func(ctx context.Context) (string, error) {
		o.observer.CallAttempted(CallImage)
		return o.images.GenerateFrame(ctx, description)
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		ImageURL:    imageURL,
		CameraAngle: analysis.CameraAngle,
		Mood:        analysis.Mood,
	}, nil
}

// retryFor returns the retry config for one call, with logging and observer
// notification chained in front of any caller-supplied OnRetry hook.
func (o *Orchestrator) retryFor(call string) ai.RetryConfig {
	cfg := o.retry
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = ai.DefaultMaxAttempts
	}
	next := cfg.OnRetry

	cfg.OnRetry = func(attempt int, delay time.Duration, err error) {
		msg := fmt.Sprintf("Rate limit hit. Retrying in %s (attempt %d/%d)",
			logging.FormatDelay(delay), attempt, maxAttempts)
		if hint, ok := ratelimit.ParseRetryDelay(err.Error()); ok {
			msg += fmt.Sprintf(", server suggested %s", logging.FormatDelay(hint))
		}
		logging.Warn(msg)

		o.observer.CallRetried(call, attempt, delay)
		if next != nil {
			next(attempt, delay, err)
		}
	}
	return cfg
}
