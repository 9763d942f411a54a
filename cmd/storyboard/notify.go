package main

import (
	"context"
	"errors"
	"time"

	"github.com/CodexForgeBR/storyboard-artist/internal/ai"
	"github.com/CodexForgeBR/storyboard-artist/internal/notification"
	"github.com/CodexForgeBR/storyboard-artist/internal/storyboard"
)

// notifyingGenerator reports each generation outcome to the webhook.
type notifyingGenerator struct {
	orch   *storyboard.Orchestrator
	sender *notification.Sender
}

func (g *notifyingGenerator) Generate(ctx context.Context, description string) (*storyboard.Result, error) {
	result, err := g.orch.Generate(ctx, description)

	switch {
	case err == nil:
		g.sender.Send(ctx, notification.EventCompleted,
			notification.FormatEvent(notification.EventCompleted, description, 0, ""))
	case errors.Is(err, context.Canceled):
		g.sender.Send(ctx, notification.EventInterrupted,
			notification.FormatEvent(notification.EventInterrupted, description, 0, ""))
	default:
		g.sender.Send(ctx, notification.EventFailed,
			notification.FormatEvent(notification.EventFailed, description, 0, err.Error()))
	}
	return result, err
}

// notifyOnRetry adds a rate_limited event in front of each backoff wait.
// The retry hook has no request context, so deliveries are bounded only by
// notification.SendTimeout.
func notifyOnRetry(cfg ai.RetryConfig, sender *notification.Sender) ai.RetryConfig {
	if !sender.Enabled() {
		return cfg
	}
	cfg.OnRetry = func(attempt int, _ time.Duration, err error) {
		sender.Send(context.Background(), notification.EventRateLimited,
			notification.FormatEvent(notification.EventRateLimited, "", attempt, storyboard.NormalizeMessage(err.Error())))
	}
	return cfg
}
