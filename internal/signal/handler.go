// Package signal ties SIGINT and SIGTERM to context cancellation so that an
// in-flight generation, including a backoff wait, stops promptly.
package signal

import (
	"context"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
)

// Handler tracks whether an interrupt cancelled its context.
type Handler struct {
	sigCh       chan os.Signal
	cancel      context.CancelFunc
	interrupted atomic.Bool
}

// Notify returns a child of parent that is cancelled on SIGINT or SIGTERM.
// onInterrupt, if non-nil, runs with the received signal before the context
// is cancelled. Call Stop to release the signal registration.
//
// Example usage:
//
//	ctx, h := signal.Notify(context.Background(), func(sig os.Signal) {
//	    logging.Warn("Received " + sig.String() + ", stopping")
//	})
//	defer h.Stop()
func Notify(parent context.Context, onInterrupt func(os.Signal)) (context.Context, *Handler) {
	ctx, cancel := context.WithCancel(parent)
	h := &Handler{
		sigCh:  make(chan os.Signal, 1),
		cancel: cancel,
	}
	signal.Notify(h.sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-h.sigCh:
			h.interrupted.Store(true)
			if onInterrupt != nil {
				onInterrupt(sig)
			}
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, h
}

// Interrupted reports whether a signal was received.
func (h *Handler) Interrupted() bool {
	return h.interrupted.Load()
}

// Stop unregisters the signal handler and cancels the context.
func (h *Handler) Stop() {
	signal.Stop(h.sigCh)
	h.cancel()
}
