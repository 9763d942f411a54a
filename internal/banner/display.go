// Package banner provides colored banner display functions for the
// storyboard CLI.
//
// Banners summarize an outcome for a human at the terminal. The CLI writes
// them to stdout unless --json is set.
package banner

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/CodexForgeBR/storyboard-artist/internal/logging"
	"github.com/CodexForgeBR/storyboard-artist/internal/storyboard"
)

const rule = "═══════════════════════════════════════════════════"

var (
	headerColor  = color.New(color.FgCyan, color.Bold).SprintFunc()
	successColor = color.New(color.FgGreen, color.Bold).SprintFunc()
	errorColor   = color.New(color.FgRed, color.Bold).SprintFunc()
	warnColor    = color.New(color.FgYellow, color.Bold).SprintFunc()
)

// PrintResult displays a generated frame's metadata and where it was saved.
//
// Example output:
//
//	═══════════════════════════════════════════════════
//	  ✓ Storyboard frame generated
//	═══════════════════════════════════════════════════
//	  Camera angle: Wide Shot
//	  Mood:         Tense and suspenseful
//	  Image:        storyboard.jpg (48213 bytes)
//	  Duration:     12s
//	═══════════════════════════════════════════════════
func PrintResult(w io.Writer, result *storyboard.Result, path string, size int, elapsed time.Duration) {
	sep := successColor(rule)
	fmt.Fprintln(w, sep)
	fmt.Fprintln(w, successColor("  ✓ Storyboard frame generated"))
	fmt.Fprintln(w, sep)
	fmt.Fprintf(w, "  Camera angle: %s\n", result.CameraAngle)
	fmt.Fprintf(w, "  Mood:         %s\n", result.Mood)
	fmt.Fprintf(w, "  Image:        %s (%d bytes)\n", path, size)
	fmt.Fprintf(w, "  Duration:     %s\n", logging.FormatDelay(elapsed))
	fmt.Fprintln(w, sep)
}

// PrintFailure displays the surfaced generation error.
//
// Example output:
//
//	═══════════════════════════════════════════════════
//	  ✗ STORYBOARD GENERATION FAILED
//	═══════════════════════════════════════════════════
//	  Failed to generate storyboard: Quota exceeded
//	═══════════════════════════════════════════════════
func PrintFailure(w io.Writer, msg string) {
	sep := errorColor(rule)
	fmt.Fprintln(w, sep)
	fmt.Fprintln(w, errorColor("  ✗ STORYBOARD GENERATION FAILED"))
	fmt.Fprintln(w, sep)
	for _, line := range strings.Split(strings.TrimSpace(msg), "\n") {
		fmt.Fprintf(w, "  %s\n", line)
	}
	fmt.Fprintln(w, sep)
}

// PrintInterrupted displays when a generation is cancelled by a signal.
func PrintInterrupted(w io.Writer) {
	sep := warnColor(rule)
	fmt.Fprintln(w, sep)
	fmt.Fprintln(w, warnColor("  ⚠ Generation interrupted"))
	fmt.Fprintln(w, sep)
}

// PrintServerBanner displays the listen address and models at server start.
//
// Example output:
//
//	═══════════════════════════════════════════════════
//	  storyboard - HTTP API
//	═══════════════════════════════════════════════════
//	  Listen:     :8080
//	  Analysis:   gemini-2.5-flash
//	  Image:      imagen-4.0-generate-001
//	  Attempts:   5 (initial delay 5s)
//	═══════════════════════════════════════════════════
func PrintServerBanner(w io.Writer, addr, analysisModel, imageModel string, maxAttempts int, initialDelay time.Duration) {
	sep := headerColor(rule)
	fmt.Fprintln(w, sep)
	fmt.Fprintln(w, headerColor("  storyboard - HTTP API"))
	fmt.Fprintln(w, sep)
	fmt.Fprintf(w, "  Listen:     %s\n", addr)
	fmt.Fprintf(w, "  Analysis:   %s\n", analysisModel)
	fmt.Fprintf(w, "  Image:      %s\n", imageModel)
	fmt.Fprintf(w, "  Attempts:   %d (initial delay %s)\n", maxAttempts, logging.FormatDelay(initialDelay))
	fmt.Fprintln(w, sep)
}
