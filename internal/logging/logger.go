// Package logging provides colored, leveled log output for the storyboard CLI
// and server.
//
// Every line is written to stderr (or the writer set with SetOutput) so that
// stdout stays free for results. Debug output is suppressed unless verbose
// mode is enabled via SetVerbose(true).
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
)

var (
	mu      sync.Mutex
	out     io.Writer = os.Stderr
	verbose bool
)

// Color printers for each log level.
var (
	infoPrefix    = color.New(color.FgBlue).SprintFunc()
	successPrefix = color.New(color.FgGreen).SprintFunc()
	warnPrefix    = color.New(color.FgYellow).SprintFunc()
	errorPrefix   = color.New(color.FgRed).SprintFunc()
	debugPrefix   = color.New(color.FgMagenta).SprintFunc()
)

// SetVerbose enables or disables Debug output.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// SetOutput redirects log output. A nil writer restores stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stderr
	}
	out = w
}

func write(prefix, msg string) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintln(out, prefix+" "+msg)
}

// Info prints an informational message in blue.
func Info(msg string) {
	write(infoPrefix("[INFO]"), msg)
}

// Success prints a success message in green.
func Success(msg string) {
	write(successPrefix("[SUCCESS]"), msg)
}

// Warn prints a warning message in yellow.
func Warn(msg string) {
	write(warnPrefix("[WARN]"), msg)
}

// Error prints an error message in red.
func Error(msg string) {
	write(errorPrefix("[ERROR]"), msg)
}

// Debug prints a debug message, only when verbose mode is enabled.
func Debug(msg string) {
	mu.Lock()
	enabled := verbose
	mu.Unlock()
	if !enabled {
		return
	}
	write(debugPrefix("[DEBUG]"), msg)
}

// FormatDelay renders a backoff or elapsed duration for log lines.
//
// Examples:
//
//	FormatDelay(250 * time.Millisecond) => "250ms"
//	FormatDelay(5 * time.Second)        => "5s"
//	FormatDelay(80 * time.Second)       => "1m 20s"
//	FormatDelay(3661 * time.Second)     => "1h 1m 1s"
func FormatDelay(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	seconds := int(d.Round(time.Second) / time.Second)
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	if seconds < 3600 {
		return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
	}
	return fmt.Sprintf("%dh %dm %ds", seconds/3600, (seconds%3600)/60, seconds%60)
}
