package notification

import (
	"fmt"
	"unicode/utf8"
)

// Event types sent to the webhook.
const (
	EventCompleted   = "completed"
	EventFailed      = "failed"
	EventInterrupted = "interrupted"
	EventRateLimited = "rate_limited"
)

const sceneExcerptLen = 60

// FormatEvent creates a notification message for the given event. detail is
// the failure message for EventFailed and the last error for
// EventRateLimited; it is ignored otherwise. scene is not used for
// EventRateLimited.
func FormatEvent(event, scene string, attempt int, detail string) string {
	scene = excerpt(scene)
	switch event {
	case EventCompleted:
		return fmt.Sprintf("✅ Storyboard frame generated for %q", scene)
	case EventFailed:
		return fmt.Sprintf("❌ Storyboard generation failed for %q: %s", scene, detail)
	case EventInterrupted:
		return fmt.Sprintf("⏸️ Storyboard generation interrupted for %q", scene)
	case EventRateLimited:
		return fmt.Sprintf("⏳ Rate limit hit on attempt %d: %s", attempt, detail)
	default:
		return fmt.Sprintf("ℹ️ Storyboard event %s for %q", event, scene)
	}
}

func excerpt(s string) string {
	if utf8.RuneCountInString(s) <= sceneExcerptLen {
		return s
	}
	r := []rune(s)
	return string(r[:sceneExcerptLen]) + "…"
}
