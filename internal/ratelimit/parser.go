// Package ratelimit classifies upstream failures as transient (quota or rate
// limiting) or permanent, and provides the context-aware backoff wait used by
// the retry executor.
package ratelimit

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// Kind tells the retry executor whether a failure is worth another attempt.
type Kind int

const (
	// KindUnknown means the error did not declare a kind. Classify falls back
	// to message inspection for it.
	KindUnknown Kind = iota
	// KindTransient marks rate-limit and quota exhaustion failures.
	KindTransient
	// KindPermanent marks failures that must propagate without retry.
	KindPermanent
)

func (k Kind) String() string {
	switch k {
	case KindTransient:
		return "transient"
	case KindPermanent:
		return "permanent"
	default:
		return "unknown"
	}
}

// Kinded is implemented by boundary errors that know their own kind, such as
// an HTTP client error built from a status code.
type Kinded interface {
	Kind() Kind
}

// Markers matched against error text when no structured kind is available.
const (
	MarkerCode429           = `"code":429`
	MarkerResourceExhausted = "RESOURCE_EXHAUSTED"
)

var retryDelayPattern = regexp.MustCompile(`"retryDelay"\s*:\s*"(\d+(?:\.\d+)?s)"`)

// Classify returns the kind of err.
//
// A Kinded error anywhere in the chain that reports a concrete kind wins.
// Otherwise the message is inspected for MarkerCode429 or
// MarkerResourceExhausted. An error that is in fact rate limited but carries
// neither a kind nor a marker is classified permanent; that is a known
// limitation of text matching.
func Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	var kinded Kinded
	if errors.As(err, &kinded) {
		if k := kinded.Kind(); k != KindUnknown {
			return k
		}
	}

	if IsRateLimitMessage(err.Error()) {
		return KindTransient
	}
	return KindPermanent
}

// IsTransient reports whether Classify(err) is KindTransient.
func IsTransient(err error) bool {
	return Classify(err) == KindTransient
}

// IsRateLimitMessage reports whether msg carries one of the rate-limit markers.
func IsRateLimitMessage(msg string) bool {
	return strings.Contains(msg, MarkerCode429) || strings.Contains(msg, MarkerResourceExhausted)
}

// ParseRetryDelay extracts the server's "retryDelay" hint (for example
// "retryDelay": "17s") from an error body. Returns false when absent.
func ParseRetryDelay(text string) (time.Duration, bool) {
	match := retryDelayPattern.FindStringSubmatch(text)
	if match == nil {
		return 0, false
	}
	d, err := time.ParseDuration(match[1])
	if err != nil {
		return 0, false
	}
	return d, true
}
