package gemini

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/CodexForgeBR/storyboard-artist/internal/ratelimit"
	"github.com/CodexForgeBR/storyboard-artist/internal/storyboard"
)

// APIError is a non-2xx response from the API.
//
// Error() keeps the response body in compact JSON form so the storyboard
// layer can lift error.message out of it, and so that text-based rate-limit
// detection still sees the "code":429 marker.
type APIError struct {
	StatusCode int
	Code       int
	Status     string
	Message    string
	Body       string
}

type errorEnvelope struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func newAPIError(statusCode int, body []byte) *APIError {
	e := &APIError{StatusCode: statusCode}

	var compact bytes.Buffer
	if err := json.Compact(&compact, body); err == nil {
		e.Body = compact.String()
	} else {
		e.Body = strings.TrimSpace(string(body))
	}

	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil {
		e.Code = envelope.Error.Code
		e.Status = envelope.Error.Status
		e.Message = envelope.Error.Message
	}
	return e
}

func (e *APIError) Error() string {
	switch {
	case e.Body != "":
		return fmt.Sprintf("gemini status %d: %s", e.StatusCode, e.Body)
	case e.Message != "":
		return fmt.Sprintf("gemini status %d: %s", e.StatusCode, e.Message)
	default:
		return fmt.Sprintf("gemini status %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
}

// Kind reports quota and rate-limit responses as transient.
func (e *APIError) Kind() ratelimit.Kind {
	if e.StatusCode == http.StatusTooManyRequests ||
		e.Code == http.StatusTooManyRequests ||
		e.Status == ratelimit.MarkerResourceExhausted {
		return ratelimit.KindTransient
	}
	return ratelimit.KindPermanent
}

// MetadataError reports an analysis response that could not be turned into
// a camera angle and mood. Error() is always the fixed
// storyboard.ErrSceneMetadata text; Detail keeps the parse failure, which may
// quote model output, for debugging only.
type MetadataError struct {
	Detail string
}

func (e *MetadataError) Error() string {
	return storyboard.ErrSceneMetadata.Error()
}

func (e *MetadataError) Unwrap() error {
	return storyboard.ErrSceneMetadata
}

// Kind reports a malformed analysis as permanent. Retrying the same prompt
// is not expected to fix it, whatever text the model produced.
func (e *MetadataError) Kind() ratelimit.Kind {
	return ratelimit.KindPermanent
}
