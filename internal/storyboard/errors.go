package storyboard

import (
	"encoding/json"
	"errors"

	"github.com/CodexForgeBR/storyboard-artist/internal/parser"
)

// FailurePrefix starts every message of a failed generation.
const FailurePrefix = "Failed to generate storyboard: "

// Domain errors raised by analyzer and image generator implementations.
var (
	ErrSceneMetadata    = errors.New("Could not determine scene metadata.")
	ErrNoImages         = errors.New("Image generation failed or returned no images.")
	ErrEmptyDescription = errors.New("scene description is empty")
)

// Error is the single failure type returned by Orchestrator.Generate.
// Message holds the cleaned-up, human-readable cause.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string {
	return FailurePrefix + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(err error) *Error {
	return &Error{Message: NormalizeMessage(err.Error()), Err: err}
}

type apiErrorEnvelope struct {
	Error json.RawMessage `json:"error"`
}

type apiErrorBody struct {
	Message string `json:"message"`
}

// NormalizeMessage returns the nested error.message of a JSON object embedded
// anywhere in msg, or msg unchanged when there is no such object.
func NormalizeMessage(msg string) string {
	raw, ok := parser.ExtractObject(msg)
	if !ok {
		return msg
	}

	var envelope apiErrorEnvelope
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil || len(envelope.Error) == 0 {
		return msg
	}

	var body apiErrorBody
	if err := json.Unmarshal(envelope.Error, &body); err != nil || body.Message == "" {
		return msg
	}
	return body.Message
}
