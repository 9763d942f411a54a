// Package storyboard turns a scene description into a storyboard frame: a
// generated image plus camera-angle and mood direction.
//
// The Orchestrator calls a SceneAnalyzer and then an ImageGenerator, each
// through the retry executor in internal/ai, and merges both outcomes into a
// Result. Either both calls succeed or the whole generation fails.
package storyboard

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// CameraAngle is the shot type suggested for a scene.
type CameraAngle string

// Supported camera angles.
const (
	WideShot      CameraAngle = "Wide Shot"
	CloseUp       CameraAngle = "Close-Up"
	TopShot       CameraAngle = "Top Shot"
	ShoulderLevel CameraAngle = "Shoulder Level"
	EyeLevel      CameraAngle = "Eye Level"
	HighAngle     CameraAngle = "High Angle"
	LowAngle      CameraAngle = "Low Angle"
)

// CameraAngles lists every supported angle in presentation order.
var CameraAngles = []CameraAngle{WideShot, CloseUp, TopShot, ShoulderLevel, EyeLevel, HighAngle, LowAngle}

// ParseCameraAngle matches s against the supported angles, ignoring case and
// surrounding whitespace.
func ParseCameraAngle(s string) (CameraAngle, error) {
	s = strings.TrimSpace(s)
	for _, a := range CameraAngles {
		if strings.EqualFold(s, string(a)) {
			return a, nil
		}
	}
	return "", fmt.Errorf("unsupported camera angle %q", s)
}

// Analysis is the scene analyzer's outcome.
type Analysis struct {
	CameraAngle CameraAngle `json:"cameraAngle"`
	Mood        string      `json:"mood"`
}

// Result is one generated storyboard frame. It is built once from a
// successful analysis and a successful image call and never modified.
type Result struct {
	ImageURL    string      `json:"imageUrl"`
	CameraAngle CameraAngle `json:"cameraAngle"`
	Mood        string      `json:"mood"`
}

// SceneAnalyzer derives camera angle and mood from a scene description.
// Implementations must fail with ErrSceneMetadata rather than return an
// empty Analysis when the upstream response cannot be parsed.
type SceneAnalyzer interface {
	AnalyzeScene(ctx context.Context, description string) (Analysis, error)
}

// ImageGenerator renders one storyboard frame for a scene description and
// returns it as a data URI. Implementations must fail with ErrNoImages when
// the upstream returns no image.
type ImageGenerator interface {
	GenerateFrame(ctx context.Context, description string) (string, error)
}

// Call names reported to an Observer.
const (
	CallAnalyze = "analyze"
	CallImage   = "image"
)

// Generation outcomes reported to an Observer.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Observer receives generation telemetry. All methods must be safe for
// concurrent use.
type Observer interface {
	CallAttempted(call string)
	CallRetried(call string, attempt int, delay time.Duration)
	GenerationFinished(outcome string, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) CallAttempted(string)                     {}
func (nopObserver) CallRetried(string, int, time.Duration)   {}
func (nopObserver) GenerationFinished(string, time.Duration) {}
