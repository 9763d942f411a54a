package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/CodexForgeBR/storyboard-artist/internal/logging"
	"github.com/CodexForgeBR/storyboard-artist/internal/parser"
	"github.com/CodexForgeBR/storyboard-artist/internal/prompt"
	"github.com/CodexForgeBR/storyboard-artist/internal/storyboard"
)

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text,omitempty"`
}

type schema struct {
	Type        string            `json:"type"`
	Description string            `json:"description,omitempty"`
	Enum        []string          `json:"enum,omitempty"`
	Properties  map[string]schema `json:"properties,omitempty"`
	Required    []string          `json:"required,omitempty"`
}

type generationConfig struct {
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
	ResponseSchema   *schema `json:"responseSchema,omitempty"`
}

type generateContentRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason,omitempty"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason,omitempty"`
	} `json:"promptFeedback,omitempty"`
}

type sceneMetadata struct {
	CameraAngle string `json:"cameraAngle"`
	Mood        string `json:"mood"`
}

func angleNames() []string {
	names := make([]string, len(storyboard.CameraAngles))
	for i, a := range storyboard.CameraAngles {
		names[i] = string(a)
	}
	return names
}

func analysisSchema() *schema {
	return &schema{
		Type: "OBJECT",
		Properties: map[string]schema{
			"cameraAngle": {
				Type:        "STRING",
				Description: "The selected camera angle for the scene.",
				Enum:        angleNames(),
			},
			"mood": {
				Type:        "STRING",
				Description: "The determined mood of the scene.",
			},
		},
		Required: []string{"cameraAngle", "mood"},
	}
}

// AnalyzeScene asks the analysis model for a camera angle and mood.
// A response that does not parse into a known angle and a non-empty mood
// fails with a *MetadataError, which unwraps to storyboard.ErrSceneMetadata.
func (c *Client) AnalyzeScene(ctx context.Context, description string) (storyboard.Analysis, error) {
	payload := generateContentRequest{
		Contents: []content{{
			Role:  "user",
			Parts: []part{{Text: prompt.BuildAnalysisPrompt(description, angleNames())}},
		}},
		GenerationConfig: &generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   analysisSchema(),
		},
	}

	var resp generateContentResponse
	if err := c.invoke(ctx, c.analysisModel, "generateContent", payload, &resp); err != nil {
		return storyboard.Analysis{}, err
	}

	text := responseText(resp)
	analysis, err := parseAnalysis(text)
	if err != nil {
		detail := err.Error()
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			detail = "prompt blocked: " + resp.PromptFeedback.BlockReason
		}
		logging.Debug(fmt.Sprintf("gemini: failed to parse analysis response (%s): %s", detail, text))
		return storyboard.Analysis{}, &MetadataError{Detail: detail}
	}
	return analysis, nil
}

func responseText(resp generateContentResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return strings.TrimSpace(b.String())
}

func parseAnalysis(text string) (storyboard.Analysis, error) {
	meta, err := parser.Decode[sceneMetadata](text, `"cameraAngle"`)
	if err != nil {
		return storyboard.Analysis{}, err
	}

	angle, err := storyboard.ParseCameraAngle(meta.CameraAngle)
	if err != nil {
		return storyboard.Analysis{}, err
	}

	mood := strings.TrimSpace(meta.Mood)
	if mood == "" {
		return storyboard.Analysis{}, errors.New("mood is empty")
	}
	return storyboard.Analysis{CameraAngle: angle, Mood: mood}, nil
}

var _ storyboard.SceneAnalyzer = (*Client)(nil)
