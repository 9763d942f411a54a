package gemini

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/CodexForgeBR/storyboard-artist/internal/prompt"
	"github.com/CodexForgeBR/storyboard-artist/internal/storyboard"
)

// Frame rendering parameters.
const (
	FrameAspectRatio = "16:9"
	FrameMimeType    = "image/jpeg"
)

type predictRequest struct {
	Instances  []predictInstance `json:"instances"`
	Parameters predictParameters `json:"parameters"`
}

type predictInstance struct {
	Prompt string `json:"prompt"`
}

type predictParameters struct {
	SampleCount   int           `json:"sampleCount"`
	AspectRatio   string        `json:"aspectRatio,omitempty"`
	OutputOptions outputOptions `json:"outputOptions"`
}

type outputOptions struct {
	MimeType string `json:"mimeType"`
}

type predictResponse struct {
	Predictions []struct {
		BytesBase64Encoded string `json:"bytesBase64Encoded"`
		MimeType           string `json:"mimeType"`
		RAIFilteredReason  string `json:"raiFilteredReason,omitempty"`
	} `json:"predictions"`
}

// GenerateFrame renders one storyboard frame and returns it as a data URI.
// An empty prediction list fails with storyboard.ErrNoImages.
func (c *Client) GenerateFrame(ctx context.Context, description string) (string, error) {
	payload := predictRequest{
		Instances: []predictInstance{{Prompt: prompt.BuildFramePrompt(description)}},
		Parameters: predictParameters{
			SampleCount:   1,
			AspectRatio:   FrameAspectRatio,
			OutputOptions: outputOptions{MimeType: FrameMimeType},
		},
	}

	var resp predictResponse
	if err := c.invoke(ctx, c.imageModel, "predict", payload, &resp); err != nil {
		return "", err
	}

	for _, p := range resp.Predictions {
		if p.BytesBase64Encoded == "" {
			continue
		}
		data, err := base64.StdEncoding.DecodeString(p.BytesBase64Encoded)
		if err != nil {
			return "", fmt.Errorf("decode image bytes: %w", err)
		}
		return storyboard.EncodeDataURI(firstNonEmpty(p.MimeType, FrameMimeType), data), nil
	}

	if len(resp.Predictions) > 0 && resp.Predictions[0].RAIFilteredReason != "" {
		return "", fmt.Errorf("%w: %s", storyboard.ErrNoImages, resp.Predictions[0].RAIFilteredReason)
	}
	return "", storyboard.ErrNoImages
}

var _ storyboard.ImageGenerator = (*Client)(nil)
