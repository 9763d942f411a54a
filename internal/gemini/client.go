// Package gemini is a minimal REST client for the Generative Language API.
// It implements storyboard.SceneAnalyzer with a structured generateContent
// call and storyboard.ImageGenerator with an Imagen predict call.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/CodexForgeBR/storyboard-artist/internal/logging"
)

// Defaults used when Options leaves a field empty.
const (
	DefaultBaseURL       = "https://generativelanguage.googleapis.com/v1beta"
	DefaultAnalysisModel = "gemini-2.5-flash"
	DefaultImageModel    = "imagen-4.0-generate-001"
	DefaultTimeout       = 60 * time.Second
)

// maxErrorBody caps how much of an error response is kept on APIError.
const maxErrorBody = 64 << 10

// ErrMissingAPIKey is returned by NewClient when no API key is configured.
var ErrMissingAPIKey = errors.New("gemini: api key is required")

// Options configures a Client.
type Options struct {
	APIKey        string
	BaseURL       string
	AnalysisModel string
	ImageModel    string
	HTTPClient    *http.Client
}

// Client calls the Gemini and Imagen endpoints. It is safe for concurrent use.
type Client struct {
	apiKey        string
	baseURL       string
	analysisModel string
	imageModel    string
	httpClient    *http.Client
}

// NewClient constructs a Client. A nil HTTPClient gets a default one with
// DefaultTimeout.
func NewClient(opts Options) (*Client, error) {
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}

	return &Client{
		apiKey:        apiKey,
		baseURL:       firstNonEmpty(strings.TrimRight(opts.BaseURL, "/"), DefaultBaseURL),
		analysisModel: firstNonEmpty(opts.AnalysisModel, DefaultAnalysisModel),
		imageModel:    firstNonEmpty(opts.ImageModel, DefaultImageModel),
		httpClient:    httpClient,
	}, nil
}

// AnalysisModel returns the model used by AnalyzeScene.
func (c *Client) AnalysisModel() string {
	return c.analysisModel
}

// ImageModel returns the model used by GenerateFrame.
func (c *Client) ImageModel() string {
	return c.imageModel
}

// invoke POSTs payload to model:method and decodes the JSON response into out.
// Responses with status >= 300 become *APIError.
func (c *Client) invoke(ctx context.Context, model, method string, payload, out any) error {
	endpoint := fmt.Sprintf("%s/models/%s:%s", c.baseURL, url.PathEscape(model), method)

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	logging.Debug(fmt.Sprintf("gemini: POST %s:%s", model, method))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("invoke gemini: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusMultipleChoices {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return newAPIError(resp.StatusCode, data)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode gemini response: %w", err)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
