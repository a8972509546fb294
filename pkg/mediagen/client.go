package mediagen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is the HTTP client for the media generation vendor API.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// New creates a new media generation client.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		client: &http.Client{
			// Video assembly is the slowest operation the vendor exposes.
			Timeout: 5 * time.Minute,
		},
	}, nil
}

// RenderImage synthesizes an image from a prompt.
func (c *Client) RenderImage(ctx context.Context, req ImageRequest) (*Asset, error) {
	return c.post(ctx, "/v1/images", req)
}

// OverlayText composites text onto an image.
func (c *Client) OverlayText(ctx context.Context, req OverlayRequest) (*Asset, error) {
	return c.post(ctx, "/v1/overlays", req)
}

// SynthesizeSpeech converts text to narration audio.
func (c *Client) SynthesizeSpeech(ctx context.Context, req SpeechRequest) (*Asset, error) {
	return c.post(ctx, "/v1/speech", req)
}

// AssembleVideo stitches slides and audio into a video.
func (c *Client) AssembleVideo(ctx context.Context, req VideoRequest) (*Asset, error) {
	return c.post(ctx, "/v1/videos", req)
}

func (c *Client) post(ctx context.Context, path string, payload any) (*Asset, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("mediagen: failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("mediagen: failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("mediagen: failed to call API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		var errResp errorResponse
		if err := json.Unmarshal(raw, &errResp); err == nil && errResp.Error.Message != "" {
			return nil, fmt.Errorf("mediagen: API error %d: %s", resp.StatusCode, errResp.Error.Message)
		}
		return nil, fmt.Errorf("mediagen: API error %d: %s", resp.StatusCode, string(raw))
	}

	var asset Asset
	if err := json.NewDecoder(resp.Body).Decode(&asset); err != nil {
		return nil, fmt.Errorf("mediagen: failed to decode response: %w", err)
	}

	return &asset, nil
}
