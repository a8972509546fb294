package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"
)

// Client publishes artifacts to the social platform API.
type Client struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// New creates a publishing client authenticated via the OAuth2 client
// credentials flow. Outbound requests are rate limited so a burst of
// automation runs cannot trip the platform's abuse detection.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("client credentials are required")
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = cfg.BaseURL + "/oauth/token"
	}
	perMin := cfg.RequestsPerMin
	if perMin <= 0 {
		perMin = 10
	}

	oauthCfg := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
	}
	httpClient := oauthCfg.Client(context.Background())
	httpClient.Timeout = 30 * time.Second

	return &Client{
		baseURL: cfg.BaseURL,
		client:  httpClient,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMin)), perMin),
	}, nil
}

// Publish posts an artifact. The idempotency key is sent as a header so the
// platform can deduplicate retried attempts.
func (c *Client) Publish(ctx context.Context, input PublishInput) (*PublishResult, error) {
	if input.IdempotencyKey == "" {
		return nil, fmt.Errorf("idempotency key is required")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("publisher: rate limiter: %w", err)
	}

	body, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("publisher: failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/posts", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("publisher: failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Idempotency-Key", input.IdempotencyKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		var result PublishResult
		if err := json.Unmarshal(raw, &result); err != nil {
			return nil, fmt.Errorf("publisher: failed to decode response: %w", err)
		}
		return &result, nil

	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, string(raw))

	default:
		var wireErr wireError
		if err := json.Unmarshal(raw, &wireErr); err == nil && wireErr.Error.Message != "" {
			return nil, fmt.Errorf("%w: %s (%s)", ErrRejected, wireErr.Error.Message, wireErr.Error.Code)
		}
		return nil, fmt.Errorf("%w: status %d: %s", ErrRejected, resp.StatusCode, string(raw))
	}
}
