package publisher

import "errors"

// Config configures the social publishing client.
type Config struct {
	BaseURL        string
	ClientID       string
	ClientSecret   string
	TokenURL       string
	RequestsPerMin int
}

// PublishInput describes one publish attempt.
type PublishInput struct {
	ArtifactURL    string `json:"artifact_url"`
	Caption        string `json:"caption,omitempty"`
	IdempotencyKey string `json:"-"`
}

// PublishResult is the platform's acknowledgement.
type PublishResult struct {
	PublishID string `json:"publish_id"`
	PostURL   string `json:"post_url,omitempty"`
}

var (
	// ErrRejected indicates the platform rejected the post permanently;
	// retrying with the same input will not succeed.
	ErrRejected = errors.New("publish rejected by platform")

	// ErrUnavailable indicates a transient platform failure; the same
	// idempotency key may be retried safely.
	ErrUnavailable = errors.New("publish platform unavailable")
)

type wireError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
