package automation

import "errors"

// Domain-specific errors for the automation package.
var (
	ErrInvalidInterval = errors.New("interval must be at least one minute")
	ErrEmptyTopic      = errors.New("topic is empty")
	ErrAlreadyPosted   = errors.New("run already posted")
	ErrNotRetryable    = errors.New("run posting is not in a retryable state")
	ErrNoArtifact      = errors.New("run produced no publishable artifact")
	ErrDisabled        = errors.New("automation is disabled")
	ErrNoPublisher     = errors.New("publisher is not configured")
)
