package publisher

import "context"

// IPublisher defines the publishing boundary. Publish must be safely
// retryable given the same idempotency key: the platform deduplicates on it,
// so at most one post results from any number of retries.
type IPublisher interface {
	Publish(ctx context.Context, input PublishInput) (*PublishResult, error)
}
