package queue

import "context"

// Publisher sends result messages to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, msg ResultMessage) error
}
