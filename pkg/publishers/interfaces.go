package publishers

import "context"

// Publisher delivers run reports to a downstream sink (webhook, SQS, SNS, Pub/Sub).
type Publisher interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt Event) error
}

// closer is implemented by publishers holding connections.
type closer interface {
	Close() error
}
