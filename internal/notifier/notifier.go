// Package notifier defines the message-transport port the delivery
// simulator sends through, plus the SES-backed and simulated adapters.
package notifier

import "context"

// Result is a successful send acknowledgment from the provider.
type Result struct {
	MessageID string
}

// Notifier is the transport port. A non-nil error means the attempt failed
// for that one recipient; callers record the failure and continue, they
// never abort a batch over it. Implementations must be safe for concurrent
// use, as the simulator fans sends out across a worker pool.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string, isHTML bool) (*Result, error)
}
