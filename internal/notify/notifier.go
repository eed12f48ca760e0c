// Package notify abstracts the outbound messaging channel. Message wording
// is owned by the monitor; implementations only deliver.
package notify

import "context"

// Notifier delivers user-facing and operator-facing messages.
type Notifier interface {
	// Send delivers an availability (or lifecycle) message.
	Send(ctx context.Context, message string) error
	// SendError delivers an operator-visible error report. Failures here are
	// for the caller to swallow; error reporting must never cascade.
	SendError(ctx context.Context, message string) error
}

// Nop discards everything. Useful in tests and when no channel is configured.
type Nop struct{}

func (Nop) Send(context.Context, string) error      { return nil }
func (Nop) SendError(context.Context, string) error { return nil }
