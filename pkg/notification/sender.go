// Package notification defines the outbound notification contract the
// notification action handler uses, independent of delivery transport.
package notification

import "context"

// Sender delivers a message to a named channel. Implementations sanitize
// the message before it leaves the process (see pkg/notification/sanitization).
type Sender interface {
	Send(ctx context.Context, channel, message string) error
}
