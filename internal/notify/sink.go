package notify

import (
	"context"
	"time"
)

const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

// UnknownRecipient is recorded when a patient has no contact address.
const UnknownRecipient = "unknown"

// LogEntry is one outbound message attempt. The log is append-only;
// actual delivery happens outside this system.
type LogEntry struct {
	Timestamp time.Time
	Channel   string
	Recipient string
	Subject   string
	Message   string
	BookingID string // empty when not tied to a booking
}

// Sink records outbound notifications. Implementations must treat the
// log as append-only.
type Sink interface {
	Append(ctx context.Context, entry LogEntry) error

	// Export
	List(ctx context.Context) ([]LogEntry, error)
}
