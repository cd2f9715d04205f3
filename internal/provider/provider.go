// Package provider defines the interface for email delivery backends.
package provider

import (
	"context"

	"github.com/shineum/notify-mailer/internal/email"
)

// Provider is the interface that email delivery backends must implement.
// Each provider hands a built message to an external service
// (e.g., AWS SES, Microsoft Graph, an SMTP relay, Resend, stdout).
type Provider interface {
	// Send delivers a message through this provider. It makes exactly one
	// delivery attempt and returns an error if that attempt fails.
	Send(ctx context.Context, msg *email.Message) error

	// Name returns the human-readable name of this provider.
	Name() string
}
