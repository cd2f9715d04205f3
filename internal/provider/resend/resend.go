// Package resend implements a Provider that sends emails via the Resend API.
package resend

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v3"

	"github.com/shineum/notify-mailer/internal/email"
	"github.com/shineum/notify-mailer/internal/parser"
)

// SendEmailAPI is the subset of the Resend emails service used here.
// resend.Client.Emails satisfies it.
type SendEmailAPI interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// ResendProvider sends messages through Resend. The API takes structured
// fields, so the raw message is parsed back before submission.
type ResendProvider struct {
	client SendEmailAPI
}

// New creates a new ResendProvider for the given API key.
func New(apiKey string) *ResendProvider {
	return &ResendProvider{client: resend.NewClient(apiKey).Emails}
}

// NewWithClient creates a ResendProvider with a custom client, used for testing.
func NewWithClient(client SendEmailAPI) *ResendProvider {
	return &ResendProvider{client: client}
}

// Send submits the message in a single API call.
func (p *ResendProvider) Send(ctx context.Context, msg *email.Message) error {
	req, err := buildRequest(msg)
	if err != nil {
		return err
	}

	resp, err := p.client.SendWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("resend: failed to send email: %w", err)
	}

	slog.DebugContext(ctx, "message accepted by Resend", "to", msg.To, "id", resp.Id)
	return nil
}

// Name returns the provider name.
func (p *ResendProvider) Name() string {
	return "resend"
}

// buildRequest converts a built message into a Resend send request.
func buildRequest(msg *email.Message) (*resend.SendEmailRequest, error) {
	parsed, err := parser.Parse(msg.Raw)
	if err != nil {
		return nil, fmt.Errorf("resend: %w", err)
	}

	from := parsed.From
	if parsed.FromName != "" {
		from = fmt.Sprintf("%s <%s>", parsed.FromName, parsed.From)
	}

	return &resend.SendEmailRequest{
		From:    from,
		To:      []string{msg.To},
		Subject: parsed.Subject,
		Text:    parsed.TextBody,
	}, nil
}
