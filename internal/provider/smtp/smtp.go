// Package smtp implements a Provider that relays messages to an SMTP server.
package smtp

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"time"

	gomail "gopkg.in/mail.v2"

	"github.com/shineum/notify-mailer/internal/email"
)

// dialTimeout bounds connecting and each SMTP command.
const dialTimeout = 10 * time.Second

// SMTPProviderConfig holds the configuration for creating a SMTPProvider.
type SMTPProviderConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	// SSL selects implicit TLS. When false, STARTTLS is used if offered.
	SSL bool
	// InsecureSkipVerify disables certificate verification of the relay.
	InsecureSkipVerify bool
}

// Dialer opens an authenticated SMTP session.
// *gomail.Dialer satisfies it; tests substitute a fake.
type Dialer interface {
	Dial() (gomail.SendCloser, error)
}

// SMTPProvider relays raw messages over SMTP, one connection per message.
type SMTPProvider struct {
	dialer Dialer
	addr   string
}

// New creates a new SMTPProvider with the given configuration.
func New(cfg SMTPProviderConfig) *SMTPProvider {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.SSL = cfg.SSL
	d.Timeout = dialTimeout
	d.RetryFailure = false
	d.TLSConfig = &tls.Config{
		ServerName:         cfg.Host,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
		MinVersion:         tls.VersionTLS12,
	}

	return &SMTPProvider{
		dialer: d,
		addr:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
	}
}

// NewWithDialer creates a SMTPProvider with a custom dialer, used for testing.
func NewWithDialer(d Dialer) *SMTPProvider {
	return &SMTPProvider{dialer: d}
}

// Send opens a session, submits the raw message for the single envelope
// recipient and closes the session. The context is checked before dialing;
// the SMTP exchange itself is bounded by the dial timeout.
func (s *SMTPProvider) Send(ctx context.Context, msg *email.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	conn, err := s.dialer.Dial()
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP relay %s: %w", s.addr, err)
	}

	if err := conn.Send(msg.From, []string{msg.To}, bytes.NewReader(msg.Raw)); err != nil {
		_ = conn.Close()
		return fmt.Errorf("SMTP relay rejected message: %w", err)
	}

	if err := conn.Close(); err != nil {
		return fmt.Errorf("failed to close SMTP session: %w", err)
	}

	slog.DebugContext(ctx, "message relayed over SMTP", "relay", s.addr, "to", msg.To)
	return nil
}

// Name returns the provider name.
func (s *SMTPProvider) Name() string {
	return "smtp"
}
