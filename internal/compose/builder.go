package compose

import (
	"bytes"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	gomail "gopkg.in/mail.v2"

	"github.com/shineum/notify-mailer/internal/email"
)

// Builder renders validated requests into single-part text/plain messages
// sent from a fixed sender identity. It holds no mutable state and is safe
// for concurrent use.
type Builder struct {
	sender email.Sender
	now    func() time.Time
	newID  func() string
}

// Option configures a Builder.
type Option func(*Builder)

// WithClock sets the time source used for the Date header.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		b.now = now
	}
}

// WithIDGenerator sets the generator for the local part of Message-ID.
func WithIDGenerator(gen func() string) Option {
	return func(b *Builder) {
		b.newID = gen
	}
}

// NewBuilder creates a Builder for the given sender.
func NewBuilder(sender email.Sender, opts ...Option) *Builder {
	b := &Builder{
		sender: sender,
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Sender returns the identity messages are sent from.
func (b *Builder) Sender() email.Sender {
	return b.sender
}

// Build validates the request and serializes it into an RFC 5322 message
// with exactly one text/plain body part.
func (b *Builder) Build(req *email.Request) (*email.Message, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}

	// Validate guarantees the recipient parses.
	to, _ := mail.ParseAddress(req.Recipient)
	text := Render(req)

	m := gomail.NewMessage(
		gomail.SetCharset("UTF-8"),
		gomail.SetEncoding(gomail.QuotedPrintable),
	)
	m.SetAddressHeader("From", b.sender.Address, b.sender.Name)
	m.SetAddressHeader("To", to.Address, to.Name)
	m.SetHeader("Subject", req.Subject)
	m.SetDateHeader("Date", b.now())
	m.SetHeader("Message-ID", b.messageID())
	m.SetBody("text/plain", text)

	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write MIME message: %w", err)
	}

	return &email.Message{
		From:    b.sender.Address,
		To:      to.Address,
		Subject: req.Subject,
		Text:    text,
		Raw:     buf.Bytes(),
	}, nil
}

// messageID returns a Message-ID in the sender's domain.
func (b *Builder) messageID() string {
	domain := "localhost"
	if i := strings.LastIndex(b.sender.Address, "@"); i >= 0 && i < len(b.sender.Address)-1 {
		domain = b.sender.Address[i+1:]
	}
	return fmt.Sprintf("<%s@%s>", b.newID(), domain)
}
