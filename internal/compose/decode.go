// Package compose turns an API request body into a transport-ready
// plain-text MIME message.
package compose

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/mail"
	"strings"

	"github.com/shineum/notify-mailer/internal/email"
)

var (
	// ErrMissingRecipient indicates the request had no recipient.
	ErrMissingRecipient = errors.New("recipient is required")

	// ErrMissingSubject indicates the request had no subject.
	ErrMissingSubject = errors.New("subject is required")

	// ErrInvalidRecipient indicates the recipient is not an RFC 5322 address.
	ErrInvalidRecipient = errors.New("invalid recipient address")

	// ErrInvalidHeader indicates a header value contains line breaks.
	ErrInvalidHeader = errors.New("header value contains invalid characters")
)

// Decode parses a JSON request body. Trailing data after the JSON document
// is rejected.
func Decode(r io.Reader) (*email.Request, error) {
	dec := json.NewDecoder(r)

	var req email.Request
	if err := dec.Decode(&req); err != nil {
		return nil, fmt.Errorf("invalid JSON body: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("invalid JSON body: unexpected data after JSON document")
	}

	return &req, nil
}

// Validate checks that the request can be turned into safe headers.
func Validate(req *email.Request) error {
	if strings.TrimSpace(req.Recipient) == "" {
		return ErrMissingRecipient
	}
	if strings.TrimSpace(req.Subject) == "" {
		return ErrMissingSubject
	}
	if strings.ContainsAny(req.Subject, "\r\n") {
		return fmt.Errorf("subject: %w", ErrInvalidHeader)
	}
	if strings.ContainsAny(req.Recipient, "\r\n") {
		return fmt.Errorf("recipient: %w", ErrInvalidHeader)
	}
	if _, err := mail.ParseAddress(req.Recipient); err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidRecipient, req.Recipient, err)
	}
	return nil
}
