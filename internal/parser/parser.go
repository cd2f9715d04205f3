// Package parser reads a raw RFC 5322 message back into its structured form.
// Providers whose APIs take structured fields instead of raw MIME use it to
// recover sender, recipients, subject and text body.
package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/quotedprintable"
	"net/mail"
	"strings"

	"github.com/shineum/notify-mailer/internal/email"
)

// ErrNoTextPart is returned when a message has no text/plain content.
var ErrNoTextPart = errors.New("message has no text/plain part")

var wordDecoder = &mime.WordDecoder{}

// Parse parses a raw message. Encoded-word headers are decoded and the
// text/plain body is returned with its transfer encoding removed.
func Parse(raw []byte) (*email.Parsed, error) {
	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}

	result := &email.Parsed{
		RawHeaders: make(map[string][]string, len(msg.Header)),
		MessageID:  msg.Header.Get("Message-Id"),
		To:         parseAddressList(msg.Header.Get("To")),
	}
	for key, values := range msg.Header {
		result.RawHeaders[key] = values
	}

	if from, err := mail.ParseAddress(msg.Header.Get("From")); err == nil {
		result.From = from.Address
		result.FromName = from.Name
	} else {
		result.From = msg.Header.Get("From")
	}

	subject := msg.Header.Get("Subject")
	if decoded, err := wordDecoder.DecodeHeader(subject); err == nil {
		subject = decoded
	}
	result.Subject = subject

	contentType := msg.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "text/plain"
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		slog.Warn("failed to parse content type, treating as plain text",
			"content_type", contentType,
			"error", err,
		)
		mediaType = "text/plain"
	}

	// Messages built here always carry a single text/plain part.
	if mediaType != "text/plain" {
		return nil, fmt.Errorf("%w: content type %s", ErrNoTextPart, mediaType)
	}

	body, err := decodeBody(msg.Body, msg.Header.Get("Content-Transfer-Encoding"))
	if err != nil {
		return nil, fmt.Errorf("failed to read message body: %w", err)
	}
	result.TextBody = normalizeNewlines(body)

	return result, nil
}

// decodeBody reads a body, undoing quoted-printable transfer encoding.
func decodeBody(r io.Reader, encoding string) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "quoted-printable":
		return io.ReadAll(quotedprintable.NewReader(r))
	default:
		// 7bit, 8bit and binary need no decoding.
		return io.ReadAll(r)
	}
}

// normalizeNewlines converts the CRLF line endings of the wire format to LF.
func normalizeNewlines(body []byte) string {
	return strings.ReplaceAll(string(body), "\r\n", "\n")
}

// parseAddressList splits an address header into bare addresses.
func parseAddressList(raw string) []string {
	if raw == "" {
		return nil
	}

	addresses, err := mail.ParseAddressList(raw)
	if err != nil {
		parts := strings.Split(raw, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}

	result := make([]string, 0, len(addresses))
	for _, addr := range addresses {
		result = append(result, addr.Address)
	}
	return result
}
