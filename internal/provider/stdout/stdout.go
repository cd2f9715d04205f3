// Package stdout implements a Provider that prints emails to standard output.
package stdout

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/shineum/notify-mailer/internal/email"
	"github.com/shineum/notify-mailer/internal/parser"
)

// Provider prints email messages to stdout in a human-readable format.
type Provider struct {
	// mu keeps blocks from concurrent requests from interleaving.
	mu sync.Mutex
	// writer is the output destination, defaulting to os.Stdout.
	writer io.Writer
}

// New creates a new stdout Provider that writes to os.Stdout.
func New() *Provider {
	return &Provider{writer: os.Stdout}
}

// NewWithWriter creates a new stdout Provider that writes to the given writer.
// This is useful for testing.
func NewWithWriter(w io.Writer) *Provider {
	return &Provider{writer: w}
}

// Send parses the raw message back and prints its headers and body.
// Write errors are ignored; only an unparseable message is an error.
func (p *Provider) Send(_ context.Context, msg *email.Message) error {
	parsed, err := parser.Parse(msg.Raw)
	if err != nil {
		return fmt.Errorf("stdout: %w", err)
	}

	var b strings.Builder

	b.WriteString("========================================\n")
	if parsed.FromName != "" {
		fmt.Fprintf(&b, "From: %s <%s>\n", parsed.FromName, parsed.From)
	} else {
		fmt.Fprintf(&b, "From: %s\n", parsed.From)
	}
	fmt.Fprintf(&b, "To: %s\n", strings.Join(parsed.To, ", "))
	fmt.Fprintf(&b, "Subject: %s\n", parsed.Subject)
	if parsed.MessageID != "" {
		fmt.Fprintf(&b, "Message-ID: %s\n", parsed.MessageID)
	}
	fmt.Fprintf(&b, "Size: %s\n", formatSize(len(msg.Raw)))
	b.WriteString("Body:\n")
	b.WriteString(strings.TrimRight(parsed.TextBody, "\n") + "\n")
	b.WriteString("========================================\n")

	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = io.WriteString(p.writer, b.String())

	return nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "stdout"
}

// formatSize formats a byte count into a human-readable string.
func formatSize(bytes int) string {
	const (
		kb = 1024
		mb = kb * 1024
	)

	switch {
	case bytes >= mb:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(mb))
	case bytes >= kb:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(kb))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
