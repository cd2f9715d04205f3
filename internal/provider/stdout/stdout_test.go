package stdout

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/shineum/notify-mailer/internal/email"
)

func rawMessage(subject, body string) *email.Message {
	raw := "From: \"Your Service\" <noreply@example.com>\r\n" +
		"To: alice@example.com\r\n" +
		"Subject: " + subject + "\r\n" +
		"Message-ID: <id-1@example.com>\r\n" +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"\r\n" +
		body
	return &email.Message{
		From: "noreply@example.com",
		To:   "alice@example.com",
		Raw:  []byte(raw),
	}
}

func TestSend_BasicEmail(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := NewWithWriter(&buf)

	err := p.Send(context.Background(), rawMessage("Monthly Report", "key1: value1\r\nkey2: value2\r\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()

	if !strings.Contains(output, "From: Your Service <noreply@example.com>") {
		t.Error("output missing From header")
	}
	if !strings.Contains(output, "To: alice@example.com") {
		t.Error("output missing To header")
	}
	if !strings.Contains(output, "Subject: Monthly Report") {
		t.Error("output missing Subject header")
	}
	if !strings.Contains(output, "Message-ID: <id-1@example.com>") {
		t.Error("output missing Message-ID header")
	}
	if !strings.Contains(output, "key1: value1\nkey2: value2\n") {
		t.Error("output missing body text")
	}
	if !strings.HasPrefix(output, "========================================\n") {
		t.Error("output should start with separator line")
	}
	if !strings.HasSuffix(output, "========================================\n") {
		t.Error("output should end with separator line")
	}
}

func TestSend_EncodedSubject(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := NewWithWriter(&buf)

	if err := p.Send(context.Background(), rawMessage("=?UTF-8?q?Caf=C3=A9?=", "body")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "Subject: Café") {
		t.Errorf("output should contain decoded subject, got %q", buf.String())
	}
}

func TestSend_UnparseableMessage(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := NewWithWriter(&buf)

	err := p.Send(context.Background(), &email.Message{Raw: []byte("garbage")})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if buf.Len() != 0 {
		t.Errorf("nothing should be written on error, got %q", buf.String())
	}
}

func TestName(t *testing.T) {
	t.Parallel()

	p := New()
	if p.Name() != "stdout" {
		t.Errorf("Name: got %q, want %q", p.Name(), "stdout")
	}
}

func TestFormatSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		bytes int
		want  string
	}{
		{name: "zero bytes", bytes: 0, want: "0 B"},
		{name: "small bytes", bytes: 512, want: "512 B"},
		{name: "kilobytes", bytes: 46080, want: "45.0 KB"},
		{name: "megabytes", bytes: 1258291, want: "1.2 MB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := formatSize(tt.bytes)
			if got != tt.want {
				t.Errorf("formatSize(%d): got %q, want %q", tt.bytes, got, tt.want)
			}
		})
	}
}
