package parser

import (
	"errors"
	"testing"
)

func TestParse_PlainText(t *testing.T) {
	t.Parallel()

	raw := "From: \"Alerts\" <alerts@example.com>\r\n" +
		"To: user@example.com\r\n" +
		"Subject: Disk usage\r\n" +
		"Message-ID: <abc@example.com>\r\n" +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"\r\n" +
		"host: db-1\r\n" +
		"usage: 91%\r\n"

	msg, err := Parse([]byte(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if msg.From != "alerts@example.com" {
		t.Errorf("From: got %q, want %q", msg.From, "alerts@example.com")
	}
	if msg.FromName != "Alerts" {
		t.Errorf("FromName: got %q, want %q", msg.FromName, "Alerts")
	}
	if len(msg.To) != 1 || msg.To[0] != "user@example.com" {
		t.Errorf("To: got %v, want [user@example.com]", msg.To)
	}
	if msg.Subject != "Disk usage" {
		t.Errorf("Subject: got %q, want %q", msg.Subject, "Disk usage")
	}
	if msg.MessageID != "<abc@example.com>" {
		t.Errorf("MessageID: got %q, want %q", msg.MessageID, "<abc@example.com>")
	}
	if msg.TextBody != "host: db-1\nusage: 91%\n" {
		t.Errorf("TextBody: got %q", msg.TextBody)
	}
}

func TestParse_QuotedPrintableAndEncodedSubject(t *testing.T) {
	t.Parallel()

	raw := "From: alerts@example.com\r\n" +
		"To: user@example.com\r\n" +
		"Subject: =?UTF-8?q?Caf=C3=A9_report?=\r\n" +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"Content-Transfer-Encoding: quoted-printable\r\n" +
		"\r\n" +
		"total=3D12 caf=C3=A9\r\n" +
		"a very long line that was wrapped =\r\n" +
		"by the encoder\r\n"

	msg, err := Parse([]byte(raw))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if msg.Subject != "Café report" {
		t.Errorf("Subject: got %q, want %q", msg.Subject, "Café report")
	}
	want := "total=12 café\na very long line that was wrapped by the encoder\n"
	if msg.TextBody != want {
		t.Errorf("TextBody: got %q, want %q", msg.TextBody, want)
	}
}

func TestParse_NoTextPart(t *testing.T) {
	t.Parallel()

	raw := "From: alerts@example.com\r\n" +
		"Content-Type: application/pdf\r\n" +
		"\r\n" +
		"%PDF"

	_, err := Parse([]byte(raw))
	if !errors.Is(err, ErrNoTextPart) {
		t.Errorf("error: got %v, want %v", err, ErrNoTextPart)
	}
}

func TestParse_MultipartRejected(t *testing.T) {
	t.Parallel()

	raw := "From: alerts@example.com\r\n" +
		"Content-Type: multipart/alternative; boundary=\"b1\"\r\n" +
		"\r\n" +
		"--b1\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"plain body\r\n" +
		"--b1--\r\n"

	_, err := Parse([]byte(raw))
	if !errors.Is(err, ErrNoTextPart) {
		t.Errorf("error: got %v, want %v", err, ErrNoTextPart)
	}
}

func TestParse_Malformed(t *testing.T) {
	t.Parallel()

	if _, err := Parse([]byte("not a message")); err == nil {
		t.Error("expected error for malformed message")
	}
}

func TestParseAddressList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "empty", raw: "", want: nil},
		{name: "single", raw: "a@example.com", want: []string{"a@example.com"}},
		{name: "named", raw: "Alice <a@example.com>, b@example.com", want: []string{"a@example.com", "b@example.com"}},
		{name: "fallback split", raw: "a@, b@example.com", want: []string{"a@", "b@example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := parseAddressList(tt.raw)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("[%d]: got %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
