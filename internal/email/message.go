// Package email defines the core data model used throughout the notification mailer.
package email

// Request is a notification email as submitted by an API caller.
type Request struct {
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Data      *Data  `json:"data,omitempty"`
}

// Sender is the configured identity every message is sent from.
type Sender struct {
	Name    string
	Address string
}

// Message is a fully built, transport-ready email.
// Raw holds the serialized RFC 5322 headers and the single text/plain part.
type Message struct {
	From    string
	To      string
	Subject string
	Text    string
	Raw     []byte
}

// Parsed is the structured view of a raw message, recovered by the parser
// for providers that cannot submit raw MIME.
type Parsed struct {
	From       string
	FromName   string
	To         []string
	Subject    string
	TextBody   string
	MessageID  string
	RawHeaders map[string][]string
}
