// Package gate decides whether an inbound request may reach message processing.
package gate

import (
	"fmt"
	"net/http"
)

// Rejection is a terminal response produced by the gate.
type Rejection struct {
	Status  int
	Error   string
	Message string
}

// Gate checks method, path and bearer token, in that order.
type Gate struct {
	path string
	auth *Authenticator
}

// New creates a Gate admitting POST requests to path carrying apiKey.
func New(path, apiKey string) *Gate {
	return &Gate{
		path: path,
		auth: NewAuthenticator(apiKey),
	}
}

// Path returns the only path the gate admits.
func (g *Gate) Path() string {
	return g.path
}

// Check returns nil if the request is admitted, or the rejection to send.
// The path is compared in its escaped form, so percent-encoded spellings
// of the configured path are rejected. Check never reads the body.
func (g *Gate) Check(r *http.Request) *Rejection {
	if r.Method != http.MethodPost || r.URL.EscapedPath() != g.path {
		return &Rejection{
			Status:  http.StatusBadRequest,
			Error:   "Invalid request",
			Message: fmt.Sprintf("Please send a POST request to %s", g.path),
		}
	}

	if !g.auth.VerifyHeader(r.Header.Get("Authorization")) {
		return &Rejection{
			Status:  http.StatusUnauthorized,
			Error:   "Unauthorized",
			Message: "Invalid or missing API Key",
		}
	}

	return nil
}
