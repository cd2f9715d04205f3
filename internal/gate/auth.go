package gate

import (
	"crypto/subtle"
	"strings"
)

// Authenticator verifies bearer tokens against the configured API key.
type Authenticator struct {
	apiKey []byte
}

// NewAuthenticator creates an Authenticator for the given API key.
// An empty key never authenticates.
func NewAuthenticator(apiKey string) *Authenticator {
	return &Authenticator{apiKey: []byte(apiKey)}
}

// Enabled returns true if an API key is configured.
func (a *Authenticator) Enabled() bool {
	return len(a.apiKey) > 0
}

// VerifyHeader checks an Authorization header value of the form
// "Bearer <token>". The token is the second space-separated field.
func (a *Authenticator) VerifyHeader(header string) bool {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return false
	}
	// Anything after a further space is not part of the token.
	token, _, _ = strings.Cut(token, " ")
	return a.VerifyToken(token)
}

// VerifyToken compares a token with the API key in constant time.
func (a *Authenticator) VerifyToken(token string) bool {
	if !a.Enabled() || token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), a.apiKey) == 1
}
