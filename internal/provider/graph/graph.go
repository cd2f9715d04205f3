// Package graph implements a Provider that sends emails via the Microsoft Graph API.
package graph

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/shineum/notify-mailer/internal/email"
)

// defaultBaseURL is the Graph v1.0 endpoint root.
const defaultBaseURL = "https://graph.microsoft.com/v1.0"

// GraphProviderConfig holds the configuration for creating a GraphProvider.
type GraphProviderConfig struct {
	TenantID     string
	ClientID     string
	ClientSecret string
}

// GraphProvider sends raw MIME messages through the sendMail action of the
// sending user's mailbox, authenticating with OAuth2 client credentials.
type GraphProvider struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new GraphProvider with the given configuration.
func New(cfg GraphProviderConfig) *GraphProvider {
	return &GraphProvider{
		baseURL:    defaultBaseURL,
		httpClient: newHTTPClient(tokenURLFor(cfg.TenantID), cfg.ClientID, cfg.ClientSecret, nil),
	}
}

// newWithOverrides creates a GraphProvider with custom URLs and HTTP client,
// used for testing.
func newWithOverrides(cfg GraphProviderConfig, baseURL, tokenURL string, client *http.Client) *GraphProvider {
	return &GraphProvider{
		baseURL:    baseURL,
		httpClient: newHTTPClient(tokenURL, cfg.ClientID, cfg.ClientSecret, client),
	}
}

// Send posts the base64-encoded MIME message to /users/{from}/sendMail.
// Graph answers 202 Accepted on success. No retry is attempted.
func (g *GraphProvider) Send(ctx context.Context, msg *email.Message) error {
	endpoint := fmt.Sprintf("%s/users/%s/sendMail", g.baseURL, url.PathEscape(msg.From))
	body := base64.StdEncoding.EncodeToString(msg.Raw)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader([]byte(body)))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("Graph API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusAccepted || resp.StatusCode == http.StatusOK {
		slog.DebugContext(ctx, "message accepted by Graph", "to", msg.To)
		return nil
	}

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	return newSendError(resp.StatusCode, respBody)
}

// Name returns the provider name.
func (g *GraphProvider) Name() string {
	return "msgraph"
}

// sendError is a non-success response from the sendMail endpoint.
type sendError struct {
	statusCode int
	code       string
	message    string
}

func (e *sendError) Error() string {
	if e.code != "" {
		return fmt.Sprintf("Graph API error (HTTP %d, %s): %s", e.statusCode, e.code, e.message)
	}
	return fmt.Sprintf("Graph API error (HTTP %d): %s", e.statusCode, e.message)
}

// newSendError extracts the Graph error detail when the body carries one.
func newSendError(statusCode int, body []byte) *sendError {
	var resp graphErrorResponse
	if err := json.Unmarshal(body, &resp); err == nil && resp.Error.Message != "" {
		return &sendError{statusCode: statusCode, code: resp.Error.Code, message: resp.Error.Message}
	}
	return &sendError{statusCode: statusCode, message: string(body)}
}
