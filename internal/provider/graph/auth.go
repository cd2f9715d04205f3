package graph

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// graphScope requests the application permissions granted to the client.
const graphScope = "https://graph.microsoft.com/.default"

// requestTimeout bounds a single token or sendMail round trip.
const requestTimeout = 30 * time.Second

// tokenURLFor returns the Azure AD v2 token endpoint of a tenant.
func tokenURLFor(tenantID string) string {
	return fmt.Sprintf("https://login.microsoftonline.com/%s/oauth2/v2.0/token", tenantID)
}

// newHTTPClient returns a client that attaches a cached client-credentials
// access token to every request and refreshes it before expiry.
// The token source is safe for concurrent use.
func newHTTPClient(tokenURL, clientID, clientSecret string, base *http.Client) *http.Client {
	if base == nil {
		base = &http.Client{Timeout: requestTimeout}
	}

	cc := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
		Scopes:       []string{graphScope},
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	// The token endpoint is called with the base client.
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	client := cc.Client(ctx)
	client.Timeout = base.Timeout
	return client
}
