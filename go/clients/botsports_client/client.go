package botsports_client

import (
	"github.com/mcdev12/dynastydroid/go/clients"
)

// Client is the typed backend API. It never persists anything itself; the
// credential comes from the injected source on every request.
type Client struct {
	*clients.BaseClient
}

// NewClient creates a client for baseURL. An empty baseURL selects BaseURL.
func NewClient(baseURL string, credentials clients.CredentialSource) *Client {
	if baseURL == "" {
		baseURL = BaseURL
	}
	return &Client{
		BaseClient: clients.NewBaseClient(baseURL, credentials),
	}
}
