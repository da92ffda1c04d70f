package catalog

import (
	"context"
	"fmt"
	"net/http"

	httpclient "github.com/kosarica/compare-service/internal/http"
	"github.com/kosarica/compare-service/internal/compare"
)

// HTTPProvider fetches a JSON catalog document from a remote URL.
type HTTPProvider struct {
	url    string
	header http.Header
	client *httpclient.Client
}

// NewHTTPProvider creates a provider for url. header is sent with every request
// and may carry credentials.
func NewHTTPProvider(url string, header http.Header, client *httpclient.Client) *HTTPProvider {
	if client == nil {
		client = httpclient.NewClientDefault()
	}
	return &HTTPProvider{url: url, header: header, client: client}
}

// Name returns "http".
func (p *HTTPProvider) Name() string { return "http" }

// Load downloads and decodes the catalog.
func (p *HTTPProvider) Load(ctx context.Context) (*compare.Catalog, error) {
	body, err := p.client.GetBytes(ctx, p.url, p.header)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}
	return DecodeJSON(body)
}
