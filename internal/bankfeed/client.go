// Package bankfeed provides the HTTP client for the external bank feed
// provider. The provider is a pure data source: fetch failures surface as
// ExternalSourceUnavailable and never touch the ledger.
package bankfeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

var (
	errHTTPUnexpectedStatusCode = errors.New("unexpected http status code")
	errHTTPBasePathFormatting   = errors.New("error formatting HTTP base path")
	errHTTPBodyUnmarshall       = errors.New("error unmarshalling HTTP response body")
)

// FeedTransaction is one record as returned by the provider.
type FeedTransaction struct {
	ProviderRecordID string          `json:"providerRecordId"`
	Amount           decimal.Decimal `json:"amount"`
	Description      string          `json:"description"`
	Category         string          `json:"category"`
	OccurredAt       time.Time       `json:"occurredAt"`
}

// Client fetches the external transaction feed for a linked account.
//
//go:generate mockery --name Client --output mock_Client.go
type Client interface {
	FetchTransactions(ctx context.Context, linkedAccountCredential string) ([]FeedTransaction, error)
}

var _ Client = (*APIClient)(nil)

// APIClient talks to the bank feed provider over HTTP.
type APIClient struct {
	HTTPClient *http.Client
	BasePath   *url.URL
}

// NewAPIClient creates a new APIClient.
func NewAPIClient(httpClient *http.Client, basePath string) (*APIClient, error) {
	// Use a default http client if none is provided.
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	basePathURL, err := url.Parse(basePath)
	if err != nil {
		return nil, fmt.Errorf("%w, %s", errHTTPBasePathFormatting, basePath)
	}

	return &APIClient{
		HTTPClient: httpClient,
		BasePath:   basePathURL,
	}, nil
}

type feedResponse struct {
	Transactions []FeedTransaction `json:"transactions"`
}

// FetchTransactions sends a GET request to the /transactions endpoint with
// the linked account credential.
func (c *APIClient) FetchTransactions(ctx context.Context, linkedAccountCredential string) ([]FeedTransaction, error) {
	localVarPath := c.BasePath.ResolveReference(&url.URL{Path: "/transactions"})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, localVarPath.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Authorization", "Bearer "+linkedAccountCredential)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w, %d", errHTTPUnexpectedStatusCode, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}

	var result feedResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w, %w", errHTTPBodyUnmarshall, err)
	}

	return result.Transactions, nil
}
