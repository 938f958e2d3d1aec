// Package cms reads blog documents out of the Sanity content API. The CMS
// is the source of truth for all documents; this client only queries.
package cms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"blograg/types"
)

const apiVersion = "2024-12-24"

const (
	// AllDocumentsQuery fetches every post with its full rich-text body,
	// used by the indexing job.
	AllDocumentsQuery = `*[_type == "blog"] | order(publishedAt desc) {
		_id,
		title,
		"slug": slug.current,
		body,
		content,
		publishedAt,
		"categories": categories[]->title,
		shortDescription
	}`

	// CatalogQuery fetches titles, summaries and categories only, used to
	// build the prompt catalog on the live chat path.
	CatalogQuery = `*[_type == "blog"] | order(publishedAt desc) {
		title,
		"slug": slug.current,
		publishedAt,
		"categories": categories[]->title,
		shortDescription
	}`
)

type Client struct {
	baseURL string
	dataset string
}

// NewClient builds a client from SANITY_PROJECT_ID and SANITY_DATASET
// (default "production").
func NewClient() (*Client, error) {
	projectID := os.Getenv("SANITY_PROJECT_ID")
	if projectID == "" {
		return nil, types.ConfigurationError{Key: "SANITY_PROJECT_ID"}
	}
	dataset := os.Getenv("SANITY_DATASET")
	if dataset == "" {
		dataset = "production"
	}
	return &Client{
		baseURL: fmt.Sprintf("https://%s.api.sanity.io", projectID),
		dataset: dataset,
	}, nil
}

// NewClientWithBaseURL is used by tests to point the client at a local server.
func NewClientWithBaseURL(baseURL, dataset string) *Client {
	return &Client{baseURL: baseURL, dataset: dataset}
}

// Fetch runs one GROQ query and decodes the result envelope.
func (c *Client) Fetch(ctx context.Context, query string) ([]types.Document, error) {
	endpoint := fmt.Sprintf("%s/v%s/data/query/%s?query=%s",
		c.baseURL, apiVersion, c.dataset, url.QueryEscape(query))

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, types.RemoteServiceError{Service: "sanity", Status: resp.StatusCode, Body: string(body)}
	}

	var envelope struct {
		Result []types.Document `json:"result"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return envelope.Result, nil
}
