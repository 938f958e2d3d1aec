package model

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"blograg/types"
)

const (
	defaultCohereURL   = "https://api.cohere.com/v2/embed"
	defaultCohereModel = "embed-english-light-v3.0" // 384 dimensions
)

// CohereEmbedder creates embeddings through the Cohere embed API.
type CohereEmbedder struct {
	apiURL    string
	apiKey    string
	model     string
	inputType string
}

type cohereEmbedRequest struct {
	Texts          []string `json:"texts"`
	Model          string   `json:"model"`
	InputType      string   `json:"input_type"`
	EmbeddingTypes []string `json:"embedding_types"`
}

type cohereEmbedResponse struct {
	Embeddings struct {
		Float [][]float32 `json:"float"`
	} `json:"embeddings"`
}

func NewCohereEmbedder(inputType string) *CohereEmbedder {
	apiURL := os.Getenv("COHERE_API_URL")
	if apiURL == "" {
		apiURL = defaultCohereURL
	}
	return &CohereEmbedder{
		apiURL:    apiURL,
		apiKey:    os.Getenv("COHERE_API_KEY"),
		model:     defaultCohereModel,
		inputType: inputType,
	}
}

func (e *CohereEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if e.apiKey == "" {
		return nil, types.ConfigurationError{Key: "COHERE_API_KEY"}
	}

	req := cohereEmbedRequest{
		Texts:          []string{text},
		Model:          e.model,
		InputType:      e.inputType,
		EmbeddingTypes: []string{"float"},
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	httpReq, err := http.NewRequestWithContext(ctx, "POST", e.apiURL, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := http.DefaultClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, types.RemoteServiceError{Service: "cohere", Status: resp.StatusCode, Body: string(respBody)}
	}

	var cohereResp cohereEmbedResponse
	if err := json.Unmarshal(respBody, &cohereResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(cohereResp.Embeddings.Float) == 0 {
		return nil, fmt.Errorf("cohere returned no embeddings")
	}
	return cohereResp.Embeddings.Float[0], nil
}

// WithAPIURL overrides the endpoint, used by tests.
func (e *CohereEmbedder) WithAPIURL(url string) *CohereEmbedder {
	e.apiURL = url
	return e
}
