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

// 384-dimension sentence embeddings, same dimensionality as the Cohere
// light model so both providers share one store schema.
const defaultHuggingFaceURL = "https://api-inference.huggingface.co/pipeline/feature-extraction/sentence-transformers/all-MiniLM-L6-v2"

// HuggingFaceEmbedder creates embeddings through the HuggingFace inference
// API. The token is optional; without it the free-tier rate limit applies.
type HuggingFaceEmbedder struct {
	apiURL string
	token  string
}

type huggingFaceRequest struct {
	Inputs string `json:"inputs"`
}

func NewHuggingFaceEmbedder() *HuggingFaceEmbedder {
	apiURL := os.Getenv("HUGGINGFACE_API_URL")
	if apiURL == "" {
		apiURL = defaultHuggingFaceURL
	}
	return &HuggingFaceEmbedder{
		apiURL: apiURL,
		token:  os.Getenv("HUGGINGFACE_TOKEN"),
	}
}

func (e *HuggingFaceEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(huggingFaceRequest{Inputs: text})
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
	if e.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+e.token)
	}

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
		return nil, types.RemoteServiceError{Service: "huggingface", Status: resp.StatusCode, Body: string(respBody)}
	}

	return normalizeShape(respBody)
}

// normalizeShape flattens the inference API answer, which is either a
// vector or a collection holding one vector per input.
func normalizeShape(respBody []byte) ([]float32, error) {
	var nested [][]float32
	if err := json.Unmarshal(respBody, &nested); err == nil {
		if len(nested) == 0 {
			return nil, fmt.Errorf("huggingface returned no embeddings")
		}
		return nested[0], nil
	}

	var flat []float32
	if err := json.Unmarshal(respBody, &flat); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return flat, nil
}

// WithAPIURL overrides the endpoint, used by tests.
func (e *HuggingFaceEmbedder) WithAPIURL(url string) *HuggingFaceEmbedder {
	e.apiURL = url
	return e
}
