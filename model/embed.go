package model

import (
	"context"
	"fmt"
	"log"
	"os"
)

// Embedder turns one text into a fixed-dimension vector. One request per
// call, no caching or batching; every call is billed and rate limited by
// the provider.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Input types passed to providers that distinguish query and document
// embeddings.
const (
	InputTypeQuery    = "search_query"
	InputTypeDocument = "search_document"
)

// NewEmbedder selects the embedding provider from EMBEDDING_PROVIDER
// ("cohere" by default, or "huggingface"). Both produce 384-dimension
// vectors, so the store schema does not depend on the choice.
func NewEmbedder(inputType string) (Embedder, error) {
	provider := os.Getenv("EMBEDDING_PROVIDER")
	switch provider {
	case "", "cohere":
		log.Printf("[EMBEDDER] using Cohere (%s)", defaultCohereModel)
		return NewCohereEmbedder(inputType), nil
	case "huggingface":
		log.Printf("[EMBEDDER] using HuggingFace feature extraction")
		return NewHuggingFaceEmbedder(), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", provider)
	}
}
