package model

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blograg/types"
)

func TestCohereEmbed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req cohereEmbedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"hello"}, req.Texts)
		assert.Equal(t, InputTypeQuery, req.InputType)

		json.NewEncoder(w).Encode(map[string]any{
			"embeddings": map[string]any{
				"float": [][]float32{{0.1, 0.2, 0.3}},
			},
		})
	}))
	defer srv.Close()

	t.Setenv("COHERE_API_KEY", "test-key")
	e := NewCohereEmbedder(InputTypeQuery).WithAPIURL(srv.URL)

	vec, err := e.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
}

func TestCohereEmbedRemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("rate limit exceeded"))
	}))
	defer srv.Close()

	t.Setenv("COHERE_API_KEY", "test-key")
	e := NewCohereEmbedder(InputTypeQuery).WithAPIURL(srv.URL)

	_, err := e.Embed(context.Background(), "hello")
	var remoteErr types.RemoteServiceError
	require.True(t, errors.As(err, &remoteErr))
	assert.Equal(t, http.StatusTooManyRequests, remoteErr.Status)
	assert.Contains(t, remoteErr.Body, "rate limit")
}

func TestCohereEmbedMissingKey(t *testing.T) {
	t.Setenv("COHERE_API_KEY", "")
	e := NewCohereEmbedder(InputTypeQuery)

	_, err := e.Embed(context.Background(), "hello")
	var cfgErr types.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "COHERE_API_KEY", cfgErr.Key)
}

func TestHuggingFaceEmbedShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []float32
	}{
		{
			name: "collection of one vector",
			body: `[[0.5, 0.6]]`,
			want: []float32{0.5, 0.6},
		},
		{
			name: "flat vector",
			body: `[0.5, 0.6]`,
			want: []float32{0.5, 0.6},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			e := NewHuggingFaceEmbedder().WithAPIURL(srv.URL)
			vec, err := e.Embed(context.Background(), "hello")
			require.NoError(t, err)
			assert.Equal(t, tt.want, vec)
		})
	}
}

func TestHuggingFaceEmbedRemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("model loading"))
	}))
	defer srv.Close()

	e := NewHuggingFaceEmbedder().WithAPIURL(srv.URL)
	_, err := e.Embed(context.Background(), "hello")

	var remoteErr types.RemoteServiceError
	require.True(t, errors.As(err, &remoteErr))
	assert.Equal(t, http.StatusServiceUnavailable, remoteErr.Status)
}

func TestNewEmbedderProviderSelection(t *testing.T) {
	t.Setenv("EMBEDDING_PROVIDER", "huggingface")
	e, err := NewEmbedder(InputTypeDocument)
	require.NoError(t, err)
	assert.IsType(t, &HuggingFaceEmbedder{}, e)

	t.Setenv("EMBEDDING_PROVIDER", "cohere")
	e, err = NewEmbedder(InputTypeDocument)
	require.NoError(t, err)
	assert.IsType(t, &CohereEmbedder{}, e)

	t.Setenv("EMBEDDING_PROVIDER", "weaviate")
	_, err = NewEmbedder(InputTypeDocument)
	assert.Error(t, err)
}
