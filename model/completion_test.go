package model

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blograg/types"
)

func sseChunk(content string) string {
	return fmt.Sprintf(`data: {"id":"chatcmpl-1","object":"chat.completion.chunk","created":1,"model":"llama-3.3-70b-versatile","choices":[{"index":0,"delta":{"content":%q},"finish_reason":null}]}`+"\n\n", content)
}

func TestStreamChatForwardsDeltasInOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte(sseChunk("Hel")))
		w.Write([]byte(sseChunk("lo")))
		w.Write([]byte("data: [DONE]\n\n"))
	}))
	defer srv.Close()

	t.Setenv("GROQ_API_KEY", "test-key")
	t.Setenv("GROQ_BASE_URL", srv.URL+"/")
	c := NewCompletionClient()

	var got []string
	err := c.StreamChat(context.Background(), "system turn", []types.Message{
		{Role: "user", Content: "hi"},
	}, func(delta string) error {
		got = append(got, delta)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Hel", "lo"}, got)
}

func TestStreamChatMissingKey(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "")
	c := NewCompletionClient()

	require.Error(t, c.Ready())
	err := c.StreamChat(context.Background(), "system", nil, func(string) error { return nil })

	var cfgErr types.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "GROQ_API_KEY", cfgErr.Key)
}

func TestStreamChatUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"boom"}}`))
	}))
	defer srv.Close()

	t.Setenv("GROQ_API_KEY", "test-key")
	t.Setenv("GROQ_BASE_URL", srv.URL+"/")
	c := NewCompletionClient()

	var got []string
	err := c.StreamChat(context.Background(), "system", nil, func(delta string) error {
		got = append(got, delta)
		return nil
	})
	require.Error(t, err)
	assert.Empty(t, got, "no deltas must be emitted for a failed stream")
}

func TestStreamChatEmitErrorStopsStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte(sseChunk("Hel")))
		w.Write([]byte(sseChunk("lo")))
		w.Write([]byte("data: [DONE]\n\n"))
	}))
	defer srv.Close()

	t.Setenv("GROQ_API_KEY", "test-key")
	t.Setenv("GROQ_BASE_URL", srv.URL+"/")
	c := NewCompletionClient()

	emitted := 0
	err := c.StreamChat(context.Background(), "system", nil, func(string) error {
		emitted++
		return errors.New("client went away")
	})
	require.Error(t, err)
	assert.Equal(t, 1, emitted)
}
