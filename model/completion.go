package model

import (
	"context"
	"fmt"
	"os"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"

	"blograg/types"
)

const (
	// DefaultCompletionModel is the Groq free-tier chat model.
	DefaultCompletionModel = "llama-3.3-70b-versatile"
	defaultGroqBaseURL     = "https://api.groq.com/openai/v1"

	completionTemperature = 0.7
	completionMaxTokens   = 1024
	completionTopP        = 1.0
)

// CompletionClient streams chat completions from the Groq API, which is
// wire-compatible with the OpenAI chat surface.
type CompletionClient struct {
	client openai.Client
	apiKey string
	model  string
}

func NewCompletionClient() *CompletionClient {
	apiKey := os.Getenv("GROQ_API_KEY")
	baseURL := os.Getenv("GROQ_BASE_URL")
	if baseURL == "" {
		baseURL = defaultGroqBaseURL
	}
	model := os.Getenv("GROQ_MODEL")
	if model == "" {
		model = DefaultCompletionModel
	}
	return &CompletionClient{
		client: openai.NewClient(option.WithAPIKey(apiKey), option.WithBaseURL(baseURL)),
		apiKey: apiKey,
		model:  model,
	}
}

// Ready reports whether the client has the credentials to open a stream.
func (c *CompletionClient) Ready() error {
	if c.apiKey == "" {
		return types.ConfigurationError{Key: "GROQ_API_KEY"}
	}
	return nil
}

// StreamChat sends the assembled system turn plus the caller-supplied
// history and forwards every content delta to emit in arrival order.
// Output already emitted is not retracted when the stream fails
// mid-flight; the error is returned after the last delivered delta.
func (c *CompletionClient) StreamChat(ctx context.Context, system string, history []types.Message, emit func(delta string) error) error {
	if err := c.Ready(); err != nil {
		return err
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+1)
	messages = append(messages, openai.SystemMessage(system))
	for _, m := range history {
		switch m.Role {
		case "assistant":
			messages = append(messages, openai.AssistantMessage(m.Content))
		case "system":
			messages = append(messages, openai.SystemMessage(m.Content))
		default:
			messages = append(messages, openai.UserMessage(m.Content))
		}
	}

	stream := c.client.Chat.Completions.NewStreaming(ctx, openai.ChatCompletionNewParams{
		Model:       shared.ChatModel(c.model),
		Messages:    messages,
		Temperature: openai.Float(completionTemperature),
		MaxTokens:   openai.Int(completionMaxTokens),
		TopP:        openai.Float(completionTopP),
	})
	defer stream.Close()

	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		delta := chunk.Choices[0].Delta.Content
		if delta == "" {
			continue
		}
		if err := emit(delta); err != nil {
			return fmt.Errorf("failed to forward completion delta: %w", err)
		}
	}
	if err := stream.Err(); err != nil {
		return fmt.Errorf("completion stream failed: %w", err)
	}
	return nil
}
