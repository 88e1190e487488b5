package recipe

import (
	"context"

	"github.com/socialchef/sous/internal/config"
	"github.com/socialchef/sous/internal/services/ai"
	"github.com/socialchef/sous/internal/services/openai"
)

// Provider returns the raw text of one chat completion for a prompt.
type Provider interface {
	Name() string
	Complete(ctx context.Context, prompt ai.Prompt) (string, error)
}

// ChatProvider sends prompts to an OpenAI-compatible endpoint with fixed
// sampling settings.
type ChatProvider struct {
	client      *openai.Client
	model       string
	temperature float64
	maxTokens   int
}

// NewChatProvider wraps client with the model settings from cfg. A zero
// MaxTokens sends no token cap.
func NewChatProvider(client *openai.Client, cfg config.ProviderConfig) *ChatProvider {
	return &ChatProvider{
		client:      client,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}
}

func (p *ChatProvider) Name() string {
	return p.client.Name()
}

func (p *ChatProvider) Complete(ctx context.Context, prompt ai.Prompt) (string, error) {
	return p.client.ChatCompletion(ctx, openai.ChatRequest{
		Model: p.model,
		Messages: []openai.ChatMessage{
			{Role: "system", Content: prompt.System},
			{Role: "user", Content: prompt.User},
		},
		Temperature: p.temperature,
		MaxTokens:   p.maxTokens,
	})
}
