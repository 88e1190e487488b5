package recipe

import (
	"net/http"

	"github.com/socialchef/sous/internal/config"
	"github.com/socialchef/sous/internal/services/openai"
)

var displayNames = map[string]string{
	config.ProviderOpenAI:     "OpenAI",
	config.ProviderOpenRouter: "OpenRouter",
	config.ProviderGroq:       "Groq",
}

// NewGeneratorFromConfig builds the provider chain once at startup. A
// provider without a credential is left out of the chain.
func NewGeneratorFromConfig(cfg *config.Config, httpClient *http.Client) *Generator {
	return NewGenerator(
		newProvider(cfg, cfg.Generation.Primary, httpClient),
		newProvider(cfg, cfg.Generation.Secondary, httpClient),
	)
}

func newProvider(cfg *config.Config, pc config.ProviderConfig, httpClient *http.Client) Provider {
	key := cfg.APIKey(pc.Provider)
	if key == "" {
		return nil
	}
	name, ok := displayNames[pc.Provider]
	if !ok {
		name = pc.Provider
	}
	return NewChatProvider(openai.NewClient(name, key, pc.BaseURL, httpClient), pc)
}
