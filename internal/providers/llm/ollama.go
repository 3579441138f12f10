package llm

import "time"

type Ollama struct {
	*OpenAICompatible
}

// NewOllama talks to a local Ollama daemon through its OpenAI-compatible
// endpoint. The API key is optional and only sent when configured.
func NewOllama(baseURL, apiKey, model string, timeout time.Duration) *Ollama {
	return &Ollama{
		OpenAICompatible: NewOpenAICompatible(OpenAICompatibleConfig{
			BaseURL:    baseURL,
			APIKey:     apiKey,
			Model:      model,
			Timeout:    timeout,
			AuthHeader: "Authorization",
			AuthPrefix: "Bearer ",
		}),
	}
}
