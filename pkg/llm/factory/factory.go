package factory

import (
	"fmt"

	"mindful-ai-be/pkg/llm"
	"mindful-ai-be/pkg/llm/gemini"
	"mindful-ai-be/pkg/llm/ollama"
)

// NewLLMProvider builds the configured chat backend.
func NewLLMProvider(provider, model, geminiAPIKey, ollamaBaseURL string) (llm.LLMProvider, error) {
	switch provider {
	case "gemini":
		if geminiAPIKey == "" {
			return nil, fmt.Errorf("gemini provider requires GOOGLE_GEMINI_API_KEY")
		}
		return gemini.NewGeminiProvider(geminiAPIKey, model), nil
	case "ollama":
		return ollama.NewOllamaProvider(ollamaBaseURL, model), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", provider)
	}
}
