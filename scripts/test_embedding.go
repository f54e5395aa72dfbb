//go:build ignore

package main

import (
	"fmt"
	"log"

	"mindful-ai-be/internal/config"
	"mindful-ai-be/pkg/embedding"
)

func main() {
	cfg := config.Load()
	fmt.Printf("Loaded Config > Provider: %s\n", cfg.Ai.Provider)
	fmt.Printf("Loaded Config > Ollama URL: %s\n", cfg.Ai.OllamaBaseURL)
	fmt.Printf("Loaded Config > Ollama Model: %s\n", cfg.Ai.OllamaModel)

	provider := embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)

	text := "I have been feeling anxious before work meetings lately."
	fmt.Printf("\nGenerating embedding for: %q\n", text)

	resp, err := provider.Generate(text, "RETRIEVAL_QUERY")
	if err != nil {
		log.Fatalf("Error generating embedding: %v", err)
	}

	dims := len(resp.Embedding.Values)
	fmt.Printf("Success! Generated Embedding Dimensions: %d\n", dims)

	if dims > 5 {
		fmt.Printf("First 5 values: %v...\n", resp.Embedding.Values[:5])
	}

	// nomic-embed-text should be 768 dimensions
	if dims == 768 {
		fmt.Println("Dimensions match expected Nomic output (768).")
	} else {
		fmt.Printf("Dimensions %d do NOT match expected 768 for nomic-embed-text. (Is it a different model?)\n", dims)
	}
}
