package generator

import (
	"context"
	"fmt"

	"tabular-rag/internal/config"
	"tabular-rag/internal/llmservice"
	"tabular-rag/internal/models"
)

// Generator sends one prompt to a language model and returns its text.
// Calls carry no conversation state.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// NewGenerator builds the generator selected by cfg.Provider. Gemini is
// called through its SDK; other providers go through langchaingo.
func NewGenerator(ctx context.Context, cfg *config.LLMConfig) (Generator, error) {
	switch cfg.Provider {
	case config.ProviderGoogle:
		return NewGoogleGenerator(ctx, cfg)
	case config.ProviderOpenAI, config.ProviderOllama:
		model, err := llmservice.NewModel(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return NewLangchainGenerator(model, llmservice.CallOptions(cfg)...), nil
	default:
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownProvider, cfg.Provider)
	}
}
