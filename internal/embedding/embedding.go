package embedding

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"tabular-rag/internal/config"
	"tabular-rag/internal/models"
)

// Embedder maps text into dense vectors. Both methods must use the same
// model so document and query vectors share one space.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// NewEmbedder builds the embedder selected by cfg.Provider.
func NewEmbedder(ctx context.Context, cfg *config.LLMConfig) (Embedder, error) {
	log.Debug().Interface("config", map[string]string{
		"provider":        cfg.Provider,
		"base_url":        cfg.BaseURL,
		"embedding_model": cfg.Model,
	}).Msg("Loaded embedder config")

	switch cfg.Provider {
	case config.ProviderGoogle:
		return NewGoogleEmbedder(ctx, cfg)
	case config.ProviderOpenAI:
		return NewOpenAIEmbedder(cfg)
	case config.ProviderOllama:
		return NewOllamaEmbedder(cfg)
	default:
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownProvider, cfg.Provider)
	}
}

func serviceError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", models.ErrEmbeddingService, op, err)
}

// checkVectors rejects responses that do not line up with the request.
func checkVectors(want int, vectors [][]float32) error {
	if len(vectors) != want {
		return fmt.Errorf("%w: got %d vectors for %d texts", models.ErrEmbeddingService, len(vectors), want)
	}
	for i, v := range vectors {
		if len(v) == 0 {
			return fmt.Errorf("%w: empty vector at position %d", models.ErrEmbeddingService, i)
		}
	}
	return nil
}
