package session

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/tmc/langchaingo/chains"
	"github.com/tmc/langchaingo/llms"

	"tabular-rag/internal/embedding"
	"tabular-rag/internal/generator"
	"tabular-rag/internal/models"
	"tabular-rag/internal/rag"
)

// Factory builds a ready pipeline for variant over units.
type Factory interface {
	Build(ctx context.Context, variant models.Variant, units []models.TextUnit) (rag.Pipeline, error)
}

// Providers holds the external clients both variants share. Model is only
// needed by the chain variant and Generator only by the direct one.
type Providers struct {
	Embedder     embedding.Embedder
	Generator    generator.Generator
	Model        llms.Model
	TopK         int
	ChainOptions []chains.ChainCallOption
}

var errMissingProvider = errors.New("provider not configured")

func (p *Providers) Build(ctx context.Context, variant models.Variant, units []models.TextUnit) (rag.Pipeline, error) {
	if p.Embedder == nil {
		return nil, fmt.Errorf("embedder: %w", errMissingProvider)
	}

	switch variant {
	case models.VariantDirect:
		if p.Generator == nil {
			return nil, fmt.Errorf("generator: %w", errMissingProvider)
		}
		d, err := rag.NewDirect(ctx, units, p.Embedder, p.Generator, p.TopK)
		if err != nil {
			return nil, err
		}
		return d, nil
	case models.VariantChain:
		if p.Model == nil {
			return nil, fmt.Errorf("chain model: %w", errMissingProvider)
		}
		c, err := rag.NewChain(ctx, units, p.Embedder, p.Model, p.TopK, p.ChainOptions...)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownVariant, variant)
	}
}

// Close releases the clients that hold connections, such as the Gemini ones.
func (p *Providers) Close() error {
	var errs []error
	for _, client := range []any{p.Embedder, p.Generator, p.Model} {
		closer, ok := client.(io.Closer)
		if !ok {
			continue
		}
		if err := closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
