package rag

import (
	"context"

	"github.com/rs/zerolog/log"

	"tabular-rag/internal/embedding"
	"tabular-rag/internal/generator"
	"tabular-rag/internal/index"
	"tabular-rag/internal/models"
)

// Direct wires embedder, flat L2 index, retriever and generator by hand.
type Direct struct {
	retriever *Retriever
	generator generator.Generator
	k         int
}

var _ Pipeline = (*Direct)(nil)

// NewDirect embeds every unit in document mode and builds the index. It
// returns nothing usable unless every step succeeded.
func NewDirect(ctx context.Context, units []models.TextUnit, embedder embedding.Embedder, gen generator.Generator, k int) (*Direct, error) {
	if len(units) == 0 {
		return nil, models.ErrEmptyCorpus
	}

	vectors, err := embedder.EmbedDocuments(ctx, models.Texts(units))
	if err != nil {
		return nil, err
	}
	log.Debug().Int("vectors", len(vectors)).Msg("Embeddings created")

	idx, err := index.Build(vectors)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("dim", idx.Dim()).Msg("Flat L2 index created")

	return &Direct{
		retriever: NewRetriever(embedder, idx, units),
		generator: gen,
		k:         topK(k),
	}, nil
}

func (d *Direct) Answer(ctx context.Context, question string) (string, error) {
	units, err := d.retriever.Retrieve(ctx, question, d.k)
	if err != nil {
		return "", err
	}
	return Generate(ctx, d.generator, question, units)
}

func topK(k int) int {
	if k <= 0 {
		return models.DefaultTopK
	}
	return k
}
