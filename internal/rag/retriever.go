package rag

import (
	"context"

	"github.com/rs/zerolog/log"

	"tabular-rag/internal/embedding"
	"tabular-rag/internal/index"
	"tabular-rag/internal/models"
)

// Retriever maps nearest index positions back to the units the index was
// built from. Units and index must never be reordered independently.
type Retriever struct {
	embedder embedding.Embedder
	index    *index.Flat
	units    []models.TextUnit
}

func NewRetriever(embedder embedding.Embedder, idx *index.Flat, units []models.TextUnit) *Retriever {
	return &Retriever{embedder: embedder, index: idx, units: units}
}

// Retrieve returns up to k units nearest to query, nearest first.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]models.TextUnit, error) {
	if r == nil || r.index == nil || len(r.units) == 0 {
		return nil, models.ErrIndexNotReady
	}

	vector, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	hits, err := r.index.Search(vector, k)
	if err != nil {
		return nil, err
	}

	units := make([]models.TextUnit, len(hits))
	for i, h := range hits {
		units[i] = r.units[h.Position]
	}
	log.Debug().Msgf("Top %d units retrieved for question", len(units))
	return units, nil
}
