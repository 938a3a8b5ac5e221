package chromemdb

import (
	"context"
	"strconv"

	"github.com/tmc/langchaingo/schema"

	"tabular-rag/internal/embedding"
)

// Retriever exposes a collection as a langchaingo schema.Retriever. Questions
// are embedded in query mode with the same embedder used for the rows.
type Retriever struct {
	db       *VectorDBManager
	embedder embedding.Embedder
	k        int
}

var _ schema.Retriever = (*Retriever)(nil)

func NewRetriever(db *VectorDBManager, embedder embedding.Embedder, k int) *Retriever {
	return &Retriever{db: db, embedder: embedder, k: k}
}

func (r *Retriever) GetRelevantDocuments(ctx context.Context, query string) ([]schema.Document, error) {
	vector, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	matches, err := r.db.SearchEmbedding(ctx, vector, r.k)
	if err != nil {
		return nil, err
	}

	// Score carries the L2 distance, lower is nearer
	docs := make([]schema.Document, 0, len(matches))
	for _, match := range matches {
		metadata := make(map[string]any, len(match.Document.Metadata))
		for k, v := range match.Document.Metadata {
			metadata[k] = v
		}
		if pos, err := strconv.Atoi(match.Document.Metadata[MetaPosition]); err == nil {
			metadata[MetaPosition] = pos
		}
		docs = append(docs, schema.Document{
			PageContent: match.Document.Content,
			Metadata:    metadata,
			Score:       match.Distance,
		})
	}
	return docs, nil
}
