package rag

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/chains"
	"github.com/tmc/langchaingo/llms"

	"tabular-rag/internal/chromemdb"
	"tabular-rag/internal/embedding"
	"tabular-rag/internal/models"
)

const collectionName = "rows"

// Chain delegates retrieval and generation to a langchaingo RetrievalQA
// chain over an in-memory chromem-go collection.
type Chain struct {
	db      *chromemdb.VectorDBManager
	qa      chains.RetrievalQA
	options []chains.ChainCallOption
}

var (
	_ Pipeline  = (*Chain)(nil)
	_ io.Closer = (*Chain)(nil)
)

func NewChain(ctx context.Context, units []models.TextUnit, embedder embedding.Embedder, model llms.Model, k int, options ...chains.ChainCallOption) (*Chain, error) {
	if len(units) == 0 {
		return nil, models.ErrEmptyCorpus
	}

	vectors, err := embedder.EmbedDocuments(ctx, models.Texts(units))
	if err != nil {
		return nil, err
	}

	db := chromemdb.NewVectorDBManager()
	if _, err := db.GetOrCreateCollection(collectionName); err != nil {
		return nil, err
	}
	if err := db.CreateDocs(ctx, units, vectors); err != nil {
		return nil, err
	}
	log.Debug().Int("documents", db.Count()).Msg("Chain vector store built")

	retriever := chromemdb.NewRetriever(db, embedder, topK(k))
	return &Chain{
		db:      db,
		qa:      chains.NewRetrievalQAFromLLM(model, retriever),
		options: options,
	}, nil
}

func (c *Chain) Answer(ctx context.Context, question string) (string, error) {
	answer, err := chains.Run(ctx, c.qa, question, c.options...)
	if err != nil {
		if errors.Is(err, models.ErrEmbeddingService) || errors.Is(err, models.ErrIndexNotReady) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", models.ErrGenerationService, err)
	}
	log.Debug().Msg("Chain invoked")
	return answer, nil
}

// Close drops the collection. Later answers fail with ErrIndexNotReady.
func (c *Chain) Close() error {
	return c.db.DeleteCollection()
}
