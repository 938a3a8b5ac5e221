package embedding

import (
	"context"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"tabular-rag/internal/config"
)

// GoogleEmbedder calls the Gemini embedding API with the retrieval task types,
// RETRIEVAL_DOCUMENT for rows and RETRIEVAL_QUERY for questions.
type GoogleEmbedder struct {
	client    *genai.Client
	model     string
	batchSize int
}

func NewGoogleEmbedder(ctx context.Context, cfg *config.LLMConfig) (*GoogleEmbedder, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.Key))
	if err != nil {
		return nil, err
	}
	return &GoogleEmbedder{
		client:    client,
		model:     cfg.Model,
		batchSize: max(cfg.BatchSize, 1),
	}, nil
}

func (e *GoogleEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	em := e.client.EmbeddingModel(e.model)
	em.TaskType = genai.TaskTypeRetrievalDocument

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += e.batchSize {
		end := min(start+e.batchSize, len(texts))
		batch := em.NewBatch()
		for _, text := range texts[start:end] {
			batch.AddContent(genai.Text(text))
		}
		rsp, err := em.BatchEmbedContents(ctx, batch)
		if err != nil {
			return nil, serviceError("embed documents", err)
		}
		for _, emb := range rsp.Embeddings {
			if emb == nil {
				vectors = append(vectors, nil)
				continue
			}
			vectors = append(vectors, emb.Values)
		}
	}
	if err := checkVectors(len(texts), vectors); err != nil {
		return nil, err
	}
	return vectors, nil
}

func (e *GoogleEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	em := e.client.EmbeddingModel(e.model)
	em.TaskType = genai.TaskTypeRetrievalQuery

	rsp, err := em.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, serviceError("embed query", err)
	}
	var vector []float32
	if rsp != nil && rsp.Embedding != nil {
		vector = rsp.Embedding.Values
	}
	if err := checkVectors(1, [][]float32{vector}); err != nil {
		return nil, err
	}
	return vector, nil
}

func (e *GoogleEmbedder) Close() error {
	return e.client.Close()
}
