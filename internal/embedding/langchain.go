package embedding

import (
	"context"
	"strings"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"tabular-rag/internal/config"
)

// LangchainEmbedder adapts a langchaingo embedder. Those clients have no
// document/query distinction, so both modes hit the same endpoint.
type LangchainEmbedder struct {
	embedder *embeddings.EmbedderImpl
}

func NewLangchainEmbedder(client embeddings.EmbedderClient, batchSize int) (*LangchainEmbedder, error) {
	opts := []embeddings.Option{}
	if batchSize > 0 {
		opts = append(opts, embeddings.WithBatchSize(batchSize))
	}
	embedder, err := embeddings.NewEmbedder(client, opts...)
	if err != nil {
		return nil, err
	}
	return &LangchainEmbedder{embedder: embedder}, nil
}

func NewOpenAIEmbedder(cfg *config.LLMConfig) (*LangchainEmbedder, error) {
	opts := []openai.Option{
		openai.WithToken(strings.TrimPrefix(cfg.Key, "Bearer ")),
		openai.WithEmbeddingModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, err
	}
	return NewLangchainEmbedder(llm, cfg.BatchSize)
}

func NewOllamaEmbedder(cfg *config.LLMConfig) (*LangchainEmbedder, error) {
	opts := []ollama.Option{ollama.WithModel(cfg.Model)}
	if cfg.BaseURL != "" {
		opts = append(opts, ollama.WithServerURL(cfg.BaseURL))
	}
	llm, err := ollama.New(opts...)
	if err != nil {
		return nil, err
	}
	return NewLangchainEmbedder(llm, cfg.BatchSize)
}

func (e *LangchainEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	vectors, err := e.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, serviceError("embed documents", err)
	}
	if err := checkVectors(len(texts), vectors); err != nil {
		return nil, err
	}
	return vectors, nil
}

func (e *LangchainEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vector, err := e.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, serviceError("embed query", err)
	}
	if err := checkVectors(1, [][]float32{vector}); err != nil {
		return nil, err
	}
	return vector, nil
}
