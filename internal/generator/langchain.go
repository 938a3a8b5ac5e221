package generator

import (
	"context"

	"github.com/tmc/langchaingo/llms"
)

type LangchainGenerator struct {
	model   llms.Model
	options []llms.CallOption
}

func NewLangchainGenerator(model llms.Model, options ...llms.CallOption) *LangchainGenerator {
	return &LangchainGenerator{model: model, options: options}
}

func (g *LangchainGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, g.model, prompt, g.options...)
}
