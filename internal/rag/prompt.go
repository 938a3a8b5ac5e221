package rag

import (
	"context"
	"fmt"
	"strings"

	"tabular-rag/internal/generator"
	"tabular-rag/internal/models"
)

// BuildPrompt joins the unit texts in retrieved order under the instruction
// preamble, followed by the question.
func BuildPrompt(question string, units []models.TextUnit) string {
	block := strings.Join(models.Texts(units), models.ContextSeparator)
	return fmt.Sprintf(models.PromptTemplate, block, question)
}

// Generate answers question from units with a single stateless model call.
func Generate(ctx context.Context, gen generator.Generator, question string, units []models.TextUnit) (string, error) {
	answer, err := gen.Generate(ctx, BuildPrompt(question, units))
	if err != nil {
		return "", fmt.Errorf("%w: %w", models.ErrGenerationService, err)
	}
	if strings.TrimSpace(answer) == "" {
		return "", fmt.Errorf("%w: empty response", models.ErrGenerationService)
	}
	return answer, nil
}
