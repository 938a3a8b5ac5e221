package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/tmc/langchaingo/llms/fake"

	"tabular-rag/internal/models"
)

func TestNewChain_EmptyCorpus(t *testing.T) {
	_, err := NewChain(context.Background(), nil, sampleEmbedder(), fake.NewFakeLLM([]string{"x"}), 5)
	if !errors.Is(err, models.ErrEmptyCorpus) {
		t.Fatalf("expected ErrEmptyCorpus, got %v", err)
	}
}

func TestChain_Answer(t *testing.T) {
	e := sampleEmbedder()
	llm := fake.NewFakeLLM([]string{"Bob lives in Rome."})

	c, err := NewChain(context.Background(), sampleUnits(), e, llm, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	answer, err := c.Answer(context.Background(), "Where does Bob live?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer != "Bob lives in Rome." {
		t.Errorf("unexpected answer %q", answer)
	}
	if e.docCalls != 1 {
		t.Errorf("expected one document embedding call, got %d", e.docCalls)
	}
}

func TestChain_EmbeddingFailureIsNotGenerationError(t *testing.T) {
	e := sampleEmbedder()
	c, err := NewChain(context.Background(), sampleUnits(), e, fake.NewFakeLLM([]string{"x"}), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e.failQuery = true

	_, err = c.Answer(context.Background(), "alice?")
	if !errors.Is(err, models.ErrEmbeddingService) {
		t.Fatalf("expected ErrEmbeddingService, got %v", err)
	}
	if errors.Is(err, models.ErrGenerationService) {
		t.Fatalf("embedding failure reported as generation failure: %v", err)
	}
}

func TestVariants_RetrieveSameRows(t *testing.T) {
	tests := []struct {
		name    string
		units   []models.TextUnit
		vectors map[string][]float32
		k       int
		want    []string
	}{
		{
			name: "unnormalized vectors",
			units: []models.TextUnit{
				{Text: "Row 1: Name is Alice", Source: "people.csv", Row: 1},
				{Text: "Row 2: Name is Bob", Source: "people.csv", Row: 2},
			},
			vectors: map[string][]float32{
				"Row 1: Name is Alice": {1, 0},
				"Row 2: Name is Bob":   {10, 1},
				"who?":                 {10, 0},
			},
			k:    1,
			want: []string{"Row 2: Name is Bob"},
		},
		{
			name: "ties",
			units: []models.TextUnit{
				{Text: "Row 1: Name is Ann", Source: "dup.csv", Row: 1},
				{Text: "Row 2: Name is Ann", Source: "dup.csv", Row: 2},
				{Text: "Row 3: Name is Ann", Source: "dup.csv", Row: 3},
			},
			vectors: map[string][]float32{
				"Row 1: Name is Ann": {1, 1},
				"Row 2: Name is Ann": {1, 1},
				"Row 3: Name is Ann": {1, 1},
				"who?":               {0, 0},
			},
			k:    2,
			want: []string{"Row 1: Name is Ann", "Row 2: Name is Ann"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			e := &tableEmbedder{vectors: tt.vectors}
			gen := &recordingGenerator{answer: "ok"}
			model := &recordingModel{}

			d, err := NewDirect(ctx, tt.units, e, gen, tt.k)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			c, err := NewChain(ctx, tt.units, e, model, tt.k)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			for run := 0; run < 10; run++ {
				if _, err := d.Answer(ctx, "who?"); err != nil {
					t.Fatalf("direct: unexpected error: %v", err)
				}
				if _, err := c.Answer(ctx, "who?"); err != nil {
					t.Fatalf("chain: unexpected error: %v", err)
				}
			}

			want := strings.Join(tt.want, "|")
			for i := range gen.prompts {
				if got := strings.Join(rowsInPrompt(gen.prompts[i], tt.units), "|"); got != want {
					t.Fatalf("direct run %d: expected %s, got %s", i, want, got)
				}
				if got := strings.Join(rowsInPrompt(model.prompts[i], tt.units), "|"); got != want {
					t.Fatalf("chain run %d: expected %s, got %s", i, want, got)
				}
			}
		})
	}
}

func TestChain_DefaultKIsFive(t *testing.T) {
	units := make([]models.TextUnit, 7)
	for i := range units {
		units[i] = models.TextUnit{Text: fmt.Sprintf("Row %d: k is v", i+1), Source: "k.csv", Row: i + 1}
	}
	model := &recordingModel{}

	c, err := NewChain(context.Background(), units, sampleEmbedder(), model, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.Answer(context.Background(), "anything"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := rowsInPrompt(model.prompts[0], units); len(got) != models.DefaultTopK {
		t.Fatalf("expected %d rows in the chain prompt, got %v", models.DefaultTopK, got)
	}
}

func TestChain_CloseReleasesIndex(t *testing.T) {
	c, err := NewChain(context.Background(), sampleUnits(), sampleEmbedder(), fake.NewFakeLLM([]string{"x"}), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := c.Answer(context.Background(), "alice?"); !errors.Is(err, models.ErrIndexNotReady) {
		t.Fatalf("expected ErrIndexNotReady, got %v", err)
	}
}
