package rag

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/tmc/langchaingo/llms"

	"tabular-rag/internal/models"
)

// keywordEmbedder places a text on the axis of every keyword it contains.
type keywordEmbedder struct {
	keywords  []string
	docCalls  int
	failQuery bool
	failDocs  bool
}

func (e *keywordEmbedder) vector(text string) []float32 {
	v := make([]float32, len(e.keywords)+1)
	v[len(e.keywords)] = 0.01
	for i, kw := range e.keywords {
		if strings.Contains(strings.ToLower(text), kw) {
			v[i] = 1
		}
	}
	return v
}

func (e *keywordEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	e.docCalls++
	if e.failDocs {
		return nil, models.ErrEmbeddingService
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = e.vector(text)
	}
	return out, nil
}

func (e *keywordEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if e.failQuery {
		return nil, models.ErrEmbeddingService
	}
	return e.vector(text), nil
}

type recordingGenerator struct {
	prompts []string
	answer  string
	err     error
}

func (g *recordingGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	return g.answer, nil
}

var errUpstream = errors.New("upstream 503")

func sampleUnits() []models.TextUnit {
	return []models.TextUnit{
		{Text: "Row 1: Name is Alice, City is Paris", Source: "people.csv", Row: 1},
		{Text: "Row 2: Name is Bob, City is Rome", Source: "people.csv", Row: 2},
		{Text: "Row 3: Name is Carol, City is Oslo", Source: "people.csv", Row: 3},
	}
}

func sampleEmbedder() *keywordEmbedder {
	return &keywordEmbedder{keywords: []string{"alice", "bob", "carol"}}
}

// tableEmbedder returns fixed vectors per text for both modes.
type tableEmbedder struct {
	vectors map[string][]float32
}

func (e *tableEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v, ok := e.vectors[text]
		if !ok {
			return nil, models.ErrEmbeddingService
		}
		out[i] = v
	}
	return out, nil
}

func (e *tableEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	v, ok := e.vectors[text]
	if !ok {
		return nil, models.ErrEmbeddingService
	}
	return v, nil
}

// recordingModel is an llms.Model that keeps every prompt it is sent.
type recordingModel struct {
	prompts []string
}

func (m *recordingModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	var b strings.Builder
	for _, msg := range messages {
		for _, part := range msg.Parts {
			if text, ok := part.(llms.TextContent); ok {
				b.WriteString(text.Text)
			}
		}
	}
	m.prompts = append(m.prompts, b.String())
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: "ok"}}}, nil
}

func (m *recordingModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

// rowsInPrompt lists the unit texts found in prompt, in the order they appear.
func rowsInPrompt(prompt string, units []models.TextUnit) []string {
	type found struct {
		at   int
		text string
	}
	var hits []found
	for _, u := range units {
		if at := strings.Index(prompt, u.Text); at >= 0 {
			hits = append(hits, found{at: at, text: u.Text})
		}
	}
	sort.Slice(hits, func(a, b int) bool { return hits[a].at < hits[b].at })

	rows := make([]string, len(hits))
	for i, h := range hits {
		rows[i] = h.text
	}
	return rows
}
