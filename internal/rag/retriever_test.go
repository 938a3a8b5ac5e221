package rag

import (
	"context"
	"errors"
	"testing"

	"tabular-rag/internal/index"
	"tabular-rag/internal/models"
)

func buildRetriever(t *testing.T, e *keywordEmbedder, units []models.TextUnit) *Retriever {
	t.Helper()
	vectors, err := e.EmbedDocuments(context.Background(), models.Texts(units))
	if err != nil {
		t.Fatal(err)
	}
	idx, err := index.Build(vectors)
	if err != nil {
		t.Fatal(err)
	}
	return NewRetriever(e, idx, units)
}

func TestRetriever_NearestFirst(t *testing.T) {
	units := sampleUnits()
	r := buildRetriever(t, sampleEmbedder(), units)

	got, err := r.Retrieve(context.Background(), "Where does Bob live?", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 units, got %d", len(got))
	}
	if got[0] != units[1] {
		t.Errorf("expected Bob first, got %q", got[0].Text)
	}
	// equidistant rows keep their original order
	if got[1] != units[0] || got[2] != units[2] {
		t.Errorf("expected Alice then Carol, got %q, %q", got[1].Text, got[2].Text)
	}
}

func TestRetriever_KClampedToCorpus(t *testing.T) {
	units := sampleUnits()
	r := buildRetriever(t, sampleEmbedder(), units)

	got, err := r.Retrieve(context.Background(), "anyone", models.DefaultTopK)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != len(units) {
		t.Fatalf("expected %d units, got %d", len(units), len(got))
	}
}

func TestRetriever_NotReady(t *testing.T) {
	var nilRetriever *Retriever
	if _, err := nilRetriever.Retrieve(context.Background(), "q", 5); !errors.Is(err, models.ErrIndexNotReady) {
		t.Fatalf("expected ErrIndexNotReady from nil retriever, got %v", err)
	}

	r := NewRetriever(sampleEmbedder(), nil, sampleUnits())
	if _, err := r.Retrieve(context.Background(), "q", 5); !errors.Is(err, models.ErrIndexNotReady) {
		t.Fatalf("expected ErrIndexNotReady without index, got %v", err)
	}
}

func TestRetriever_QueryEmbeddingFails(t *testing.T) {
	e := sampleEmbedder()
	r := buildRetriever(t, e, sampleUnits())
	e.failQuery = true

	if _, err := r.Retrieve(context.Background(), "q", 5); !errors.Is(err, models.ErrEmbeddingService) {
		t.Fatalf("expected ErrEmbeddingService, got %v", err)
	}
}
