package index

import (
	"fmt"
	"math"
	"sort"

	"tabular-rag/internal/models"
)

// Hit is one search result: a position in the build order and its L2
// distance to the query.
type Hit struct {
	Position int
	Distance float32
}

// Flat is an exact nearest-neighbour index over a flat slice of vectors.
type Flat struct {
	dim     int
	vectors [][]float32
}

// Build copies vectors into a new index. Position i of every later search
// refers to vectors[i].
func Build(vectors [][]float32) (*Flat, error) {
	if len(vectors) == 0 {
		return nil, models.ErrEmptyCorpus
	}
	dim := len(vectors[0])
	if dim == 0 {
		return nil, fmt.Errorf("%w: zero-length vector at position 0", models.ErrDimensionMismatch)
	}

	stored := make([][]float32, len(vectors))
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("%w: vector %d has %d dimensions, want %d", models.ErrDimensionMismatch, i, len(v), dim)
		}
		stored[i] = append([]float32(nil), v...)
	}
	return &Flat{dim: dim, vectors: stored}, nil
}

func (f *Flat) Len() int { return len(f.vectors) }

func (f *Flat) Dim() int { return f.dim }

// Search returns up to k hits nearest first. k larger than the corpus returns
// every position; equal distances keep insertion order.
func (f *Flat) Search(query []float32, k int) ([]Hit, error) {
	if len(query) != f.dim {
		return nil, fmt.Errorf("%w: query has %d dimensions, want %d", models.ErrDimensionMismatch, len(query), f.dim)
	}
	if k <= 0 {
		return []Hit{}, nil
	}
	k = min(k, len(f.vectors))

	hits := make([]Hit, len(f.vectors))
	for i, v := range f.vectors {
		hits[i] = Hit{Position: i, Distance: l2(query, v)}
	}
	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].Distance < hits[b].Distance
	})
	return hits[:k], nil
}

func l2(a, b []float32) float32 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return float32(math.Sqrt(sum))
}
