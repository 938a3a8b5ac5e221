package chromemdb

import (
	"context"
	"fmt"
	"strconv"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"

	"tabular-rag/internal/index"
	"tabular-rag/internal/models"
)

// metadata keys stored with every row document
const (
	MetaSource   = "source"
	MetaRow      = "row"
	MetaPosition = "position"
)

// one worker: rebuilds are serialized per session
const addConcurrency = 1

// VectorDBManager encapsulates the chromem-go database operations for one
// session. The database lives in memory only. chromem normalizes stored
// embeddings, so ranking runs on an exact L2 index over the raw vectors and
// the collection serves the documents.
type VectorDBManager struct {
	db         *chromem.DB
	collection *chromem.Collection
	index      *index.Flat
}

// Match is one ranked document and its L2 distance to the query.
type Match struct {
	Document chromem.Document
	Distance float32
}

// NewVectorDBManager initializes an in-memory vector database manager
func NewVectorDBManager() *VectorDBManager {
	return &VectorDBManager{db: chromem.NewDB()}
}

// create or read collection
func (m *VectorDBManager) GetOrCreateCollection(collectionName string) (*chromem.Collection, error) {
	c, err := m.db.GetOrCreateCollection(collectionName, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create/get collection: %w", err)
	}
	m.collection = c
	return c, nil
}

// CreateDocs adds units with their precomputed embeddings. The document ID
// encodes the unit position so results map back to the unit slice.
func (m *VectorDBManager) CreateDocs(ctx context.Context, units []models.TextUnit, vectors [][]float32) error {
	if m.collection == nil {
		return fmt.Errorf("collection is required")
	}
	if len(units) != len(vectors) {
		return fmt.Errorf("%d units but %d embeddings", len(units), len(vectors))
	}

	idx, err := index.Build(vectors)
	if err != nil {
		return err
	}

	docs := make([]chromem.Document, len(units))
	for i, u := range units {
		docs[i] = chromem.Document{
			ID:      DocumentID(i),
			Content: u.Text,
			Metadata: map[string]string{
				MetaSource:   u.Source,
				MetaRow:      strconv.Itoa(u.Row),
				MetaPosition: strconv.Itoa(i),
			},
			Embedding: vectors[i],
		}
	}

	log.Debug().Msgf("Adding %d documents to collection %s", len(docs), m.collection.Name)
	if err := m.collection.AddDocuments(ctx, docs, addConcurrency); err != nil {
		return fmt.Errorf("failed to add documents: %w", err)
	}
	m.index = idx
	return nil
}

// SearchEmbedding returns the k documents nearest to embedding by L2
// distance, nearest first. Equal distances keep insertion order and k is
// clamped to the collection size.
func (m *VectorDBManager) SearchEmbedding(ctx context.Context, embedding []float32, k int) ([]Match, error) {
	if m.collection == nil || m.index == nil {
		return nil, models.ErrIndexNotReady
	}
	if len(embedding) == 0 {
		return nil, fmt.Errorf("embedding must be provided")
	}

	hits, err := m.index.Search(embedding, k)
	if err != nil {
		return nil, err
	}

	matches := make([]Match, 0, len(hits))
	for _, hit := range hits {
		doc, err := m.collection.GetByID(ctx, DocumentID(hit.Position))
		if err != nil {
			return nil, fmt.Errorf("failed to read document %d: %w", hit.Position, err)
		}
		matches = append(matches, Match{Document: doc, Distance: hit.Distance})
	}
	return matches, nil
}

func (m *VectorDBManager) Count() int {
	if m.collection == nil {
		return 0
	}
	return m.collection.Count()
}

// delete collection
func (m *VectorDBManager) DeleteCollection() error {
	if m.collection == nil {
		return nil
	}
	if err := m.db.DeleteCollection(m.collection.Name); err != nil {
		return fmt.Errorf("failed to drop collection: %w", err)
	}
	m.collection = nil
	m.index = nil
	return nil
}

func DocumentID(position int) string {
	return "unit-" + strconv.Itoa(position)
}
