package matcher

import (
	"fmt"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/google/uuid"

	"github.com/FACorreiaa/stockflow/internal/domain/catalog"
)

// productDocument is the indexed shape of a catalog product.
type productDocument struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

// SearchIndex narrows large catalogs to a shortlist of likely targets with
// full-text search before the exact similarity scan. It is an in-memory
// index rebuilt from each snapshot.
type SearchIndex struct {
	mu    sync.RWMutex
	index bleve.Index
}

// NewSearchIndex creates an empty in-memory index.
func NewSearchIndex() (*SearchIndex, error) {
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create search index: %w", err)
	}
	return &SearchIndex{index: index}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	nameField := bleve.NewTextFieldMapping()
	nameField.Analyzer = simple.Name

	categoryField := bleve.NewTextFieldMapping()
	categoryField.Analyzer = simple.Name

	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt("name", nameField)
	doc.AddFieldMappingsAt("category", categoryField)

	m := bleve.NewIndexMapping()
	m.DefaultMapping = doc
	m.DefaultAnalyzer = simple.Name
	return m
}

// Rebuild replaces the index contents with the snapshot's products. A fresh
// index is built and swapped in so products removed from the catalog do not
// linger as candidates.
func (si *SearchIndex) Rebuild(snap *catalog.Snapshot) error {
	next, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return fmt.Errorf("create search index: %w", err)
	}

	batch := next.NewBatch()
	for _, p := range snap.Products {
		if err := batch.Index(p.ID.String(), productDocument{
			Name:     p.Name,
			Category: p.Category,
		}); err != nil {
			_ = next.Close()
			return fmt.Errorf("index product %s: %w", p.ID, err)
		}
	}
	if err := next.Batch(batch); err != nil {
		_ = next.Close()
		return fmt.Errorf("apply index batch: %w", err)
	}

	si.mu.Lock()
	old := si.index
	si.index = next
	si.mu.Unlock()
	return old.Close()
}

// TopCandidates returns the ids of up to limit products whose names are
// textually close to the query, best first. An empty result just means the
// caller falls back to a full catalog scan.
func (si *SearchIndex) TopCandidates(name string, limit int) ([]uuid.UUID, error) {
	si.mu.RLock()
	defer si.mu.RUnlock()

	query := bleve.NewMatchQuery(name)
	query.SetField("name")
	query.Fuzziness = 1

	req := bleve.NewSearchRequest(query)
	req.Size = limit

	res, err := si.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(res.Hits))
	for _, hit := range res.Hits {
		id, err := uuid.Parse(hit.ID)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Close releases the index.
func (si *SearchIndex) Close() error {
	si.mu.Lock()
	defer si.mu.Unlock()
	return si.index.Close()
}
