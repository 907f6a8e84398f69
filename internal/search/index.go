package search

import (
	"fmt"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/renderinc/product-publisher/internal/product"
)

// Index wraps a Bleve index over published products.
// It is a secondary catalog index; the store file stays the record of truth.
type Index struct {
	index bleve.Index
}

// IndexedProduct represents a product in the search index
type IndexedProduct struct {
	ID          string
	Title       string
	Description string
	Tags        []string
	Price       float64
	PublishedAt time.Time
}

// SearchResult represents a search hit
type SearchResult struct {
	ID        string              `json:"product_id"`
	Title     string              `json:"title"`
	Price     float64             `json:"price"`
	Score     float64             `json:"score"`
	Fragments map[string][]string `json:"fragments,omitempty"`
}

// Open opens or creates a Bleve index on disk
func Open(path string) (*Index, error) {
	idx, err := bleve.Open(path)
	if err == bleve.ErrorIndexPathDoesNotExist {
		idx, err = bleve.New(path, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}

	return &Index{index: idx}, nil
}

// OpenMem creates an index that lives only in memory
func OpenMem() (*Index, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create memory index: %w", err)
	}
	return &Index{index: idx}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = en.AnalyzerName

	// IDs are matched whole
	keywordFieldMapping := bleve.NewTextFieldMapping()
	keywordFieldMapping.Analyzer = keyword.Name

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("ID", keywordFieldMapping)
	docMapping.AddFieldMappingsAt("Title", textFieldMapping)
	docMapping.AddFieldMappingsAt("Description", textFieldMapping)
	docMapping.AddFieldMappingsAt("Tags", textFieldMapping)
	docMapping.AddFieldMappingsAt("Price", bleve.NewNumericFieldMapping())
	docMapping.AddFieldMappingsAt("PublishedAt", bleve.NewDateTimeFieldMapping())

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName
	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}

// Close closes the index
func (i *Index) Close() error {
	return i.index.Close()
}

// IndexProduct adds a published product to the index
func (i *Index) IndexProduct(p *product.Published) error {
	doc := &IndexedProduct{
		ID:          p.PublishedID,
		Title:       p.Title,
		Description: p.Description,
		Tags:        p.Tags,
		Price:       p.Price,
		PublishedAt: p.PublishedAt,
	}
	return i.index.Index(doc.ID, doc)
}

// Search runs a query-string query (phrases, +/-, fuzzy ~) and returns up to limit hits
func (i *Index) Search(queryStr string, limit int) ([]*SearchResult, error) {
	query := bleve.NewQueryStringQuery(queryStr)

	search := bleve.NewSearchRequestOptions(query, limit, 0, false)
	search.Highlight = bleve.NewHighlight()
	search.Fields = []string{"Title", "Price"}

	results, err := i.index.Search(search)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	searchResults := []*SearchResult{}
	for _, hit := range results.Hits {
		result := &SearchResult{
			ID:        hit.ID,
			Score:     hit.Score,
			Fragments: hit.Fragments,
		}

		if title, ok := hit.Fields["Title"].(string); ok {
			result.Title = title
		}
		if price, ok := hit.Fields["Price"].(float64); ok {
			result.Price = price
		}

		searchResults = append(searchResults, result)
	}

	return searchResults, nil
}

// Count returns the number of products in the index
func (i *Index) Count() (uint64, error) {
	return i.index.DocCount()
}
