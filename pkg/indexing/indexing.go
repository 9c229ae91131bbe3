package indexing

import (
	"fmt"
	"sort"

	"github.com/adfharrison1/go-docstore/pkg/domain"
)

// IndexEngine holds every named index of the database. It is not safe for
// concurrent use on its own; the storage engine serialises access.
type IndexEngine struct {
	indexes map[string]*Index // index name -> index
}

// NewIndexEngine creates a new index engine
func NewIndexEngine() *IndexEngine {
	return &IndexEngine{
		indexes: make(map[string]*Index),
	}
}

// CreateIndex registers a new, empty index
func (ie *IndexEngine) CreateIndex(def domain.IndexDefinition, ts int64) (*Index, error) {
	if def.Name == "" {
		return nil, fmt.Errorf("index name cannot be empty: %w", domain.ErrInvalidArgument)
	}
	if _, exists := ie.indexes[def.Name]; exists {
		return nil, fmt.Errorf("index %s: %w", def.Name, domain.ErrAlreadyExists)
	}

	index := NewIndex(def, ts)
	ie.indexes[def.Name] = index
	return index, nil
}

// DropIndex removes an index and returns it
func (ie *IndexEngine) DropIndex(name string) (*Index, error) {
	index, exists := ie.indexes[name]
	if !exists {
		return nil, fmt.Errorf("index %s: %w", name, domain.ErrNotFound)
	}
	delete(ie.indexes, name)
	return index, nil
}

// GetIndex returns the named index
func (ie *IndexEngine) GetIndex(name string) (*Index, bool) {
	index, exists := ie.indexes[name]
	return index, exists
}

// IndexesFor returns the indexes sourced on a collection, ordered by name
func (ie *IndexEngine) IndexesFor(collectionName string) []*Index {
	var result []*Index
	for _, index := range ie.indexes {
		if index.Source == collectionName {
			result = append(result, index)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// GetIndexes returns the index names sourced on a collection
func (ie *IndexEngine) GetIndexes(collectionName string) []string {
	var names []string
	for _, index := range ie.IndexesFor(collectionName) {
		names = append(names, index.Name)
	}
	return names
}

// DropCollection removes every index sourced on a collection
func (ie *IndexEngine) DropCollection(collectionName string) []string {
	dropped := ie.GetIndexes(collectionName)
	for _, name := range dropped {
		delete(ie.indexes, name)
	}
	return dropped
}

// CheckUnique verifies that writing doc under docID would not break any
// unique index of the collection.
func (ie *IndexEngine) CheckUnique(collectionName, docID string, doc *domain.Document) error {
	for _, index := range ie.IndexesFor(collectionName) {
		if index.Unique && index.Conflicts(docID, doc) {
			return fmt.Errorf("document %s violates unique index %s: %w", docID, index.Name, domain.ErrNotUnique)
		}
	}
	return nil
}

// BuildIndex indexes every existing document of the source collection
func (ie *IndexEngine) BuildIndex(index *Index, docs map[string]*domain.Document) error {
	ids := make([]string, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return domain.LessID(ids[i], ids[j]) })

	for _, id := range ids {
		if index.Unique && index.Conflicts(id, docs[id]) {
			return fmt.Errorf("document %s violates unique index %s: %w", id, index.Name, domain.ErrNotUnique)
		}
		index.UpdateIndex(id, nil, docs[id])
	}
	return nil
}

// UpdateIndexForDocument updates all indexes of a collection when a document
// changes. oldDoc is nil for inserts, newDoc is nil for deletes.
func (ie *IndexEngine) UpdateIndexForDocument(collectionName, docID string, oldDoc, newDoc *domain.Document) {
	for _, index := range ie.IndexesFor(collectionName) {
		index.UpdateIndex(docID, oldDoc, newDoc)
	}
}

// ExportIndexes returns the definitions of all indexes for persistence.
// Entries are rebuilt from documents on load.
func (ie *IndexEngine) ExportIndexes() map[string]IndexRecord {
	records := make(map[string]IndexRecord, len(ie.indexes))
	for name, index := range ie.indexes {
		records[name] = IndexRecord{
			Source: index.Source,
			Terms:  index.Terms,
			Unique: index.Unique,
			TS:     index.TS,
		}
	}
	return records
}

// ImportIndexes restores index definitions; callers rebuild their entries
func (ie *IndexEngine) ImportIndexes(records map[string]IndexRecord) {
	for name, record := range records {
		ie.indexes[name] = NewIndex(domain.IndexDefinition{
			Name:   name,
			Source: record.Source,
			Terms:  record.Terms,
			Unique: record.Unique,
		}, record.TS)
	}
}

// IndexRecord is the persisted form of an index definition
type IndexRecord struct {
	Source string   `msgpack:"source"`
	Terms  []string `msgpack:"terms,omitempty"`
	Unique bool     `msgpack:"unique,omitempty"`
	TS     int64    `msgpack:"ts"`
}
