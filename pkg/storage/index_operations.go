package storage

import (
	"fmt"

	"github.com/adfharrison1/go-docstore/pkg/domain"
)

// CreateIndex creates an index over an existing collection and builds it from
// the documents already stored there.
func (se *StorageEngine) CreateIndex(def domain.IndexDefinition) (*domain.IndexInfo, error) {
	se.mu.Lock()
	defer se.mu.Unlock()

	collection, err := se.getCollectionInternal(def.Source)
	if err != nil {
		return nil, err
	}
	index, err := se.indexEngine.CreateIndex(def, se.now())
	if err != nil {
		return nil, err
	}
	if err := se.indexEngine.BuildIndex(index, collection.Documents); err != nil {
		se.indexEngine.DropIndex(def.Name)
		return nil, err
	}
	se.markDirty()

	se.logger.Debug().
		Str("index", def.Name).
		Str("collection", def.Source).
		Strs("terms", def.Terms).
		Bool("unique", def.Unique).
		Msg("index created")
	info := index.Info()
	return &info, nil
}

// DropIndex removes an index; the documents it covered are untouched
func (se *StorageEngine) DropIndex(name string) (*domain.IndexInfo, error) {
	se.mu.Lock()
	defer se.mu.Unlock()

	index, err := se.indexEngine.DropIndex(name)
	if err != nil {
		return nil, err
	}
	se.markDirty()

	se.logger.Debug().Str("index", name).Msg("index dropped")
	info := index.Info()
	return &info, nil
}

// GetIndex returns the description of an index
func (se *StorageEngine) GetIndex(name string) (*domain.IndexInfo, error) {
	se.mu.RLock()
	defer se.mu.RUnlock()

	index, exists := se.indexEngine.GetIndex(name)
	if !exists {
		return nil, fmt.Errorf("index %s: %w", name, domain.ErrNotFound)
	}
	info := index.Info()
	return &info, nil
}

// GetIndexes returns the index names sourced on a collection
func (se *StorageEngine) GetIndexes(collName string) ([]string, error) {
	se.mu.RLock()
	defer se.mu.RUnlock()

	if _, err := se.getCollectionInternal(collName); err != nil {
		return nil, err
	}
	return se.indexEngine.GetIndexes(collName), nil
}

// FindByIndex returns the refs of documents matching value on the named index,
// in ascending id order. present is false for a match without a value.
func (se *StorageEngine) FindByIndex(name string, value interface{}, present bool) ([]domain.Ref, error) {
	se.mu.RLock()
	defer se.mu.RUnlock()

	index, exists := se.indexEngine.GetIndex(name)
	if !exists {
		return nil, fmt.Errorf("index %s: %w", name, domain.ErrNotFound)
	}

	ids := index.Query(value, present)
	refs := make([]domain.Ref, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, domain.DocumentRef(index.Source, id))
	}
	return refs, nil
}
