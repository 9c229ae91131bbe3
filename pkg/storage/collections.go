package storage

import (
	"fmt"

	"github.com/adfharrison1/go-docstore/pkg/domain"
)

// GetCollection returns the description of a collection
func (se *StorageEngine) GetCollection(collName string) (*domain.CollectionInfo, error) {
	se.mu.RLock()
	defer se.mu.RUnlock()
	collection, err := se.getCollectionInternal(collName)
	if err != nil {
		return nil, err
	}
	return collection.Info(), nil
}

// CollectionExists reports whether a collection exists
func (se *StorageEngine) CollectionExists(collName string) bool {
	se.mu.RLock()
	defer se.mu.RUnlock()
	_, exists := se.collections[collName]
	return exists
}

// getCollectionInternal looks a collection up without locking
func (se *StorageEngine) getCollectionInternal(collName string) (*Collection, error) {
	collection, exists := se.collections[collName]
	if !exists {
		return nil, fmt.Errorf("collection %s does not exist: %w", collName, domain.ErrNotFound)
	}
	return collection, nil
}

// CreateCollection creates a new collection
func (se *StorageEngine) CreateCollection(collName string) (*domain.CollectionInfo, error) {
	se.mu.Lock()
	defer se.mu.Unlock()

	if collName == "" {
		return nil, fmt.Errorf("collection name cannot be empty: %w", domain.ErrInvalidArgument)
	}
	if collName == domain.CollectionsCollection || collName == domain.IndexesCollection {
		return nil, fmt.Errorf("collection name %s is reserved: %w", collName, domain.ErrInvalidArgument)
	}
	if _, exists := se.collections[collName]; exists {
		return nil, fmt.Errorf("collection %s already exists: %w", collName, domain.ErrAlreadyExists)
	}

	collection := NewCollection(collName, se.now())
	se.collections[collName] = collection
	se.markDirty()

	se.logger.Debug().Str("collection", collName).Msg("collection created")
	return collection.Info(), nil
}

// DeleteCollection removes a collection together with its documents and the
// indexes sourced on it.
func (se *StorageEngine) DeleteCollection(collName string) (*domain.CollectionInfo, error) {
	se.mu.Lock()
	defer se.mu.Unlock()

	collection, err := se.getCollectionInternal(collName)
	if err != nil {
		return nil, err
	}

	dropped := se.indexEngine.DropCollection(collName)
	delete(se.collections, collName)
	se.markDirty()

	se.logger.Debug().
		Str("collection", collName).
		Int("documents", len(collection.Documents)).
		Strs("indexes", dropped).
		Msg("collection deleted")
	return collection.Info(), nil
}
