package storage

import (
	"fmt"
	"sort"

	"github.com/adfharrison1/go-docstore/pkg/domain"
)

// Insert stores a new document in an existing collection and returns it with
// its assigned ref.
func (se *StorageEngine) Insert(collName string, data map[string]interface{}) (*domain.Document, error) {
	se.mu.Lock()
	defer se.mu.Unlock()

	collection, err := se.getCollectionInternal(collName)
	if err != nil {
		return nil, err
	}

	if data == nil {
		data = make(map[string]interface{})
	}
	newID := se.nextID(collection)
	doc := &domain.Document{
		Ref:  domain.DocumentRef(collName, newID),
		TS:   se.now(),
		Data: data,
	}

	if err := se.indexEngine.CheckUnique(collName, newID, doc); err != nil {
		return nil, err
	}
	se.indexEngine.UpdateIndexForDocument(collName, newID, nil, doc)
	collection.Documents[newID] = doc
	se.markDirty()

	return copyDocument(doc), nil
}

// GetById retrieves a specific document by its ID
func (se *StorageEngine) GetById(collName, docId string) (*domain.Document, error) {
	se.mu.RLock()
	defer se.mu.RUnlock()

	doc, err := se.getDocumentInternal(collName, docId)
	if err != nil {
		return nil, err
	}
	return copyDocument(doc), nil
}

// DocumentExists reports whether a document exists
func (se *StorageEngine) DocumentExists(collName, docId string) bool {
	se.mu.RLock()
	defer se.mu.RUnlock()

	_, err := se.getDocumentInternal(collName, docId)
	return err == nil
}

func (se *StorageEngine) getDocumentInternal(collName, docId string) (*domain.Document, error) {
	collection, err := se.getCollectionInternal(collName)
	if err != nil {
		return nil, err
	}
	doc, exists := collection.Documents[docId]
	if !exists {
		return nil, fmt.Errorf("document with id %s not found in collection %s: %w", docId, collName, domain.ErrNotFound)
	}
	return doc, nil
}

// UpdateById merges updates into the document's data. Keys absent from updates
// keep their value; the merge is shallow.
func (se *StorageEngine) UpdateById(collName, docId string, updates map[string]interface{}) (*domain.Document, error) {
	se.mu.Lock()
	defer se.mu.Unlock()

	doc, err := se.getDocumentInternal(collName, docId)
	if err != nil {
		return nil, err
	}

	updated := copyDocument(doc)
	for key, value := range updates {
		updated.Data[key] = value
	}
	updated.TS = se.now()

	if err := se.indexEngine.CheckUnique(collName, docId, updated); err != nil {
		return nil, err
	}
	se.indexEngine.UpdateIndexForDocument(collName, docId, doc, updated)
	se.collections[collName].Documents[docId] = updated
	se.markDirty()

	return copyDocument(updated), nil
}

// DeleteById removes a specific document by its ID and returns it
func (se *StorageEngine) DeleteById(collName, docId string) (*domain.Document, error) {
	se.mu.Lock()
	defer se.mu.Unlock()

	doc, err := se.getDocumentInternal(collName, docId)
	if err != nil {
		return nil, err
	}

	se.indexEngine.UpdateIndexForDocument(collName, docId, doc, nil)
	delete(se.collections[collName].Documents, docId)
	se.markDirty()

	return doc, nil
}

// ListRefs returns the refs of every document in a collection, in ascending
// id order.
func (se *StorageEngine) ListRefs(collName string) ([]domain.Ref, error) {
	se.mu.RLock()
	defer se.mu.RUnlock()

	collection, err := se.getCollectionInternal(collName)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(collection.Documents))
	for id := range collection.Documents {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return domain.LessID(ids[i], ids[j]) })

	refs := make([]domain.Ref, len(ids))
	for i, id := range ids {
		refs[i] = domain.DocumentRef(collName, id)
	}
	return refs, nil
}
