package storage

import (
	"github.com/adfharrison1/go-docstore/pkg/domain"
)

// Collection holds the documents of one collection keyed by id
type Collection struct {
	Name      string
	TS        int64
	NextID    int64
	Documents map[string]*domain.Document
}

// NewCollection creates a new collection
func NewCollection(name string, ts int64) *Collection {
	return &Collection{
		Name:      name,
		TS:        ts,
		Documents: make(map[string]*domain.Document),
	}
}

// Info describes the collection the way the backend reports it
func (c *Collection) Info() *domain.CollectionInfo {
	return &domain.CollectionInfo{
		Ref:  domain.CollectionRef(c.Name),
		Name: c.Name,
		TS:   c.TS,
	}
}

// copyDocument returns a copy whose top-level data map can be handed out
func copyDocument(doc *domain.Document) *domain.Document {
	data := make(map[string]interface{}, len(doc.Data))
	for k, v := range doc.Data {
		data[k] = v
	}
	return &domain.Document{Ref: doc.Ref, TS: doc.TS, Data: data}
}
