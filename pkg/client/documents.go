package client

import (
	"context"

	"github.com/adfharrison1/go-docstore/pkg/domain"
	"github.com/adfharrison1/go-docstore/pkg/query"
)

// CreateDocument stores data as a new document of collection and returns it
// with its assigned ref.
func (c *Client) CreateDocument(ctx context.Context, collection string, data map[string]interface{}) (*domain.Document, error) {
	expr := query.Create(query.Collection(collection), map[string]interface{}{"data": data})
	return c.executeDocument(ctx, expr)
}

// UpdateDocument merges data into the document's payload. Fields not present
// in data are left as they are.
func (c *Client) UpdateDocument(ctx context.Context, collection, documentID string, data map[string]interface{}) (*domain.Document, error) {
	expr := query.Update(documentRef(collection, documentID), map[string]interface{}{"data": data})
	return c.executeDocument(ctx, expr)
}

// GetDocument reads a document by ref. A missing document is an error here;
// use RetrieveDocument to probe by value.
func (c *Client) GetDocument(ctx context.Context, collection, documentID string) (*domain.Document, error) {
	return c.executeDocument(ctx, query.Get(documentRef(collection, documentID)))
}

// DeleteDocument deletes a document by ref and returns its last state
func (c *Client) DeleteDocument(ctx context.Context, collection, documentID string) (*domain.Document, error) {
	return c.executeDocument(ctx, query.Delete(documentRef(collection, documentID)))
}

func (c *Client) executeDocument(ctx context.Context, expr query.Expr) (*domain.Document, error) {
	var doc domain.Document
	if err := c.executor.Execute(ctx, expr, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func documentRef(collection, documentID string) query.Expr {
	return query.Ref(query.Collection(collection), documentID)
}
