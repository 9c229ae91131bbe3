package client

import (
	"context"

	"github.com/adfharrison1/go-docstore/pkg/domain"
	"github.com/adfharrison1/go-docstore/pkg/query"
)

// CreateCollection creates a named collection. Name validation and collisions
// are left to the backend.
func (c *Client) CreateCollection(ctx context.Context, name string) (*domain.CollectionInfo, error) {
	var info domain.CollectionInfo
	expr := query.CreateCollection(map[string]interface{}{"name": name})
	if err := c.executor.Execute(ctx, expr, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// DeleteCollection deletes a collection. What happens to its documents is the
// backend's business.
func (c *Client) DeleteCollection(ctx context.Context, name string) (*domain.CollectionInfo, error) {
	var info domain.CollectionInfo
	if err := c.executor.Execute(ctx, query.Delete(query.Collection(name)), &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// IndexOption sets an optional CreateIndex parameter
type IndexOption func(*query.IndexParams)

// WithTerms sets the field paths the index matches on. No paths is the same as
// not calling WithTerms: the parameter is left out of the query.
func WithTerms(paths ...string) IndexOption {
	return func(p *query.IndexParams) {
		p.Terms = query.Some(paths)
	}
}

// WithUnique asks the backend to enforce one document per term tuple. false is
// the same as not calling WithUnique: the parameter is left out of the query.
func WithUnique(unique bool) IndexOption {
	return func(p *query.IndexParams) {
		p.Unique = query.Some(unique)
	}
}

// CreateIndex creates a named index over collection. Parameters that are
// absent, empty or false are omitted so the backend applies its own defaults.
func (c *Client) CreateIndex(ctx context.Context, collection, name string, opts ...IndexOption) (*domain.IndexInfo, error) {
	params := query.IndexParams{Name: name, Source: query.Collection(collection)}
	for _, opt := range opts {
		opt(&params)
	}

	var info domain.IndexInfo
	if err := c.executor.Execute(ctx, query.CreateIndex(params.Object()), &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// DeleteIndex deletes a named index. Documents are not affected.
func (c *Client) DeleteIndex(ctx context.Context, name string) (*domain.IndexInfo, error) {
	var info domain.IndexInfo
	if err := c.executor.Execute(ctx, query.Delete(query.Index(name)), &info); err != nil {
		return nil, err
	}
	return &info, nil
}
