package client

import (
	"context"

	"github.com/adfharrison1/go-docstore/pkg/domain"
	"github.com/adfharrison1/go-docstore/pkg/query"
)

// RetrieveDocument looks a document up by value through index in two round
// trips: an Exists probe, then a Get only when the probe found something.
//
// No match returns (nil, nil); absence is not an error. A failure of the Get
// after a positive probe is returned as that failure and must not be read as
// "absent". When several documents match a non-unique index, the document
// returned is whichever one the backend's Get picks for a set (the first in
// ascending ref order for this repository's server); no selection happens
// here.
func (c *Client) RetrieveDocument(ctx context.Context, index string, value interface{}) (*domain.Document, error) {
	match := matchDocument(index, value)

	var exists bool
	if err := c.executor.Execute(ctx, query.Exists(match), &exists); err != nil {
		return nil, err
	}
	if !exists {
		c.logger.Debug().Str("index", index).Msg("no document matched")
		return nil, nil
	}

	var doc domain.Document
	if err := c.executor.Execute(ctx, query.Get(match), &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// GetDocumentsCount counts the documents matching value on index; zero when
// nothing matches.
func (c *Client) GetDocumentsCount(ctx context.Context, index string, value interface{}) (int64, error) {
	var count int64
	if err := c.executor.Execute(ctx, query.Count(matchDocument(index, value)), &count); err != nil {
		return 0, err
	}
	return count, nil
}

// matchDocument builds the set of documents matching value on index. Building
// it does not touch the network.
func matchDocument(index string, value interface{}) query.Expr {
	return query.Match(query.Index(index), value)
}

type pageOptions struct {
	size  int
	after string
}

// PageOption configures full-collection retrieval
type PageOption func(*pageOptions)

// WithPageSize sets how many documents one call returns, at most
// domain.MaxPageSize.
func WithPageSize(size int) PageOption {
	return func(o *pageOptions) {
		o.size = size
	}
}

// WithAfter continues after the cursor returned by RetrieveDocumentsPage
func WithAfter(cursor string) PageOption {
	return func(o *pageOptions) {
		o.after = cursor
	}
}

// RetrieveDocuments fetches one page of the documents of collection, in ref
// order. Only the page's data is returned: with the default page size of
// domain.DefaultPageSize, any documents beyond it are silently left out. Use
// RetrieveDocumentsPage to walk the whole collection.
func (c *Client) RetrieveDocuments(ctx context.Context, collection string, opts ...PageOption) ([]domain.Document, error) {
	page, err := c.RetrieveDocumentsPage(ctx, collection, opts...)
	if err != nil {
		return nil, err
	}
	return page.Data, nil
}

// RetrieveDocumentsPage is RetrieveDocuments with the pagination cursors kept.
// An empty After means the collection has been exhausted.
func (c *Client) RetrieveDocumentsPage(ctx context.Context, collection string, opts ...PageOption) (*domain.DocumentPage, error) {
	o := pageOptions{size: domain.DefaultPageSize}
	for _, opt := range opts {
		opt(&o)
	}

	expr := query.Map(
		query.Paginate(query.Documents(query.Collection(collection)), query.Size(o.size), query.After(o.after)),
		query.Lambda("ref", query.Get(query.Var("ref"))),
	)

	var page domain.DocumentPage
	if err := c.executor.Execute(ctx, expr, &page); err != nil {
		return nil, err
	}
	if page.Data == nil {
		page.Data = []domain.Document{}
	}
	return &page, nil
}
