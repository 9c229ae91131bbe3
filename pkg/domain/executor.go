package domain

import (
	"context"

	"github.com/adfharrison1/go-docstore/pkg/query"
)

// QueryExecutor runs one query expression against the document database and
// decodes the resulting resource into out. Failures are *BackendError.
type QueryExecutor interface {
	Execute(ctx context.Context, expr query.Expr, out interface{}) error
}
