package executor

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/adfharrison1/go-docstore/pkg/domain"
	"github.com/adfharrison1/go-docstore/pkg/query"
	"github.com/adfharrison1/go-docstore/pkg/storage"
	"github.com/adfharrison1/go-docstore/pkg/wire"
)

// LocalExecutor is an in-process domain.QueryExecutor. Queries and results
// pass through a wire codec exactly as they would over HTTP, so embedding the
// database behaves the same as talking to a server.
type LocalExecutor struct {
	evaluator *Evaluator
	codec     wire.Codec
	logger    zerolog.Logger
}

var _ domain.QueryExecutor = (*LocalExecutor)(nil)

// LocalOption configures a LocalExecutor
type LocalOption func(*LocalExecutor)

// WithCodec selects the codec queries and results are round-tripped through
func WithCodec(codec wire.Codec) LocalOption {
	return func(le *LocalExecutor) {
		le.codec = codec
	}
}

func WithLogger(logger zerolog.Logger) LocalOption {
	return func(le *LocalExecutor) {
		le.logger = logger
	}
}

// NewLocalExecutor creates an executor evaluating queries against store
func NewLocalExecutor(store *storage.StorageEngine, options ...LocalOption) *LocalExecutor {
	le := &LocalExecutor{
		codec:  wire.JSON,
		logger: zerolog.Nop(),
	}
	for _, option := range options {
		option(le)
	}
	le.evaluator = NewEvaluator(store, le.logger)
	return le
}

// Execute evaluates expr and decodes the result into out
func (le *LocalExecutor) Execute(ctx context.Context, expr query.Expr, out interface{}) error {
	if err := ctx.Err(); err != nil {
		return ContextError(err)
	}

	payload, err := le.codec.Marshal(expr)
	if err != nil {
		return &domain.BackendError{Code: domain.CodeInvalidExpression, Description: err.Error(), Err: err}
	}
	var decoded interface{}
	if err := le.codec.Unmarshal(payload, &decoded); err != nil {
		return &domain.BackendError{Code: domain.CodeInvalidExpression, Description: err.Error(), Err: err}
	}

	result, err := le.evaluator.Evaluate(ctx, decoded)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return ContextError(err)
		}
		le.logger.Debug().Err(err).Msg("query failed")
		return domain.ToBackendError(err)
	}

	body, err := le.codec.Marshal(wire.Response{Resource: result})
	if err != nil {
		return &domain.BackendError{Code: domain.CodeInternal, Description: err.Error(), Err: err}
	}
	if err := le.codec.UnmarshalResource(body, out); err != nil {
		return &domain.BackendError{Code: domain.CodeInternal, Description: fmt.Sprintf("decoding result: %v", err), Err: err}
	}
	return nil
}

// Evaluator exposes the evaluator shared with the HTTP API
func (le *LocalExecutor) Evaluator() *Evaluator {
	return le.evaluator
}

// ContextError reports a cancelled or expired context as a transport failure
func ContextError(err error) *domain.BackendError {
	return &domain.BackendError{Code: domain.CodeTransport, Description: err.Error(), Err: err}
}
