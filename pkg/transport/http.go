// Package transport implements domain.QueryExecutor over HTTP.
package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/adfharrison1/go-docstore/pkg/domain"
	"github.com/adfharrison1/go-docstore/pkg/query"
	"github.com/adfharrison1/go-docstore/pkg/wire"
)

// DefaultEndpoint is used when no endpoint is configured
const DefaultEndpoint = "http://localhost:8443"

// HTTPExecutor posts each query to the server's /query endpoint. It keeps no
// per-query state and performs no retries; cancellation and deadlines come
// from the caller's context.
type HTTPExecutor struct {
	endpoint string
	secret   string
	client   *http.Client
	codec    wire.Codec
	logger   zerolog.Logger
}

var _ domain.QueryExecutor = (*HTTPExecutor)(nil)

// Option configures an HTTPExecutor
type Option func(*HTTPExecutor)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(e *HTTPExecutor) {
		e.client = client
	}
}

// WithTimeout bounds every round trip
func WithTimeout(timeout time.Duration) Option {
	return func(e *HTTPExecutor) {
		if timeout > 0 {
			client := *e.client
			client.Timeout = timeout
			e.client = &client
		}
	}
}

func WithCodec(codec wire.Codec) Option {
	return func(e *HTTPExecutor) {
		e.codec = codec
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(e *HTTPExecutor) {
		e.logger = logger
	}
}

// NewHTTPExecutor creates an executor for the server at endpoint. The secret
// is sent unmodified as a bearer token.
func NewHTTPExecutor(endpoint, secret string, options ...Option) *HTTPExecutor {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	e := &HTTPExecutor{
		endpoint: strings.TrimRight(endpoint, "/"),
		secret:   secret,
		client:   &http.Client{},
		codec:    wire.JSON,
		logger:   zerolog.Nop(),
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// Execute runs one query round trip and decodes the resource into out
func (e *HTTPExecutor) Execute(ctx context.Context, expr query.Expr, out interface{}) error {
	body, err := e.codec.Marshal(expr)
	if err != nil {
		return &domain.BackendError{Code: domain.CodeInvalidExpression, Description: err.Error(), Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint+"/query", bytes.NewReader(body))
	if err != nil {
		return &domain.BackendError{Code: domain.CodeTransport, Description: err.Error(), Err: err}
	}
	req.Header.Set("Content-Type", e.codec.ContentType())
	req.Header.Set("Accept", e.codec.ContentType())
	req.Header.Set("Authorization", "Bearer "+e.secret)

	start := time.Now()
	resp, err := e.client.Do(req)
	if err != nil {
		return &domain.BackendError{Code: domain.CodeTransport, Description: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &domain.BackendError{Code: domain.CodeTransport, Description: err.Error(), Status: resp.StatusCode, Err: err}
	}

	e.logger.Debug().
		Int("status", resp.StatusCode).
		Str("request_id", resp.Header.Get("X-Request-Id")).
		Dur("elapsed", time.Since(start)).
		Msg("query round trip")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp, data)
	}

	codec := wire.ByContentType(resp.Header.Get("Content-Type"))
	if err := codec.UnmarshalResource(data, out); err != nil {
		return &domain.BackendError{Code: domain.CodeInternal, Description: fmt.Sprintf("decoding response: %v", err), Status: resp.StatusCode, Err: err}
	}
	return nil
}

// decodeError turns a failure envelope into a *domain.BackendError. Bodies
// that are not envelopes fall back to a code derived from the status.
func decodeError(resp *http.Response, data []byte) *domain.BackendError {
	be := &domain.BackendError{Status: resp.StatusCode}

	var envelope wire.ErrorResponse
	codec := wire.ByContentType(resp.Header.Get("Content-Type"))
	if err := codec.Unmarshal(data, &envelope); err == nil && len(envelope.Errors) > 0 {
		be.Code = envelope.Errors[0].Code
		be.Description = envelope.Errors[0].Description
	}
	if be.Code == "" {
		be.Code = domain.CodeForStatus(resp.StatusCode)
	}
	if be.Description == "" {
		be.Description = strings.TrimSpace(http.StatusText(resp.StatusCode) + " " + string(data))
	}
	return be
}
