// Package client is a facade over a remote document database. Each operation
// builds one declarative query (two for RetrieveDocument), executes it through
// a domain.QueryExecutor and unwraps the response into plain data.
//
// A Client is immutable after New and safe for concurrent use. It keeps no
// cache, session or buffer, and never retries: every failure returned by the
// executor reaches the caller unchanged as a *domain.BackendError.
package client

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/adfharrison1/go-docstore/pkg/domain"
	"github.com/adfharrison1/go-docstore/pkg/transport"
	"github.com/adfharrison1/go-docstore/pkg/wire"
)

// Config configures a Client. Secret is the only required field and is
// passed to the transport unmodified.
type Config struct {
	Secret   string        `mapstructure:"secret" validate:"required"`
	Endpoint string        `mapstructure:"endpoint" validate:"omitempty,url"`
	Codec    string        `mapstructure:"codec" validate:"omitempty,oneof=json msgpack"`
	Timeout  time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

var validate = validator.New()

// Validate checks the configuration
func (c Config) Validate() error {
	return validate.Struct(c)
}

// Client is the document store facade
type Client struct {
	executor domain.QueryExecutor
	logger   zerolog.Logger
}

type options struct {
	executor   domain.QueryExecutor
	httpClient *http.Client
	logger     zerolog.Logger
}

// Option configures a Client
type Option func(*options)

// WithExecutor replaces the HTTP transport, e.g. with an in-process executor
func WithExecutor(executor domain.QueryExecutor) Option {
	return func(o *options) {
		o.executor = executor
	}
}

// WithHTTPClient sets the HTTP client used by the default transport
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *options) {
		o.httpClient = httpClient
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// New creates a ready-to-use client. No connectivity check is made; a bad
// endpoint or secret surfaces on the first query.
func New(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid client config: %w", err)
	}

	o := options{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	if o.executor == nil {
		codec, err := wire.ByName(cfg.Codec)
		if err != nil {
			return nil, fmt.Errorf("invalid client config: %w", err)
		}
		transportOptions := []transport.Option{
			transport.WithCodec(codec),
			transport.WithLogger(o.logger),
		}
		if o.httpClient != nil {
			transportOptions = append(transportOptions, transport.WithHTTPClient(o.httpClient))
		}
		transportOptions = append(transportOptions, transport.WithTimeout(cfg.Timeout))
		o.executor = transport.NewHTTPExecutor(cfg.Endpoint, cfg.Secret, transportOptions...)
	}

	return &Client{executor: o.executor, logger: o.logger}, nil
}
