package domain

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
)

const (
	// DefaultPageSize is the page size the backend applies when a paginate
	// query does not carry one.
	DefaultPageSize = 64
	// MaxPageSize is the largest page a single paginate query may request.
	MaxPageSize = 100000
)

// PaginationOptions defines pagination parameters for a set listing
type PaginationOptions struct {
	Size  int    `json:"size,omitempty"`
	After string `json:"after,omitempty"` // Base64 encoded cursor
}

// Page is one page of a paginated set. Data holds refs, or whatever a Map
// lambda produced from them.
type Page struct {
	Data   []interface{} `json:"data" msgpack:"data"`
	After  string        `json:"after,omitempty" msgpack:"after,omitempty"`
	Before string        `json:"before,omitempty" msgpack:"before,omitempty"`
}

// DocumentPage is a page of fully fetched documents
type DocumentPage struct {
	Data   []Document `json:"data" msgpack:"data"`
	After  string     `json:"after,omitempty" msgpack:"after,omitempty"`
	Before string     `json:"before,omitempty" msgpack:"before,omitempty"`
}

// Cursor represents a pagination cursor
type Cursor struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// EncodeCursor encodes a cursor to base64
func EncodeCursor(cursor *Cursor) (string, error) {
	data, err := sonic.Marshal(cursor)
	if err != nil {
		return "", fmt.Errorf("failed to marshal cursor: %w", err)
	}
	return base64.URLEncoding.EncodeToString(data), nil
}

// DecodeCursor decodes a base64 cursor
func DecodeCursor(encoded string) (*Cursor, error) {
	data, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode cursor: %w", err)
	}

	var cursor Cursor
	if err := sonic.Unmarshal(data, &cursor); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cursor: %w", err)
	}

	return &cursor, nil
}

// DefaultPaginationOptions returns default pagination settings
func DefaultPaginationOptions() *PaginationOptions {
	return &PaginationOptions{
		Size: DefaultPageSize,
	}
}

// Validate validates pagination options
func (po *PaginationOptions) Validate() error {
	if po.Size < 0 {
		return fmt.Errorf("page size cannot be negative")
	}
	if po.Size > MaxPageSize {
		return fmt.Errorf("page size %d exceeds maximum %d", po.Size, MaxPageSize)
	}
	return nil
}
