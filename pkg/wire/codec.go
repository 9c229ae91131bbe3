// Package wire encodes query requests and response envelopes for the HTTP
// protocol spoken between the client transport and the server.
package wire

import (
	"fmt"
	"mime"
	"strings"
)

const (
	ContentTypeJSON    = "application/json"
	ContentTypeMsgpack = "application/msgpack"
)

// Codec marshals request and response bodies for one content type
type Codec interface {
	Name() string
	ContentType() string
	Marshal(v interface{}) ([]byte, error)
	Unmarshal(data []byte, v interface{}) error
	// UnmarshalResource decodes the resource of a success envelope into out
	UnmarshalResource(data []byte, out interface{}) error
}

// Response is the success envelope
type Response struct {
	Resource interface{} `json:"resource" msgpack:"resource"`
}

// ErrorDetail is one entry of the failure envelope
type ErrorDetail struct {
	Code        string `json:"code" msgpack:"code"`
	Description string `json:"description" msgpack:"description"`
}

// ErrorResponse is the failure envelope
type ErrorResponse struct {
	Errors []ErrorDetail `json:"errors" msgpack:"errors"`
}

// ByName returns the codec registered under name ("json" or "msgpack").
// An empty name selects JSON.
func ByName(name string) (Codec, error) {
	switch strings.ToLower(name) {
	case "", "json":
		return JSON, nil
	case "msgpack":
		return Msgpack, nil
	default:
		return nil, fmt.Errorf("unknown codec %q", name)
	}
}

// ByContentType picks the codec for a Content-Type header, defaulting to JSON
func ByContentType(header string) Codec {
	mediaType, _, err := mime.ParseMediaType(header)
	if err == nil && (mediaType == ContentTypeMsgpack || mediaType == "application/x-msgpack") {
		return Msgpack
	}
	return JSON
}
