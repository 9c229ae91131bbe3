package wire

import (
	"encoding/json"

	"github.com/bytedance/sonic"
)

// JSON is the default codec
var JSON Codec = jsonCodec{}

type jsonCodec struct{}

func (jsonCodec) Name() string        { return "json" }
func (jsonCodec) ContentType() string { return ContentTypeJSON }

func (jsonCodec) Marshal(v interface{}) ([]byte, error) {
	return sonic.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v interface{}) error {
	return sonic.Unmarshal(data, v)
}

func (jsonCodec) UnmarshalResource(data []byte, out interface{}) error {
	var envelope struct {
		Resource json.RawMessage `json:"resource"`
	}
	if err := sonic.Unmarshal(data, &envelope); err != nil {
		return err
	}
	if out == nil || len(envelope.Resource) == 0 {
		return nil
	}
	return sonic.Unmarshal(envelope.Resource, out)
}
