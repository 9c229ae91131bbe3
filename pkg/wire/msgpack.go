package wire

import (
	"github.com/vmihailenco/msgpack/v5"
)

// Msgpack is the compact binary codec
var Msgpack Codec = msgpackCodec{}

type msgpackCodec struct{}

func (msgpackCodec) Name() string        { return "msgpack" }
func (msgpackCodec) ContentType() string { return ContentTypeMsgpack }

func (msgpackCodec) Marshal(v interface{}) ([]byte, error) {
	return msgpack.Marshal(v)
}

func (msgpackCodec) Unmarshal(data []byte, v interface{}) error {
	return msgpack.Unmarshal(data, v)
}

func (msgpackCodec) UnmarshalResource(data []byte, out interface{}) error {
	var envelope struct {
		Resource msgpack.RawMessage `msgpack:"resource"`
	}
	if err := msgpack.Unmarshal(data, &envelope); err != nil {
		return err
	}
	if out == nil || len(envelope.Resource) == 0 {
		return nil
	}
	return msgpack.Unmarshal(envelope.Resource, out)
}
