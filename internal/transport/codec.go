package transport

import (
	"github.com/bytedance/sonic"
)

// sonicCodec is a connect.Codec over plain Go structs, standing in for the
// generated-protobuf wire codec the teacher's ProtoJSONCodec (modules.go)
// wraps around protojson. There is no generated code in this module (see
// DESIGN.md), so sonic's reflection-based JSON marshal/unmarshal does the
// same job directly against request/response structs.
type sonicCodec struct{}

// Name is the codec name; it appears in the Content-Type header as
// "application/json" for unary and "application/connect+json" for streamed
// RPCs, matching what any plain HTTP/JSON client already expects.
func (sonicCodec) Name() string { return "json" }

func (sonicCodec) Marshal(v any) ([]byte, error) {
	return sonic.Marshal(v)
}

func (sonicCodec) Unmarshal(data []byte, v any) error {
	return sonic.Unmarshal(data, v)
}
