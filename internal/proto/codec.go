// Package proto defines the wire contract of the account service: request and
// response messages, the gRPC service descriptor and a JSON codec for them.
package proto

import (
	"encoding/json"

	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

// CodecName is the gRPC content-subtype the messages travel as
// ("application/grpc+json").
const CodecName = "json"

func init() {
	encoding.RegisterCodec(Codec{})
}

// Codec marshals messages as JSON.
type Codec struct{}

func (Codec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (Codec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

func (Codec) Name() string { return CodecName }

// CallOption makes a client call use Codec.
func CallOption() grpc.CallOption {
	return grpc.CallContentSubtype(CodecName)
}
