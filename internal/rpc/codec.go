package rpc

import "encoding/json"

// jsonCodec is an encoding.Codec that marshals RPC messages as JSON
// instead of protobuf wire format. It lets DeskService's message types
// be plain Go structs: forced onto the server via
// grpc.ForceServerCodec, it bypasses grpc-go's usual requirement that
// every message implement proto.Message.
type jsonCodec struct{}

// Marshal implements encoding.Codec.
func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal implements encoding.Codec.
func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// Name implements encoding.Codec.
func (jsonCodec) Name() string {
	return "json"
}
