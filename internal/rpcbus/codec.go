// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package rpcbus

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// codecName is both the [encoding.Codec] registration name and the gRPC
// content-subtype negotiated by every rpcbus client and server.
const codecName = "json"

// jsonCodec is an [encoding.Codec] that marshals request/response structs
// as JSON instead of protobuf, since this bus carries no .proto-generated
// messages.
type jsonCodec struct{}

func (jsonCodec) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return codecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
