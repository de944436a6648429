// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package rpcbus

import (
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/encoding"
)

func TestJSONCodec_RoundTrip(t *testing.T) {
	c := jsonCodec{}
	want := &OpenSessionRequest{User: "alice", Ciphertext: []byte{1, 2, 3}}

	data, err := c.Marshal(want)
	require.NoError(t, err)

	got := new(OpenSessionRequest)
	require.NoError(t, c.Unmarshal(data, got))
	require.Equal(t, want, got)
}

func TestJSONCodec_Name(t *testing.T) {
	require.Equal(t, "json", jsonCodec{}.Name())
}

func TestJSONCodec_RegisteredGlobally(t *testing.T) {
	require.NotNil(t, encoding.GetCodec(codecName))
}
