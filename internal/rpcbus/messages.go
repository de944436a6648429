// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package rpcbus implements the bus-exposed transport for the Session
// Broker (spec.md §6, §9): two gRPC services — login_ng.v1.SessionService
// and login_ng.v1.MountAuthService — registered on one grpc.Server
// listening on a unix domain socket, serialised with a JSON
// encoding.Codec rather than protobuf wire format.
//
// There is no .proto file: the service descriptors in service_desc.go are
// hand-written in the shape `protoc-gen-go-grpc` would generate, standing
// in for the D-Bus marshalling spec.md §1 excludes as "the bus-binding
// code itself" — gRPC-over-unix-socket is this module's concrete
// transport, not a generic RPC layer.
package rpcbus

// InitiateRequest carries no fields; the method exists only to trigger a
// prelude (spec.md §4.6 step 1, §6).
type InitiateRequest struct{}

// InitiateResponse carries the serialised prelude [channel.EncodePrelude]
// produced, or an empty string on internal broker failure (spec.md §4.7:
// "fails silently... clients retry").
type InitiateResponse struct {
	Prelude string `json:"prelude"`
}

// OpenSessionRequest is the wire shape of open_session(user, ciphertext).
type OpenSessionRequest struct {
	User       string `json:"user"`
	Ciphertext []byte `json:"ciphertext"`
}

// OpenSessionResponse is the wire shape of open_session's
// (code, uid, gid) return.
type OpenSessionResponse struct {
	Code uint32 `json:"code"`
	UID  uint32 `json:"uid"`
	GID  uint32 `json:"gid"`
}

// CloseSessionRequest is the wire shape of close_session(user).
type CloseSessionRequest struct {
	User string `json:"user"`
}

// CloseSessionResponse is the wire shape of close_session's code return.
type CloseSessionResponse struct {
	Code uint32 `json:"code"`
}

// AuthorizeRequest is the wire shape of authorize(user, digest).
type AuthorizeRequest struct {
	User   string `json:"user"`
	Digest string `json:"digest"`
}

// AuthorizeResponse is the wire shape of authorize's code return.
type AuthorizeResponse struct {
	Code uint32 `json:"code"`
}

// CheckRequest is the wire shape of check(user, digest).
type CheckRequest struct {
	User   string `json:"user"`
	Digest string `json:"digest"`
}

// CheckResponse is the wire shape of check's bool return.
type CheckResponse struct {
	Authorized bool `json:"authorized"`
}
