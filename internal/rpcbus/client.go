// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package rpcbus

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Dial connects to an rpcbus [Server] listening on socketPath.
func Dial(socketPath string) (*grpc.ClientConn, error) {
	conn, err := grpc.NewClient(
		fmt.Sprintf("unix://%s", socketPath),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(codecName)),
	)
	if err != nil {
		return nil, fmt.Errorf("rpcbus: dialing %s: %w", socketPath, err)
	}
	return conn, nil
}

// SessionClient implements [login.BrokerClient] (login_ng.v1.SessionService)
// over a gRPC connection. Production code in cmd/login-ng-login constructs
// one from [Dial].
type SessionClient struct {
	cc *grpc.ClientConn
}

// NewSessionClient wraps an existing connection, e.g. one shared with a
// [MountAuthClient] on the same socket.
func NewSessionClient(cc *grpc.ClientConn) *SessionClient {
	return &SessionClient{cc: cc}
}

func (c *SessionClient) Initiate() (string, error) {
	resp := new(InitiateResponse)
	if err := c.cc.Invoke(context.Background(), "/login_ng.v1.SessionService/Initiate", new(InitiateRequest), resp); err != nil {
		return "", err
	}
	return resp.Prelude, nil
}

func (c *SessionClient) OpenSession(user string, ciphertext []byte) (uint32, uint32, uint32, error) {
	req := &OpenSessionRequest{User: user, Ciphertext: ciphertext}
	resp := new(OpenSessionResponse)
	if err := c.cc.Invoke(context.Background(), "/login_ng.v1.SessionService/OpenSession", req, resp); err != nil {
		return 0, 0, 0, err
	}
	return resp.Code, resp.UID, resp.GID, nil
}

func (c *SessionClient) CloseSession(user string) (uint32, error) {
	req := &CloseSessionRequest{User: user}
	resp := new(CloseSessionResponse)
	if err := c.cc.Invoke(context.Background(), "/login_ng.v1.SessionService/CloseSession", req, resp); err != nil {
		return 0, err
	}
	return resp.Code, nil
}

// MountAuthClient implements login_ng.v1.MountAuthService over a gRPC
// connection. The binaries in this module do not use it: the
// administration CLI operates mountauth.Registry directly.
type MountAuthClient struct {
	cc *grpc.ClientConn
}

// NewMountAuthClient wraps an existing connection.
func NewMountAuthClient(cc *grpc.ClientConn) *MountAuthClient {
	return &MountAuthClient{cc: cc}
}

func (c *MountAuthClient) Authorize(user, digest string) (uint32, error) {
	req := &AuthorizeRequest{User: user, Digest: digest}
	resp := new(AuthorizeResponse)
	if err := c.cc.Invoke(context.Background(), "/login_ng.v1.MountAuthService/Authorize", req, resp); err != nil {
		return 0, err
	}
	return resp.Code, nil
}

func (c *MountAuthClient) Check(user, digest string) (bool, error) {
	req := &CheckRequest{User: user, Digest: digest}
	resp := new(CheckResponse)
	if err := c.cc.Invoke(context.Background(), "/login_ng.v1.MountAuthService/Check", req, resp); err != nil {
		return false, err
	}
	return resp.Authorized, nil
}
