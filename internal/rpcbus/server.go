// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package rpcbus

import (
	"context"
	"fmt"
	"net"
	"os"

	"google.golang.org/grpc"

	"github.com/login-ng/login-ng/internal/broker"
	"github.com/login-ng/login-ng/internal/logger"
)

// brokerSessionServer adapts a [broker.Broker] to [SessionServer].
type brokerSessionServer struct {
	broker *broker.Broker
}

func (s *brokerSessionServer) Initiate(context.Context, *InitiateRequest) (*InitiateResponse, error) {
	return &InitiateResponse{Prelude: s.broker.Initiate()}, nil
}

func (s *brokerSessionServer) OpenSession(_ context.Context, req *OpenSessionRequest) (*OpenSessionResponse, error) {
	code, uid, gid := s.broker.OpenSession(req.User, req.Ciphertext)
	return &OpenSessionResponse{Code: uint32(code), UID: uid, GID: gid}, nil
}

func (s *brokerSessionServer) CloseSession(_ context.Context, req *CloseSessionRequest) (*CloseSessionResponse, error) {
	code := s.broker.CloseSession(req.User)
	return &CloseSessionResponse{Code: uint32(code)}, nil
}

// brokerMountAuthServer adapts a [broker.Broker] to [MountAuthServer].
type brokerMountAuthServer struct {
	broker *broker.Broker
}

func (s *brokerMountAuthServer) Authorize(_ context.Context, req *AuthorizeRequest) (*AuthorizeResponse, error) {
	code := s.broker.AuthorizeMount(req.User, req.Digest)
	return &AuthorizeResponse{Code: uint32(code)}, nil
}

func (s *brokerMountAuthServer) Check(_ context.Context, req *CheckRequest) (*CheckResponse, error) {
	return &CheckResponse{Authorized: s.broker.CheckMount(req.User, req.Digest)}, nil
}

// Server hosts both bus services on a single grpc.Server bound to a unix
// domain socket (spec.md §6 "bus listen address").
type Server struct {
	grpcServer *grpc.Server
	listener   net.Listener
	socketPath string
	log        *logger.Logger
}

// NewServer binds socketPath (removing any stale socket left by a prior
// crashed process) and registers both services against broker.
func NewServer(socketPath string, b *broker.Broker, log *logger.Logger) (*Server, error) {
	if err := os.Remove(socketPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("rpcbus: removing stale socket: %w", err)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("rpcbus: listening on %s: %w", socketPath, err)
	}
	if err := os.Chmod(socketPath, 0o700); err != nil {
		_ = listener.Close()
		return nil, fmt.Errorf("rpcbus: chmod socket: %w", err)
	}

	grpcServer := grpc.NewServer()
	grpcServer.RegisterService(&sessionServiceDesc, &brokerSessionServer{broker: b})
	grpcServer.RegisterService(&mountAuthServiceDesc, &brokerMountAuthServer{broker: b})

	return &Server{grpcServer: grpcServer, listener: listener, socketPath: socketPath, log: log}, nil
}

// Serve blocks, accepting connections until Shutdown is called.
func (s *Server) Serve() error {
	s.log.Info().Str("socket", s.socketPath).Msg("rpcbus: serving")
	return s.grpcServer.Serve(s.listener)
}

// Shutdown gracefully stops the server and removes the socket file.
func (s *Server) Shutdown() {
	s.grpcServer.GracefulStop()
	_ = os.Remove(s.socketPath)
}
