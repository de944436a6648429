// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package rpcbus

import (
	"context"

	"google.golang.org/grpc"
)

// SessionServer is implemented by whatever answers
// login_ng.v1.SessionService RPCs; production code wires it to
// [brokerSessionServer].
type SessionServer interface {
	Initiate(ctx context.Context, req *InitiateRequest) (*InitiateResponse, error)
	OpenSession(ctx context.Context, req *OpenSessionRequest) (*OpenSessionResponse, error)
	CloseSession(ctx context.Context, req *CloseSessionRequest) (*CloseSessionResponse, error)
}

// MountAuthServer is implemented by whatever answers
// login_ng.v1.MountAuthService RPCs; production code wires it to
// [brokerMountAuthServer].
type MountAuthServer interface {
	Authorize(ctx context.Context, req *AuthorizeRequest) (*AuthorizeResponse, error)
	Check(ctx context.Context, req *CheckRequest) (*CheckResponse, error)
}

func sessionInitiateHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(InitiateRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SessionServer).Initiate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/login_ng.v1.SessionService/Initiate"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SessionServer).Initiate(ctx, req.(*InitiateRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func sessionOpenSessionHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(OpenSessionRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SessionServer).OpenSession(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/login_ng.v1.SessionService/OpenSession"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SessionServer).OpenSession(ctx, req.(*OpenSessionRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func sessionCloseSessionHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(CloseSessionRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SessionServer).CloseSession(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/login_ng.v1.SessionService/CloseSession"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SessionServer).CloseSession(ctx, req.(*CloseSessionRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func mountAuthAuthorizeHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(AuthorizeRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MountAuthServer).Authorize(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/login_ng.v1.MountAuthService/Authorize"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(MountAuthServer).Authorize(ctx, req.(*AuthorizeRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func mountAuthCheckHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(CheckRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MountAuthServer).Check(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/login_ng.v1.MountAuthService/Check"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(MountAuthServer).Check(ctx, req.(*CheckRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// sessionServiceDesc describes login_ng.v1.SessionService: initiate,
// open_session, close_session (spec.md §6).
var sessionServiceDesc = grpc.ServiceDesc{
	ServiceName: "login_ng.v1.SessionService",
	HandlerType: (*SessionServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Initiate", Handler: sessionInitiateHandler},
		{MethodName: "OpenSession", Handler: sessionOpenSessionHandler},
		{MethodName: "CloseSession", Handler: sessionCloseSessionHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "rpcbus/session.proto",
}

// mountAuthServiceDesc describes login_ng.v1.MountAuthService: authorize,
// check (spec.md §6).
var mountAuthServiceDesc = grpc.ServiceDesc{
	ServiceName: "login_ng.v1.MountAuthService",
	HandlerType: (*MountAuthServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Authorize", Handler: mountAuthAuthorizeHandler},
		{MethodName: "Check", Handler: mountAuthCheckHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "rpcbus/mountauth.proto",
}
