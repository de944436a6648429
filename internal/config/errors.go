// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "errors"

// Validation errors returned by [BrokerConfig.validate] and
// [ClientConfig.validate].
var (
	// ErrInvalidBrokerKeyConfig indicates the broker has nowhere to keep
	// its RSA private key (spec.md §6: "<config-dir>/private_key_pkcs1.pem").
	ErrInvalidBrokerKeyConfig = errors.New("invalid broker key configuration: key directory is empty")
	// ErrInvalidBrokerBusConfig indicates no unix socket path was
	// configured for the bus listener.
	ErrInvalidBrokerBusConfig = errors.New("invalid broker bus configuration: socket path is empty")
	// ErrInvalidBrokerXDGConfig indicates no XDG runtime base directory
	// was configured for per-user tmpfs premounts.
	ErrInvalidBrokerXDGConfig = errors.New("invalid broker xdg configuration: runtime base is empty")
	// ErrInvalidClientRetryConfig indicates a non-positive retry budget.
	ErrInvalidClientRetryConfig = errors.New("invalid client configuration: max attempts must be positive")
	// ErrInvalidClientBusConfig indicates no broker socket path was
	// configured for the client to dial.
	ErrInvalidClientBusConfig = errors.New("invalid client configuration: broker socket path is empty")
)
