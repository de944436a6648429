// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"fmt"

	"dario.cat/mergo"
)

// ClientConfig is the top-level configuration for the login orchestrator
// (spec.md §4.9, component C9) run by cmd/login-ng-login.
type ClientConfig struct {
	// MaxAttempts is the retry budget the orchestrator's state machine
	// honours before giving up (spec.md §4.9: "a bounded retry count
	// (default 5)").
	// Env: MAX_ATTEMPTS
	MaxAttempts int `env:"MAX_ATTEMPTS"`

	// BrokerSocketPath is the unix domain socket the client dials to
	// reach the broker's rpcbus.Server.
	// Env: BROKER_SOCKET_PATH
	BrokerSocketPath string `env:"BROKER_SOCKET_PATH"`

	// DispatchModeEnvVar names the environment variable the orchestrator
	// inspects to choose between spec.md §4.9's two dispatch modes: when
	// the named variable is set (to a bus peer/login-protocol address)
	// the orchestrator runs broker-mediated dispatch against it;
	// otherwise it falls back to direct dispatch against the local
	// vault. Mirrors how DBUS_SESSION_BUS_ADDRESS selects a bus peer
	// (spec.md §6 "Environment").
	// Env: DISPATCH_MODE_ENV_VAR
	DispatchModeEnvVar string `env:"DISPATCH_MODE_ENV_VAR"`

	// DefaultUsername pre-fills the orchestrator's username, skipping
	// the CollectUsername prompt (e.g. when invoked as `login-ng-login
	// alice`, or by a display manager that already knows the target
	// account).
	// Env: DEFAULT_USERNAME
	DefaultUsername string `env:"DEFAULT_USERNAME"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Env: CONFIG
	JSONFilePath string `env:"CONFIG"`
}

func defaultClientConfig() *ClientConfig {
	return &ClientConfig{
		MaxAttempts:        5,
		BrokerSocketPath:   "/run/login-ng/broker.sock",
		DispatchModeEnvVar: "LOGIN_NG_BUS_ADDRESS",
	}
}

func (cfg *ClientConfig) validate() error {
	if cfg.MaxAttempts <= 0 {
		return ErrInvalidClientRetryConfig
	}
	if cfg.BrokerSocketPath == "" {
		return ErrInvalidClientBusConfig
	}
	return nil
}

// clientConfigBuilder accumulates partial [ClientConfig] values from
// different sources and merges them into a single configuration on
// [clientConfigBuilder.build].
type clientConfigBuilder struct {
	configs []*ClientConfig
	err     error
}

func newClientConfigBuilder() *clientConfigBuilder {
	return &clientConfigBuilder{configs: make([]*ClientConfig, 0, 4)}
}

func (b *clientConfigBuilder) withEnv() *clientConfigBuilder {
	envCfg := &ClientConfig{}
	if err := parseEnv(envCfg); err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}
	b.configs = append(b.configs, envCfg)
	return b
}

func (b *clientConfigBuilder) withFlags() *clientConfigBuilder {
	b.configs = append(b.configs, ParseClientFlags())
	return b
}

func (b *clientConfigBuilder) withJSON() *clientConfigBuilder {
	var jsonPath string
	for _, cfg := range b.configs {
		if cfg.JSONFilePath != "" {
			jsonPath = cfg.JSONFilePath
		}
	}
	if jsonPath == "" {
		return b
	}

	jsonCfg, err := parseClientJSON(jsonPath)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}
	b.configs = append(b.configs, jsonCfg)
	return b
}

func (b *clientConfigBuilder) withDefaults() *clientConfigBuilder {
	b.configs = append(b.configs, defaultClientConfig())
	return b
}

func (b *clientConfigBuilder) build() (*ClientConfig, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occured during building client config: %w", b.err)
	}

	cfg := new(ClientConfig)
	for _, src := range b.configs {
		if err := mergo.Merge(cfg, src); err != nil {
			return nil, fmt.Errorf("error merging client configs: %w", err)
		}
	}

	return cfg, cfg.validate()
}

// GetClientConfig loads, merges, and validates the login client's
// configuration from environment variables, command-line flags, an
// optional JSON file, and built-in defaults, in that precedence order.
func GetClientConfig() (*ClientConfig, error) {
	return newClientConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		withDefaults().
		build()
}
