// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"fmt"
	"time"

	"dario.cat/mergo"
)

// BrokerConfig is the top-level configuration for the privileged session
// broker daemon (spec.md §4.7, component C7). It is assembled by merging
// environment variables, command-line flags, and an optional JSON file, in
// that precedence order (earlier sources win for non-zero fields).
type BrokerConfig struct {
	// XattrPrefix is the extended-attribute namespace prefix vaultstore
	// uses when reading/writing per-user vault metadata
	// (spec.md §6: "xattrs under the user.login-ng prefix").
	// Env: XATTR_PREFIX
	XattrPrefix string `env:"XATTR_PREFIX"`

	// KeyDir is the directory holding the broker's RSA private key
	// (spec.md §6: "<config-dir>/private_key_pkcs1.pem", 0700 dir/file).
	// Env: KEY_DIR
	KeyDir string `env:"KEY_DIR"`

	// AuthorizedMountsPath is the path to the mount authorisation
	// registry's JSON store (spec.md §6:
	// "<config-dir>/authorized_mounts.json").
	// Env: AUTHORIZED_MOUNTS_PATH
	AuthorizedMountsPath string `env:"AUTHORIZED_MOUNTS_PATH"`

	// XDGRuntimeBase is the parent directory under which per-user XDG
	// runtime tmpfs premounts are created (spec.md §6:
	// "XDG_RUNTIME_DIR selects the tmpfs base").
	// Env: XDG_RUNTIME_BASE
	XDGRuntimeBase string `env:"XDG_RUNTIME_BASE"`

	// BusSocketPath is the unix domain socket the broker's rpcbus.Server
	// listens on (spec.md §6: "bus listen address").
	// Env: BUS_SOCKET_PATH
	BusSocketPath string `env:"BUS_SOCKET_PATH"`

	// OTTFloor is the anti-brute-force delay the mount authorisation
	// registry applies to every IsAuthorized answer (passed to
	// mountauth.NewWithDelay by the broker and the ctl tool).
	// Env: OTT_FLOOR
	OTTFloor time.Duration `env:"OTT_FLOOR"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Env: CONFIG
	JSONFilePath string `env:"CONFIG"`
}

// defaultBrokerConfig returns the lowest-precedence [BrokerConfig]: the
// values used when no environment variable, flag, or JSON file overrides
// them.
func defaultBrokerConfig() *BrokerConfig {
	return &BrokerConfig{
		XattrPrefix:          "user.login-ng",
		KeyDir:               "/etc/login-ng",
		AuthorizedMountsPath: "/etc/login-ng/authorized_mounts.json",
		XDGRuntimeBase:       "/run/user",
		BusSocketPath:        "/run/login-ng/broker.sock",
		OTTFloor:             2 * time.Second,
	}
}

func (cfg *BrokerConfig) validate() error {
	if cfg.KeyDir == "" {
		return ErrInvalidBrokerKeyConfig
	}
	if cfg.BusSocketPath == "" {
		return ErrInvalidBrokerBusConfig
	}
	if cfg.XDGRuntimeBase == "" {
		return ErrInvalidBrokerXDGConfig
	}
	return nil
}

// brokerConfigBuilder accumulates partial [BrokerConfig] values from
// different sources and merges them into a single configuration on
// [brokerConfigBuilder.build], following the same fluent pattern as
// [clientConfigBuilder].
type brokerConfigBuilder struct {
	configs []*BrokerConfig
	err     error
}

func newBrokerConfigBuilder() *brokerConfigBuilder {
	return &brokerConfigBuilder{configs: make([]*BrokerConfig, 0, 4)}
}

func (b *brokerConfigBuilder) withEnv() *brokerConfigBuilder {
	envCfg := &BrokerConfig{}
	if err := parseEnv(envCfg); err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}
	b.configs = append(b.configs, envCfg)
	return b
}

func (b *brokerConfigBuilder) withFlags() *brokerConfigBuilder {
	b.configs = append(b.configs, ParseBrokerFlags())
	return b
}

func (b *brokerConfigBuilder) withJSON() *brokerConfigBuilder {
	var jsonPath string
	for _, cfg := range b.configs {
		if cfg.JSONFilePath != "" {
			jsonPath = cfg.JSONFilePath
		}
	}
	if jsonPath == "" {
		return b
	}

	jsonCfg, err := parseBrokerJSON(jsonPath)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}
	b.configs = append(b.configs, jsonCfg)
	return b
}

func (b *brokerConfigBuilder) withDefaults() *brokerConfigBuilder {
	b.configs = append(b.configs, defaultBrokerConfig())
	return b
}

func (b *brokerConfigBuilder) build() (*BrokerConfig, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occured during building broker config: %w", b.err)
	}

	cfg := new(BrokerConfig)
	for _, src := range b.configs {
		if err := mergo.Merge(cfg, src); err != nil {
			return nil, fmt.Errorf("error merging broker configs: %w", err)
		}
	}

	return cfg, cfg.validate()
}

// GetBrokerConfig loads, merges, and validates the broker daemon's
// configuration from environment variables, command-line flags, an
// optional JSON file, and built-in defaults, in that precedence order.
func GetBrokerConfig() (*BrokerConfig, error) {
	return newBrokerConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		withDefaults().
		build()
}
