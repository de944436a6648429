// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func withArgs(t *testing.T, args []string, fn func()) {
	t.Helper()
	original := commandLineArgs
	commandLineArgs = func() []string { return args }
	t.Cleanup(func() { commandLineArgs = original })
	fn()
}

func TestParseBrokerFlags(t *testing.T) {
	withArgs(t, []string{
		"-key-dir", "/etc/login-ng",
		"-authorized-mounts", "/etc/login-ng/authorized_mounts.json",
		"-xdg-runtime-base", "/run/user",
		"-bus-socket", "/run/login-ng/broker.sock",
		"-xattr-prefix", "user.login-ng",
		"-ott-floor", "3s",
	}, func() {
		cfg := ParseBrokerFlags()
		assert.Equal(t, "/etc/login-ng", cfg.KeyDir)
		assert.Equal(t, "/etc/login-ng/authorized_mounts.json", cfg.AuthorizedMountsPath)
		assert.Equal(t, "/run/user", cfg.XDGRuntimeBase)
		assert.Equal(t, "/run/login-ng/broker.sock", cfg.BusSocketPath)
		assert.Equal(t, "user.login-ng", cfg.XattrPrefix)
		assert.Equal(t, 3*time.Second, cfg.OTTFloor)
	})
}

func TestParseClientFlags(t *testing.T) {
	withArgs(t, []string{
		"-max-attempts", "7",
		"-broker-socket", "/run/login-ng/broker.sock",
		"-dispatch-mode-env-var", "LOGIN_NG_BUS_ADDRESS",
		"-username", "bob",
	}, func() {
		cfg := ParseClientFlags()
		assert.Equal(t, 7, cfg.MaxAttempts)
		assert.Equal(t, "/run/login-ng/broker.sock", cfg.BrokerSocketPath)
		assert.Equal(t, "LOGIN_NG_BUS_ADDRESS", cfg.DispatchModeEnvVar)
		assert.Equal(t, "bob", cfg.DefaultUsername)
	})
}
