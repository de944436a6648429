// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseBrokerJSON(t *testing.T) {
	path := writeTempJSON(t, `{
		"xattr_prefix": "user.login-ng",
		"key_dir": "/etc/login-ng",
		"authorized_mounts_path": "/etc/login-ng/authorized_mounts.json",
		"xdg_runtime_base": "/run/user",
		"bus_socket_path": "/run/login-ng/broker.sock",
		"ott_floor": "4s"
	}`)

	cfg, err := parseBrokerJSON(path)
	require.NoError(t, err)
	require.Equal(t, "user.login-ng", cfg.XattrPrefix)
	require.Equal(t, "/etc/login-ng", cfg.KeyDir)
	require.Equal(t, "/run/login-ng/broker.sock", cfg.BusSocketPath)
	require.Equal(t, 4*time.Second, cfg.OTTFloor)
}

func TestParseBrokerJSON_MissingFile(t *testing.T) {
	_, err := parseBrokerJSON(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestParseClientJSON(t *testing.T) {
	path := writeTempJSON(t, `{
		"max_attempts": 3,
		"broker_socket_path": "/run/login-ng/broker.sock",
		"dispatch_mode_env_var": "LOGIN_NG_BUS_ADDRESS",
		"default_username": "alice"
	}`)

	cfg, err := parseClientJSON(path)
	require.NoError(t, err)
	require.Equal(t, 3, cfg.MaxAttempts)
	require.Equal(t, "alice", cfg.DefaultUsername)
}
