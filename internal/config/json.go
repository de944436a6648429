// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// brokerJSONConfig is the JSON-specific representation of [BrokerConfig]:
// it mirrors BrokerConfig but uses the custom [Duration] type so OTTFloor
// can be expressed as a human-readable string (e.g. "2s") in the config
// file.
type brokerJSONConfig struct {
	XattrPrefix          string   `json:"xattr_prefix"`
	KeyDir               string   `json:"key_dir"`
	AuthorizedMountsPath string   `json:"authorized_mounts_path"`
	XDGRuntimeBase       string   `json:"xdg_runtime_base"`
	BusSocketPath        string   `json:"bus_socket_path"`
	OTTFloor             Duration `json:"ott_floor"`
}

// parseBrokerJSON opens the JSON file at jsonFilePath, decodes it into a
// [brokerJSONConfig], and maps the result into a [BrokerConfig].
func parseBrokerJSON(jsonFilePath string) (*BrokerConfig, error) {
	f, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading broker json config file: %w", err)
	}
	defer f.Close()

	var jsonCfg brokerJSONConfig
	if err := json.NewDecoder(f).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding broker json config: %w", err)
	}

	return &BrokerConfig{
		XattrPrefix:          jsonCfg.XattrPrefix,
		KeyDir:               jsonCfg.KeyDir,
		AuthorizedMountsPath: jsonCfg.AuthorizedMountsPath,
		XDGRuntimeBase:       jsonCfg.XDGRuntimeBase,
		BusSocketPath:        jsonCfg.BusSocketPath,
		OTTFloor:             time.Duration(jsonCfg.OTTFloor),
	}, nil
}

// clientJSONConfig is the JSON-specific representation of [ClientConfig].
type clientJSONConfig struct {
	MaxAttempts        int    `json:"max_attempts"`
	BrokerSocketPath   string `json:"broker_socket_path"`
	DispatchModeEnvVar string `json:"dispatch_mode_env_var"`
	DefaultUsername    string `json:"default_username"`
}

// parseClientJSON opens the JSON file at jsonFilePath, decodes it into a
// [clientJSONConfig], and maps the result into a [ClientConfig].
func parseClientJSON(jsonFilePath string) (*ClientConfig, error) {
	f, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading client json config file: %w", err)
	}
	defer f.Close()

	var jsonCfg clientJSONConfig
	if err := json.NewDecoder(f).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding client json config: %w", err)
	}

	return &ClientConfig{
		MaxAttempts:        jsonCfg.MaxAttempts,
		BrokerSocketPath:   jsonCfg.BrokerSocketPath,
		DispatchModeEnvVar: jsonCfg.DispatchModeEnvVar,
		DefaultUsername:    jsonCfg.DefaultUsername,
	}, nil
}
