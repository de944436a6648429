// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"flag"
	"time"
)

// ParseBrokerFlags parses the broker daemon's command-line flags.
//
// Flags:
//
//	-key-dir RSA private key directory
//	-authorized-mounts authorized_mounts.json path
//	-xdg-runtime-base XDG runtime tmpfs base directory
//	-bus-socket unix socket path the bus listens on
//	-xattr-prefix xattr namespace prefix
//	-ott-floor mount-authorisation answer delay (e.g. "2s")
//	-c/-config JSON file path with configs
func ParseBrokerFlags() *BrokerConfig {
	fs := flag.NewFlagSet("login-ng-brokerd", flag.ContinueOnError)

	var keyDir, authorizedMounts, xdgRuntimeBase, busSocket, xattrPrefix, jsonConfigPath string
	var ottFloor time.Duration

	fs.StringVar(&keyDir, "key-dir", "", "RSA private key directory")
	fs.StringVar(&authorizedMounts, "authorized-mounts", "", "authorized_mounts.json path")
	fs.StringVar(&xdgRuntimeBase, "xdg-runtime-base", "", "XDG runtime tmpfs base directory")
	fs.StringVar(&busSocket, "bus-socket", "", "unix socket path the bus listens on")
	fs.StringVar(&xattrPrefix, "xattr-prefix", "", "xattr namespace prefix")
	fs.DurationVar(&ottFloor, "ott-floor", 0, "mount-authorisation answer delay")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	_ = fs.Parse(commandLineArgs())

	return &BrokerConfig{
		XattrPrefix:          xattrPrefix,
		KeyDir:               keyDir,
		AuthorizedMountsPath: authorizedMounts,
		XDGRuntimeBase:       xdgRuntimeBase,
		BusSocketPath:        busSocket,
		OTTFloor:             ottFloor,
		JSONFilePath:         jsonConfigPath,
	}
}

// ParseClientFlags parses the login client's command-line flags.
//
// Flags:
//
//	-max-attempts retry budget
//	-broker-socket broker bus unix socket path
//	-dispatch-mode-env-var name of the dispatch-mode environment variable
//	-u/-username default username, pre-filling CollectUsername
//	-c/-config JSON file path with configs
func ParseClientFlags() *ClientConfig {
	fs := flag.NewFlagSet("login-ng-login", flag.ContinueOnError)

	var maxAttempts int
	var brokerSocket, dispatchModeEnvVar, username, jsonConfigPath string

	fs.IntVar(&maxAttempts, "max-attempts", 0, "retry budget")
	fs.StringVar(&brokerSocket, "broker-socket", "", "broker bus unix socket path")
	fs.StringVar(&dispatchModeEnvVar, "dispatch-mode-env-var", "", "name of the dispatch-mode environment variable")
	fs.StringVar(&username, "u", "", "default username")
	fs.StringVar(&username, "username", "", "default username (alias)")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	_ = fs.Parse(commandLineArgs())

	return &ClientConfig{
		MaxAttempts:        maxAttempts,
		BrokerSocketPath:   brokerSocket,
		DispatchModeEnvVar: dispatchModeEnvVar,
		DefaultUsername:    username,
		JSONFilePath:       jsonConfigPath,
	}
}

// commandLineArgs returns the process's own argument list (os.Args[1:]),
// split out so tests can feed each flag set a scripted argv instead of the
// test binary's own flags.
var commandLineArgs = func() []string {
	return osArgsTail()
}
