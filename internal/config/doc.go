// Package config provides configuration loading, merging, and validation
// facilities for the broker daemon and the login client.
//
// Configuration is assembled from multiple sources in the following
// precedence order (earlier sources win for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON config file
//  4. Built-in defaults
//
// The entry points are [GetBrokerConfig] for the privileged session broker
// (cmd/login-ng-brokerd) and [GetClientConfig] for the login orchestrator
// (cmd/login-ng-login).
package config
