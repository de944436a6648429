// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/login-ng/login-ng/internal/config"
	"github.com/login-ng/login-ng/internal/crypto"
	"github.com/login-ng/login-ng/internal/login"
	"github.com/login-ng/login-ng/internal/logger"
	"github.com/login-ng/login-ng/internal/rpcbus"
	"github.com/login-ng/login-ng/internal/tui"
	"github.com/login-ng/login-ng/internal/vaultstore"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewClientLogger("login")

	cfg, err := config.GetClientConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error getting configs: %v\n", err)
		os.Exit(1)
	}
	log.Debug().Any("config", cfg).Msg("received configs")

	conn, err := rpcbus.Dial(cfg.BrokerSocketPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error dialing broker: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close()

	client := rpcbus.NewSessionClient(conn)
	primitives := crypto.New()

	var dispatcher login.Dispatcher
	if busAddr := os.Getenv(cfg.DispatchModeEnvVar); busAddr != "" {
		log.Info().Str("bus_peer", busAddr).Msg("dispatching via broker-mediated authentication")
		dispatcher = login.NewBrokerDispatcher(client, primitives)
	} else {
		log.Info().Msg("dispatching via direct authentication")
		store := vaultstore.New(vaultstore.NewUnixXattrStore(), vaultstore.DefaultPrefix)
		dispatcher = login.NewDirectDispatcher(store, primitives, client)
	}

	prompter := tui.NewTerminalPrompter()
	orchestrator := login.NewOrchestrator(prompter, dispatcher, log)
	orchestrator.MaxAttempts = cfg.MaxAttempts
	orchestrator.Username = cfg.DefaultUsername

	result, err := orchestrator.Run(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "login failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("session opened for %s (uid=%d gid=%d)\n", result.Username, result.UID, result.GID)
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
