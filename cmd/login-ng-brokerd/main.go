// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/login-ng/login-ng/internal/broker"
	"github.com/login-ng/login-ng/internal/config"
	"github.com/login-ng/login-ng/internal/crypto"
	"github.com/login-ng/login-ng/internal/logger"
	"github.com/login-ng/login-ng/internal/mount"
	"github.com/login-ng/login-ng/internal/mountauth"
	"github.com/login-ng/login-ng/internal/rpcbus"
	"github.com/login-ng/login-ng/internal/vaultstore"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewBrokerLogger("brokerd")

	cfg, err := config.GetBrokerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	log.Debug().Any("config", cfg).Msg("received configs")

	primitives := crypto.New()
	store := vaultstore.New(vaultstore.NewUnixXattrStore(), cfg.XattrPrefix)
	registry := mountauth.NewWithDelay(cfg.AuthorizedMountsPath, cfg.OTTFloor)
	executor := mount.NewExecutor(mount.NewUnixMounter(), cfg.XDGRuntimeBase)
	resolver := broker.NewOSUserResolver()

	b := broker.New(cfg.KeyDir, store, registry, executor, resolver, primitives, log)

	rpcServer, err := rpcbus.NewServer(cfg.BusSocketPath, b, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating bus server")
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-shutdown
		log.Info().Msg("shutting down")
		rpcServer.Shutdown()
	}()

	log.Info().Str("socket", cfg.BusSocketPath).Msg("broker ready")
	if err := rpcServer.Serve(); err != nil {
		log.Fatal().Err(err).Msg("bus server exited with error")
	}
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
