// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Command login-ng-ctl is the administration CLI for the mount
// authorisation registry and per-user vaults: it runs with the same
// privileges and against the same on-disk state as the broker daemon,
// for operators who need to authorise a mount plan or manage a vault's
// alternatives without going through the interactive login flow.
package main

import (
	"fmt"
	"os"

	"github.com/login-ng/login-ng/internal/config"
	"github.com/login-ng/login-ng/internal/crypto"
	"github.com/login-ng/login-ng/internal/mountauth"
	"github.com/login-ng/login-ng/internal/vaultstore"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.GetBrokerConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error getting configs: %v\n", err)
		os.Exit(1)
	}

	var runErr error
	switch os.Args[1] {
	case "authorize-mount":
		runErr = runAuthorizeMount(cfg, os.Args[2:])
	case "check-mount":
		runErr = runCheckMount(cfg, os.Args[2:])
	case "add-alt":
		runErr = runAddAlt(cfg, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "%v\n", runErr)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage:
  login-ng-ctl authorize-mount <user> <digest>
  login-ng-ctl check-mount <user> <digest>
  login-ng-ctl add-alt <user> <alt-name> <ik> [secret]`)
}

func runAuthorizeMount(cfg *config.BrokerConfig, args []string) error {
	if len(args) != 2 {
		usage()
		return fmt.Errorf("authorize-mount: expected 2 arguments, got %d", len(args))
	}

	registry := mountauth.NewWithDelay(cfg.AuthorizedMountsPath, cfg.OTTFloor)
	if err := registry.Authorize(args[0], args[1]); err != nil {
		return fmt.Errorf("authorize-mount: %w", err)
	}

	fmt.Printf("authorized: user=%s digest=%s\n", args[0], args[1])
	return nil
}

func runCheckMount(cfg *config.BrokerConfig, args []string) error {
	if len(args) != 2 {
		usage()
		return fmt.Errorf("check-mount: expected 2 arguments, got %d", len(args))
	}

	registry := mountauth.NewWithDelay(cfg.AuthorizedMountsPath, cfg.OTTFloor)
	authorized, err := registry.IsAuthorized(args[0], args[1])
	if err != nil {
		return fmt.Errorf("check-mount: %w", err)
	}

	fmt.Printf("authorized=%t\n", authorized)
	return nil
}

// runAddAlt adds a new unlock alternative to user's vault. secret may be
// the empty string, which the vault itself accepts as a valid (if
// unwise) alternative secret — an "always unlocks" entry. When the vault
// already holds at least one alternative, adding an empty-secret
// alternative lets anyone log in by entering an empty password, so this
// prints an explicit warning banner before proceeding.
func runAddAlt(cfg *config.BrokerConfig, args []string) error {
	if len(args) != 3 && len(args) != 4 {
		usage()
		return fmt.Errorf("add-alt: expected 3 or 4 arguments, got %d", len(args))
	}

	user, altName, ik := args[0], args[1], args[2]
	var secret string
	if len(args) == 4 {
		secret = args[3]
	}

	home, err := vaultstore.HomeDirByUsername(user)
	if err != nil {
		return fmt.Errorf("add-alt: %w", err)
	}

	primitives := crypto.New()
	store := vaultstore.New(vaultstore.NewUnixXattrStore(), cfg.XattrPrefix)

	v, exists, err := store.LoadVault(home, primitives)
	if err != nil {
		return fmt.Errorf("add-alt: %w", err)
	}
	if !exists {
		return fmt.Errorf("add-alt: %s has no vault yet", user)
	}

	if secret == "" && len(v.Alternatives) > 0 {
		fmt.Println(autologinWarningBanner(user, altName))
	}

	if err := v.AddAlternative(altName, ik, secret); err != nil {
		return fmt.Errorf("add-alt: %w", err)
	}

	if err := store.StoreVault(home, v); err != nil {
		return fmt.Errorf("add-alt: %w", err)
	}

	fmt.Printf("added alternative %q for %s\n", altName, user)
	return nil
}

func autologinWarningBanner(user, altName string) string {
	return fmt.Sprintf(
		"WARNING: adding alternative %q for %s with an empty secret.\n"+
			"This account already has at least one alternative; anyone can now\n"+
			"log in by entering an empty password, bypassing the existing\n"+
			"credentials entirely. This is effectively autologin.",
		altName, user,
	)
}
