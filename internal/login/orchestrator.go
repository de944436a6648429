// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package login

import (
	"context"

	"github.com/login-ng/login-ng/internal/broker"
	"github.com/login-ng/login-ng/internal/logger"
)

// State is one of the Login Orchestrator's states (spec.md §4.9).
type State int

const (
	StateCollectUsername State = iota
	StateCollectSecret
	StateAuthenticate
	StateMount
	StateDone
	StateFail
)

func (s State) String() string {
	switch s {
	case StateCollectUsername:
		return "CollectUsername"
	case StateCollectSecret:
		return "CollectSecret"
	case StateAuthenticate:
		return "Authenticate"
	case StateMount:
		return "Mount"
	case StateDone:
		return "Done"
	case StateFail:
		return "Fail"
	default:
		return "Unknown"
	}
}

// DefaultMaxAttempts is the retry budget spec.md §4.9 names as the
// default when none is configured.
const DefaultMaxAttempts = 5

// Result is what [Orchestrator.Run] returns on success.
type Result struct {
	Username string
	UID      uint32
	GID      uint32
}

// Orchestrator implements the Login Orchestrator state machine (spec.md
// §4.9, component C9): collect a username and candidate secret, dispatch
// authentication, and retry a bounded number of times on failure.
//
// A known username or secret provided ahead of time (e.g. via the
// command line, or the autologin short-circuit `unlock("")` discovers)
// is threaded through Username/Secret; when set, the corresponding
// collection state is skipped and the prompter is never asked for it.
type Orchestrator struct {
	Prompter    Prompter
	Dispatcher  Dispatcher
	MaxAttempts int
	Username    string
	Secret      *string
	log         *logger.Logger
	result      *Result
}

// NewOrchestrator constructs an Orchestrator with [DefaultMaxAttempts].
func NewOrchestrator(prompter Prompter, dispatcher Dispatcher, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		Prompter:    prompter,
		Dispatcher:  dispatcher,
		MaxAttempts: DefaultMaxAttempts,
		log:         log,
	}
}

// Run drives the state machine to completion: either a successful
// [Result] or [ErrRetryBudgetExhausted] once every attempt has failed.
func (o *Orchestrator) Run(ctx context.Context) (*Result, error) {
	attempts := 0
	state := StateCollectUsername
	username := o.Username
	var secret *string = o.Secret

	for {
		switch state {
		case StateCollectUsername:
			if username == "" {
				name, err := o.Prompter.PromptPlain("username")
				if err != nil || name == nil {
					state = StateFail
					continue
				}
				username = *name
			}
			o.Prompter.ProvideUsername(username)
			state = StateCollectSecret

		case StateCollectSecret:
			if secret == nil {
				s, err := o.Prompter.PromptSecret("password")
				if err != nil || s == nil {
					state = StateFail
					continue
				}
				secret = s
			}
			state = StateAuthenticate

		case StateAuthenticate:
			code, uid, gid, err := o.Dispatcher.Authenticate(ctx, username, *secret)
			if err != nil {
				o.log.Error().Err(err).Str("user", username).Msg("authenticate")
			}
			if code != broker.CodeOk {
				o.Prompter.PrintError("authentication failed")
				state = StateFail
				continue
			}
			state = StateMount
			o.result = &Result{Username: username, UID: uid, GID: gid}

		case StateMount:
			// Mounting already happened inside Authenticate (the broker
			// performs open_session's mount step atomically with
			// authentication, per spec.md §4.7); this state exists so the
			// machine's shape matches spec.md §4.9 exactly, and is where a
			// future direct-mode post-mount step (e.g. printing a welcome
			// banner) would hook in.
			state = StateDone

		case StateDone:
			o.Prompter.PrintInfo("session opened")
			return o.result, nil

		case StateFail:
			attempts++
			o.Prompter.ClearScreen()
			if attempts >= o.MaxAttempts {
				return nil, ErrRetryBudgetExhausted
			}
			// Reset to the caller-supplied username/secret, if any, or to
			// the empty prompt-again state otherwise — a fresh attempt
			// re-collects whatever was not fixed by the caller.
			username = o.Username
			secret = o.Secret
			state = StateCollectUsername
		}
	}
}
