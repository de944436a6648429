// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package login

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/login-ng/login-ng/internal/broker"
	"github.com/login-ng/login-ng/internal/logger"
)

// fakePrompter is a scripted [Prompter] for tests: it answers
// PromptPlain/PromptSecret from fixed queues and records calls to the
// other methods.
type fakePrompter struct {
	usernames []string
	secrets   []string
	infos     []string
	errors    []string
	clears    int
	provided  []string
}

func (f *fakePrompter) ProvideUsername(name string) { f.provided = append(f.provided, name) }

func (f *fakePrompter) PromptPlain(string) (*string, error) {
	if len(f.usernames) == 0 {
		return nil, nil
	}
	v := f.usernames[0]
	f.usernames = f.usernames[1:]
	return &v, nil
}

func (f *fakePrompter) PromptSecret(string) (*string, error) {
	if len(f.secrets) == 0 {
		return nil, nil
	}
	v := f.secrets[0]
	f.secrets = f.secrets[1:]
	return &v, nil
}

func (f *fakePrompter) PrintInfo(msg string)  { f.infos = append(f.infos, msg) }
func (f *fakePrompter) PrintError(msg string) { f.errors = append(f.errors, msg) }
func (f *fakePrompter) ClearScreen()          { f.clears++ }

// fakeDispatcher answers Authenticate from a scripted queue of results.
type fakeDispatcher struct {
	codes []broker.Code
	calls int
}

func (f *fakeDispatcher) Authenticate(context.Context, string, string) (broker.Code, uint32, uint32, error) {
	code := broker.CodeCannotIdentifyUser
	if f.calls < len(f.codes) {
		code = f.codes[f.calls]
	}
	f.calls++
	if code == broker.CodeOk {
		return code, 1000, 1000, nil
	}
	return code, 0, 0, nil
}

func TestOrchestrator_SucceedsFirstAttempt(t *testing.T) {
	prompter := &fakePrompter{usernames: []string{"alice"}, secrets: []string{"secret"}}
	dispatcher := &fakeDispatcher{codes: []broker.Code{broker.CodeOk}}
	o := NewOrchestrator(prompter, dispatcher, logger.Nop())

	result, err := o.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, "alice", result.Username)
	require.EqualValues(t, 1000, result.UID)
	require.EqualValues(t, 1000, result.GID)
	require.Equal(t, 0, prompter.clears)
}

func TestOrchestrator_RetriesThenSucceeds(t *testing.T) {
	prompter := &fakePrompter{
		usernames: []string{"alice", "alice", "alice"},
		secrets:   []string{"wrong1", "wrong2", "secret"},
	}
	dispatcher := &fakeDispatcher{codes: []broker.Code{
		broker.CodeDataDecryptionFailed,
		broker.CodeDataDecryptionFailed,
		broker.CodeOk,
	}}
	o := NewOrchestrator(prompter, dispatcher, logger.Nop())

	result, err := o.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, "alice", result.Username)
	require.Equal(t, 2, prompter.clears)
	require.Len(t, prompter.errors, 2)
}

func TestOrchestrator_ExhaustsRetryBudget(t *testing.T) {
	prompter := &fakePrompter{
		usernames: []string{"alice", "alice", "alice", "alice", "alice"},
		secrets:   []string{"w1", "w2", "w3", "w4", "w5"},
	}
	dispatcher := &fakeDispatcher{codes: []broker.Code{
		broker.CodeDataDecryptionFailed,
		broker.CodeDataDecryptionFailed,
		broker.CodeDataDecryptionFailed,
		broker.CodeDataDecryptionFailed,
		broker.CodeDataDecryptionFailed,
	}}
	o := NewOrchestrator(prompter, dispatcher, logger.Nop())

	result, err := o.Run(context.Background())
	require.ErrorIs(t, err, ErrRetryBudgetExhausted)
	require.Nil(t, result)
	require.Equal(t, DefaultMaxAttempts, prompter.clears)
}

func TestOrchestrator_PreKnownUsernameSkipsPrompt(t *testing.T) {
	prompter := &fakePrompter{secrets: []string{"secret"}}
	dispatcher := &fakeDispatcher{codes: []broker.Code{broker.CodeOk}}
	o := NewOrchestrator(prompter, dispatcher, logger.Nop())
	o.Username = "bob"

	result, err := o.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, "bob", result.Username)
	require.Equal(t, []string{"bob"}, prompter.provided)
}

func TestOrchestrator_PreKnownSecretSkipsPrompt(t *testing.T) {
	prompter := &fakePrompter{usernames: []string{"carol"}}
	dispatcher := &fakeDispatcher{codes: []broker.Code{broker.CodeOk}}
	o := NewOrchestrator(prompter, dispatcher, logger.Nop())
	secret := ""
	o.Secret = &secret

	result, err := o.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, "carol", result.Username)
}

func TestOrchestrator_CancelledPromptFailsImmediately(t *testing.T) {
	prompter := &fakePrompter{}
	dispatcher := &fakeDispatcher{}
	o := NewOrchestrator(prompter, dispatcher, logger.Nop())
	o.MaxAttempts = 1

	result, err := o.Run(context.Background())
	require.ErrorIs(t, err, ErrRetryBudgetExhausted)
	require.Nil(t, result)
	require.Zero(t, dispatcher.calls)
}
