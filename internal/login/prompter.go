// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package login implements the Login Orchestrator (spec.md §4.9,
// component C9): a small state machine that collects a username and
// candidate secret, dispatches authentication either through the
// Session Broker (C7) or the host's native conversation, and retries a
// bounded number of times on failure.
package login

// Prompter is the external collaborator spec.md §4.9 describes: the
// terminal (or greeter, or bus peer) that actually asks the human for
// input. The default terminal implementation is tui.TerminalPrompter in
// internal/tui, built on small Bubble Tea programs; tests substitute a
// scripted fake.
//
// A nil return from PromptPlain/PromptSecret means the human cancelled —
// the orchestrator treats this the same as a failed attempt.
type Prompter interface {
	// ProvideUsername tells the prompter which username the orchestrator
	// is about to operate on (e.g. to pre-fill a known value supplied on
	// the command line).
	ProvideUsername(name string)

	// PromptPlain asks for a plain-text line with msg as its label.
	PromptPlain(msg string) (*string, error)

	// PromptSecret asks for a masked secret with msg as its label.
	PromptSecret(msg string) (*string, error)

	// PrintInfo displays an informational message.
	PrintInfo(msg string)

	// PrintError displays an error message.
	PrintError(msg string)

	// ClearScreen wipes the terminal between failed attempts, so a prior
	// prompt's on-screen residue never discloses information on a shared
	// TTY (spec.md §4.9: "clears the terminal ... to avoid disclosing
	// prior prompts").
	ClearScreen()
}
