// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

// TerminalPrompter implements login.Prompter (defined in
// internal/login, not imported here to keep this package free of a
// dependency on the orchestrator) against the real terminal, running one
// small Bubble Tea program per prompt rather than a single long-lived
// screen, since each call is a synchronous request/response from the
// orchestrator's state machine rather than an event loop this package
// owns.
type TerminalPrompter struct {
	username string
}

// NewTerminalPrompter constructs a [TerminalPrompter].
func NewTerminalPrompter() *TerminalPrompter {
	return &TerminalPrompter{}
}

func (p *TerminalPrompter) ProvideUsername(name string) {
	p.username = name
	fmt.Println(titleStyle.Render(name))
}

func (p *TerminalPrompter) PromptPlain(msg string) (*string, error) {
	return p.prompt(msg, false)
}

func (p *TerminalPrompter) PromptSecret(msg string) (*string, error) {
	return p.prompt(msg, true)
}

func (p *TerminalPrompter) prompt(msg string, secret bool) (*string, error) {
	model := newPromptModel(msg, secret)
	finalModel, err := tea.NewProgram(model).Run()
	if err != nil {
		return nil, err
	}

	result, ok := finalModel.(promptModel)
	if !ok || result.cancelled {
		return nil, nil
	}

	value := result.input.Value()
	return &value, nil
}

func (p *TerminalPrompter) PrintInfo(msg string) {
	fmt.Println(helpStyle.Render(msg))
}

func (p *TerminalPrompter) PrintError(msg string) {
	fmt.Println(errorStyle.Render(msg))
}

func (p *TerminalPrompter) ClearScreen() {
	fmt.Fprint(os.Stdout, "\x1b[H\x1b[2J")
}
