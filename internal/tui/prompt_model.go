// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/textinput"
)

// promptModel is a single-field Bubble Tea form used by [TerminalPrompter]
// to collect one line of input at a time: a single bubbles/textinput field
// wrapped in the standard new*Model/Init/Update/View shape.
type promptModel struct {
	label     string
	input     textinput.Model
	cancelled bool
	done      bool
}

func newPromptModel(label string, secret bool) promptModel {
	ti := textinput.New()
	ti.Width = 50
	ti.Focus()
	if secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '*'
	}

	return promptModel{label: label, input: ti}
}

func (m promptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEnter:
			m.done = true
			return m, tea.Quit
		case tea.KeyEsc, tea.KeyCtrlC:
			m.cancelled = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m promptModel) View() string {
	return titleStyle.Render(m.label) + "\n\n" + m.input.View() + "\n\n" + helpStyle.Render("enter confirm  esc cancel")
}
