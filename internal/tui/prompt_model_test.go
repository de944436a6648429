// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"testing"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestPromptModel_Enter_MarksDone(t *testing.T) {
	m := newPromptModel("username", false)

	m.input.SetValue("alice")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	result := updated.(promptModel)

	assert.True(t, result.done)
	assert.False(t, result.cancelled)
	assert.Equal(t, "alice", result.input.Value())
	assert.NotNil(t, cmd)
}

func TestPromptModel_Esc_MarksCancelled(t *testing.T) {
	m := newPromptModel("password", true)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	result := updated.(promptModel)

	assert.True(t, result.cancelled)
	assert.False(t, result.done)
	assert.NotNil(t, cmd)
}

func TestPromptModel_CtrlC_MarksCancelled(t *testing.T) {
	m := newPromptModel("password", true)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	result := updated.(promptModel)

	assert.True(t, result.cancelled)
}

func TestPromptModel_Secret_UsesPasswordEcho(t *testing.T) {
	m := newPromptModel("password", true)

	assert.Equal(t, textinput.EchoPassword, m.input.EchoMode)
}

func TestPromptModel_View_ContainsLabel(t *testing.T) {
	m := newPromptModel("username", false)

	assert.Contains(t, m.View(), "username")
}
