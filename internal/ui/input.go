package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/caption-pair-manager/internal/bridge"
	"github.com/atomicstack/caption-pair-manager/internal/logging/events"
)

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	events.UI.Key(m.mode.String(), keyMsg.String())
	if key.Matches(keyMsg, m.keys.ForceQuit) {
		return m.quit()
	}
	switch m.mode {
	case ModeEdit:
		return m.handleEditKey(keyMsg)
	case ModeJump:
		return m.handleJumpKey(keyMsg)
	default:
		return m.handleBrowseKey(keyMsg)
	}
}

func (m *Model) quit() tea.Cmd {
	m.quitting = true
	return tea.Quit
}

func (m *Model) handleBrowseKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Next):
		m.navigate(bridge.Forward, 1)
	case key.Matches(msg, m.keys.Prev):
		m.navigate(bridge.Backward, 1)
	case key.Matches(msg, m.keys.Next10):
		m.navigate(bridge.Forward, 10)
	case key.Matches(msg, m.keys.Prev10):
		m.navigate(bridge.Backward, 10)
	case key.Matches(msg, m.keys.Next100):
		m.navigate(bridge.Forward, 100)
	case key.Matches(msg, m.keys.Prev100):
		m.navigate(bridge.Backward, 100)
	case key.Matches(msg, m.keys.First):
		m.goTo(0)
	case key.Matches(msg, m.keys.Last):
		m.goTo(m.total - 1)
	case key.Matches(msg, m.keys.Edit):
		return m.enterEdit()
	case key.Matches(msg, m.keys.Save):
		if m.pair != nil {
			m.send(bridge.Inbound{Type: bridge.TypeSaveCaption, Text: m.pair.Caption})
		}
	case key.Matches(msg, m.keys.Refresh):
		m.clearNotice()
		m.send(bridge.Inbound{Type: bridge.TypeRefresh})
	case key.Matches(msg, m.keys.Jump):
		return m.enterJump()
	case key.Matches(msg, m.keys.Help):
		m.showFooter = !m.showFooter
	}
	return nil
}

func (m *Model) navigate(direction string, step int) {
	if m.pair == nil {
		return
	}
	m.clearNotice()
	m.send(bridge.Inbound{Type: bridge.TypeNavigate, Direction: direction, Step: step})
}

// goTo navigates to an absolute index by sending the matching relative step.
func (m *Model) goTo(target int) {
	if target < 0 || target >= m.total || target == m.index {
		return
	}
	if target > m.index {
		m.navigate(bridge.Forward, target-m.index)
		return
	}
	m.navigate(bridge.Backward, m.index-target)
}

func (m *Model) enterEdit() tea.Cmd {
	if m.pair == nil {
		return nil
	}
	if m.editorPath != m.pair.CaptionPath {
		m.editorPath = m.pair.CaptionPath
		m.editor.SetValue(m.pair.Caption)
	}
	m.edited = false
	m.setMode(ModeEdit)
	return m.editor.Focus()
}

func (m *Model) handleEditKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Leave):
		m.leaveEdit()
		return nil
	case key.Matches(msg, m.keys.Save):
		m.send(bridge.Inbound{Type: bridge.TypeSaveCaption, Text: m.editor.Value()})
		m.edited = false
		return nil
	case key.Matches(msg, m.keys.EditNext):
		m.navigate(bridge.Forward, 1)
		return nil
	case key.Matches(msg, m.keys.EditPrev):
		m.navigate(bridge.Backward, 1)
		return nil
	}
	before := m.editor.Value()
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	if m.editor.Value() != before {
		m.edited = true
		m.syncEditor()
	}
	return cmd
}

// syncEditor streams the editor text to the session as an unsaved edit.
func (m *Model) syncEditor() {
	if m.pair == nil || !m.edited {
		return
	}
	text := m.editor.Value()
	m.pair.Caption = text
	m.pair.Dirty = true
	m.send(bridge.Inbound{Type: bridge.TypeUpdateCaptionLocally, Text: text})
	m.send(bridge.Inbound{Type: bridge.TypeCountTokens, Text: text})
}

// leaveEdit closes the editor, saving when the caption has unsaved changes.
func (m *Model) leaveEdit() {
	m.editor.Blur()
	m.setMode(ModeBrowse)
	if m.pair != nil && (m.edited || m.pair.Dirty) {
		m.send(bridge.Inbound{Type: bridge.TypeSaveCaption, Text: m.editor.Value()})
	}
	m.edited = false
}

func (m *Model) enterJump() tea.Cmd {
	if len(m.names) == 0 {
		return nil
	}
	m.jumpInput.SetValue("")
	m.jumpList.SetFilter("")
	m.jumpList.Focus(m.index)
	m.setMode(ModeJump)
	return m.jumpInput.Focus()
}

func (m *Model) handleJumpKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Leave):
		events.Jump.Cancel(m.jumpInput.Value())
		m.closeJump()
		return nil
	case key.Matches(msg, m.keys.Choose):
		if item, ok := m.jumpList.Selected(); ok {
			events.Jump.Select(item.Name, item.Index)
			m.closeJump()
			m.goTo(item.Index)
		}
		return nil
	case key.Matches(msg, m.keys.Up):
		m.jumpList.MoveCursorUp()
		return nil
	case key.Matches(msg, m.keys.Down):
		m.jumpList.MoveCursorDown()
		return nil
	}
	before := m.jumpInput.Value()
	var cmd tea.Cmd
	m.jumpInput, cmd = m.jumpInput.Update(msg)
	if value := m.jumpInput.Value(); value != before {
		m.jumpList.SetFilter(value)
		events.Jump.Filter(value, len(m.jumpList.Items))
	}
	return cmd
}

func (m *Model) closeJump() {
	m.jumpInput.Blur()
	m.jumpList.SetFilter("")
	m.setMode(ModeBrowse)
}
