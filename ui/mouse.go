package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// rowAt maps a screen cell to a row index, or -1 outside the list.
func (m Model) rowAt(x, y int) int {
	if m.width == 0 || x >= m.width/2 {
		return -1
	}
	i := y - listStartY
	if i < 0 || i >= m.listHeight() {
		return -1
	}
	i += m.offset
	if i >= len(m.engine.Explorer.Rows()) {
		return -1
	}
	return i
}

// actionAt returns the action whose label covers column x of row index, or -1.
func (m Model) actionAt(index, x int) int {
	row, ok := m.engine.Explorer.Row(index)
	if !ok {
		return -1
	}
	col := x - paneContentX
	for _, s := range m.layoutRow(index, row).spans {
		if col >= s.start && col < s.end {
			return s.action
		}
	}
	return -1
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	// An open prompt owns its target until it is answered.
	if m.prompt.mode != promptNone {
		return
	}
	explorer := m.engine.Explorer

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.moveCursor(-1)
		return
	case tea.MouseButtonWheelDown:
		m.moveCursor(1)
		return
	}

	index := m.rowAt(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionMotion:
		explorer.Hover(index)

	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || index < 0 {
			return
		}
		m.activePane = PaneExplorer
		m.cursor = index
		explorer.Hover(index)
		// Labels are laid out for the hovered row, so hit-test after hovering.
		if j := m.actionAt(index, msg.X); j >= 0 {
			explorer.ClickAction(index, j)
		} else {
			explorer.ClickRow(index)
		}
		m.clampCursor()
	}
}
