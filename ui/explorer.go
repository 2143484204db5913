package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jesspatton/lazyfs/engine"
)

// Pane geometry: a one-cell border, one cell of padding and a two-line header.
const (
	paneContentX = 2
	listStartY   = 3
)

// actionSpan is the cell range of one action label within a row line.
type actionSpan struct {
	start, end int
	action     int
}

// rowLine is a row laid out as text, before styling.
type rowLine struct {
	prefix  string
	labels  []string
	spans   []actionSpan
	changed bool
}

var icons = map[engine.Icon]string{
	engine.IconFile:            "📄",
	engine.IconDirectoryClosed: "📁",
	engine.IconDirectoryOpened: "📂",
}

func indent(depth int) string {
	return strings.Repeat("  ", depth)
}

// showActions reports whether a row displays its action labels.
func (m Model) showActions(index int, row engine.Row) bool {
	return row.State.Hovered || (index == m.cursor && m.activePane == PaneExplorer)
}

// layoutRow builds the text of row index. Labels are laid out only when shown so mouse
// hits match what is on screen.
func (m Model) layoutRow(index int, row engine.Row) rowLine {
	cursor := " "
	if index == m.cursor {
		cursor = ">"
	}

	line := rowLine{
		prefix:  fmt.Sprintf("%s %s%s %s", cursor, indent(row.Depth), icons[row.Icon()], row.Name),
		changed: !row.IsDirectory() && m.engine.IsChanged(row.Path),
	}
	if line.changed {
		line.prefix += " M"
	}
	if !m.showActions(index, row) {
		return line
	}

	x := lipgloss.Width(line.prefix) + 2
	for i, a := range row.Actions {
		label := fmt.Sprintf("[%s %s]", a.Key, a.Label)
		w := lipgloss.Width(label)
		line.labels = append(line.labels, label)
		line.spans = append(line.spans, actionSpan{start: x, end: x + w, action: i})
		x += w + 1
	}
	return line
}

func (l rowLine) render(isCursor, hovered bool) string {
	prefix := l.prefix
	switch {
	case isCursor:
		prefix = cursorStyle.Render(prefix)
	case l.changed:
		prefix = changedStyle.Render(prefix)
	}
	if hovered {
		prefix = hoverStyle.Render(prefix)
	}
	if len(l.labels) == 0 {
		return prefix
	}
	return prefix + "  " + actionStyle.Render(strings.Join(l.labels, " "))
}

func (m Model) renderExplorer(paneWidth, paneHeight int) string {
	var explorerView strings.Builder
	explorerView.WriteString(titleStyle.Render(m.cfg.Title) + "\n\n")

	rows := m.engine.Explorer.Rows()
	switch {
	case !m.engine.State.Loaded && m.engine.State.LastError == nil:
		explorerView.WriteString("Scanning...")
	case len(rows) == 0:
		explorerView.WriteString("Nothing here.")
	default:
		end := m.offset + m.listHeight()
		if end > len(rows) {
			end = len(rows)
		}
		for i := m.offset; i < end; i++ {
			row := rows[i]
			line := m.layoutRow(i, row)
			explorerView.WriteString(line.render(i == m.cursor, row.State.Hovered) + "\n")
		}
	}

	explorerStyle := paneStyle
	if m.activePane == PaneExplorer {
		explorerStyle = activePaneStyle
	}

	return explorerStyle.
		Width(paneWidth).
		Height(paneHeight).
		Render(explorerView.String())
}
