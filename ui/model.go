package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jesspatton/lazyfs/backend"
	"github.com/jesspatton/lazyfs/engine"
	"go.uber.org/zap"
)

// Pane represents a distinct section of the UI.
type Pane int

const (
	// PaneExplorer is the tree pane.
	PaneExplorer Pane = iota
	// PaneActivity is the operation log pane.
	PaneActivity
)

type promptMode int

const (
	promptNone promptMode = iota
	promptCreateDirectory
	promptUpload
	promptConfirmDelete
)

// prompt is the input line shown while an action waits for the user.
type prompt struct {
	mode  promptMode
	path  string
	input textinput.Model
}

// clipboardMsg reports the result of a copy-path action.
type clipboardMsg struct {
	text string
	err  error
}

// copyToClipboard is swapped out in tests.
var copyToClipboard = clipboard.WriteAll

// Config carries the UI settings.
type Config struct {
	// RootPath turns resolved paths into absolute ones when copying; empty keeps them as is.
	RootPath      string
	Title         string
	ConfirmDelete bool
}

// Model represents the application state for the Bubbletea program.
type Model struct {
	// UI State
	activePane Pane
	width      int
	height     int
	ready      bool
	showHelp   bool
	cursor     int
	offset     int
	viewport   viewport.Model
	prompt     prompt
	status     string

	// Components
	keys KeyMap
	help help.Model

	// Dependencies
	engine   *engine.Engine
	dispatch *dispatcher
	cfg      Config
	log      *zap.Logger
}

// NewModel creates a model driving eng. The explorer keeps its delete policy and gets the
// UI's action lists.
func NewModel(eng *engine.Engine, cfg Config, log *zap.Logger) Model {
	if log == nil {
		log = zap.NewNop()
	}
	h := help.New()
	h.Styles.ShortKey = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#909090", Dark: "#A0A0A0"})
	h.Styles.ShortDesc = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#B0B0B0", Dark: "#808080"})
	h.Styles.ShortSeparator = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#D0D0D0", Dark: "#606060"})
	h.Styles.FullKey = h.Styles.ShortKey
	h.Styles.FullDesc = h.Styles.ShortDesc
	h.Styles.FullSeparator = h.Styles.ShortSeparator

	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 40

	if cfg.Title == "" {
		cfg.Title = "EXPLORER"
	}

	keys := NewKeyMap()
	d := &dispatcher{}
	eng.Explorer.SetOptions(actionOptions(d, keys, eng.Explorer.Options().RootDirectoriesAreDeletable))
	eng.Explorer.OnOpenFile = d.push(requestOpen)

	return Model{
		activePane: PaneExplorer,
		keys:       keys,
		help:       h,
		prompt:     prompt{input: ti},
		engine:     eng,
		dispatch:   d,
		cfg:        cfg,
		log:        log,
	}
}

// Init initializes the Bubbletea program.
func (m Model) Init() tea.Cmd {
	return m.engine.Init()
}

// Update handles incoming messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.prompt.mode != promptNone {
			return m.updatePrompt(msg)
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			m.engine.Close()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil
		case key.Matches(msg, m.keys.Tab):
			if m.activePane == PaneExplorer {
				m.activePane = PaneActivity
			} else {
				m.activePane = PaneExplorer
			}
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			m.status = "Refreshing..."
			return m, m.engine.RefreshTree
		}

		if m.activePane == PaneActivity {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

		explorer := m.engine.Explorer
		switch {
		case key.Matches(msg, m.keys.Up):
			m.moveCursor(-1)
		case key.Matches(msg, m.keys.Down):
			m.moveCursor(1)
		case key.Matches(msg, m.keys.Enter):
			explorer.ClickRow(m.cursor)
		case key.Matches(msg, m.keys.Right):
			explorer.SetExpanded(m.cursor, true)
		case key.Matches(msg, m.keys.Left):
			m.collapseOrParent()
		default:
			explorer.TriggerKey(m.cursor, msg.String())
		}
		m.clampCursor()

	case tea.MouseMsg:
		m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		paneWidth := (m.width / 2) - 4
		viewportHeight := m.paneHeight() - 2

		if !m.ready {
			m.viewport = viewport.New(paneWidth, viewportHeight)
			m.ready = true
		} else {
			m.viewport.Width = paneWidth
			m.viewport.Height = viewportHeight
		}
		m.refreshActivity()
		m.clampCursor()

	case clipboardMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Copy failed: %v", msg.err)
			m.engine.Record("copy "+msg.text+" failed", msg.err)
		} else {
			m.status = "Copied " + msg.text
		}
		m.refreshActivity()
		return m, nil

	default:
		cmd := m.engine.Update(msg)
		switch msg := msg.(type) {
		case backend.StatusUpdate:
			if msg.Err != nil {
				m.status = fmt.Sprintf("%s failed: %v", msg.Op.Describe(), msg.Err)
			} else {
				m.status = fmt.Sprintf("%s done", msg.Op.Describe())
			}
			m.refreshActivity()
		case engine.TreeLoadedMsg:
			if strings.HasPrefix(m.status, "Refreshing") {
				m.status = ""
			}
			m.clampCursor()
		case engine.TreeErrorMsg:
			m.status = fmt.Sprintf("Refresh failed: %v", msg.Err)
		}
		cmds = append(cmds, cmd)
	}

	cmds = append(cmds, m.handleRequests())
	return m, tea.Batch(cmds...)
}

// handleRequests acts on the action clicks queued during this update.
func (m *Model) handleRequests() tea.Cmd {
	var cmds []tea.Cmd
	for _, req := range m.dispatch.drain() {
		m.log.Debug("action", zap.Int("kind", int(req.kind)), zap.String("path", req.path))

		switch req.kind {
		case requestOpen:
			if m.engine.OpenFile(req.path) {
				m.status = "Opening " + req.path
				m.refreshActivity()
			} else {
				m.status = "Selected " + req.path
			}
		case requestCopyPath:
			cmds = append(cmds, m.copyPath(req.path))
		case requestCreateDirectory:
			cmds = append(cmds, m.openPrompt(promptCreateDirectory, req.path, "New directory in "+displayDir(req.path)+": ", "name"))
		case requestUpload:
			cmds = append(cmds, m.openPrompt(promptUpload, req.path, "Upload into "+displayDir(req.path)+" from: ", "local file path"))
		case requestDelete:
			if m.cfg.ConfirmDelete {
				m.prompt.mode = promptConfirmDelete
				m.prompt.path = req.path
			} else {
				m.submit(backend.Operation{Kind: backend.OpDelete, Path: req.path})
			}
		}
	}
	return tea.Batch(cmds...)
}

func (m *Model) openPrompt(mode promptMode, path, label, placeholder string) tea.Cmd {
	m.prompt.mode = mode
	m.prompt.path = path
	m.prompt.input.Reset()
	m.prompt.input.Prompt = label
	m.prompt.input.Placeholder = placeholder
	return m.prompt.input.Focus()
}

func (m *Model) closePrompt() {
	m.prompt.mode = promptNone
	m.prompt.path = ""
	m.prompt.input.Blur()
	m.prompt.input.Reset()
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.prompt.mode == promptConfirmDelete {
		if key.Matches(msg, m.keys.Confirm) {
			m.submit(backend.Operation{Kind: backend.OpDelete, Path: m.prompt.path})
		} else {
			m.status = "Delete cancelled"
		}
		m.closePrompt()
		return m, nil
	}

	if key.Matches(msg, m.keys.Cancel) {
		m.closePrompt()
		return m, nil
	}

	if msg.Type == tea.KeyEnter {
		value := strings.TrimSpace(m.prompt.input.Value())
		if value == "" {
			m.closePrompt()
			return m, nil
		}
		switch m.prompt.mode {
		case promptCreateDirectory:
			if strings.Contains(value, "/") {
				m.status = "Directory names cannot contain /"
				return m, nil
			}
			m.submit(backend.Operation{Kind: backend.OpCreateDirectory, Path: m.prompt.path + value})
		case promptUpload:
			m.submit(backend.Operation{Kind: backend.OpUpload, Path: m.prompt.path, Source: value})
		}
		m.closePrompt()
		return m, nil
	}

	var cmd tea.Cmd
	m.prompt.input, cmd = m.prompt.input.Update(msg)
	return m, cmd
}

func (m *Model) submit(op backend.Operation) {
	op = m.engine.Submit(op)
	m.status = op.Describe() + "..."
	m.refreshActivity()
}

func (m *Model) copyPath(path string) tea.Cmd {
	text := path
	if m.cfg.RootPath != "" {
		text = filepath.Join(m.cfg.RootPath, filepath.FromSlash(path))
	}
	return func() tea.Msg {
		return clipboardMsg{text: text, err: copyToClipboard(text)}
	}
}

// Cursor

func (m *Model) listHeight() int {
	h := m.paneHeight() - 2
	if h < 1 {
		return 1
	}
	return h
}

func (m Model) paneHeight() int {
	return m.height - 4
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
}

// clampCursor keeps the cursor on a row and the row on screen.
func (m *Model) clampCursor() {
	n := len(m.engine.Explorer.Rows())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}

	h := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	if maxOffset := n - h; m.offset > maxOffset {
		m.offset = maxOffset
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// collapseOrParent collapses an expanded directory, otherwise jumps to the parent row.
func (m *Model) collapseOrParent() {
	explorer := m.engine.Explorer
	row, ok := explorer.Row(m.cursor)
	if !ok {
		return
	}
	if row.IsDirectory() && row.State.Expanded {
		explorer.SetExpanded(m.cursor, false)
		m.clampCursor()
		return
	}
	for i := m.cursor - 1; i >= 0; i-- {
		if r, _ := explorer.Row(i); r.Depth < row.Depth {
			m.cursor = i
			m.clampCursor()
			return
		}
	}
}

// Activity

func (m *Model) refreshActivity() {
	if !m.ready {
		return
	}
	var b strings.Builder
	for _, a := range m.engine.State.Activity {
		line := fmt.Sprintf("%s %s", a.Time.Format("15:04:05"), a.Text)
		if a.Err != nil {
			line = errorStyle.Render(fmt.Sprintf("%s: %v", line, a.Err))
		}
		b.WriteString(line + "\n")
	}
	m.viewport.SetContent(lipgloss.NewStyle().Width(m.viewport.Width).Render(b.String()))
	m.viewport.GotoBottom()
}

// View renders the UI based on the current state.
func (m Model) View() string {
	if m.showHelp {
		return m.renderHelp()
	}

	if m.width == 0 {
		return "Loading..."
	}

	paneWidth := (m.width / 2) - 2
	paneHeight := m.paneHeight()

	explorerRender := m.renderExplorer(paneWidth, paneHeight)

	var activityView strings.Builder
	activityView.WriteString(titleStyle.Render("ACTIVITY") + "\n\n")
	if !m.ready {
		activityView.WriteString("Initializing...")
	} else {
		activityView.WriteString(m.viewport.View())
	}

	activityStyle := paneStyle
	if m.activePane == PaneActivity {
		activityStyle = activePaneStyle
	}
	activityRender := activityStyle.
		Width(paneWidth).
		Height(paneHeight).
		Render(activityView.String())

	panes := lipgloss.JoinHorizontal(lipgloss.Top, explorerRender, activityRender)
	return lipgloss.JoinVertical(lipgloss.Left, panes, m.renderFooter())
}

func (m Model) renderFooter() string {
	var line string
	switch m.prompt.mode {
	case promptConfirmDelete:
		line = warningStyle.Render(fmt.Sprintf("Delete %s? (y/N)", m.prompt.path))
	case promptCreateDirectory, promptUpload:
		line = m.prompt.input.View()
	default:
		line = statusStyle.Render(m.statusLine())
	}
	return lipgloss.JoinVertical(lipgloss.Left, line, m.help.View(m.keys))
}

func (m Model) statusLine() string {
	if m.status != "" {
		return m.status
	}
	if err := m.engine.State.LastError; err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	if m.engine.Busy() {
		return fmt.Sprintf("%d operation(s) running", len(m.engine.State.Pending))
	}
	return ""
}

func displayDir(path string) string {
	if path == "" {
		return "/"
	}
	return path
}
