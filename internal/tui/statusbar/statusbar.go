// Package statusbar renders the bottom line: connection target, busy
// spinner, pager summary and the last notice.
package statusbar

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joacominatel/perruls/internal/tui/theme"
)

const defaultHints = "Ctrl+E: Run │ Tab: Pane │ ?: Help │ q: Quit"

// Model is the status bar component.
type Model struct {
	width      int
	target     string
	activePane string
	pager      string
	message    string
	isError    bool
	busy       bool
	spinner    spinner.Model
}

// New creates a new status bar model.
func New() Model {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(theme.ColorAccent)
	return Model{activePane: "explorer", spinner: sp}
}

// SetWidth updates the component width.
func (m *Model) SetWidth(w int) {
	m.width = w
}

// SetTarget shows the connected target. An empty target means disconnected.
func (m *Model) SetTarget(target string) {
	m.target = target
}

// SetActivePane updates the displayed active pane name.
func (m *Model) SetActivePane(pane string) {
	m.activePane = pane
}

// SetPager sets the page summary shown next to the target.
func (m *Model) SetPager(summary string) {
	m.pager = summary
}

// SetMessage sets an informational notice.
func (m *Model) SetMessage(msg string) {
	m.message = msg
	m.isError = false
}

// SetError sets a notice rendered in the error color.
func (m *Model) SetError(msg string) {
	m.message = msg
	m.isError = true
}

// SetBusy toggles the spinner. The returned command starts ticking when
// the bar becomes busy.
func (m *Model) SetBusy(busy bool) tea.Cmd {
	was := m.busy
	m.busy = busy
	if busy && !was {
		return m.spinner.Tick
	}
	return nil
}

// Busy reports whether the spinner is shown.
func (m Model) Busy() bool {
	return m.busy
}

// Update advances the spinner.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if _, ok := msg.(spinner.TickMsg); !ok || !m.busy {
		return m, nil
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

// View renders the status bar.
func (m Model) View() string {
	var left string
	if m.target != "" {
		left = lipgloss.NewStyle().Foreground(theme.ColorSuccess).Render("●") + " " + m.target
	} else {
		left = lipgloss.NewStyle().Foreground(theme.ColorError).Render("●") + " disconnected"
	}
	if m.activePane != "" {
		left += theme.StyleMuted.Render(" [" + m.activePane + "]")
	}
	if m.busy {
		left += " " + m.spinner.View()
	}
	if m.pager != "" {
		left += theme.StyleMuted.Render("  " + m.pager)
	}

	right := defaultHints
	switch {
	case m.message != "" && m.isError:
		right = theme.StyleError.Render(m.message)
	case m.message != "":
		right = m.message
	}

	padding := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if padding < 1 {
		padding = 1
	}

	return theme.StyleStatusBar.Width(m.width).Render(left + strings.Repeat(" ", padding) + right)
}
