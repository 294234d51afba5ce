package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/joacominatel/perruls/internal/tui/theme"
)

const tagline = "Consultas y reportes del refugio"

// View renders the entire application.
func (m Model) View() string {
	switch m.mode {
	case ModeSelectConnection:
		return m.viewSelectConnection()
	case ModeConnect:
		return m.viewConnect()
	}
	if m.showHelp {
		return m.viewHelp()
	}
	return m.viewMain()
}

func (m Model) banner() []string {
	title := lipgloss.NewStyle().Foreground(theme.ColorPrimary).Bold(true).Render("perruls")
	return []string{title, theme.StyleMuted.Render(tagline), ""}
}

func (m Model) errorLine() string {
	if m.err == nil {
		return ""
	}
	return theme.StyleError.Render(errorText(m.err))
}

func (m Model) center(parts ...string) string {
	content := lipgloss.JoinVertical(lipgloss.Left, parts...)
	content = lipgloss.JoinVertical(lipgloss.Left, content, "", m.statusbar.View())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) viewSelectConnection() string {
	parts := m.banner()
	parts = append(parts, theme.StyleHeader.Render("Conexiones guardadas"))

	for i, conn := range m.cfg.Connections {
		label := fmt.Sprintf("%s (%s)", conn.Name, conn.DisplayString())
		if i == m.connCursor {
			parts = append(parts, theme.StyleSelected.Render("> "+label))
		} else {
			parts = append(parts, "  "+label)
		}
	}

	newLabel := "[Nueva conexión]"
	if m.connCursor == len(m.cfg.Connections) {
		parts = append(parts, "", theme.StyleSelected.Render("> "+newLabel))
	} else {
		parts = append(parts, "", "  "+newLabel)
	}

	if line := m.errorLine(); line != "" {
		parts = append(parts, "", line)
	}
	parts = append(parts, "", theme.StyleMuted.Render("↑/↓ move · Enter connect · n new · q quit"))
	return m.center(parts...)
}

func (m Model) viewConnect() string {
	parts := m.banner()

	for i, in := range m.form.inputs {
		label := fmt.Sprintf("%-9s", fieldLabels[i])
		if i == m.form.focus {
			label = lipgloss.NewStyle().Foreground(theme.ColorAccent).Bold(true).Render(label)
		} else {
			label = theme.StyleMuted.Render(label)
		}
		parts = append(parts, label+" "+in.View())
	}

	if line := m.errorLine(); line != "" {
		parts = append(parts, "", line)
	}

	hint := "Tab next field · Enter connect · Ctrl+C quit"
	if len(m.cfg.Connections) > 0 {
		hint = "Esc back · " + hint
	}
	parts = append(parts, "", theme.StyleMuted.Render(hint))
	return m.center(parts...)
}

func (m Model) viewMain() string {
	border := func(p Pane) lipgloss.Style {
		if m.activePane == p {
			return theme.StyleActiveBorder
		}
		return theme.StyleBorder
	}

	avail := m.height - 1
	explorerWidth := min(max(m.width/4, 24), 38)
	rightWidth := m.width - explorerWidth
	editorHeight := max(avail*35/100, 6)
	resultsHeight := avail - editorHeight

	explorerView := border(PaneExplorer).
		Width(explorerWidth - 2).
		Height(avail - 2).
		Render(m.explorer.View())

	editorView := border(PaneEditor).
		Width(rightWidth - 2).
		Height(editorHeight - 2).
		Render(m.editor.View())

	resultsView := border(PaneResults).
		Width(rightWidth - 2).
		Height(resultsHeight - 2).
		Render(m.results.View())

	main := lipgloss.JoinHorizontal(lipgloss.Top,
		explorerView,
		lipgloss.JoinVertical(lipgloss.Left, editorView, resultsView),
	)

	if m.prompt.active() {
		box := theme.StylePrompt.Render(m.prompt.input.View() + "\n" +
			theme.StyleMuted.Render("Enter confirm · Esc cancel"))
		main = lipgloss.Place(m.width, avail, lipgloss.Center, lipgloss.Center, box,
			lipgloss.WithWhitespaceChars(" "))
	}

	return lipgloss.JoinVertical(lipgloss.Left, main, m.statusbar.View())
}

type helpEntry struct {
	keys string
	desc string
}

var helpSections = []struct {
	title   string
	entries []helpEntry
}{
	{"Global", []helpEntry{
		{"q / Ctrl+C", "Quit"},
		{"Tab / Shift+Tab", "Switch pane"},
		{"Ctrl+D", "Disconnect"},
		{"?", "Toggle this help"},
	}},
	{"Explorer", []helpEntry{
		{"↑/k ↓/j", "Move"},
		{"Enter/→", "Run report, expand table"},
		{"←", "Collapse"},
		{"s", "Schema of selected table"},
		{"b", "Browse selected table"},
		{"r", "Refresh tables"},
	}},
	{"Editor", []helpEntry{
		{"Ctrl+E / F5", "Run statement"},
		{"Ctrl+K", "Clear"},
		{"Tab", "Complete table name"},
	}},
	{"Results", []helpEntry{
		{"↑↓←→ / hjkl", "Move cursor"},
		{"[ ]", "Previous / next page"},
		{"{ }", "First / last page"},
		{"z", "Set rows per page"},
		{"e / E", "Export page / all rows to CSV"},
		{"y / Y", "Copy cell / row as CSV"},
	}},
}

func (m Model) viewHelp() string {
	keyStyle := lipgloss.NewStyle().Foreground(theme.ColorText).Width(18)

	lines := []string{
		lipgloss.NewStyle().Foreground(theme.ColorPrimary).Bold(true).Render("perruls · keys"),
	}
	for _, sec := range helpSections {
		lines = append(lines, "", theme.StyleHeader.Render(sec.title))
		for _, e := range sec.entries {
			lines = append(lines, "  "+keyStyle.Render(e.keys)+theme.StyleMuted.Render(e.desc))
		}
	}
	lines = append(lines, "", theme.StyleMuted.Render("Press any key to close"))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		strings.Join(lines, "\n"))
}
