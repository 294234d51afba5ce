package tui

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/joacominatel/perruls/internal/export"
	"github.com/joacominatel/perruls/internal/resultset"
)

type promptKind int

const (
	promptNone promptKind = iota
	promptPageSize
	promptExport
)

// prompt is the one-line modal input used for the page size and the export
// file name. While it is open every key goes to it.
type prompt struct {
	kind  promptKind
	scope export.Scope
	input textinput.Model
}

func (p prompt) active() bool {
	return p.kind != promptNone
}

func (p *prompt) open(kind promptKind, label, value string) tea.Cmd {
	ti := textinput.New()
	ti.Prompt = label + ": "
	ti.CharLimit = 512
	ti.Width = 50
	ti.SetValue(value)
	ti.CursorEnd()
	ti.Focus()
	p.kind = kind
	p.input = ti
	return textinput.Blink
}

func (p *prompt) openPageSize(current int) tea.Cmd {
	return p.open(promptPageSize, "Rows per page", strconv.Itoa(current))
}

func (p *prompt) openExport(scope export.Scope, now time.Time) tea.Cmd {
	p.scope = scope
	label := "Export page to"
	if scope == export.ScopeAll {
		label = "Export all rows to"
	}
	return p.open(promptExport, label, export.DefaultFilename(scope, now))
}

func (p *prompt) close() {
	p.kind = promptNone
	p.input.Blur()
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.prompt.close()
		return m, nil

	case "enter":
		value := strings.TrimSpace(m.prompt.input.Value())
		kind, scope := m.prompt.kind, m.prompt.scope
		m.prompt.close()

		switch kind {
		case promptPageSize:
			size := resultset.ParsePageSize(value)
			m.service.Results().SetPageSize(size)
			m.cfg.Preferences.PageSize = size
			m.statusbar.SetPager(m.results.Summary())
			m.statusbar.SetMessage("Page size set to " + strconv.Itoa(size))
			return m, nil
		case promptExport:
			if value == "" {
				value = export.DefaultFilename(scope, timeNow())
			}
			m.statusbar.SetMessage("Exporting...")
			return m, m.exportCmd(scope, value)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.prompt.input, cmd = m.prompt.input.Update(msg)
	return m, cmd
}
