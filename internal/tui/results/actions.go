package results

import (
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/joacominatel/perruls/internal/database"
	"github.com/joacominatel/perruls/internal/export"
)

const (
	scopePage = export.ScopePage
	scopeAll  = export.ScopeAll
)

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteAll

func requestExport(scope export.Scope) tea.Cmd {
	return func() tea.Msg { return ExportRequestMsg{Scope: scope} }
}

func notice(text string, isErr bool) tea.Cmd {
	return func() tea.Msg { return NoticeMsg{Text: text, Err: isErr} }
}

// selectedRow returns the row under the cursor on the current page.
func (m Model) selectedRow() ([]any, bool) {
	view := m.store.View()
	if m.cursorY < 0 || m.cursorY >= len(view.Rows) {
		return nil, false
	}
	return view.Rows[m.cursorY], true
}

func (m Model) copyCell() tea.Cmd {
	row, ok := m.selectedRow()
	if !ok || m.cursorX >= len(row) {
		return notice("Nothing to copy", false)
	}
	val := database.TextValue(row[m.cursorX])
	if err := writeClipboard(val); err != nil {
		return notice("Copy failed: "+err.Error(), true)
	}
	return notice("Copied: "+truncateStatus(val, 40), false)
}

// copyRow copies the header and the selected row as two CSV lines.
func (m Model) copyRow() tea.Cmd {
	row, ok := m.selectedRow()
	if !ok {
		return notice("No row to copy", false)
	}
	var b strings.Builder
	if err := export.Write(&b, m.store.Columns(), [][]any{row}); err != nil {
		return notice("Copy failed: "+err.Error(), true)
	}
	if err := writeClipboard(b.String()); err != nil {
		return notice("Copy failed: "+err.Error(), true)
	}
	return notice("Copied row as CSV", false)
}

func truncateStatus(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
