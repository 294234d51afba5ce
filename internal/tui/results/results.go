// Package results renders the current page of the session's result store
// and drives its pager.
package results

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joacominatel/perruls/internal/database"
	"github.com/joacominatel/perruls/internal/resultset"
	"github.com/joacominatel/perruls/internal/tui/theme"
)

const maxColWidth = 40

// Model is the results component. It reads and pages the store it was
// created with; it must only be used from the program's update loop.
type Model struct {
	store   *resultset.Store
	title   string
	err     error
	width   int
	height  int
	focused bool
	loading bool

	cursorY   int
	cursorX   int
	colOffset int
}

// New creates a results pane over store.
func New(store *resultset.Store) Model {
	return Model{store: store, title: "Results"}
}

// SetSize updates the component dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// SetFocused sets the focus state.
func (m *Model) SetFocused(f bool) {
	m.focused = f
}

// SetLoading shows the executing placeholder.
func (m *Model) SetLoading(l bool) {
	m.loading = l
}

// Loading reports whether the executing placeholder is shown.
func (m Model) Loading() bool {
	return m.loading
}

// ShowResult is called after the store received a new result. title labels
// where it came from.
func (m *Model) ShowResult(title string) {
	m.title = title
	m.err = nil
	m.loading = false
	m.resetCursor()
}

// SetError shows err in place of the grid. The held result is kept and
// reappears on the next page move.
func (m *Model) SetError(err error) {
	m.err = err
	m.loading = false
}

// Reset clears the pane after a disconnect.
func (m *Model) Reset() {
	m.title = "Results"
	m.err = nil
	m.loading = false
	m.resetCursor()
}

func (m *Model) resetCursor() {
	m.cursorY = 0
	m.cursorX = 0
	m.colOffset = 0
}

// Summary returns the pager label, or "" when nothing is held.
func (m Model) Summary() string {
	if m.store.Result() == nil {
		return ""
	}
	return m.store.View().Summary()
}

// Update handles messages for the results pane.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.focused {
		return m, nil
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	view := m.store.View()
	switch key.String() {
	case "up", "k":
		if m.cursorY > 0 {
			m.cursorY--
		}
	case "down", "j":
		if m.cursorY < len(view.Rows)-1 {
			m.cursorY++
		}
	case "left", "h":
		if m.cursorX > 0 {
			m.cursorX--
		}
		if m.cursorX < m.colOffset {
			m.colOffset = m.cursorX
		}
	case "right", "l":
		if m.cursorX < len(view.Columns)-1 {
			m.cursorX++
		}
	case "]":
		m.movePage(m.store.Next)
	case "[":
		m.movePage(m.store.Prev)
	case "{":
		m.movePage(m.store.First)
	case "}":
		m.movePage(m.store.Last)
	case "z":
		return m, func() tea.Msg { return PageSizeRequestMsg{} }
	case "e":
		return m, requestExport(scopePage)
	case "E":
		return m, requestExport(scopeAll)
	case "y":
		return m, m.copyCell()
	case "Y":
		return m, m.copyRow()
	}
	return m, nil
}

func (m *Model) movePage(move func() bool) {
	m.err = nil
	if move() {
		m.cursorY = 0
	}
}

// View renders the results pane.
func (m Model) View() string {
	title := theme.StyleTitle.Render(m.title)

	switch {
	case m.loading:
		return title + "\n" + theme.StyleMuted.Render("  Executing...")
	case m.err != nil:
		return title + "\n" + theme.StyleError.Render("  "+m.err.Error())
	case m.store.Result() == nil:
		return title + "\n" + theme.StyleMuted.Render("  Run a query to see results")
	}

	result := m.store.Result()
	view := m.store.View()
	stats := fmt.Sprintf("%s · %s", view.Summary(), result.Duration.Round(time.Millisecond))
	header := title + " " + theme.StyleMuted.Render(stats)

	if len(view.Columns) == 0 {
		return header + "\n" + theme.StyleSuccess.Render("  Statement executed")
	}

	cells := make([][]string, len(view.Rows))
	for i, r := range view.Rows {
		cells[i] = make([]string, len(view.Columns))
		for j := range view.Columns {
			if j < len(r) {
				cells[i][j] = database.FormatValue(r[j])
			}
		}
	}
	widths := columnWidths(view.Columns, cells)
	first, last := m.visibleColumns(widths)

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(renderLine(view.Columns, widths, first, last, func(_ int, s string) string {
		return theme.StyleHeader.Render(s)
	}))
	b.WriteString("\n")
	b.WriteString(renderSeparator(widths, first, last))

	visible := max(m.height-4, 1)
	offset := 0
	if m.cursorY >= visible {
		offset = m.cursorY - visible + 1
	}
	for i := offset; i < len(cells) && i < offset+visible; i++ {
		rowIdx := i
		b.WriteString("\n")
		b.WriteString(renderLine(cells[i], widths, first, last, func(col int, s string) string {
			switch {
			case m.focused && rowIdx == m.cursorY && col == m.cursorX:
				return theme.StyleSelected.Render(s)
			case col < len(view.Rows[rowIdx]) && view.Rows[rowIdx][col] == nil:
				return theme.StyleNull.Render(s)
			}
			return s
		}))
	}
	return b.String()
}

// visibleColumns returns the half-open range of columns that fit the pane
// while keeping the cursor column in view.
func (m *Model) visibleColumns(widths []int) (int, int) {
	if m.cursorX < m.colOffset {
		m.colOffset = m.cursorX
	}
	for {
		used := 2
		last := m.colOffset
		for last < len(widths) && (last == m.colOffset || used+widths[last]+3 <= m.width) {
			used += widths[last] + 3
			last++
		}
		if m.cursorX < last || m.colOffset >= m.cursorX {
			return m.colOffset, last
		}
		m.colOffset++
	}
}

func columnWidths(columns []string, cells [][]string) []int {
	widths := make([]int, len(columns))
	for i, c := range columns {
		widths[i] = lipgloss.Width(c)
	}
	for _, r := range cells {
		for i, c := range r {
			widths[i] = max(widths[i], lipgloss.Width(c))
		}
	}
	for i := range widths {
		widths[i] = min(max(widths[i], 1), maxColWidth)
	}
	return widths
}

func renderLine(cells []string, widths []int, first, last int, style func(int, string) string) string {
	parts := make([]string, 0, last-first)
	for i := first; i < last; i++ {
		parts = append(parts, style(i, fit(cells[i], widths[i])))
	}
	return "  " + strings.Join(parts, " │ ")
}

func renderSeparator(widths []int, first, last int) string {
	parts := make([]string, 0, last-first)
	for i := first; i < last; i++ {
		parts = append(parts, strings.Repeat("─", widths[i]))
	}
	return "  " + lipgloss.NewStyle().Foreground(theme.ColorBorder).Render(strings.Join(parts, "─┼─"))
}

// fit pads or truncates s to exactly width display cells.
func fit(s string, width int) string {
	if w := lipgloss.Width(s); w <= width {
		return s + strings.Repeat(" ", width-w)
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	out := string(runes) + "…"
	return out + strings.Repeat(" ", max(width-lipgloss.Width(out), 0))
}
