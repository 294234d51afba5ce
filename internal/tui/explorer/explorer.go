// Package explorer is the left pane: the canned reports and the tables of
// the connected database.
package explorer

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joacominatel/perruls/internal/reports"
	"github.com/joacominatel/perruls/internal/tui/theme"
)

// NodeKind identifies the type of a tree node.
type NodeKind int

const (
	NodeSection NodeKind = iota
	NodeReport
	NodeTable
	NodeColumn
)

// Column is a column shown under an expanded table.
type Column struct {
	Name     string
	DataType string
	Nullable bool
}

// RunReportMsg asks the app to run a canned report.
type RunReportMsg struct {
	Report reports.Report
}

// RequestColumnsMsg asks the app to load the columns of an expanded table.
type RequestColumnsMsg struct {
	Table string
}

type node struct {
	kind     NodeKind
	name     string
	report   reports.Report
	column   Column
	children []*node
	expanded bool
	loaded   bool
}

type row struct {
	node  *node
	depth int
}

// Model is the explorer component.
type Model struct {
	reports *node
	tables  *node
	rows    []row
	cursor  int
	height  int
	width   int
	focused bool
	loading bool
}

// New creates an explorer listing the given reports.
func New(quick []reports.Report) Model {
	sec := &node{kind: NodeSection, name: "Reportes", expanded: true}
	for _, r := range quick {
		sec.children = append(sec.children, &node{kind: NodeReport, name: r.Title, report: r})
	}
	m := Model{
		reports: sec,
		tables:  &node{kind: NodeSection, name: "Tablas", expanded: true},
	}
	m.flatten()
	return m
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

// SetLoading marks the table list as being fetched.
func (m *Model) SetLoading(l bool) {
	m.loading = l
}

// SetTables replaces the table list. Expanded tables that are still present
// keep their columns.
func (m *Model) SetTables(names []string) {
	prev := make(map[string]*node, len(m.tables.children))
	for _, t := range m.tables.children {
		prev[t.name] = t
	}

	m.tables.children = m.tables.children[:0]
	for _, name := range names {
		if old, ok := prev[name]; ok {
			m.tables.children = append(m.tables.children, old)
			continue
		}
		m.tables.children = append(m.tables.children, &node{kind: NodeTable, name: name})
	}
	m.loading = false
	m.flatten()
}

// Reset drops the table list, e.g. after a disconnect.
func (m *Model) Reset() {
	m.tables.children = nil
	m.loading = false
	m.cursor = 0
	m.flatten()
}

// SetColumns attaches columns to a table node.
func (m *Model) SetColumns(table string, columns []Column) {
	for _, t := range m.tables.children {
		if t.name != table {
			continue
		}
		t.children = t.children[:0]
		for _, c := range columns {
			t.children = append(t.children, &node{kind: NodeColumn, name: c.Name, column: c})
		}
		t.loaded = true
		break
	}
	m.flatten()
}

// SelectedTable returns the table under the cursor, or the table owning the
// column under the cursor.
func (m Model) SelectedTable() (string, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return "", false
	}
	n := m.rows[m.cursor].node
	switch n.kind {
	case NodeTable:
		return n.name, true
	case NodeColumn:
		for i := m.cursor; i >= 0; i-- {
			if m.rows[i].node.kind == NodeTable {
				return m.rows[i].node.name, true
			}
		}
	}
	return "", false
}

func (m *Model) flatten() {
	m.rows = m.rows[:0]
	m.walk(m.reports, 0)
	m.walk(m.tables, 0)
	if m.cursor >= len(m.rows) {
		m.cursor = max(len(m.rows)-1, 0)
	}
}

func (m *Model) walk(n *node, depth int) {
	m.rows = append(m.rows, row{node: n, depth: depth})
	if !n.expanded {
		return
	}
	for _, c := range n.children {
		m.walk(c, depth+1)
	}
}

// Update handles messages for the explorer.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.focused {
		return m, nil
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = max(len(m.rows)-1, 0)
	case "enter", "right", "l":
		return m, m.activate()
	case "left", "h":
		m.collapse()
	}
	return m, nil
}

func (m *Model) activate() tea.Cmd {
	if m.cursor >= len(m.rows) {
		return nil
	}
	n := m.rows[m.cursor].node

	switch n.kind {
	case NodeReport:
		rep := n.report
		return func() tea.Msg { return RunReportMsg{Report: rep} }
	case NodeColumn:
		return nil
	}

	n.expanded = !n.expanded
	m.flatten()

	if n.kind == NodeTable && n.expanded && !n.loaded {
		table := n.name
		return func() tea.Msg { return RequestColumnsMsg{Table: table} }
	}
	return nil
}

func (m *Model) collapse() {
	if m.cursor >= len(m.rows) {
		return
	}
	if n := m.rows[m.cursor].node; n.expanded {
		n.expanded = false
		m.flatten()
	}
}

// View renders the explorer.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(theme.StyleTitle.Render("Explorer"))

	visible := max(m.height-2, 1)
	offset := 0
	if m.cursor >= visible {
		offset = m.cursor - visible + 1
	}

	for i := offset; i < len(m.rows) && i < offset+visible; i++ {
		b.WriteString("\n")
		b.WriteString(m.renderRow(m.rows[i], i == m.cursor))
	}
	if m.loading {
		b.WriteString("\n")
		b.WriteString(theme.StyleMuted.Render("  loading tables..."))
	}
	return b.String()
}

func (m Model) renderRow(r row, selected bool) string {
	n := r.node
	indent := strings.Repeat("  ", r.depth)

	var icon, label string
	switch n.kind {
	case NodeSection:
		icon = "▸ "
		if n.expanded {
			icon = "▾ "
		}
		label = theme.StyleHeader.Render(n.name)
	case NodeReport:
		icon = "» "
		label = n.name
	case NodeTable:
		icon = "+ "
		if n.expanded {
			icon = "- "
		}
		label = n.name
	case NodeColumn:
		icon = "  "
		label = n.name + " " + theme.StyleMuted.Render(n.column.DataType)
		if !n.column.Nullable {
			label += theme.StyleMuted.Render(" not null")
		}
	}

	line := indent + icon + label
	if m.width > 4 && lipgloss.Width(line) > m.width-2 {
		line = truncate(indent+icon+n.name, m.width-3) + "…"
	}
	if selected && m.focused {
		return theme.StyleSelected.Render(line)
	}
	return line
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:max(width, 0)])
}
