// Package editor is the SQL entry pane.
package editor

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joacominatel/perruls/internal/tui/theme"
)

// ExecuteQueryMsg is sent when the user runs the editor content.
type ExecuteQueryMsg struct {
	Query string
}

// Keywords after which a table name is expected.
var tableKeywords = map[string]bool{
	"from":   true,
	"join":   true,
	"into":   true,
	"update": true,
	"table":  true,
}

// Model is the SQL editor component.
type Model struct {
	textarea textarea.Model
	focused  bool

	tables     []string
	candidates []string
	candidate  int
}

// New creates a new editor model.
func New() Model {
	ta := textarea.New()
	ta.Placeholder = "SELECT * FROM mascota"
	ta.ShowLineNumbers = true
	ta.CharLimit = 0
	ta.Prompt = " "
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Placeholder = theme.StyleMuted
	ta.BlurredStyle.Placeholder = theme.StyleMuted
	ta.FocusedStyle.LineNumber = lipgloss.NewStyle().Foreground(theme.ColorPrimary)
	ta.BlurredStyle.LineNumber = lipgloss.NewStyle().Foreground(theme.ColorBorder)

	return Model{textarea: ta}
}

// SetSize updates the component dimensions.
func (m *Model) SetSize(w, h int) {
	m.textarea.SetWidth(max(w-2, 1))
	m.textarea.SetHeight(max(h-2, 1))
}

// SetFocused sets the focus state.
func (m *Model) SetFocused(f bool) {
	m.focused = f
	if f {
		m.textarea.Focus()
	} else {
		m.textarea.Blur()
	}
}

// Value returns the current editor content.
func (m Model) Value() string {
	return m.textarea.Value()
}

// SetQuery replaces the editor content.
func (m *Model) SetQuery(query string) {
	m.textarea.SetValue(query)
	m.candidates = nil
}

// SetTableNames sets the names offered by Tab completion.
func (m *Model) SetTableNames(names []string) {
	m.tables = names
}

// Completing reports whether Tab is cycling through candidates.
func (m Model) Completing() bool {
	return len(m.candidates) > 0
}

// CanComplete reports whether Tab would complete a table name.
func (m Model) CanComplete() bool {
	return m.Completing() || len(Complete(m.textarea.Value(), m.tables)) > 0
}

// Update handles messages for the editor.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.focused {
		return m, nil
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+e", "f5":
			query := strings.TrimSpace(m.textarea.Value())
			m.candidates = nil
			if query == "" {
				return m, nil
			}
			return m, func() tea.Msg { return ExecuteQueryMsg{Query: query} }

		case "ctrl+k":
			m.textarea.Reset()
			m.candidates = nil
			return m, nil

		case "tab":
			if m.complete() {
				return m, nil
			}

		case "esc":
			if m.Completing() {
				m.candidates = nil
				return m, nil
			}

		default:
			m.candidates = nil
		}
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

// complete replaces the word before the end of the text with the next
// matching table name. It reports whether anything was completed.
func (m *Model) complete() bool {
	val := m.textarea.Value()

	if m.Completing() {
		m.candidate = (m.candidate + 1) % len(m.candidates)
	} else {
		m.candidates = Complete(val, m.tables)
		m.candidate = 0
		if len(m.candidates) == 0 {
			return false
		}
	}

	_, word := splitLastWord(val)
	base := strings.TrimSuffix(val, word)
	m.textarea.SetValue(base + m.candidates[m.candidate])
	return true
}

// Complete returns the table names that extend the last word of text when
// that word follows FROM, JOIN, INTO, UPDATE or TABLE. Matching ignores case.
func Complete(text string, tables []string) []string {
	before, word := splitLastWord(text)
	if word == "" {
		return nil
	}
	fields := strings.Fields(before)
	if len(fields) == 0 || !tableKeywords[strings.ToLower(fields[len(fields)-1])] {
		return nil
	}

	prefix := strings.ToLower(word)
	var out []string
	for _, t := range tables {
		if strings.HasPrefix(strings.ToLower(t), prefix) {
			out = append(out, t)
		}
	}
	return out
}

// splitLastWord splits text into everything before the trailing identifier
// and the identifier itself. Text ending in whitespace has no last word.
func splitLastWord(text string) (string, string) {
	i := len(text)
	for i > 0 && isIdentByte(text[i-1]) {
		i--
	}
	return text[:i], text[i:]
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '.' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// View renders the editor.
func (m Model) View() string {
	title := theme.StyleTitle.Render("SQL")
	hint := theme.StyleMuted.Render("Ctrl+E run · Ctrl+K clear · Tab complete")

	var completion string
	if len(m.candidates) > 1 {
		parts := make([]string, len(m.candidates))
		for i, c := range m.candidates {
			if i == m.candidate {
				parts[i] = lipgloss.NewStyle().Foreground(theme.ColorHighlight).Bold(true).Render(c)
			} else {
				parts[i] = theme.StyleMuted.Render(c)
			}
		}
		completion = "\n " + strings.Join(parts, " │ ")
	}

	return title + " " + hint + "\n" + m.textarea.View() + completion
}
