package results

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joacominatel/perruls/internal/database"
	"github.com/joacominatel/perruls/internal/export"
	"github.com/joacominatel/perruls/internal/resultset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// newPane holds five pets paged two at a time.
func newPane(t *testing.T) (Model, *resultset.Store) {
	t.Helper()
	store := resultset.New(2)
	store.SetResult(&database.QueryResult{
		Columns: []string{"chip_id", "nombre_mascota"},
		Rows: [][]any{
			{"A1", "Firulais"},
			{"B2", nil},
			{"C3", "Luna"},
			{"D4", "Toby"},
			{"E5", "Manchas"},
		},
		RowCount: 5,
	})
	m := New(store)
	m.SetSize(80, 20)
	m.SetFocused(true)
	m.ShowResult("Results")
	return m, store
}

func stubClipboard(t *testing.T, err error) *string {
	t.Helper()
	var got string
	prev := writeClipboard
	writeClipboard = func(s string) error {
		got = s
		return err
	}
	t.Cleanup(func() { writeClipboard = prev })
	return &got
}

func TestPagerKeys(t *testing.T) {
	m, store := newPane(t)

	tests := []struct {
		key  string
		page int
	}{
		{"]", 2},
		{"]", 3},
		{"]", 3},
		{"[", 2},
		{"}", 3},
		{"{", 1},
		{"[", 1},
	}
	for _, tt := range tests {
		m, _ = m.Update(runes(tt.key))
		assert.Equal(t, tt.page, store.CurrentPage(), "after %q", tt.key)
	}
	assert.Equal(t, "Page 1 of 3 · 5 rows", m.Summary())
}

func TestPageMoveResetsRowCursor(t *testing.T) {
	m, _ := newPane(t)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.cursorY)

	m, _ = m.Update(runes("]"))
	assert.Equal(t, 0, m.cursorY)
}

func TestRequests(t *testing.T) {
	m, _ := newPane(t)

	tests := []struct {
		key  string
		want tea.Msg
	}{
		{"z", PageSizeRequestMsg{}},
		{"e", ExportRequestMsg{Scope: export.ScopePage}},
		{"E", ExportRequestMsg{Scope: export.ScopeAll}},
	}
	for _, tt := range tests {
		_, cmd := m.Update(runes(tt.key))
		require.NotNil(t, cmd, tt.key)
		assert.Equal(t, tt.want, cmd())
	}
}

func TestCopyCell(t *testing.T) {
	got := stubClipboard(t, nil)
	m, _ := newPane(t)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	_, cmd := m.Update(runes("y"))
	require.NotNil(t, cmd)

	assert.Equal(t, NoticeMsg{Text: "Copied: Firulais"}, cmd())
	assert.Equal(t, "Firulais", *got)
}

func TestCopyCell_NullCopiesEmpty(t *testing.T) {
	got := stubClipboard(t, nil)
	m, _ := newPane(t)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	_, cmd := m.Update(runes("y"))
	cmd()

	assert.Empty(t, *got)
}

func TestCopyRowAsCSV(t *testing.T) {
	got := stubClipboard(t, nil)
	m, _ := newPane(t)

	m, _ = m.Update(runes("]"))
	_, cmd := m.Update(runes("Y"))
	assert.Equal(t, NoticeMsg{Text: "Copied row as CSV"}, cmd())
	assert.Equal(t, "chip_id,nombre_mascota\nC3,Luna\n", *got)
}

func TestCopyFailure(t *testing.T) {
	stubClipboard(t, errors.New("no display"))
	m, _ := newPane(t)

	_, cmd := m.Update(runes("y"))
	assert.Equal(t, NoticeMsg{Text: "Copy failed: no display", Err: true}, cmd())
}

func TestView(t *testing.T) {
	m, _ := newPane(t)

	out := m.View()
	assert.Contains(t, out, "chip_id")
	assert.Contains(t, out, "Firulais")
	assert.Contains(t, out, "NULL")
	assert.Contains(t, out, "Page 1 of 3 · 5 rows")
	assert.NotContains(t, out, "Luna")

	m.SetError(errors.New(`relation "x" does not exist`))
	assert.Contains(t, m.View(), `relation "x" does not exist`)

	// paging clears the error and the held result shows again
	m, _ = m.Update(runes("]"))
	assert.Contains(t, m.View(), "Luna")
}

func TestView_Empty(t *testing.T) {
	m := New(resultset.New(10))
	assert.Contains(t, m.View(), "Run a query")
	assert.Empty(t, m.Summary())
}

func TestFit(t *testing.T) {
	assert.Equal(t, "ab  ", fit("ab", 4))
	assert.Equal(t, "abc…", fit("abcdef", 4))
	assert.Equal(t, "…", fit("abcdef", 1))
}
