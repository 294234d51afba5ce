package explorer

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joacominatel/perruls/internal/reports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newExplorer() Model {
	m := New([]reports.Report{reports.CriticalFoodStock})
	m.SetFocused(true)
	m.SetTables([]string{"mascota", "vacuna"})
	return m
}

// moveTo puts the cursor on the row whose node has the given name.
func moveTo(t *testing.T, m Model, name string) Model {
	t.Helper()
	for i, r := range m.rows {
		if r.node.name == name {
			m.cursor = i
			return m
		}
	}
	t.Fatalf("no row named %q", name)
	return m
}

func TestLayout(t *testing.T) {
	m := newExplorer()

	names := make([]string, len(m.rows))
	for i, r := range m.rows {
		names[i] = r.node.name
	}
	assert.Equal(t, []string{"Reportes", reports.CriticalFoodStock.Title, "Tablas", "mascota", "vacuna"}, names)
}

func TestEnterOnReport(t *testing.T) {
	m := moveTo(t, newExplorer(), reports.CriticalFoodStock.Title)

	_, cmd := m.Update(key("enter"))
	require.NotNil(t, cmd)
	assert.Equal(t, RunReportMsg{Report: reports.CriticalFoodStock}, cmd())
}

func TestExpandTableRequestsColumnsOnce(t *testing.T) {
	m := moveTo(t, newExplorer(), "mascota")

	m, cmd := m.Update(key("enter"))
	require.NotNil(t, cmd)
	assert.Equal(t, RequestColumnsMsg{Table: "mascota"}, cmd())

	m.SetColumns("mascota", []Column{{Name: "chip_id", DataType: "character varying"}, {Name: "raza", DataType: "text", Nullable: true}})
	assert.Len(t, m.rows, 7)

	// collapse and re-expand: columns are cached
	m, _ = m.Update(key("left"))
	assert.Len(t, m.rows, 5)
	m, cmd = m.Update(key("enter"))
	assert.Nil(t, cmd)
	assert.Len(t, m.rows, 7)
}

func TestSelectedTable(t *testing.T) {
	m := moveTo(t, newExplorer(), "mascota")
	m, _ = m.Update(key("enter"))
	m.SetColumns("mascota", []Column{{Name: "chip_id"}})

	m = moveTo(t, m, "chip_id")
	table, ok := m.SelectedTable()
	require.True(t, ok)
	assert.Equal(t, "mascota", table)

	m = moveTo(t, m, "Reportes")
	_, ok = m.SelectedTable()
	assert.False(t, ok)
}

func TestSetTablesKeepsExpandedColumns(t *testing.T) {
	m := moveTo(t, newExplorer(), "vacuna")
	m, _ = m.Update(key("enter"))
	m.SetColumns("vacuna", []Column{{Name: "id_vacuna"}})

	m.SetTables([]string{"sucursal", "vacuna"})

	names := make([]string, 0, len(m.rows))
	for _, r := range m.rows {
		names = append(names, r.node.name)
	}
	assert.Equal(t, []string{"Reportes", reports.CriticalFoodStock.Title, "Tablas", "sucursal", "vacuna", "id_vacuna"}, names)
}

func TestReset(t *testing.T) {
	m := newExplorer()
	m.cursor = 4
	m.Reset()

	assert.Len(t, m.rows, 3)
	assert.Equal(t, 0, m.cursor)
}

func TestIgnoredWhenBlurred(t *testing.T) {
	m := newExplorer()
	m.SetFocused(false)

	m2, cmd := m.Update(key("down"))
	assert.Nil(t, cmd)
	assert.Equal(t, m.cursor, m2.cursor)
}
