package editor

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tables = []string{"inventario", "mascota", "medicamento", "sucursal", "vacuna"}

func TestComplete(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"after from", "SELECT * FROM ma", []string{"mascota"}},
		{"case insensitive", "select * from M", []string{"mascota", "medicamento"}},
		{"after join", "SELECT * FROM mascota m JOIN va", []string{"vacuna"}},
		{"after into", "INSERT INTO in", []string{"inventario"}},
		{"not a table position", "SELECT ma", nil},
		{"trailing space", "SELECT * FROM ", nil},
		{"no match", "SELECT * FROM zz", nil},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Complete(tt.text, tables))
		})
	}
}

func TestSplitLastWord(t *testing.T) {
	before, word := splitLastWord("SELECT * FROM public.mas")
	assert.Equal(t, "SELECT * FROM ", before)
	assert.Equal(t, "public.mas", word)

	before, word = splitLastWord("x ")
	assert.Equal(t, "x ", before)
	assert.Empty(t, word)
}

func TestUpdate_TabCyclesCandidates(t *testing.T) {
	m := New()
	m.SetFocused(true)
	m.SetTableNames(tables)
	m.SetQuery("SELECT * FROM m")

	tab := tea.KeyMsg{Type: tea.KeyTab}

	m, _ = m.Update(tab)
	assert.Equal(t, "SELECT * FROM mascota", m.Value())
	assert.True(t, m.Completing())

	m, _ = m.Update(tab)
	assert.Equal(t, "SELECT * FROM medicamento", m.Value())

	m, _ = m.Update(tab)
	assert.Equal(t, "SELECT * FROM mascota", m.Value())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.Completing())
}

func TestUpdate_Execute(t *testing.T) {
	m := New()
	m.SetFocused(true)
	m.SetQuery("  SELECT 1  ")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlE})
	require.NotNil(t, cmd)
	assert.Equal(t, ExecuteQueryMsg{Query: "SELECT 1"}, cmd())
}

func TestUpdate_ExecuteEmptyIsNoop(t *testing.T) {
	m := New()
	m.SetFocused(true)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlE})
	assert.Nil(t, cmd)
}

func TestUpdate_Clear(t *testing.T) {
	m := New()
	m.SetFocused(true)
	m.SetQuery("SELECT 1")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlK})
	assert.Empty(t, m.Value())
}

func TestUpdate_IgnoredWhenBlurred(t *testing.T) {
	m := New()
	m.SetQuery("SELECT 1")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlE})
	assert.Nil(t, cmd)
}
