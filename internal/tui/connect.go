package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/joacominatel/perruls/internal/database"
)

const (
	fieldHost = iota
	fieldPort
	fieldDatabase
	fieldUser
	fieldPassword
	fieldCount
)

var fieldLabels = [fieldCount]string{"Host", "Port", "Database", "User", "Password"}

// connectForm is the manual connection screen.
type connectForm struct {
	inputs  [fieldCount]textinput.Model
	focus   int
	sslMode string
}

func newConnectForm(p database.ConnParams) connectForm {
	values := [fieldCount]string{p.Host, "", p.Database, p.User, p.Password}
	if p.Port > 0 {
		values[fieldPort] = strconv.Itoa(p.Port)
	}
	placeholders := [fieldCount]string{"localhost", "5432", "perruls", "perruls", ""}

	var f connectForm
	for i := range f.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 256
		ti.Width = 40
		ti.SetValue(values[i])
		f.inputs[i] = ti
	}
	f.inputs[fieldPassword].EchoMode = textinput.EchoPassword
	f.inputs[fieldPassword].EchoCharacter = '•'
	f.inputs[fieldHost].Focus()
	f.sslMode = p.SSLMode
	return f
}

func (f *connectForm) setWidth(w int) {
	for i := range f.inputs {
		f.inputs[i].Width = max(w-12, 10)
	}
}

func (f connectForm) focusCmd() tea.Cmd {
	return textinput.Blink
}

func (f *connectForm) move(step int) {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + step + fieldCount) % fieldCount
	f.inputs[f.focus].Focus()
}

// params reads the form. Empty fields fall back to the placeholders.
func (f connectForm) params() (database.ConnParams, error) {
	get := func(i int) string {
		if v := strings.TrimSpace(f.inputs[i].Value()); v != "" {
			return v
		}
		return f.inputs[i].Placeholder
	}

	port, err := database.ParsePort(strings.TrimSpace(f.inputs[fieldPort].Value()))
	if err != nil {
		return database.ConnParams{}, err
	}
	p := database.ConnParams{
		Host:     get(fieldHost),
		Port:     port,
		Database: get(fieldDatabase),
		User:     get(fieldUser),
		Password: f.inputs[fieldPassword].Value(),
		SSLMode:  f.sslMode,
	}
	return p, p.Validate()
}

func (f connectForm) update(msg tea.Msg) (connectForm, tea.Cmd) {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (m Model) updateSelectConnection(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := len(m.cfg.Connections)

	switch msg.String() {
	case "up", "k":
		if m.connCursor > 0 {
			m.connCursor--
		}
	case "down", "j":
		if m.connCursor < count {
			m.connCursor++
		}
	case "enter":
		if m.connCursor < count {
			conn := m.cfg.Connections[m.connCursor]
			m.statusbar.SetMessage("Connecting to " + conn.Name + "...")
			return m, m.connectCmd(conn.Params(), conn.Name)
		}
		m.mode = ModeConnect
		return m, m.form.focusCmd()
	case "n":
		m.mode = ModeConnect
		return m, m.form.focusCmd()
	case "q":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateConnect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		m.form.move(1)
		return m, nil
	case "shift+tab", "up":
		m.form.move(-1)
		return m, nil
	case "enter":
		params, err := m.form.params()
		if err != nil {
			m.err = err
			m.statusbar.SetError(err.Error())
			return m, nil
		}
		m.err = nil
		m.statusbar.SetMessage("Connecting to " + params.Display() + "...")
		return m, m.connectCmd(params, "")
	case "esc":
		if len(m.cfg.Connections) > 0 {
			m.mode = ModeSelectConnection
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	return m, cmd
}
