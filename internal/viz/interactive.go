package viz

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/rigidsim/internal/config"
)

var presetInfo = map[string]string{
	"binary":  "two tetrahedra in orbit",
	"spinner": "intermediate axis flip",
	"triple":  "three mixed shapes",
	"cluster": "random cubes collapsing",
}

type screen int

const (
	screenMenu screen = iota
	screenParams
	screenLive
)

// tunable is a global parameter editable before a run starts.
type tunable struct {
	name  string
	field func(*config.Config) *float64
}

var tunables = []tunable{
	{"g", func(c *config.Config) *float64 { return &c.G }},
	{"dt", func(c *config.Config) *float64 { return &c.Dt }},
	{"duration", func(c *config.Config) *float64 { return &c.Duration }},
}

type model struct {
	screen  screen
	presets []string
	preset  int
	cfg     *config.Config
	param   int
	editing bool
	input   string
	live    Model
	err     error
}

// NewInteractiveApp lists the presets, lets the user tune the global
// parameters of one and then opens it in the live view.
func NewInteractiveApp() *model {
	return &model{presets: config.ListPresets()}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.screen == screenLive {
		next, cmd := m.live.Update(msg)
		m.live = next.(Model)
		return m, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch m.screen {
	case screenMenu:
		return m.menuKey(key.String())
	case screenParams:
		if m.editing {
			m.editKey(key.String())
			return m, nil
		}
		return m.paramsKey(key.String())
	}
	return m, nil
}

// move shifts a cursor by delta, clamped to [0, n).
func move(cursor, delta, n int) int {
	return max(0, min(n-1, cursor+delta))
}

func (m model) menuKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		m.preset = move(m.preset, -1, len(m.presets))
	case "down", "j":
		m.preset = move(m.preset, 1, len(m.presets))
	case "enter", " ":
		if len(m.presets) > 0 {
			m.cfg = config.GetPreset(m.presets[m.preset])
			m.screen, m.param, m.err = screenParams, 0, nil
		}
	}
	return m, nil
}

func (m *model) value(i int) *float64 {
	return tunables[i].field(m.cfg)
}

func (m model) paramsKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q", "esc":
		m.screen = screenMenu
	case "up", "k":
		m.param = move(m.param, -1, len(tunables))
	case "down", "j":
		m.param = move(m.param, 1, len(tunables))
	case "enter", " ":
		m.editing = true
		m.input = strconv.FormatFloat(*m.value(m.param), 'g', -1, 64)
	case "left", "h":
		*m.value(m.param) *= 0.5
	case "right", "l":
		*m.value(m.param) *= 2
	case "s":
		live, err := NewModel(m.cfg)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.live, m.screen = live, screenLive
		return m, live.Init()
	}
	return m, nil
}

// editKey handles typing a value. Unparseable input leaves the parameter
// unchanged.
func (m *model) editKey(key string) {
	switch key {
	case "enter":
		if v, err := strconv.ParseFloat(m.input, 64); err == nil {
			*m.value(m.param) = v
		}
		m.editing, m.input = false, ""
	case "esc":
		m.editing, m.input = false, ""
	case "backspace":
		if m.input != "" {
			m.input = m.input[:len(m.input)-1]
		}
	default:
		if len(key) == 1 && strings.ContainsAny(key, "0123456789.-e") {
			m.input += key
		}
	}
}

func (m model) View() string {
	switch m.screen {
	case screenParams:
		return m.viewParams()
	case screenLive:
		return m.live.View()
	}
	return m.viewMenu()
}

func header(title, sub string) string {
	h := lipgloss.NewStyle().Foreground(CurrentTheme.Secondary).Bold(true)
	s := lipgloss.NewStyle().Foreground(CurrentTheme.Muted)
	return "\n\n    " + h.Render(title) + "\n    " + s.Render(sub) + "\n    " + Separator(25) + "\n\n"
}

// menuRow renders one line of a menu, highlighted when it is under the cursor.
func menuRow(current bool, label, detail string, pad int) string {
	label = fmt.Sprintf("%-*s", pad, label)
	if !current {
		muted := lipgloss.NewStyle().Foreground(CurrentTheme.Muted)
		return "      " + muted.Render(label) + "  " + muted.Render(detail) + "\n"
	}
	marker := lipgloss.NewStyle().Foreground(CurrentTheme.Secondary).Bold(true)
	selected := lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Bold(true)
	accent := lipgloss.NewStyle().Foreground(CurrentTheme.Accent)
	return "    " + marker.Render("▸") + " " + selected.Render(label) + "  " + accent.Render(detail) + "\n"
}

func (m model) viewMenu() string {
	var b strings.Builder
	b.WriteString(header("RIGIDSIM", "rigid body gravity"))
	for i, name := range m.presets {
		b.WriteString(menuRow(i == m.preset, name, presetInfo[name], 12))
	}
	b.WriteString("\n    " + KeyHints("j/k", "navigate", "enter", "select", "q", "quit") + "\n")
	return b.String()
}

func (m model) viewParams() string {
	var b strings.Builder
	b.WriteString(header(strings.ToUpper(m.cfg.Name), fmt.Sprintf("%d bodies", len(m.cfg.Bodies))))
	for i, p := range tunables {
		val := fmt.Sprintf("%10.4g", *m.value(i))
		if m.editing && i == m.param {
			val = fmt.Sprintf("%10s", m.input+"_")
		}
		b.WriteString(menuRow(i == m.param, p.name, val, 10))
	}
	if m.err != nil {
		b.WriteString("\n    " + StatusError.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + KeyHints("j/k", "select", "h/l", "halve/double", "s", "start", "esc", "back") + "\n")
	return b.String()
}

func RunInteractive() error {
	_, err := tea.NewProgram(NewInteractiveApp(), tea.WithAltScreen()).Run()
	return err
}
