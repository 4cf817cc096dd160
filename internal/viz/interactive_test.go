package viz

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func press(t *testing.T, m model, msgs ...tea.KeyMsg) model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(model)
	}
	return m
}

var (
	enter     = tea.KeyMsg{Type: tea.KeyEnter}
	esc       = tea.KeyMsg{Type: tea.KeyEsc}
	backspace = tea.KeyMsg{Type: tea.KeyBackspace}
)

func TestInteractiveMenu(t *testing.T) {
	m := *NewInteractiveApp()
	if !strings.Contains(m.View(), "binary") {
		t.Fatal("expected the presets listed")
	}

	// the cursor stays on the list
	m = press(t, m, key("k"))
	if m.preset != 0 {
		t.Errorf("expected cursor 0, got %d", m.preset)
	}
	m = press(t, m, key("j"))
	if m.presets[m.preset] != "cluster" {
		t.Errorf("expected cluster under the cursor, got %s", m.presets[m.preset])
	}

	m = press(t, m, key("k"), enter)
	if m.screen != screenParams || m.cfg.Name != "binary" {
		t.Fatalf("expected the binary parameters, got screen %d", m.screen)
	}
	if !strings.Contains(m.View(), "duration") {
		t.Error("expected the tunable parameters in the view")
	}

	m = press(t, m, esc)
	if m.screen != screenMenu {
		t.Error("expected esc to return to the menu")
	}
}

func TestInteractiveEditParams(t *testing.T) {
	m := press(t, *NewInteractiveApp(), enter)
	g := m.cfg.G

	m = press(t, m, key("l"))
	if m.cfg.G != 2*g {
		t.Errorf("expected g doubled to %g, got %g", 2*g, m.cfg.G)
	}
	m = press(t, m, key("h"))
	if m.cfg.G != g {
		t.Errorf("expected g halved back to %g, got %g", g, m.cfg.G)
	}

	m = press(t, m, enter)
	if !m.editing {
		t.Fatal("expected edit mode")
	}
	for range m.input {
		m = press(t, m, backspace)
	}
	m = press(t, m, key("3"), key("x"), key("."), key("5"), enter)
	if m.editing || m.cfg.G != 3.5 {
		t.Errorf("expected g set to 3.5, got %g", m.cfg.G)
	}

	// unparseable input is discarded
	dt := m.cfg.Dt
	m = press(t, m, key("j"), enter, key("-"), key("-"), enter)
	if m.cfg.Dt != dt || m.param != 1 {
		t.Errorf("expected dt untouched, got %g", m.cfg.Dt)
	}
}

func TestInteractiveStartsLiveView(t *testing.T) {
	m := press(t, *NewInteractiveApp(), enter, key("s"))
	if m.screen != screenLive {
		t.Fatal("expected the live view")
	}
	if m.live.World() == nil {
		t.Error("expected a built world")
	}
}
