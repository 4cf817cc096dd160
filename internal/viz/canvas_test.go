package viz

import (
	"strings"
	"testing"
)

func TestCanvasSetUnset(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	if c.Grid[0][0] != 0x2801 {
		t.Errorf("expected dot 1, got %U", c.Grid[0][0])
	}
	if c.Grid[0][1] != 0x2880 {
		t.Errorf("expected dot 8, got %U", c.Grid[0][1])
	}

	c.Unset(0, 0)
	if c.Grid[0][0] != 0x2800 {
		t.Errorf("expected empty cell, got %U", c.Grid[0][0])
	}

	// out of range dots are ignored
	c.Set(-1, 0)
	c.Set(4, 0)
	c.Set(0, 4)

	c.Clear()
	if strings.Trim(c.String(), "⠀\n") != "" {
		t.Error("expected a blank canvas after clear")
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(4, 1)
	c.DrawLine(0, 0, 7, 0)
	for col := 0; col < 4; col++ {
		if c.Grid[0][col] != 0x2809 {
			t.Errorf("cell %d: expected top row set, got %U", col, c.Grid[0][col])
		}
	}

	w, h := c.Dots()
	if w != 8 || h != 4 {
		t.Errorf("expected 8x4 dots, got %dx%d", w, h)
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline(nil, 3); got != "───" {
		t.Errorf("unexpected empty sparkline %q", got)
	}
	if got := Sparkline([]float64{0, 1}, 2); got != "▁█" {
		t.Errorf("unexpected sparkline %q", got)
	}
}
