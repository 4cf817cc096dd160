package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func fg(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

var (
	Subtle  = fg("#666688")
	KeyHint = fg("#00aaaa").Bold(true)

	StatusRunning = fg("#00ff88").Bold(true)
	StatusPaused  = fg("#ffaa00").Bold(true)
	StatusError   = fg("#ff4444").Bold(true)

	// progress colours, best first
	barLevels = []struct {
		above float64
		style lipgloss.Style
	}{
		{0.8, fg("#00ff88")},
		{0.4, fg("#ffcc00")},
		{-1, fg("#ff4444")},
	}
)

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// ProgressBar renders fraction done in [0, 1] as a bar of width cells.
func ProgressBar(fraction float64, width int) string {
	filled := max(0, min(width, int(fraction*float64(width))))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	for _, l := range barLevels {
		if fraction > l.above {
			return l.style.Render(bar)
		}
	}
	return bar
}

// Sparkline renders values as a row of block characters scaled between
// their minimum and maximum, sampled down to at most width cells.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo, hi = min(lo, v), max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}
	top := len(sparkRunes) - 1
	stride := max(1, len(values)/width)

	out := make([]rune, 0, width)
	for i := 0; i < len(values) && len(out) < width; i += stride {
		level := int((values[i] - lo) / span * float64(top))
		out = append(out, sparkRunes[max(0, min(level, top))])
	}
	return string(out)
}

// Separator is a horizontal rule with a centred diamond.
func Separator(width int) string {
	left := max(0, width/2-3)
	right := max(0, width-width/2-3)
	return Subtle.Render(strings.Repeat("─", left) + " ◆ " + strings.Repeat("─", right))
}

// KeyHints renders alternating key/description pairs.
func KeyHints(pairs ...string) string {
	hints := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		hints = append(hints, KeyHint.Render(pairs[i])+Subtle.Render(" "+pairs[i+1]))
	}
	return strings.Join(hints, Subtle.Render("  "))
}
