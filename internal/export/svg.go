package export

import (
	"fmt"
	"math"
	"strings"
)

const background = "#0a0a0a"

func svgOpen(sb *strings.Builder, width, height float64) {
	fmt.Fprintf(sb, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n"+
		"<svg xmlns=\"http://www.w3.org/2000/svg\" width=\"%[1]g\" height=\"%[2]g\" viewBox=\"0 0 %[1]g %[2]g\">\n"+
		"<rect width=\"100%%\" height=\"100%%\" fill=\"%[3]s\"/>\n", width, height, background)
}

// brailleDots lists the bit of every dot in a braille cell with its column
// and row inside the cell.
var brailleDots = [8]struct {
	bit      rune
	col, row int
}{
	{0x01, 0, 0}, {0x02, 0, 1}, {0x04, 0, 2}, {0x40, 0, 3},
	{0x08, 1, 0}, {0x10, 1, 1}, {0x20, 1, 2}, {0x80, 1, 3},
}

// BrailleToSVG draws every set dot of a grid of braille cells as a circle,
// scale units apart. Runes outside the braille block are skipped.
func BrailleToSVG(grid [][]rune, scale float64) string {
	if len(grid) == 0 {
		return ""
	}

	var sb strings.Builder
	svgOpen(&sb, float64(len(grid[0]))*2*scale, float64(len(grid))*4*scale)
	sb.WriteString("<g fill=\"#00ff00\">\n")

	for y, line := range grid {
		for x, cell := range line {
			if cell < 0x2800 || cell > 0x28ff {
				continue
			}
			for _, d := range brailleDots {
				if (cell-0x2800)&d.bit == 0 {
					continue
				}
				cx := (float64(2*x+d.col) + 0.5) * scale
				cy := (float64(4*y+d.row) + 0.5) * scale
				fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, 0.4*scale)
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// Trajectory is one body's path projected onto a plane.
type Trajectory struct {
	Label  string
	Color  string
	Points []struct{ X, Y float64 }
}

// Palette is the default stroke colour cycle.
var Palette = []string{"#00ffff", "#ff00ff", "#ffff00", "#00ff88", "#ff8800", "#8888ff"}

func drawable(tr Trajectory) bool { return len(tr.Points) >= 2 }

// viewport maps data coordinates onto an image, y up, with a tenth of the
// data extent as margin on every side.
type viewport struct {
	x0, y0, sx, sy float64
	height         float64
}

func fitViewport(trajs []Trajectory, width, height int) (viewport, bool) {
	lo := struct{ X, Y float64 }{math.Inf(1), math.Inf(1)}
	hi := struct{ X, Y float64 }{math.Inf(-1), math.Inf(-1)}
	for _, tr := range trajs {
		if !drawable(tr) {
			continue
		}
		for _, p := range tr.Points {
			lo.X, lo.Y = math.Min(lo.X, p.X), math.Min(lo.Y, p.Y)
			hi.X, hi.Y = math.Max(hi.X, p.X), math.Max(hi.Y, p.Y)
		}
	}
	if math.IsInf(lo.X, 1) {
		return viewport{}, false
	}

	spanX, spanY := hi.X-lo.X, hi.Y-lo.Y
	if spanX == 0 {
		spanX = 1
	}
	if spanY == 0 {
		spanY = 1
	}
	return viewport{
		x0:     lo.X - 0.1*spanX,
		y0:     lo.Y - 0.1*spanY,
		sx:     float64(width) / (1.2 * spanX),
		sy:     float64(height) / (1.2 * spanY),
		height: float64(height),
	}, true
}

func (v viewport) pixel(x, y float64) (float64, float64) {
	return (x - v.x0) * v.sx, v.height - (y-v.y0)*v.sy
}

// TrajectoriesToSVG draws every trajectory with one shared scale so their
// relative positions are preserved. Trajectories with fewer than two points
// are skipped; with none left the result is empty.
func TrajectoriesToSVG(trajs []Trajectory, width, height int) string {
	vp, ok := fitViewport(trajs, width, height)
	if !ok {
		return ""
	}

	var sb strings.Builder
	svgOpen(&sb, float64(width), float64(height))

	for i, tr := range trajs {
		if !drawable(tr) {
			continue
		}
		color := tr.Color
		if color == "" {
			color = Palette[i%len(Palette)]
		}

		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5"`, color)
		if tr.Label != "" {
			fmt.Fprintf(&sb, ` id="%s"`, tr.Label)
		}
		sb.WriteString(` d="`)
		for j, p := range tr.Points {
			cmd := " L"
			if j == 0 {
				cmd = "M"
			}
			x, y := vp.pixel(p.X, p.Y)
			fmt.Fprintf(&sb, "%s%.1f,%.1f", cmd, x, y)
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}
