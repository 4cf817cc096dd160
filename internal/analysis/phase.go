package analysis

import (
	"math"
	"strings"
)

// PhasePortrait2D holds data for a 2D phase space plot
type PhasePortrait2D struct {
	Points []struct{ X, Y float64 }
}

// NewPhasePortrait pairs two recorded columns, e.g. b0_x against b0_lx.
func NewPhasePortrait(xs, ys []float64) *PhasePortrait2D {
	n := min(len(xs), len(ys))
	portrait := &PhasePortrait2D{
		Points: make([]struct{ X, Y float64 }, 0, n),
	}
	for i := 0; i < n; i++ {
		portrait.Points = append(portrait.Points, struct{ X, Y float64 }{X: xs[i], Y: ys[i]})
	}
	return portrait
}

// PhasePortraitToASCII draws the portrait on a width×height character grid.
// Points are graded by age: '.' for the first third of the run, 'o' for
// the middle and '•' for the last, so the direction of travel shows.
func PhasePortraitToASCII(portrait *PhasePortrait2D, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 {
		return ""
	}
	n := len(portrait.Points)
	return rasterize(portrait.Points, width, height, func(i int) rune {
		switch {
		case 3*i < n:
			return '.'
		case 3*i < 2*n:
			return 'o'
		default:
			return '•'
		}
	})
}

// window is the plotted range, padded by a tenth of the data extent.
type window struct {
	minX, minY   float64
	spanX, spanY float64
}

func fit(points []struct{ X, Y float64 }) window {
	lo := points[0]
	hi := points[0]
	for _, p := range points[1:] {
		lo.X, hi.X = math.Min(lo.X, p.X), math.Max(hi.X, p.X)
		lo.Y, hi.Y = math.Min(lo.Y, p.Y), math.Max(hi.Y, p.Y)
	}

	w := window{minX: lo.X, minY: lo.Y, spanX: hi.X - lo.X, spanY: hi.Y - lo.Y}
	if w.spanX == 0 {
		w.spanX = 1
	}
	if w.spanY == 0 {
		w.spanY = 1
	}
	w.minX -= 0.1 * w.spanX
	w.minY -= 0.1 * w.spanY
	w.spanX *= 1.2
	w.spanY *= 1.2
	return w
}

// cell maps a data point to a grid cell; row 0 is the top.
func (w window) cell(x, y float64, width, height int) (row, col int) {
	col = int((x - w.minX) / w.spanX * float64(width-1))
	row = height - 1 - int((y-w.minY)/w.spanY*float64(height-1))
	return row, col
}

func (w window) contains(x, y float64) (bool, bool) {
	return w.minX <= x && x <= w.minX+w.spanX, w.minY <= y && y <= w.minY+w.spanY
}

// rasterize plots points over the coordinate axes, when they are in view.
func rasterize(points []struct{ X, Y float64 }, width, height int, glyph func(i int) rune) string {
	if width < 2 || height < 2 {
		return ""
	}
	w := fit(points)

	grid := make([][]rune, height)
	for row := range grid {
		grid[row] = []rune(strings.Repeat(" ", width))
	}

	xAxis, yAxis := w.contains(0, 0)
	originRow, originCol := w.cell(0, 0, width, height)
	if xAxis {
		for row := range grid {
			grid[row][originCol] = '│'
		}
	}
	if yAxis {
		for col := range grid[originRow] {
			if grid[originRow][col] == '│' {
				grid[originRow][col] = '┼'
			} else {
				grid[originRow][col] = '─'
			}
		}
	}

	for i, p := range points {
		row, col := w.cell(p.X, p.Y, width, height)
		if row >= 0 && row < height && col >= 0 && col < width {
			grid[row][col] = glyph(i)
		}
	}

	var sb strings.Builder
	for _, row := range grid {
		sb.WriteString(string(row))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// PoincareSection records points when a trajectory crosses a plane
type PoincareSection struct {
	Points []struct{ X, Y float64 }
}

// NewPoincareSection records (xs, ys) wherever cross passes threshold
// going upward, interpolated linearly between the two samples.
func NewPoincareSection(cross, xs, ys []float64, threshold float64) *PoincareSection {
	n := min(len(cross), len(xs), len(ys))
	section := &PoincareSection{
		Points: make([]struct{ X, Y float64 }, 0),
	}

	for i := 1; i < n; i++ {
		prevVal, currVal := cross[i-1], cross[i]

		// Detect positive-going crossing
		if prevVal < threshold && currVal >= threshold {
			frac := (threshold - prevVal) / (currVal - prevVal)
			if math.IsNaN(frac) || math.IsInf(frac, 0) {
				frac = 0.5
			}

			section.Points = append(section.Points, struct{ X, Y float64 }{
				X: xs[i-1] + frac*(xs[i]-xs[i-1]),
				Y: ys[i-1] + frac*(ys[i]-ys[i-1]),
			})
		}
	}

	return section
}

// PoincareSectionToASCII converts section data to ASCII plot
func PoincareSectionToASCII(section *PoincareSection, width, height int) string {
	if section == nil || len(section.Points) == 0 {
		return "No crossings detected"
	}

	return rasterize(section.Points, width, height, func(int) rune { return '×' })
}
