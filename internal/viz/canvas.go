package viz

import (
	"strings"
)

const blankCell rune = 0x2800

// dotBits maps a dot inside a braille cell, indexed [row][column], to its bit
// in the code point. The left column holds dots 1, 2, 3 and 7.
var dotBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas is a grid of braille cells. Width and Height count cells; drawing
// happens in dots, two per cell across and four down.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, Grid: make([][]rune, h)}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Dots is the drawable size in dots.
func (c *Canvas) Dots() (int, int) {
	return c.Width * 2, c.Height * 4
}

// locate returns the cell holding dot (x, y) and the dot's bit, or false when
// the dot is off the canvas.
func (c *Canvas) locate(x, y int) (*rune, rune, bool) {
	if x < 0 || y < 0 || x >= 2*c.Width || y >= 4*c.Height {
		return nil, 0, false
	}
	return &c.Grid[y/4][x/2], dotBits[y%4][x%2], true
}

// Set turns on the dot at (x, y). Out of range dots are ignored.
func (c *Canvas) Set(x, y int) {
	if cell, bit, ok := c.locate(x, y); ok {
		*cell |= bit
	}
}

// Unset turns off the dot at (x, y).
func (c *Canvas) Unset(x, y int) {
	if cell, bit, ok := c.locate(x, y); ok {
		*cell = blankCell | (*cell &^ bit)
	}
}

func (c *Canvas) Clear() {
	for _, row := range c.Grid {
		for j := range row {
			row[j] = blankCell
		}
	}
}

// DrawLine sets every dot on the segment between two dots, stepping along
// the longer axis.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx, dy := x1-x0, y1-y0
	steps := max(abs(dx), abs(dy))
	if steps == 0 {
		c.Set(x0, y0)
		return
	}
	for i := 0; i <= steps; i++ {
		// integer rounding keeps both endpoints exact
		x := x0 + (2*i*dx+sign(dx)*steps)/(2*steps)
		y := y0 + (2*i*dy+sign(dy)*steps)/(2*steps)
		c.Set(x, y)
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	b.Grow(c.Height * (c.Width*3 + 1))
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
