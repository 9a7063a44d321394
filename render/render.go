// Package render draws a surface into a terminal, one cell per surface unit.
package render

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rapidmidiex/rmxpiano/layout"
	"github.com/rapidmidiex/rmxpiano/surface"
	"github.com/rapidmidiex/rmxpiano/theme"
)

// Cells returns the color of every cell of r, row by row, as "#rrggbb" or ""
// where nothing is painted. A cell takes the color of the last element in
// paint order that contains its center. Borders are drawn on the right edge
// only, which is what separates adjacent keys at terminal resolution.
func Cells(s *surface.Surface, r layout.Rect) [][]string {
	cols, rows := int(math.Round(r.W)), int(math.Round(r.H))
	if cols <= 0 || rows <= 0 {
		return nil
	}
	grid := make([][]string, rows)
	for i := range grid {
		grid[i] = make([]string, cols)
	}

	hex := make(map[string]string)
	resolve := func(color string) string {
		if h, ok := hex[color]; ok {
			return h
		}
		h, err := theme.Hex(color)
		if err != nil {
			h = ""
		}
		hex[color] = h
		return h
	}

	var paint func(e *surface.Element)
	paint = func(e *surface.Element) {
		st := e.Style()
		if st.Hidden {
			return
		}
		if st.Fill != "" {
			fill(grid, r, e.Bounds(), resolve(st.Fill), st.BorderWidth, resolve(st.Border))
		}
		for _, c := range e.Children() {
			paint(c)
		}
	}
	paint(s.Root())
	return grid
}

func fill(grid [][]string, r, b layout.Rect, color string, bw float64, border string) {
	edge := math.Inf(1)
	if bw > 0 && border != "" && b.W > 2*bw {
		edge = b.X + b.W - bw
	}
	for y := range grid {
		cy := r.Y + float64(y) + 0.5
		if cy < b.Y || cy >= b.Y+b.H {
			continue
		}
		for x := range grid[y] {
			cx := r.X + float64(x) + 0.5
			if !b.Contains(cx, cy) {
				continue
			}
			if cx >= edge {
				grid[y][x] = border
			} else {
				grid[y][x] = color
			}
		}
	}
}

// Region renders r as lines of background colored blanks.
func Region(s *surface.Surface, r layout.Rect) string {
	grid := Cells(s, r)
	styles := make(map[string]lipgloss.Style)
	lines := make([]string, len(grid))

	for y, row := range grid {
		var b strings.Builder
		for x := 0; x < len(row); {
			end := x + 1
			for end < len(row) && row[end] == row[x] {
				end++
			}
			blank := strings.Repeat(" ", end-x)
			if row[x] == "" {
				b.WriteString(blank)
			} else {
				st, ok := styles[row[x]]
				if !ok {
					st = lipgloss.NewStyle().Background(lipgloss.Color(row[x]))
					styles[row[x]] = st
				}
				b.WriteString(st.Render(blank))
			}
			x = end
		}
		lines[y] = b.String()
	}
	return strings.Join(lines, "\n")
}
