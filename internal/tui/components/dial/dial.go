// Package dial renders a marked knob onto a grid of terminal cells and maps
// cells back to knob coordinates for mouse input.
package dial

import (
	"math"
	"strings"

	"github.com/alkime/knobs/internal/control"
	"github.com/alkime/knobs/internal/knob"
	"github.com/alkime/knobs/internal/tui/style"
	"github.com/charmbracelet/lipgloss"
)

// CellAspect is how much taller a terminal cell is than it is wide.
const CellAspect = 2.0

// Glyphs used for each part of the drawing.
const (
	TrackRune   = '·'
	PointerRune = '●'
	MarkerRune  = '◆'
	PlusRune    = '+'
	MinusRune   = '-'
)

type cell struct {
	r     rune
	color knob.Color
}

// Model draws a knob in cols × rows cells.
type Model struct {
	knob *control.MarkedKnob
	cols int
	rows int
}

func New(k *control.MarkedKnob, cols, rows int) Model {
	return Model{knob: k, cols: max(cols, 3), rows: max(rows, 3)}
}

// Size returns the grid size in cells.
func (m Model) Size() (cols, rows int) { return m.cols, m.rows }

// Bounds is the knob's drawing area in knob units.
func (m Model) Bounds() knob.Bounds {
	return knob.Bounds{Width: float64(m.cols), Height: float64(m.rows) * CellAspect}
}

// PointAt returns the knob coordinate at the centre of a cell.
func (m Model) PointAt(col, row int) knob.Point {
	return knob.Point{X: float64(col) + 0.5, Y: (float64(row) + 0.5) * CellAspect}
}

// Contains reports whether the cell lies on the grid.
func (m Model) Contains(col, row int) bool {
	return col >= 0 && col < m.cols && row >= 0 && row < m.rows
}

func (m Model) View() string {
	if m.knob == nil {
		return ""
	}

	grid := make([][]cell, m.rows)
	for i := range grid {
		grid[i] = make([]cell, m.cols)
	}

	plot := func(p knob.Point, r rune, c knob.Color) {
		col := int(math.Floor(p.X))
		row := int(math.Floor(p.Y / CellAspect))
		if m.Contains(col, row) {
			grid[row][col] = cell{r: r, color: c}
		}
	}

	d := m.knob.Drawing(m.Bounds())

	traceArc(d.Track, func(p knob.Point) { plot(p, TrackRune, d.Track.Color) })
	for _, s := range d.Markers {
		traceSegment(s, func(p knob.Point) { plot(p, MarkerRune, s.Color) })
	}
	traceSegment(d.Pointer, func(p knob.Point) { plot(p, PointerRune, d.Pointer.Color) })

	glyph := PlusRune
	if d.Symbol == control.SymbolMinus {
		glyph = MinusRune
	}
	for _, s := range d.Glyph {
		traceSegment(s, func(p knob.Point) { plot(p, glyph, s.Color) })
	}

	return render(grid)
}

// render joins runs of same-coloured cells so each run is styled once.
func render(grid [][]cell) string {
	var sb strings.Builder

	for i, row := range grid {
		if i > 0 {
			sb.WriteString("\n")
		}

		for j := 0; j < len(row); {
			k := j
			var run strings.Builder
			for k < len(row) && row[k].color == row[j].color && (row[k].r == 0) == (row[j].r == 0) {
				if row[k].r == 0 {
					run.WriteRune(' ')
				} else {
					run.WriteRune(row[k].r)
				}
				k++
			}

			if row[j].r == 0 {
				sb.WriteString(run.String())
			} else {
				sb.WriteString(lipgloss.NewStyle().Foreground(style.Color(row[j].color)).Render(run.String()))
			}

			j = k
		}
	}

	return sb.String()
}

// traceArc visits points along the arc about twice per unit of length.
func traceArc(a knob.Arc, visit func(knob.Point)) {
	if a.Radius <= 0 {
		return
	}

	steps := int(math.Ceil(a.Radius*(a.End-a.Start)*2)) + 1
	for i := 0; i <= steps; i++ {
		angle := a.Start + (a.End-a.Start)*float64(i)/float64(steps)
		visit(knob.Polar(a.Center, a.Radius, angle))
	}
}

func traceSegment(s knob.Segment, visit func(knob.Point)) {
	steps := int(math.Ceil(knob.Distance(s.From, s.To)*2)) + 1
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		visit(knob.Point{
			X: s.From.X + (s.To.X-s.From.X)*t,
			Y: s.From.Y + (s.To.Y-s.From.Y)*t,
		})
	}
}
