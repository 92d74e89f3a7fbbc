// Package ruler draws a knob's range as a straight strip, with the marker
// positions and the current value placed along it.
package ruler

import (
	"math"
	"strings"

	"github.com/alkime/knobs/internal/tui/style"
	"github.com/alkime/knobs/pkg/uictl"
)

// Characters used along the strip.
const (
	BaselineRune = '─'
	MarkerRune   = '◆'
	ValueRune    = '●'
)

// Model places values from a Levels control on a strip of width columns,
// scaled by the bounds of a dial. The dial's own value is drawn on top.
type Model struct {
	dial    uictl.BoundedDial[float64]
	markers uictl.Levels[float64]
	width   int
}

func New(dial uictl.BoundedDial[float64], markers uictl.Levels[float64], width int) Model {
	return Model{
		dial:    dial,
		markers: markers,
		width:   max(width, 1),
	}
}

// Column returns the column for v, or false when v lies outside the dial's
// bounds.
func (m Model) Column(v float64) (int, bool) {
	if m.dial == nil {
		return 0, false
	}

	lo, hi := m.dial.Bounds()
	if hi <= lo || math.IsNaN(v) || v < lo || v > hi {
		return 0, false
	}

	// the top of the range falls in the last column
	col := int(math.Floor((v - lo) / (hi - lo) * float64(m.width)))

	return min(col, m.width-1), true
}

func (m Model) View() string {
	row := make([]rune, m.width)
	for i := range row {
		row[i] = BaselineRune
	}

	if m.dial == nil {
		return style.Muted.Render(string(row))
	}

	if m.markers != nil {
		for _, v := range m.markers.Read() {
			if col, ok := m.Column(v); ok {
				row[col] = MarkerRune
			}
		}
	}

	valueCol, ok := m.Column(m.dial.Read())
	if !ok {
		return style.Muted.Render(string(row))
	}

	var sb strings.Builder
	sb.WriteString(style.Muted.Render(string(row[:valueCol])))
	sb.WriteString(style.Bullet.Render(string(ValueRune)))
	sb.WriteString(style.Muted.Render(string(row[valueCol+1:])))

	return sb.String()
}
