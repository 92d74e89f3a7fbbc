// Package tui is a terminal front end for a marked knob: drag with the
// mouse, tap the centre to toggle markers, and watch markers persist.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/alkime/knobs/internal/control"
	"github.com/alkime/knobs/internal/knob"
	"github.com/alkime/knobs/internal/tui/components/dial"
	"github.com/alkime/knobs/internal/tui/components/labeledspinner"
	"github.com/alkime/knobs/internal/tui/components/ruler"
	"github.com/alkime/knobs/internal/tui/style"
	"github.com/alkime/knobs/pkg/uictl"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Dial placement within the view: a title line, a blank line, then the
// dial's top border.
const (
	dialTop  = 3
	dialLeft = 1

	nudgeStep = 0.01
)

// ApplyMsg runs a function on the UI loop. Work finished elsewhere (such as
// loading saved markers) uses it to touch the knob safely.
type ApplyMsg func()

// markersLoadedMsg arrives after the binding's load has been applied.
type markersLoadedMsg struct{}

// Dispatcher returns a function that runs fn on p's UI loop.
func Dispatcher(p *tea.Program) func(fn func()) {
	return func(fn func()) { p.Send(ApplyMsg(fn)) }
}

// Options scales the stock knob styles to terminal cells.
func Options() control.Options {
	o := control.DefaultOptions()
	o.Engine.Track.LineWidth = 1
	o.Engine.Pointer.Length = 2
	o.Engine.Pointer.LineWidth = 1
	o.MarkerStyle.Length = 3
	o.MarkerStyle.LineWidth = 1
	o.Symbol.Size = 2
	o.Symbol.LineWidth = 1
	o.Symbol.TapRadius = 3

	return o
}

// Config wires the model to its collaborators.
type Config struct {
	Cancel  context.CancelFunc
	Knob    *control.MarkedKnob
	Binding *control.Binding
	// StoreName describes where markers are saved.
	StoreName string
	Cols      int
	Rows      int
}

type Model struct {
	cancel    context.CancelFunc
	knob      *control.MarkedKnob
	binding   *control.Binding
	storeName string

	dial    dial.Model
	ruler   ruler.Model
	loading labeledspinner.Model
	gauge   progress.Model
	snap    uictl.Switch
	keys    keyMap
	help    help.Model

	pressed  bool
	dragging bool
	status   string
	err      error
}

func New(cfg Config) Model {
	cols, rows := cfg.Cols, cfg.Rows
	if cols == 0 {
		cols = 41
	}

	if rows == 0 {
		rows = 21
	}

	loading := labeledspinner.New(spinner.MiniDot, "loading markers")
	if cfg.Binding == nil {
		loading = loading.Finish()
	}

	return Model{
		cancel:    cfg.Cancel,
		knob:      cfg.Knob,
		binding:   cfg.Binding,
		storeName: cfg.StoreName,
		dial:      dial.New(cfg.Knob, cols, rows),
		ruler:     ruler.New(cfg.Knob.Engine(), cfg.Knob.Markers(), cols),
		loading:   loading,
		gauge:     progress.New(progress.WithWidth(cols), progress.WithoutPercentage()),
		snap:      newSnapSwitch(cfg.Knob),
		keys:      defaultKeyMap(),
		help:      help.New(),
	}
}

func (m Model) Init() tea.Cmd {
	if m.loading.Done() {
		return nil
	}

	return tea.Batch(m.loading.Init(), waitLoaded(m.binding))
}

// waitLoaded reports when the binding has dispatched its load. The dispatch
// goes through the program first, so the markers are in place by the time
// this message is handled.
func waitLoaded(b *control.Binding) tea.Cmd {
	return func() tea.Msg {
		<-b.Loaded()
		return markersLoadedMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ApplyMsg:
		msg()
		return m, nil

	case markersLoadedMsg:
		m.loading = m.loading.Finish()
		m.setStatus(fmt.Sprintf("%d markers loaded from %s", m.knob.Markers().Len(), m.storeName))
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.loading, cmd = m.loading.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Toggle):
		if !m.markersReady() {
			break
		}
		b := m.dial.Bounds()
		m.knob.Tap(b.Center(), b)
		m.setStatus(m.markerStatus())

	case key.Matches(msg, m.keys.Clear):
		if !m.markersReady() {
			break
		}
		m.clear()

	case key.Matches(msg, m.keys.Snap):
		m.snap.Toggle()
		m.setStatus("snap " + onOff(m.snap.Read()))

	case key.Matches(msg, m.keys.Haptics):
		c := m.knob.Engine().HapticConfig()
		c.Style = c.Style.Next()
		if err := m.knob.SetHapticConfig(c); err != nil {
			m.fail(err)
			break
		}
		m.setStatus("haptics " + c.Style.String())

	case key.Matches(msg, m.keys.Left):
		m.nudge(-nudgeStep)

	case key.Matches(msg, m.keys.Right):
		m.nudge(nudgeStep)

	case key.Matches(msg, m.keys.More):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

// setStatus replaces the status line, dismissing any earlier error.
func (m *Model) setStatus(s string) {
	m.status = s
	m.err = nil
}

func (m *Model) fail(err error) {
	m.err = err
}

// markersReady reports whether the saved markers have been applied. Until
// then marker edits are ignored, since the load replaces the marker set.
func (m *Model) markersReady() bool {
	if m.loading.Done() {
		return true
	}

	m.setStatus("still loading markers")

	return false
}

func (m *Model) nudge(delta float64) {
	r := m.knob.Engine().Range()
	m.knob.SetValue(m.knob.Value()+delta*r.Width(), false)
	m.knob.Engine().EmitValueChanged()
}

func (m *Model) clear() {
	if m.binding == nil {
		m.knob.RemoveAllMarkers()
		m.setStatus("markers cleared")
		return
	}

	if err := m.binding.Clear(context.Background()); err != nil {
		m.fail(err)
		return
	}

	m.setStatus("markers cleared from " + m.storeName)
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	col, row := msg.X-dialLeft, msg.Y-dialTop
	p := m.dial.PointAt(col, row)
	angle := knob.TouchAngle(p, m.dial.Bounds().Center())
	e := m.knob.Engine()

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !m.dial.Contains(col, row) {
			return
		}
		m.pressed = true

	case tea.MouseActionMotion:
		if !m.pressed {
			return
		}
		if !m.dragging {
			m.dragging = true
			e.GestureBegin()
		}
		e.GestureMove(angle)

	case tea.MouseActionRelease:
		if !m.pressed {
			return
		}

		if m.dragging {
			e.GestureEndAt(angle)
		} else if m.markersReady() && m.knob.Tap(p, m.dial.Bounds()) {
			m.setStatus(m.markerStatus())
		}

		m.pressed = false
		m.dragging = false
	}
}

func (m Model) markerStatus() string {
	if m.knob.IsAtMarker() {
		return fmt.Sprintf("marker added at %.3f", m.knob.Value())
	}

	return "marker removed"
}

func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(style.Title.Render("Knob"))
	sb.WriteString("  ")
	sb.WriteString(style.Label.Render("value"))
	sb.WriteString(fmt.Sprintf(" %.3f", m.knob.Value()))
	sb.WriteString("\n\n")

	sb.WriteString(style.Dial.Render(m.dial.View()))
	sb.WriteString("\n")

	sb.WriteString(" ")
	sb.WriteString(m.ruler.View())
	sb.WriteString("\n ")
	sb.WriteString(m.gauge.ViewAs(uictl.Fraction[float64](m.knob.Engine())))
	sb.WriteString("\n\n")

	cfg := m.knob.Engine().HapticConfig()
	sb.WriteString(style.Label.Render("snap"))
	sb.WriteString(" " + onOff(m.snap.Read()) + "  ")
	sb.WriteString(style.Label.Render("haptics"))
	sb.WriteString(" " + cfg.Style.String())
	if m.storeName != "" {
		sb.WriteString("  ")
		sb.WriteString(style.Label.Render("store"))
		sb.WriteString(" " + style.Muted.Render(m.storeName))
	}
	sb.WriteString("\n")

	sb.WriteString(style.Label.Render("markers"))
	values := m.knob.Markers().Read()
	if !m.loading.Done() {
		sb.WriteString(" " + m.loading.View())
	} else if len(values) == 0 {
		sb.WriteString(" " + style.Muted.Render("none"))
	}
	for _, v := range values {
		sb.WriteString(" ")
		sb.WriteString(style.Bullet.Render("◆"))
		sb.WriteString(fmt.Sprintf("%.3f", v))
	}
	sb.WriteString("\n\n")

	switch {
	case m.err != nil:
		sb.WriteString(style.Error.Render(m.err.Error()))
	case m.status != "":
		sb.WriteString(style.Success.Render(m.status))
	}
	sb.WriteString("\n")

	sb.WriteString(m.help.View(m.keys))

	return sb.String()
}

func onOff(b bool) string {
	if b {
		return "on"
	}

	return "off"
}
