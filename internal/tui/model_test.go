package tui

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alkime/knobs/internal/control"
	"github.com/alkime/knobs/internal/knob"
	"github.com/alkime/knobs/internal/marker"
	"github.com/alkime/knobs/internal/store"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// outputChecker provides helpers for testing teatest output.
type outputChecker struct {
	intervl, timeout time.Duration
}

func defaultChecker() outputChecker {
	return outputChecker{
		intervl: 50 * time.Millisecond,
		timeout: 3 * time.Second,
	}
}

func (o outputChecker) checkString(t *testing.T, tm *teatest.TestModel, substr string) {
	t.Helper()
	teatest.WaitFor(t, tm.Output(), func(buf []byte) bool {
		return bytes.Contains(buf, []byte(substr))
	},
		teatest.WithCheckInterval(o.intervl),
		teatest.WithDuration(o.timeout))
}

func newKnob(t *testing.T) *control.MarkedKnob {
	t.Helper()

	o := Options()
	o.Engine.Haptic.Style = knob.HapticNone

	k, err := control.New(o)
	require.NoError(t, err)

	return k
}

func newModel(t *testing.T) Model {
	t.Helper()

	return New(Config{Knob: newKnob(t), Cols: 41, Rows: 21})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()

	next, _ := m.Update(msg)
	mm, ok := next.(Model)
	require.True(t, ok)

	return mm
}

// mouse builds an event for a dial cell, adding the dial's screen offset.
func mouse(col, row int, action tea.MouseAction) tea.MouseMsg {
	return tea.MouseMsg{
		X:      col + dialLeft,
		Y:      row + dialTop,
		Action: action,
		Button: tea.MouseButtonLeft,
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_DragToEast(t *testing.T) {
	m := newModel(t)
	m.knob.SetValue(0.7, false)

	var changes int
	m.knob.OnValueChanged(func(float64) { changes++ })

	// the cell right of centre sits at angle zero
	m = update(t, m, mouse(38, 10, tea.MouseActionPress))
	m = update(t, m, mouse(38, 10, tea.MouseActionMotion))
	assert.Equal(t, knob.StateDragging, m.knob.Engine().State())

	m = update(t, m, mouse(38, 10, tea.MouseActionRelease))
	assert.Equal(t, knob.StateIdle, m.knob.Engine().State())
	assert.InDelta(t, 11.0/14.0, m.knob.Value(), 1e-9)
	assert.Equal(t, 2, changes, "one move and one release")
	assert.Zero(t, m.knob.Markers().Len())
}

func TestModel_TapCenterTogglesMarker(t *testing.T) {
	m := newModel(t)
	m.knob.SetValue(0.3, false)

	m = update(t, m, mouse(20, 10, tea.MouseActionPress))
	m = update(t, m, mouse(20, 10, tea.MouseActionRelease))
	require.Equal(t, []float64{0.3}, m.knob.Markers().Read())
	assert.Contains(t, m.status, "marker added")

	m = update(t, m, mouse(20, 10, tea.MouseActionPress))
	m = update(t, m, mouse(20, 10, tea.MouseActionRelease))
	assert.Zero(t, m.knob.Markers().Len())
	assert.Equal(t, "marker removed", m.status)
}

func TestModel_TapOutsideTargetIgnored(t *testing.T) {
	m := newModel(t)

	m = update(t, m, mouse(2, 2, tea.MouseActionPress))
	m = update(t, m, mouse(2, 2, tea.MouseActionRelease))
	assert.Zero(t, m.knob.Markers().Len())
	assert.Equal(t, 0.0, m.knob.Value())
}

func TestModel_PressOutsideDialIgnored(t *testing.T) {
	m := newModel(t)

	m = update(t, m, mouse(-1, 10, tea.MouseActionPress))
	m = update(t, m, mouse(38, 10, tea.MouseActionMotion))
	assert.Equal(t, knob.StateIdle, m.knob.Engine().State())
}

func TestModel_Keys(t *testing.T) {
	m := newModel(t)
	m.knob.SetValue(0.5, false)

	m = update(t, m, keyRunes("m"))
	assert.Equal(t, []float64{0.5}, m.knob.Markers().Read())

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.InDelta(t, 0.51, m.knob.Value(), 1e-12)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.InDelta(t, 0.49, m.knob.Value(), 1e-12)

	require.True(t, m.knob.SnapConfig().Enabled)
	m = update(t, m, keyRunes("s"))
	assert.False(t, m.knob.SnapConfig().Enabled)
	assert.Equal(t, "snap off", m.status)
	m = update(t, m, keyRunes("s"))
	assert.True(t, m.knob.SnapConfig().Enabled)

	style := m.knob.Engine().HapticConfig().Style
	m = update(t, m, keyRunes("h"))
	assert.Equal(t, style.Next(), m.knob.Engine().HapticConfig().Style)

	m = update(t, m, keyRunes("c"))
	assert.Zero(t, m.knob.Markers().Len())
	assert.Equal(t, "markers cleared", m.status)
}

func TestModel_ClearDeletesSavedMarkers(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	k := newKnob(t)
	b := control.Bind(ctx, k, s, "")
	b.Wait()

	m := New(Config{Knob: k, Binding: b, StoreName: "memory", Cols: 41, Rows: 21})
	m = update(t, m, markersLoadedMsg{})
	m = update(t, m, keyRunes("m"))
	b.Wait()

	_, err := s.Get(ctx, control.DefaultMarkerKey)
	require.NoError(t, err)

	m = update(t, m, keyRunes("c"))
	b.Wait()
	assert.Zero(t, m.knob.Markers().Len())
	assert.Equal(t, "markers cleared from memory", m.status)

	_, err = s.Get(ctx, control.DefaultMarkerKey)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func seedMarkers(t *testing.T, s store.Storage, values ...float64) {
	t.Helper()

	seed := newKnob(t)
	b := control.Bind(context.Background(), seed, s, "")
	defer b.Unbind()
	b.Wait()
	for _, v := range values {
		seed.AddMarker(v)
	}
	b.Wait()
}

func TestModel_IgnoresMarkerEditsWhileLoading(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	seedMarkers(t, s, 0.6)

	applied := make(chan func(), 1)
	k := newKnob(t)
	b := control.Bind(ctx, k, s, "", control.WithDispatcher(func(fn func()) { applied <- fn }))
	defer b.Unbind()

	m := New(Config{Knob: k, Binding: b, StoreName: "memory", Cols: 41, Rows: 21})
	m.knob.SetValue(0.3, false)

	m = update(t, m, keyRunes("m"))
	assert.Zero(t, m.knob.Markers().Len())
	assert.Equal(t, "still loading markers", m.status)
	m = update(t, m, keyRunes("c"))
	m = update(t, m, mouse(20, 10, tea.MouseActionPress))
	m = update(t, m, mouse(20, 10, tea.MouseActionRelease))
	assert.Zero(t, m.knob.Markers().Len())

	m = update(t, m, ApplyMsg(<-applied))
	b.Wait()
	m = update(t, m, markersLoadedMsg{})
	assert.Equal(t, []float64{0.6}, m.knob.Markers().Read())

	data, err := s.Get(ctx, control.DefaultMarkerKey)
	require.NoError(t, err)
	stored, err := marker.Decode(data, nil)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.InDelta(t, 0.6, stored[0].Value, 1e-12)

	m = update(t, m, keyRunes("m"))
	b.Wait()
	assert.ElementsMatch(t, []float64{0.3, 0.6}, m.knob.Markers().Read())
}

// brokenDelete is a memory store that cannot delete.
type brokenDelete struct {
	*store.Memory
}

func (brokenDelete) Delete(context.Context, string) error {
	return errors.New("delete refused")
}

func TestModel_StatusReplacesError(t *testing.T) {
	k := newKnob(t)
	b := control.Bind(context.Background(), k, brokenDelete{store.NewMemory()}, "")
	defer b.Unbind()
	b.Wait()

	m := New(Config{Knob: k, Binding: b, StoreName: "memory", Cols: 41, Rows: 21})
	m = update(t, m, markersLoadedMsg{})

	m = update(t, m, keyRunes("c"))
	require.Error(t, m.err)
	assert.Contains(t, m.View(), "delete refused")

	m = update(t, m, keyRunes("s"))
	assert.NoError(t, m.err)
	assert.Equal(t, "snap off", m.status)
	assert.NotContains(t, m.View(), "delete refused")
	assert.Contains(t, m.View(), "snap off")
}

func TestModel_ApplyMsg(t *testing.T) {
	m := newModel(t)

	m = update(t, m, ApplyMsg(func() { m.knob.AddMarker(0.2) }))
	assert.Equal(t, []float64{0.2}, m.knob.Markers().Read())
}

func TestModel_View(t *testing.T) {
	m := newModel(t)
	m.knob.SetValue(0.25, false)
	m.knob.AddMarker(0.75)

	view := m.View()
	assert.Contains(t, view, "0.250")
	assert.Contains(t, view, "◆0.750")
	assert.Contains(t, view, "snap on")
	assert.Contains(t, view, "toggle marker")
}

func TestModel_Program(t *testing.T) {
	cancelled := false
	k := newKnob(t)
	m := New(Config{Knob: k, Cancel: func() { cancelled = true }, Cols: 21, Rows: 11})

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(80, 40))
	checker := defaultChecker()

	checker.checkString(t, tm, "markers none")

	tm.Send(keyRunes("m"))
	checker.checkString(t, tm, "marker added at 0.000")

	tm.Send(keyRunes("q"))
	tm.WaitFinished(t, teatest.WithFinalTimeout(checker.timeout))

	final, ok := tm.FinalModel(t).(Model)
	require.True(t, ok)
	assert.Equal(t, []float64{0}, final.knob.Markers().Read())
	assert.True(t, cancelled)
}

func TestModel_ShowsLoadedMarkers(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	seed := newKnob(t)
	seeding := control.Bind(ctx, seed, s, "")
	seeding.Wait()
	seed.AddMarker(0.4)
	seeding.Wait()
	seeding.Unbind()

	k := newKnob(t)
	b := control.Bind(ctx, k, s, "")
	b.Wait()

	m := New(Config{Knob: k, Binding: b, StoreName: "memory", Cols: 21, Rows: 11})
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(80, 40))
	checker := defaultChecker()

	checker.checkString(t, tm, "1 markers loaded from memory")
	checker.checkString(t, tm, "◆0.400")

	tm.Send(keyRunes("q"))
	tm.WaitFinished(t, teatest.WithFinalTimeout(checker.timeout))
}
