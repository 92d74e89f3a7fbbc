package control_test

import (
	"testing"

	"github.com/alkime/knobs/internal/control"
	"github.com/alkime/knobs/internal/knob"
	"github.com/alkime/knobs/internal/marker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHaptics struct {
	emits []float64
}

func (h *recordingHaptics) Emit(intensity float64) { h.emits = append(h.emits, intensity) }
func (h *recordingHaptics) Prepare()               {}

type recordingRenderer struct {
	knob.NopRenderer
	markerCalls int
	lastMarkers []marker.Marker
	invalidated int
}

func (r *recordingRenderer) SetMarkerGeometry(ms []marker.Marker, _ func(float64) float64) {
	r.markerCalls++
	r.lastMarkers = ms
}

func (r *recordingRenderer) Invalidate() { r.invalidated++ }

func newKnob(t *testing.T, mutate func(*control.Options)) (*control.MarkedKnob, *recordingHaptics) {
	t.Helper()

	h := &recordingHaptics{}
	opts := control.DefaultOptions()
	opts.Engine.Haptics = h
	opts.Engine.Haptic.Style = knob.HapticNone
	if mutate != nil {
		mutate(&opts)
	}

	mk, err := control.New(opts)
	require.NoError(t, err)

	return mk, h
}

// release drags the knob to value and lets go.
func release(mk *control.MarkedKnob, value float64) {
	e := mk.Engine()
	e.SetValue(value, false)
	e.GestureBegin()
	e.GestureEnd()
}

func TestNew_RejectsInvalidOptions(t *testing.T) {
	opts := control.DefaultOptions()
	opts.Snap.Threshold = -1
	_, err := control.New(opts)
	require.ErrorIs(t, err, control.ErrInvalidSnapConfig)

	opts = control.DefaultOptions()
	opts.Engine.Range = knob.Range{Min: 3, Max: 2}
	_, err = control.New(opts)
	require.ErrorIs(t, err, knob.ErrInvalidRange)

	opts = control.DefaultOptions()
	opts.MarkerStyle.Length = -4
	_, err = control.New(opts)
	require.Error(t, err)
}

func TestMarkedKnob_SnapOnRelease(t *testing.T) {
	mk, h := newKnob(t, func(o *control.Options) {
		o.Snap = control.SnapConfig{Enabled: true, Threshold: 0.08}
	})
	for _, v := range []float64{0.2, 0.5, 0.9} {
		mk.AddMarker(v)
	}

	var values []float64
	var ended []knob.GestureEnded
	mk.OnValueChanged(func(v float64) { values = append(values, v) })
	mk.OnGestureEnded(func(g knob.GestureEnded) { ended = append(ended, g) })

	release(mk, 0.47)
	assert.InDelta(t, 0.5, mk.Value(), 1e-12)
	require.Len(t, values, 2, "gesture end then snap")
	assert.InDelta(t, 0.5, values[1], 1e-12)
	require.Len(t, ended, 1)
	assert.InDelta(t, 0.5, ended[0].Value, 1e-12)
	assert.Equal(t, []float64{control.SnapIntensity}, h.emits, "snap feedback ignores haptic style")

	h.emits = nil
	release(mk, 0.65)
	assert.InDelta(t, 0.65, mk.Value(), 1e-12)
	assert.Empty(t, h.emits)
	assert.Len(t, ended, 2)
}

func TestMarkedKnob_SnapTieGoesToFirstMarker(t *testing.T) {
	mk, _ := newKnob(t, func(o *control.Options) {
		o.Snap = control.SnapConfig{Enabled: true, Threshold: 0.1}
	})
	mk.AddMarker(0.6)
	mk.AddMarker(0.4)

	release(mk, 0.5)
	assert.InDelta(t, 0.6, mk.Value(), 1e-12)
}

func TestMarkedKnob_SnapDisabled(t *testing.T) {
	mk, h := newKnob(t, func(o *control.Options) { o.Snap = control.SnapDisabled })
	mk.AddMarker(0.5)

	release(mk, 0.49)
	assert.InDelta(t, 0.49, mk.Value(), 1e-12)
	assert.Empty(t, h.emits)

	require.ErrorIs(t, mk.SetSnapConfig(control.SnapConfig{Threshold: -0.1}), control.ErrInvalidSnapConfig)
	assert.Equal(t, control.SnapDisabled, mk.SnapConfig())
}

func TestMarkedKnob_RemoveMarkerOutOfRange(t *testing.T) {
	mk, _ := newKnob(t, nil)
	mk.AddMarker(0.3)
	mk.AddMarker(0.7)

	notified := 0
	mk.OnMarkersChanged(func([]marker.Marker) { notified++ })

	mk.RemoveMarker(99)
	mk.RemoveMarker(-1)

	assert.Equal(t, 0, notified)
	assert.Equal(t, []float64{0.3, 0.7}, mk.Markers().Read())
}

func TestMarkedKnob_AddMarkerOptions(t *testing.T) {
	mk, _ := newKnob(t, nil)
	mk.AddMarker(2, control.WithColor(knob.SystemBlue), control.WithLength(8), control.WithLineWidth(3))

	m, ok := mk.Markers().At(0)
	require.True(t, ok)
	assert.Equal(t, marker.Marker{Value: 1, Color: knob.SystemBlue, Length: 8, LineWidth: 3}, m)

	mk.SetValue(0.25, false)
	mk.AddMarkerAtCurrentPosition()
	m, _ = mk.Markers().At(1)
	assert.Equal(t, marker.DefaultStyle().At(0.25), m)
}

func TestMarkedKnob_Tap(t *testing.T) {
	mk, h := newKnob(t, nil)
	bounds := knob.Bounds{Width: 200, Height: 200}
	mk.SetValue(0.4, false)

	assert.False(t, mk.Tap(knob.Point{X: 10, Y: 10}, bounds), "outside the tap radius")
	assert.Equal(t, 0, mk.Markers().Len())

	require.True(t, mk.Tap(knob.Point{X: 110, Y: 105}, bounds))
	assert.Equal(t, []float64{0.4}, mk.Markers().Read())
	assert.True(t, mk.IsAtMarker())

	mk.SetValue(0.41, false)
	require.True(t, mk.Tap(bounds.Center(), bounds))
	assert.Equal(t, 0, mk.Markers().Len())

	assert.Equal(t, []float64{control.MarkerAddedIntensity, control.MarkerRemovedIntensity}, h.emits)
}

func TestMarkedKnob_RendererUpdates(t *testing.T) {
	r := &recordingRenderer{}
	mk, _ := newKnob(t, func(o *control.Options) { o.Renderer = r })

	mk.AddMarker(0.5)
	assert.Equal(t, 1, r.markerCalls)
	assert.Len(t, r.lastMarkers, 1)

	require.NoError(t, mk.SetRange(knob.Range{Min: 0, Max: 2}))
	assert.Equal(t, 2, r.markerCalls)
	assert.Positive(t, r.invalidated)
}

func TestMarkedKnob_Drawing(t *testing.T) {
	mk, _ := newKnob(t, nil)
	b := knob.Bounds{Width: 100, Height: 100}

	d := mk.Drawing(b)
	assert.Equal(t, control.SymbolPlus, d.Symbol)
	assert.Len(t, d.Glyph, 2)
	assert.Empty(t, d.Markers)
	assert.InDelta(t, 44, d.Track.Radius, 1e-12)
	assert.Equal(t, knob.SystemBlue, d.Glyph[0].Color)

	mk.AddMarkerAtCurrentPosition()
	d = mk.Drawing(b)
	assert.Equal(t, control.SymbolMinus, d.Symbol)
	require.Len(t, d.Glyph, 1)
	assert.Equal(t, knob.SystemRed, d.Glyph[0].Color)
	require.Len(t, d.Markers, 1)
	// tick runs from the track radius inward by the marker length
	assert.InDelta(t, 44, knob.Distance(d.Markers[0].From, b.Center()), 1e-9)
	assert.InDelta(t, 29, knob.Distance(d.Markers[0].To, b.Center()), 1e-9)
}
