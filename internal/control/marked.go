// Package control composes the knob engine with a marker set: tap to
// toggle markers, snap on release, and persistence of the marker set.
package control

import (
	"log/slog"
	"math"

	"github.com/alkime/knobs/internal/knob"
	"github.com/alkime/knobs/internal/marker"
	"github.com/alkime/knobs/pkg/notify"
)

// Renderer draws a marked knob.
type Renderer interface {
	knob.Renderer
	// SetMarkerGeometry is called whenever the marker ticks must be redrawn.
	SetMarkerGeometry(markers []marker.Marker, angleFor func(value float64) float64)
}

type nopRenderer struct{ knob.NopRenderer }

func (nopRenderer) SetMarkerGeometry([]marker.Marker, func(float64) float64) {}

// Symbol is the glyph drawn at the centre of the knob.
type Symbol int

const (
	// SymbolPlus means a tap adds a marker.
	SymbolPlus Symbol = iota
	// SymbolMinus means the knob sits on a marker and a tap removes it.
	SymbolMinus
)

func (s Symbol) String() string {
	if s == SymbolMinus {
		return "minus"
	}

	return "plus"
}

// SymbolStyle describes the centre glyph and its tap target.
type SymbolStyle struct {
	Color       knob.Color
	ActiveColor knob.Color
	Size        float64
	LineWidth   float64
	TapRadius   float64
}

func DefaultSymbolStyle() SymbolStyle {
	return SymbolStyle{
		Color:       knob.SystemBlue,
		ActiveColor: knob.SystemRed,
		Size:        20,
		LineWidth:   2,
		TapRadius:   22,
	}
}

// Options configures a MarkedKnob.
type Options struct {
	Engine      knob.Config
	MarkerStyle marker.Style
	Snap        SnapConfig
	Symbol      SymbolStyle
	// Renderer, when set, replaces Engine.Renderer.
	Renderer Renderer
	Logger   *slog.Logger
}

func DefaultOptions() Options {
	return Options{
		Engine:      knob.DefaultConfig(),
		MarkerStyle: marker.DefaultStyle(),
		Snap:        DefaultSnapConfig(),
		Symbol:      DefaultSymbolStyle(),
	}
}

// MarkedKnob is a knob with markers. Like the engine it wraps, it belongs
// to a single owner and is not safe for concurrent use.
type MarkedKnob struct {
	engine   *knob.Engine
	markers  *marker.Set
	snap     SnapConfig
	symbol   SymbolStyle
	renderer Renderer
	logger   *slog.Logger

	valueChanged notify.List[float64]
	gestureEnded notify.List[knob.GestureEnded]
}

// New validates opts and builds a MarkedKnob.
func New(opts Options) (*MarkedKnob, error) {
	if err := opts.MarkerStyle.Validate(); err != nil {
		return nil, err
	}

	if err := opts.Snap.Validate(); err != nil {
		return nil, err
	}

	mk := &MarkedKnob{
		markers:  marker.NewSet(opts.MarkerStyle),
		snap:     opts.Snap,
		symbol:   opts.Symbol,
		renderer: opts.Renderer,
		logger:   opts.Logger,
	}

	if mk.logger == nil {
		mk.logger = slog.Default()
	}

	cfg := opts.Engine
	if mk.renderer != nil {
		cfg.Renderer = mk.renderer
	} else {
		mk.renderer = nopRenderer{}
	}

	if cfg.Logger == nil {
		cfg.Logger = mk.logger
	}

	engine, err := knob.NewEngine(cfg)
	if err != nil {
		return nil, err
	}

	mk.engine = engine

	engine.OnValueChanged(func(v float64) {
		mk.renderer.Invalidate()
		mk.valueChanged.Emit(v)
	})
	engine.OnGestureEnded(mk.handleGestureEnded)
	mk.markers.OnChange(func(ms []marker.Marker) {
		mk.renderer.SetMarkerGeometry(ms, engine.AngleFor)
		mk.renderer.Invalidate()
	})

	return mk, nil
}

// Engine exposes the underlying knob for gesture input and configuration.
func (mk *MarkedKnob) Engine() *knob.Engine { return mk.engine }

// Markers exposes the marker set.
func (mk *MarkedKnob) Markers() *marker.Set { return mk.markers }

func (mk *MarkedKnob) Value() float64 { return mk.engine.Value() }

// SetValue moves the knob without notifying listeners.
func (mk *MarkedKnob) SetValue(v float64, animated bool) {
	mk.engine.SetValue(v, animated)
	mk.renderer.Invalidate()
}

func (mk *MarkedKnob) SnapConfig() SnapConfig { return mk.snap }

func (mk *MarkedKnob) SetSnapConfig(c SnapConfig) error {
	if err := c.Validate(); err != nil {
		return err
	}

	mk.snap = c

	return nil
}

func (mk *MarkedKnob) MarkerStyle() marker.Style { return mk.markers.Style() }

// SetMarkerStyle changes the style of markers added from now on.
func (mk *MarkedKnob) SetMarkerStyle(s marker.Style) error {
	if err := s.Validate(); err != nil {
		return err
	}

	mk.markers.SetStyle(s)
	mk.refreshMarkers()

	return nil
}

func (mk *MarkedKnob) SymbolStyle() SymbolStyle { return mk.symbol }

func (mk *MarkedKnob) SetSymbolStyle(s SymbolStyle) {
	mk.symbol = s
	mk.renderer.Invalidate()
}

// SetRange changes the value range. Marker ticks are re-laid out.
func (mk *MarkedKnob) SetRange(r knob.Range) error {
	if err := mk.engine.SetRange(r); err != nil {
		return err
	}

	mk.refreshMarkers()

	return nil
}

// SetAngleSpan changes the track span. Marker ticks are re-laid out.
func (mk *MarkedKnob) SetAngleSpan(s knob.AngleSpan) error {
	if err := mk.engine.SetAngleSpan(s); err != nil {
		return err
	}

	mk.refreshMarkers()

	return nil
}

func (mk *MarkedKnob) SetHapticConfig(c knob.HapticConfig) error {
	return mk.engine.SetHapticConfig(c)
}

func (mk *MarkedKnob) refreshMarkers() {
	mk.renderer.SetMarkerGeometry(mk.markers.Markers(), mk.engine.AngleFor)
	mk.renderer.Invalidate()
}

// MarkerOption overrides the default style for a single marker.
type MarkerOption func(*marker.Marker)

func WithColor(c knob.Color) MarkerOption {
	return func(m *marker.Marker) { m.Color = c }
}

func WithLength(l float64) MarkerOption {
	return func(m *marker.Marker) { m.Length = l }
}

func WithLineWidth(w float64) MarkerOption {
	return func(m *marker.Marker) { m.LineWidth = w }
}

// AddMarkerAtCurrentPosition adds a default-styled marker at the current value.
func (mk *MarkedKnob) AddMarkerAtCurrentPosition() {
	mk.markers.AddValue(mk.engine.Value())
}

// AddMarker adds a marker at value, clamped to the range. NaN is ignored.
func (mk *MarkedKnob) AddMarker(value float64, opts ...MarkerOption) {
	if math.IsNaN(value) {
		return
	}

	m := mk.markers.Style().At(mk.engine.Range().Clamp(value))
	for _, opt := range opts {
		opt(&m)
	}

	mk.markers.Add(m)
}

// RemoveMarker removes the marker at index. An invalid index is ignored.
func (mk *MarkedKnob) RemoveMarker(index int) {
	if err := mk.markers.RemoveAt(index); err != nil {
		mk.logger.Debug("ignoring marker removal", "index", index, "error", err)
	}
}

func (mk *MarkedKnob) RemoveAllMarkers() {
	mk.markers.RemoveAll()
}

// MarkerAtCurrentValue returns the index of the first marker within the
// style tolerance of the current value.
func (mk *MarkedKnob) MarkerAtCurrentValue() (int, bool) {
	return mk.markers.FindNear(mk.engine.Value(), mk.markers.Style().Tolerance)
}

func (mk *MarkedKnob) IsAtMarker() bool {
	_, ok := mk.MarkerAtCurrentValue()
	return ok
}

// Tap toggles a marker at the current value when p lies within the symbol's
// tap radius. It reports whether the tap was handled.
func (mk *MarkedKnob) Tap(p knob.Point, b knob.Bounds) bool {
	if knob.Distance(p, b.Center()) > mk.symbol.TapRadius {
		return false
	}

	if i, ok := mk.MarkerAtCurrentValue(); ok {
		mk.RemoveMarker(i)
		mk.engine.Feedback(knob.Feedback{Kind: knob.FeedbackMarkerRemoved, Intensity: MarkerRemovedIntensity})
	} else {
		mk.AddMarkerAtCurrentPosition()
		mk.engine.Feedback(knob.Feedback{Kind: knob.FeedbackMarkerAdded, Intensity: MarkerAddedIntensity})
	}

	return true
}

// OnValueChanged registers fn for value changes, including snaps.
func (mk *MarkedKnob) OnValueChanged(fn func(float64)) notify.Handle {
	return mk.valueChanged.Add(fn)
}

// OnMarkersChanged registers fn for marker set mutations.
func (mk *MarkedKnob) OnMarkersChanged(fn func([]marker.Marker)) notify.Handle {
	return mk.markers.OnChange(fn)
}

// OnGestureEnded registers fn for the end of a drag. It runs after any snap,
// so the value it receives is the settled one.
func (mk *MarkedKnob) OnGestureEnded(fn func(knob.GestureEnded)) notify.Handle {
	return mk.gestureEnded.Add(fn)
}

func (mk *MarkedKnob) handleGestureEnded(g knob.GestureEnded) {
	if mk.snap.Enabled && mk.markers.Len() > 0 {
		if m, ok := (SnapPolicy{Config: mk.snap}).Nearest(mk.engine.Value(), mk.markers.Markers()); ok {
			mk.logger.Debug("snapping to marker", "from", mk.engine.Value(), "to", m.Value)
			mk.engine.SetValue(m.Value, mk.snap.Animated)
			mk.engine.EmitValueChanged()
			mk.engine.Feedback(knob.Feedback{Kind: knob.FeedbackSnap, Intensity: SnapIntensity})
			g.Value = mk.engine.Value()
		}
	}

	mk.gestureEnded.Emit(g)
}
