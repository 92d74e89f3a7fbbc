// Package knob implements the rotary knob state machine: value to angle
// mapping, drag interpretation with gap handling, and haptic decisions.
//
// An Engine is owned by a single execution context (the UI loop) and is not
// safe for concurrent use.
package knob

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/alkime/knobs/pkg/notify"
	"github.com/alkime/knobs/pkg/uictl"
)

// State is the engine's gesture state.
type State int

const (
	StateIdle State = iota
	StateDragging
)

func (s State) String() string {
	if s == StateDragging {
		return "dragging"
	}

	return "idle"
}

// GestureEnded is delivered when a drag finishes.
type GestureEnded struct {
	Value     float64
	Cancelled bool
}

// Config holds the engine's configuration. Zero-valued collaborators are
// replaced by no-op implementations.
type Config struct {
	Range        Range
	Span         AngleSpan
	Haptic       HapticConfig
	Track        TrackStyle
	Pointer      PointerStyle
	Continuous   bool
	InitialValue float64

	Renderer Renderer
	Haptics  Haptics
	Logger   *slog.Logger
}

// DefaultConfig returns the stock knob configuration.
func DefaultConfig() Config {
	return Config{
		Range:      DefaultRange,
		Span:       DefaultAngleSpan,
		Haptic:     DefaultHapticConfig(),
		Track:      DefaultTrackStyle,
		Pointer:    DefaultPointerStyle,
		Continuous: true,
	}
}

// Engine holds the knob value and turns drag input into value changes.
type Engine struct {
	rng        Range
	span       AngleSpan
	haptic     HapticConfig
	track      TrackStyle
	pointer    PointerStyle
	continuous bool

	value        float64
	pointerAngle float64
	session      *GestureSession

	renderer Renderer
	haptics  Haptics
	logger   *slog.Logger

	valueChanged notify.List[float64]
	gestureEnded notify.List[GestureEnded]
}

var _ uictl.BoundedDial[float64] = (*Engine)(nil)

// NewEngine validates cfg and returns an idle engine.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Range.Validate(); err != nil {
		return nil, err
	}

	if err := cfg.Span.Validate(); err != nil {
		return nil, err
	}

	if err := cfg.Haptic.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		rng:        cfg.Range,
		span:       cfg.Span,
		haptic:     cfg.Haptic,
		track:      cfg.Track,
		pointer:    cfg.Pointer,
		continuous: cfg.Continuous,
		renderer:   cfg.Renderer,
		haptics:    cfg.Haptics,
		logger:     cfg.Logger,
	}

	if e.renderer == nil {
		e.renderer = NopRenderer{}
	}

	if e.haptics == nil {
		e.haptics = NopHaptics{}
	}

	if e.logger == nil {
		e.logger = slog.Default()
	}

	e.renderer.SetTrackGeometry(e.span, e.track, e.pointer)
	e.SetValue(cfg.InitialValue, false)

	return e, nil
}

// Value returns the current value.
func (e *Engine) Value() float64 { return e.value }

// Read implements uictl.Dial.
func (e *Engine) Read() float64 { return e.value }

// Bounds implements uictl.BoundedDial.
func (e *Engine) Bounds() (float64, float64) { return e.rng.Min, e.rng.Max }

// Range returns the value range.
func (e *Engine) Range() Range { return e.rng }

// AngleSpan returns the track's angle span.
func (e *Engine) AngleSpan() AngleSpan { return e.span }

// HapticConfig returns the drag feedback configuration.
func (e *Engine) HapticConfig() HapticConfig { return e.haptic }

// TrackStyle returns the track's drawing style.
func (e *Engine) TrackStyle() TrackStyle { return e.track }

// PointerStyle returns the pointer's drawing style.
func (e *Engine) PointerStyle() PointerStyle { return e.pointer }

// Continuous reports whether value changes are emitted during a drag.
func (e *Engine) Continuous() bool { return e.continuous }

// PointerAngle returns the angle the pointer was last drawn at.
func (e *Engine) PointerAngle() float64 { return e.pointerAngle }

// State returns Idle or Dragging.
func (e *Engine) State() State {
	if e.session != nil {
		return StateDragging
	}

	return StateIdle
}

// Session returns a copy of the active gesture session, if any.
func (e *Engine) Session() (GestureSession, bool) {
	if e.session == nil {
		return GestureSession{}, false
	}

	return *e.session, true
}

// AngleFor maps a value onto the track.
func (e *Engine) AngleFor(value float64) float64 {
	return ValueToAngle(value, e.rng, e.span)
}

// SetValue clamps v to the range, stores it and moves the pointer.
// It does not emit a value-changed notification.
func (e *Engine) SetValue(v float64, animated bool) {
	if math.IsNaN(v) {
		return
	}

	e.value = e.rng.Clamp(v)
	e.pointerAngle = ValueToAngle(e.value, e.rng, e.span)
	e.renderer.SetPointerAngle(e.pointerAngle, animated)
}

// SetRange replaces the value range and re-clamps the current value.
func (e *Engine) SetRange(r Range) error {
	if err := r.Validate(); err != nil {
		return err
	}

	e.rng = r
	e.SetValue(e.value, false)

	return nil
}

// SetAngleSpan replaces the track's angle span.
func (e *Engine) SetAngleSpan(s AngleSpan) error {
	if err := s.Validate(); err != nil {
		return err
	}

	e.span = s
	e.renderer.SetTrackGeometry(e.span, e.track, e.pointer)
	e.SetValue(e.value, false)

	return nil
}

// SetHapticConfig replaces the drag feedback configuration.
func (e *Engine) SetHapticConfig(c HapticConfig) error {
	if err := c.Validate(); err != nil {
		return err
	}

	e.haptic = c

	return nil
}

// SetStyles replaces the track and pointer drawing styles.
func (e *Engine) SetStyles(track TrackStyle, pointer PointerStyle) {
	e.track = track
	e.pointer = pointer
	e.renderer.SetTrackGeometry(e.span, e.track, e.pointer)
	e.renderer.Invalidate()
}

// SetContinuous selects whether value changes are emitted on every move
// or only when the gesture ends.
func (e *Engine) SetContinuous(continuous bool) {
	e.continuous = continuous
}

// OnValueChanged registers fn for value-changed notifications.
func (e *Engine) OnValueChanged(fn func(float64)) notify.Handle {
	return e.valueChanged.Add(fn)
}

// OnGestureEnded registers fn for gesture-ended notifications.
func (e *Engine) OnGestureEnded(fn func(GestureEnded)) notify.Handle {
	return e.gestureEnded.Add(fn)
}

// EmitValueChanged notifies value-changed listeners of the current value.
func (e *Engine) EmitValueChanged() {
	e.valueChanged.Emit(e.value)
}

// Feedback sends one feedback event to the haptics capability.
func (e *Engine) Feedback(f Feedback) {
	e.logger.Debug("knob feedback", "kind", f.Kind.String(), "intensity", f.Intensity)
	e.haptics.Emit(f.Intensity)
}

// GestureBegin starts a drag from the current pointer angle. Beginning
// while already dragging restarts the session.
func (e *Engine) GestureBegin() {
	if e.session != nil {
		e.logger.Debug("knob gesture restarted while dragging")
	}

	e.session = &GestureSession{
		LastBoundedAngle:         e.pointerAngle,
		HasFiredBoundaryFeedback: false,
		LastStepIndex:            StepIndex(e.value, e.haptic.StepInterval),
	}

	if e.haptic.Style != HapticNone {
		e.haptics.Prepare()
	}
}

// GestureMove applies a touch angle, as produced by TouchAngle, to the
// active drag. It is ignored while idle.
func (e *Engine) GestureMove(touchAngle float64) {
	if e.session == nil || math.IsNaN(touchAngle) {
		return
	}

	e.apply(touchAngle)

	if e.continuous {
		e.EmitValueChanged()
	}
}

// GestureEnd finishes the drag without a final move.
func (e *Engine) GestureEnd() {
	e.finish(false)
}

// GestureEndAt applies a final touch angle and finishes the drag. The value
// change is emitted once for this event.
func (e *Engine) GestureEndAt(touchAngle float64) {
	if e.session == nil {
		return
	}

	if !math.IsNaN(touchAngle) {
		e.apply(touchAngle)
	}

	e.finish(false)
}

// GestureCancel abandons the drag, keeping the value reached so far.
func (e *Engine) GestureCancel() {
	e.finish(true)
}

func (e *Engine) finish(cancelled bool) {
	if e.session == nil {
		return
	}

	e.session = nil
	e.EmitValueChanged()
	e.gestureEnded.Emit(GestureEnded{Value: e.value, Cancelled: cancelled})
}

// apply runs one move of the drag state machine without notifying.
func (e *Engine) apply(touchAngle float64) {
	s := e.span
	mid := s.GapMidpoint()

	// unwrap the raw atan2 angle onto the track's winding
	angle := touchAngle
	if angle > mid {
		angle -= 2 * math.Pi
	} else if angle < mid-2*math.Pi {
		angle -= 2 * math.Pi
	}

	bounded := s.Clamp(angle)

	didHitBoundary := false
	last := e.session.LastBoundedAngle
	jumpThreshold := s.Width() * 0.5

	if math.Abs(bounded-last) > jumpThreshold {
		// crossed the gap in a single step
		didHitBoundary = true

		switch {
		case last < s.Start+jumpThreshold:
			bounded = s.Start
		case last > s.End-jumpThreshold:
			bounded = s.End
		default:
			bounded = last
		}
	}

	e.session.LastBoundedAngle = bounded

	newValue := e.rng.Clamp(AngleToValue(bounded, e.rng, s))
	isAtBoundary := bounded <= s.Start || bounded >= s.End

	policy := HapticPolicy{Config: e.haptic, Range: e.rng}
	for _, f := range policy.Apply(e.session, newValue, isAtBoundary, didHitBoundary) {
		e.Feedback(f)
	}

	e.SetValue(newValue, false)
}

// String is used in logs.
func (e *Engine) String() string {
	return fmt.Sprintf("knob(value=%.4f state=%s)", e.value, e.State())
}
