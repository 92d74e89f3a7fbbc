package knob

import (
	"fmt"
	"math"
)

// Range is the numeric domain [Min, Max] a knob represents.
type Range struct {
	Min float64
	Max float64
}

// DefaultRange is the unit range.
var DefaultRange = Range{Min: 0, Max: 1}

// Validate reports whether the range can be mapped onto an angle span.
func (r Range) Validate() error {
	if !isFinite(r.Min) || !isFinite(r.Max) || r.Min >= r.Max {
		return fmt.Errorf("%w: min %v must be below max %v", ErrInvalidRange, r.Min, r.Max)
	}

	return nil
}

// Width returns Max - Min.
func (r Range) Width() float64 {
	return r.Max - r.Min
}

// Clamp limits v to the range.
func (r Range) Clamp(v float64) float64 {
	return min(r.Max, max(r.Min, v))
}

// Contains reports whether v lies within the range, inclusive.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// AngleSpan is the angular domain [Start, End] occupied by the track, in
// radians. The complement of the span is the gap.
type AngleSpan struct {
	Start float64
	End   float64
}

// DefaultAngleSpan leaves a quarter-turn gap centred at the bottom of the
// control in y-down screen coordinates.
var DefaultAngleSpan = AngleSpan{Start: -math.Pi * 11 / 8, End: math.Pi * 3 / 8}

// Validate reports whether the span is non-empty.
func (s AngleSpan) Validate() error {
	if !isFinite(s.Start) || !isFinite(s.End) || s.End <= s.Start {
		return fmt.Errorf("%w: end %v must be above start %v", ErrInvalidAngleSpan, s.End, s.Start)
	}

	return nil
}

// Width returns End - Start.
func (s AngleSpan) Width() float64 {
	return s.End - s.Start
}

// GapMidpoint returns the angle bisecting the gap opposite the track.
func (s AngleSpan) GapMidpoint() float64 {
	return (2*math.Pi+s.Start-s.End)/2 + s.End
}

// Clamp limits a to the span.
func (s AngleSpan) Clamp(a float64) float64 {
	return min(s.End, max(s.Start, a))
}

// ValueToAngle maps value, clamped to r, onto the span.
func ValueToAngle(value float64, r Range, s AngleSpan) float64 {
	return (r.Clamp(value)-r.Min)/r.Width()*s.Width() + s.Start
}

// AngleToValue is the inverse of ValueToAngle. The result is not clamped.
func AngleToValue(angle float64, r Range, s AngleSpan) float64 {
	return (angle-s.Start)/s.Width()*r.Width() + r.Min
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
