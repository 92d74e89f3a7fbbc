// Package marker holds the markers placed on a knob's value range and their
// persisted record format.
package marker

import (
	"errors"
	"fmt"
	"math"

	"github.com/alkime/knobs/internal/knob"
	"github.com/alkime/knobs/pkg/notify"
)

// ErrOutOfRange is returned when a marker index does not exist.
var ErrOutOfRange = errors.New("marker index out of range")

// Marker is a value on the knob's range with its own tick style.
type Marker struct {
	Value     float64
	Color     knob.Color
	Length    float64
	LineWidth float64
}

// Style is the default look of new markers plus the tolerance used to
// decide whether the knob sits on a marker.
type Style struct {
	Color     knob.Color
	Length    float64
	LineWidth float64
	Tolerance float64
}

// DefaultStyle returns red ticks of length 15 with a 0.02 tolerance.
func DefaultStyle() Style {
	return Style{
		Color:     knob.SystemRed,
		Length:    15,
		LineWidth: 2,
		Tolerance: 0.02,
	}
}

// Validate rejects negative or non-finite sizes.
func (s Style) Validate() error {
	checks := []struct {
		name string
		v    float64
	}{
		{"length", s.Length},
		{"line width", s.LineWidth},
		{"tolerance", s.Tolerance},
	}

	for _, c := range checks {
		if math.IsNaN(c.v) || math.IsInf(c.v, 0) || c.v < 0 {
			return fmt.Errorf("invalid marker style: %s %v", c.name, c.v)
		}
	}

	return nil
}

// At returns a marker at value drawn in this style.
func (s Style) At(value float64) Marker {
	return Marker{
		Value:     value,
		Color:     s.Color,
		Length:    s.Length,
		LineWidth: s.LineWidth,
	}
}

// Set is an ordered collection of markers. Insertion order is display and
// iteration order. Every mutation notifies listeners with the full sequence.
type Set struct {
	markers []Marker
	style   Style
	changed notify.List[[]Marker]
}

// NewSet returns an empty set whose convenience adds use style.
func NewSet(style Style) *Set {
	return &Set{style: style}
}

// Style returns the default style for new markers.
func (s *Set) Style() Style { return s.style }

// SetStyle replaces the default style. Existing markers keep their look.
func (s *Set) SetStyle(style Style) { s.style = style }

// Len returns the number of markers.
func (s *Set) Len() int { return len(s.markers) }

// At returns the marker at index i.
func (s *Set) At(i int) (Marker, bool) {
	if i < 0 || i >= len(s.markers) {
		return Marker{}, false
	}

	return s.markers[i], true
}

// Markers returns a copy of the ordered markers.
func (s *Set) Markers() []Marker {
	out := make([]Marker, len(s.markers))
	copy(out, s.markers)

	return out
}

// Read returns the marker values in order. It implements uictl.Levels.
func (s *Set) Read() []float64 {
	out := make([]float64, len(s.markers))
	for i, m := range s.markers {
		out[i] = m.Value
	}

	return out
}

// OnChange registers fn to receive the full sequence after each mutation.
func (s *Set) OnChange(fn func([]Marker)) notify.Handle {
	return s.changed.Add(fn)
}

// Add appends m.
func (s *Set) Add(m Marker) {
	s.markers = append(s.markers, m)
	s.notify()
}

// AddValue appends a marker at value in the set's default style.
func (s *Set) AddValue(value float64) {
	s.Add(s.style.At(value))
}

// RemoveAt deletes the marker at index i. An invalid index leaves the set
// untouched, sends no notification and returns ErrOutOfRange.
func (s *Set) RemoveAt(i int) error {
	if i < 0 || i >= len(s.markers) {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrOutOfRange, i, len(s.markers))
	}

	s.markers = append(s.markers[:i], s.markers[i+1:]...)
	s.notify()

	return nil
}

// RemoveAll empties the set.
func (s *Set) RemoveAll() {
	s.markers = nil
	s.notify()
}

// Replace swaps in a new sequence.
func (s *Set) Replace(markers []Marker) {
	s.markers = make([]Marker, len(markers))
	copy(s.markers, markers)
	s.notify()
}

// FindNear returns the index of the first marker, in insertion order, whose
// value is within tolerance of value.
func (s *Set) FindNear(value, tolerance float64) (int, bool) {
	for i, m := range s.markers {
		if math.Abs(m.Value-value) <= tolerance {
			return i, true
		}
	}

	return -1, false
}

func (s *Set) notify() {
	s.changed.Emit(s.Markers())
}
