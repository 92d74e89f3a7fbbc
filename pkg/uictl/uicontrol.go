// Package uictl defines read-side interfaces shared by controls and the
// surfaces that display them.
package uictl

import "golang.org/x/exp/constraints"

type Number interface {
	constraints.Integer | constraints.Float
}

// Switch is a simple on/off toggle control.
type Switch interface {
	Read() bool
	On()
	Off()
	Toggle()
}

// Dial is a control that can read some value.
type Dial[N Number] interface {
	Read() N
}

// BoundedDial is a Dial whose value always lies within Bounds.
type BoundedDial[N Number] interface {
	Dial[N]
	Bounds() (lo, hi N)
}

// Levels is a control that can read multiple levels.
type Levels[N Number] interface {
	Read() []N
}

// Fraction reports where the dial sits within its bounds, from 0 to 1.
func Fraction[N Number](d BoundedDial[N]) float64 {
	lo, hi := d.Bounds()
	if hi <= lo {
		return 0
	}

	f := float64(d.Read()-lo) / float64(hi-lo)

	return min(1, max(0, f))
}
