package knob

import "math"

// Point is a location in the control's coordinate space. Y grows downward,
// so positive angles turn clockwise on screen.
type Point struct {
	X float64
	Y float64
}

// TouchAngle returns the angle from center to p as reported by atan2, in
// (-π, π]. It depends only on the two points, never on gesture history.
func TouchAngle(p, center Point) float64 {
	return math.Atan2(p.Y-center.Y, p.X-center.X)
}

// Distance returns the euclidean distance between two points.
func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
