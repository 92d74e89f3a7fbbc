package knob

import "math"

// Bounds is the size of the control's drawing area. The origin is the
// top-left corner.
type Bounds struct {
	Width  float64
	Height float64
}

// Center returns the midpoint of the bounds.
func (b Bounds) Center() Point {
	return Point{X: b.Width / 2, Y: b.Height / 2}
}

// Arc is a stroked circular arc, clockwise from Start to End.
type Arc struct {
	Center    Point
	Radius    float64
	Start     float64
	End       float64
	LineWidth float64
	Color     Color
}

// Segment is a stroked straight line.
type Segment struct {
	From      Point
	To        Point
	LineWidth float64
	Color     Color
}

// Polar returns the point at radius and angle around center.
func Polar(center Point, radius, angle float64) Point {
	return Point{
		X: center.X + radius*math.Cos(angle),
		Y: center.Y + radius*math.Sin(angle),
	}
}

// TrackRadius leaves room for the pointer and half the thickest stroke.
func TrackRadius(b Bounds, track TrackStyle, pointer PointerStyle) float64 {
	lineWidth := max(pointer.LineWidth, track.LineWidth)
	offset := max(pointer.Length, lineWidth/2)

	return min(b.Width, b.Height)/2 - offset
}

// TrackArc returns the arc for the track.
func TrackArc(b Bounds, span AngleSpan, track TrackStyle, pointer PointerStyle) Arc {
	return Arc{
		Center:    b.Center(),
		Radius:    TrackRadius(b, track, pointer),
		Start:     span.Start,
		End:       span.End,
		LineWidth: track.LineWidth,
		Color:     track.Color,
	}
}

// PointerSegment returns the pointer, running inward from the outer edge
// of the bounds at angle.
func PointerSegment(b Bounds, angle float64, pointer PointerStyle) Segment {
	c := b.Center()
	outer := min(b.Width, b.Height) / 2
	inner := outer - pointer.Length - pointer.LineWidth/2

	return Segment{
		From:      Polar(c, inner, angle),
		To:        Polar(c, outer, angle),
		LineWidth: pointer.LineWidth,
		Color:     pointer.Color,
	}
}

// Tick returns a radial segment from radius inward by length.
func Tick(center Point, radius, angle, length, lineWidth float64, color Color) Segment {
	return Segment{
		From:      Polar(center, radius, angle),
		To:        Polar(center, radius-length, angle),
		LineWidth: lineWidth,
		Color:     color,
	}
}
