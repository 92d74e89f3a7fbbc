package control

import "github.com/alkime/knobs/internal/knob"

// Drawing is everything needed to paint a marked knob at a given size.
type Drawing struct {
	Track   knob.Arc
	Pointer knob.Segment
	Markers []knob.Segment
	Symbol  Symbol
	// Glyph holds the strokes of the centre symbol.
	Glyph []knob.Segment
}

// Drawing lays out the knob for bounds. It has no side effects.
func (mk *MarkedKnob) Drawing(b knob.Bounds) Drawing {
	e := mk.engine
	track := e.TrackStyle()
	pointer := e.PointerStyle()
	center := b.Center()
	radius := knob.TrackRadius(b, track, pointer)

	d := Drawing{
		Track:   knob.TrackArc(b, e.AngleSpan(), track, pointer),
		Pointer: knob.PointerSegment(b, e.PointerAngle(), pointer),
	}

	for _, m := range mk.markers.Markers() {
		d.Markers = append(d.Markers, knob.Tick(center, radius, e.AngleFor(m.Value), m.Length, m.LineWidth, m.Color))
	}

	color := mk.symbol.Color
	if mk.IsAtMarker() {
		d.Symbol = SymbolMinus
		color = mk.symbol.ActiveColor
	}

	half := mk.symbol.Size / 2
	d.Glyph = append(d.Glyph, knob.Segment{
		From:      knob.Point{X: center.X - half, Y: center.Y},
		To:        knob.Point{X: center.X + half, Y: center.Y},
		LineWidth: mk.symbol.LineWidth,
		Color:     color,
	})

	if d.Symbol == SymbolPlus {
		d.Glyph = append(d.Glyph, knob.Segment{
			From:      knob.Point{X: center.X, Y: center.Y - half},
			To:        knob.Point{X: center.X, Y: center.Y + half},
			LineWidth: mk.symbol.LineWidth,
			Color:     color,
		})
	}

	return d
}
