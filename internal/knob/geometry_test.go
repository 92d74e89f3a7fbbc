package knob_test

import (
	"math"
	"testing"

	"github.com/alkime/knobs/internal/knob"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueAngleRoundTrip(t *testing.T) {
	ranges := []knob.Range{knob.DefaultRange, {Min: -20, Max: 80}, {Min: 0.001, Max: 0.002}}
	spans := []knob.AngleSpan{knob.DefaultAngleSpan, {Start: 0, End: math.Pi}, {Start: -1, End: 5}}

	for _, r := range ranges {
		for _, s := range spans {
			for i := 0; i <= 50; i++ {
				v := r.Min + r.Width()*float64(i)/50
				got := knob.AngleToValue(knob.ValueToAngle(v, r, s), r, s)
				assert.InDelta(t, v, got, 1e-9*max(1, math.Abs(r.Max)))
			}
		}
	}
}

func TestValueToAngle(t *testing.T) {
	r := knob.DefaultRange
	s := knob.AngleSpan{Start: 0, End: 2}

	assert.InDelta(t, 0.0, knob.ValueToAngle(0, r, s), 1e-12)
	assert.InDelta(t, 1.0, knob.ValueToAngle(0.5, r, s), 1e-12)
	assert.InDelta(t, 2.0, knob.ValueToAngle(1, r, s), 1e-12)

	t.Run("clamps out of range values", func(t *testing.T) {
		assert.InDelta(t, 0.0, knob.ValueToAngle(-4, r, s), 1e-12)
		assert.InDelta(t, 2.0, knob.ValueToAngle(4, r, s), 1e-12)
	})

	t.Run("inverse does not clamp", func(t *testing.T) {
		assert.InDelta(t, 1.5, knob.AngleToValue(3, r, s), 1e-12)
	})
}

func TestRangeAndSpanValidate(t *testing.T) {
	require.NoError(t, knob.DefaultRange.Validate())
	require.NoError(t, knob.DefaultAngleSpan.Validate())

	assert.ErrorIs(t, knob.Range{Min: 1, Max: 0}.Validate(), knob.ErrInvalidRange)
	assert.ErrorIs(t, knob.Range{Min: 0, Max: math.NaN()}.Validate(), knob.ErrInvalidRange)
	assert.ErrorIs(t, knob.AngleSpan{Start: 2, End: 2}.Validate(), knob.ErrInvalidAngleSpan)
	assert.ErrorIs(t, knob.AngleSpan{Start: 0, End: math.Inf(1)}.Validate(), knob.ErrInvalidAngleSpan)
}

func TestGapMidpoint(t *testing.T) {
	assert.InDelta(t, math.Pi/2, knob.DefaultAngleSpan.GapMidpoint(), 1e-12)
	assert.InDelta(t, 3*math.Pi/2, knob.AngleSpan{Start: 0, End: math.Pi}.GapMidpoint(), 1e-12)
}

func TestTouchAngle(t *testing.T) {
	c := knob.Point{X: 10, Y: 10}

	assert.InDelta(t, 0.0, knob.TouchAngle(knob.Point{X: 20, Y: 10}, c), 1e-12)
	assert.InDelta(t, math.Pi/2, knob.TouchAngle(knob.Point{X: 10, Y: 20}, c), 1e-12)
	assert.InDelta(t, math.Pi, knob.TouchAngle(knob.Point{X: 0, Y: 10}, c), 1e-12)
	assert.InDelta(t, -math.Pi/2, knob.TouchAngle(knob.Point{X: 10, Y: 0}, c), 1e-12)
	assert.InDelta(t, 5.0, knob.Distance(knob.Point{X: 13, Y: 14}, c), 1e-12)
}

func TestDrawableGeometry(t *testing.T) {
	b := knob.Bounds{Width: 120, Height: 100}
	track := knob.TrackStyle{LineWidth: 4, Color: knob.SystemGray3}
	pointer := knob.PointerStyle{Length: 14, LineWidth: 4, Color: knob.SystemBlue}

	assert.InDelta(t, 36.0, knob.TrackRadius(b, track, pointer), 1e-12)

	arc := knob.TrackArc(b, knob.DefaultAngleSpan, track, pointer)
	assert.Equal(t, knob.Point{X: 60, Y: 50}, arc.Center)
	assert.InDelta(t, knob.DefaultAngleSpan.Start, arc.Start, 1e-12)

	seg := knob.PointerSegment(b, 0, pointer)
	assert.InDelta(t, 110.0, seg.To.X, 1e-9)
	assert.InDelta(t, 94.0, seg.From.X, 1e-9)
	assert.InDelta(t, 50.0, seg.From.Y, 1e-9)

	tick := knob.Tick(arc.Center, 36, math.Pi/2, 15, 2, knob.SystemRed)
	assert.InDelta(t, 86.0, tick.From.Y, 1e-9)
	assert.InDelta(t, 71.0, tick.To.Y, 1e-9)
}
