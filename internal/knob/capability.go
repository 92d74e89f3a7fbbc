package knob

// Color is an sRGB colour with normalized components.
type Color struct {
	R, G, B, A float64
}

// Components returns the colour as [r, g, b, a].
func (c Color) Components() []float64 {
	return []float64{c.R, c.G, c.B, c.A}
}

// ColorFromComponents builds a colour from [r, g, b, a]. It reports false
// when fewer than four components are present.
func ColorFromComponents(c []float64) (Color, bool) {
	if len(c) < 4 {
		return Color{}, false
	}

	return Color{R: c[0], G: c[1], B: c[2], A: c[3]}, true
}

// Common colours.
var (
	SystemBlue  = Color{R: 0, G: 0.478, B: 1, A: 1}
	SystemRed   = Color{R: 1, G: 0.231, B: 0.188, A: 1}
	SystemGray3 = Color{R: 0.780, G: 0.780, B: 0.800, A: 1}
)

// TrackStyle describes how the track arc is stroked.
type TrackStyle struct {
	LineWidth float64
	Color     Color
}

// PointerStyle describes the pointer segment drawn at the track's edge.
type PointerStyle struct {
	Length    float64
	LineWidth float64
	Color     Color
}

// DefaultTrackStyle and DefaultPointerStyle match the stock drawing styles.
var (
	DefaultTrackStyle   = TrackStyle{LineWidth: 2, Color: SystemBlue}
	DefaultPointerStyle = PointerStyle{Length: 6, LineWidth: 2, Color: SystemBlue}
)

// Renderer draws the knob. Animation of pointer moves is the renderer's concern.
type Renderer interface {
	SetPointerAngle(angle float64, animated bool)
	SetTrackGeometry(span AngleSpan, track TrackStyle, pointer PointerStyle)
	Invalidate()
}

// Haptics produces physical feedback. Intensity lies in [0,1].
type Haptics interface {
	Emit(intensity float64)
	// Prepare hints that feedback is imminent.
	Prepare()
}

// NopRenderer discards all drawing requests.
type NopRenderer struct{}

func (NopRenderer) SetPointerAngle(float64, bool)                        {}
func (NopRenderer) SetTrackGeometry(AngleSpan, TrackStyle, PointerStyle) {}
func (NopRenderer) Invalidate()                                          {}

// NopHaptics discards all feedback.
type NopHaptics struct{}

func (NopHaptics) Emit(float64) {}
func (NopHaptics) Prepare()     {}

var (
	_ Renderer = NopRenderer{}
	_ Haptics  = NopHaptics{}
)
