package knob

import (
	"fmt"
	"strings"
)

// HapticStyle selects which kinds of drag feedback are produced.
type HapticStyle int

const (
	HapticNone HapticStyle = iota
	HapticStep
	HapticBoundary
	HapticStepAndBoundary
)

// String returns the configuration name of the style.
func (s HapticStyle) String() string {
	switch s {
	case HapticNone:
		return "none"
	case HapticStep:
		return "step"
	case HapticBoundary:
		return "boundary"
	case HapticStepAndBoundary:
		return "step-and-boundary"
	default:
		return fmt.Sprintf("HapticStyle(%d)", int(s))
	}
}

// Next cycles through the styles in declaration order.
func (s HapticStyle) Next() HapticStyle {
	return (s + 1) % (HapticStepAndBoundary + 1)
}

func (s HapticStyle) boundaryEnabled() bool {
	return s == HapticBoundary || s == HapticStepAndBoundary
}

func (s HapticStyle) stepEnabled() bool {
	return s == HapticStep || s == HapticStepAndBoundary
}

// ParseHapticStyle maps a configuration name to a style.
func ParseHapticStyle(name string) (HapticStyle, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "none", "off":
		return HapticNone, nil
	case "step":
		return HapticStep, nil
	case "boundary":
		return HapticBoundary, nil
	case "step-and-boundary", "stepandboundary", "both", "":
		return HapticStepAndBoundary, nil
	default:
		return HapticNone, fmt.Errorf("%w: unknown style %q", ErrInvalidHapticConfig, name)
	}
}

// HapticConfig configures drag feedback.
type HapticConfig struct {
	Style             HapticStyle
	StepInterval      float64
	StepIntensity     float64
	BoundaryIntensity float64
}

// DefaultHapticConfig returns step and boundary feedback every 0.1.
func DefaultHapticConfig() HapticConfig {
	return HapticConfig{
		Style:             HapticStepAndBoundary,
		StepInterval:      0.1,
		StepIntensity:     0.4,
		BoundaryIntensity: 0.7,
	}
}

// Validate checks intensities lie in [0,1] and the step interval is not negative.
func (c HapticConfig) Validate() error {
	if c.Style < HapticNone || c.Style > HapticStepAndBoundary {
		return fmt.Errorf("%w: unknown style %d", ErrInvalidHapticConfig, int(c.Style))
	}

	if !isFinite(c.StepInterval) || c.StepInterval < 0 {
		return fmt.Errorf("%w: step interval %v", ErrInvalidHapticConfig, c.StepInterval)
	}

	if !unitInterval(c.StepIntensity) || !unitInterval(c.BoundaryIntensity) {
		return fmt.Errorf("%w: intensities must be within [0,1]", ErrInvalidHapticConfig)
	}

	return nil
}

// FeedbackKind identifies why a feedback event was produced.
type FeedbackKind int

const (
	FeedbackStep FeedbackKind = iota
	FeedbackBoundary
	FeedbackHardStop
	FeedbackSnap
	FeedbackMarkerAdded
	FeedbackMarkerRemoved
)

func (k FeedbackKind) String() string {
	switch k {
	case FeedbackStep:
		return "step"
	case FeedbackBoundary:
		return "boundary"
	case FeedbackHardStop:
		return "hard-stop"
	case FeedbackSnap:
		return "snap"
	case FeedbackMarkerAdded:
		return "marker-added"
	case FeedbackMarkerRemoved:
		return "marker-removed"
	default:
		return fmt.Sprintf("FeedbackKind(%d)", int(k))
	}
}

// Feedback is a single haptic event.
type Feedback struct {
	Kind      FeedbackKind
	Intensity float64
}

// HardStopIntensity is used when a drag jumps across the gap.
const HardStopIntensity = 1.0

// HapticPolicy decides which feedback a gesture move produces.
type HapticPolicy struct {
	Config HapticConfig
	Range  Range
}

// Apply updates session and returns the feedback for one gesture move,
// boundary feedback first.
func (p HapticPolicy) Apply(session *GestureSession, newValue float64, isAtBoundary, didHitBoundary bool) []Feedback {
	style := p.Config.Style
	if style == HapticNone {
		return nil
	}

	var out []Feedback

	if style.boundaryEnabled() {
		switch {
		case didHitBoundary:
			out = append(out, Feedback{Kind: FeedbackHardStop, Intensity: HardStopIntensity})
			session.HasFiredBoundaryFeedback = true
		case isAtBoundary && !session.HasFiredBoundaryFeedback:
			out = append(out, Feedback{Kind: FeedbackBoundary, Intensity: p.Config.BoundaryIntensity})
			session.HasFiredBoundaryFeedback = true
		case !isAtBoundary:
			session.HasFiredBoundaryFeedback = false
		}
	}

	if style.stepEnabled() && p.Config.StepInterval > 0 {
		idx := StepIndex(newValue, p.Config.StepInterval)
		if idx != session.LastStepIndex {
			// boundary feedback already covers the range extremes
			atExtreme := newValue <= p.Range.Min || newValue >= p.Range.Max
			if !style.boundaryEnabled() || !atExtreme {
				out = append(out, Feedback{Kind: FeedbackStep, Intensity: p.Config.StepIntensity})
			}
			session.LastStepIndex = idx
		}
	}

	return out
}

func unitInterval(f float64) bool {
	return isFinite(f) && f >= 0 && f <= 1
}
