package control

import (
	"errors"
	"fmt"
	"math"

	"github.com/alkime/knobs/internal/marker"
)

// ErrInvalidSnapConfig is returned for a negative or non-finite threshold.
var ErrInvalidSnapConfig = errors.New("invalid snap config")

// Feedback intensities for marker interactions.
const (
	SnapIntensity          = 1.0
	MarkerAddedIntensity   = 0.75
	MarkerRemovedIntensity = 0.5
)

// SnapConfig controls pulling the value onto a nearby marker when a drag ends.
type SnapConfig struct {
	Enabled   bool
	Threshold float64
	Animated  bool
}

// DefaultSnapConfig snaps within 0.05 with animation.
func DefaultSnapConfig() SnapConfig {
	return SnapConfig{Enabled: true, Threshold: 0.05, Animated: true}
}

// SnapDisabled never snaps.
var SnapDisabled = SnapConfig{}

func (c SnapConfig) Validate() error {
	if math.IsNaN(c.Threshold) || math.IsInf(c.Threshold, 0) || c.Threshold < 0 {
		return fmt.Errorf("%w: threshold %v", ErrInvalidSnapConfig, c.Threshold)
	}

	return nil
}

// SnapPolicy picks the marker a released knob should settle on.
type SnapPolicy struct {
	Config SnapConfig
}

// Nearest returns the marker closest to value within the threshold. Ties go
// to the earliest marker.
func (p SnapPolicy) Nearest(value float64, markers []marker.Marker) (marker.Marker, bool) {
	if !p.Config.Enabled {
		return marker.Marker{}, false
	}

	best := -1
	bestDistance := math.Inf(1)

	for i, m := range markers {
		d := math.Abs(value - m.Value)
		if d <= p.Config.Threshold && d < bestDistance {
			best = i
			bestDistance = d
		}
	}

	if best < 0 {
		return marker.Marker{}, false
	}

	return markers[best], true
}
