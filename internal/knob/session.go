package knob

import "math"

// GestureSession is the state of a single drag. It is created by
// Engine.GestureBegin and discarded when the gesture ends or is cancelled.
type GestureSession struct {
	LastBoundedAngle         float64
	HasFiredBoundaryFeedback bool
	LastStepIndex            int64
}

// StepIndex returns floor(value/interval), or 0 when interval is not positive.
func StepIndex(value, interval float64) int64 {
	if interval <= 0 {
		return 0
	}

	return int64(math.Floor(value / interval))
}
