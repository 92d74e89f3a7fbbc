package knob

import "errors"

var (
	// ErrInvalidRange is returned when a value range is empty or inverted.
	ErrInvalidRange = errors.New("invalid value range")
	// ErrInvalidAngleSpan is returned when an angle span is empty or inverted.
	ErrInvalidAngleSpan = errors.New("invalid angle span")
	// ErrInvalidHapticConfig is returned for out-of-bounds haptic settings.
	ErrInvalidHapticConfig = errors.New("invalid haptic config")
)
