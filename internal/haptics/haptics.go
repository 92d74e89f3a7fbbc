// Package haptics provides feedback sinks for the knob: an audible click
// through the default playback device, a terminal bell, a log sink, and a
// fan-out that drives several sinks at once.
package haptics

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/alkime/knobs/internal/knob"
)

// Sink is a feedback capability that can release resources.
type Sink interface {
	knob.Haptics
	Close(ctx context.Context) error
}

// Kind names a sink.
type Kind string

const (
	KindNone  Kind = "none"
	KindLog   Kind = "log"
	KindBell  Kind = "bell"
	KindAudio Kind = "audio"
)

// Options configures Open.
type Options struct {
	// Kinds is a comma separated list of sinks, e.g. "log,audio".
	Kinds  string
	Logger *slog.Logger
	// Bell receives BEL characters; usually os.Stderr.
	Bell  io.Writer
	Audio DeviceConfig
}

// Open builds the sinks named in opts.Kinds. More than one sink is wrapped
// in a Multi that lives until ctx is done.
func Open(ctx context.Context, opts Options) (Sink, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var sinks []Sink

	for _, name := range strings.Split(opts.Kinds, ",") {
		switch Kind(strings.TrimSpace(strings.ToLower(name))) {
		case KindNone, "":
		case KindLog:
			sinks = append(sinks, NewLog(logger))
		case KindBell:
			if opts.Bell == nil {
				return nil, fmt.Errorf("bell sink requires a writer")
			}
			sinks = append(sinks, NewBell(opts.Bell, BellThreshold))
		case KindAudio:
			a := NewAudio(opts.Audio, logger)
			if err := a.Open(ctx); err != nil {
				closeAll(ctx, sinks)
				return nil, err
			}
			sinks = append(sinks, a)
		default:
			closeAll(ctx, sinks)
			return nil, fmt.Errorf("unknown haptics sink %q", name)
		}
	}

	switch len(sinks) {
	case 0:
		return Nop{}, nil
	case 1:
		return sinks[0], nil
	default:
		return NewMulti(ctx, logger, sinks...)
	}
}

func closeAll(ctx context.Context, sinks []Sink) {
	for _, s := range sinks {
		_ = s.Close(ctx)
	}
}

// Nop discards feedback.
type Nop struct{ knob.NopHaptics }

func (Nop) Close(context.Context) error { return nil }

// Log records feedback at debug level.
type Log struct {
	logger *slog.Logger
}

func NewLog(logger *slog.Logger) *Log {
	return &Log{logger: logger.With("component", "haptics")}
}

func (l *Log) Emit(intensity float64) {
	l.logger.Debug("haptic feedback", "intensity", intensity)
}

func (l *Log) Prepare() {
	l.logger.Debug("haptic prepare")
}

func (l *Log) Close(context.Context) error { return nil }

// BellThreshold keeps the bell for boundary, snap and marker feedback;
// ordinary step ticks are too frequent to ring.
const BellThreshold = 0.5

// Bell rings the terminal bell for feedback at or above a threshold.
type Bell struct {
	w         io.Writer
	threshold float64
}

func NewBell(w io.Writer, threshold float64) *Bell {
	return &Bell{w: w, threshold: threshold}
}

func (b *Bell) Emit(intensity float64) {
	if intensity < b.threshold {
		return
	}

	_, _ = io.WriteString(b.w, "\a")
}

func (b *Bell) Prepare() {}

func (b *Bell) Close(context.Context) error { return nil }
