package haptics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/alkime/knobs/pkg/channels"
)

type event struct {
	prepare   bool
	intensity float64
}

// Multi forwards feedback to several sinks, each on its own goroutine, so a
// slow sink never stalls the UI loop. Events a sink cannot keep up with are
// dropped.
type Multi struct {
	sinks  []Sink
	input  chan<- event
	bc     *channels.Broadcaster[event]
	done   chan struct{}
	logger *slog.Logger
}

// NewMulti starts delivery to sinks. Delivery stops when ctx is done.
func NewMulti(ctx context.Context, logger *slog.Logger, sinks ...Sink) (*Multi, error) {
	m := &Multi{
		sinks:  sinks,
		bc:     channels.NewBroadcaster[event](),
		done:   make(chan struct{}),
		logger: logger,
	}

	queues := make([]chan event, len(sinks))
	for i := range sinks {
		queues[i] = make(chan event, 16)
		if err := m.bc.Subscribe(queues[i]); err != nil {
			return nil, fmt.Errorf("failed to subscribe haptics sink: %w", err)
		}
	}

	input, err := m.bc.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start haptics fan-out: %w", err)
	}

	m.input = input

	go func() {
		defer close(m.done)
		m.bc.Wait()
		for _, q := range queues {
			close(q)
		}
	}()

	for i, s := range sinks {
		go drive(s, queues[i])
	}

	return m, nil
}

func drive(s Sink, queue <-chan event) {
	for ev := range queue {
		if ev.prepare {
			s.Prepare()
			continue
		}

		s.Emit(ev.intensity)
	}
}

func (m *Multi) Emit(intensity float64) {
	m.send(event{intensity: intensity})
}

func (m *Multi) Prepare() {
	m.send(event{prepare: true})
}

func (m *Multi) send(ev event) {
	if err := channels.SendNonBlock(m.input, ev); err != nil && !errors.Is(err, channels.ErrChannelClosed) {
		m.logger.Debug("dropping haptic event", "error", err)
	}
}

// Dropped returns how many events each sink has missed.
func (m *Multi) Dropped() []int {
	stats := m.bc.Stats()
	out := make([]int, len(stats))
	for i, s := range stats {
		out[i] = s.Dropped
	}

	return out
}

// Close waits for the fan-out to drain, which happens once the context
// given to NewMulti is done, then closes every sink.
func (m *Multi) Close(ctx context.Context) error {
	select {
	case <-m.done:
	case <-ctx.Done():
		return ctx.Err()
	}

	var errs []error
	for _, s := range m.sinks {
		errs = append(errs, s.Close(ctx))
	}

	return errors.Join(errs...)
}
