package haptics_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/alkime/knobs/internal/haptics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClick(t *testing.T) {
	loud := haptics.Click(1, 48000)
	soft := haptics.Click(0.25, 48000)

	require.Len(t, loud, 576)
	require.Len(t, soft, 576)
	assert.Nil(t, haptics.Click(0, 48000))
	assert.Nil(t, haptics.Click(0.5, 0))

	peak := func(s []int16) int {
		p := 0
		for _, v := range s {
			p = max(p, abs(int(v)))
		}
		return p
	}

	assert.Greater(t, peak(loud), peak(soft))
	assert.InDelta(t, 0.25, float64(peak(soft))/float64(peak(loud)), 0.01)

	// decays towards silence
	tail := loud[len(loud)-20:]
	assert.Less(t, peak(tail), peak(loud)/10)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func TestInt16ToBytes(t *testing.T) {
	dst := make([]byte, 5)
	n := haptics.Int16ToBytes(dst, []int16{1, -2, 3})
	assert.Equal(t, 4, n)
	assert.Equal(t, int16(1), int16(binary.LittleEndian.Uint16(dst[0:])))
	assert.Equal(t, int16(-2), int16(binary.LittleEndian.Uint16(dst[2:])))
}

func TestSampleQueue(t *testing.T) {
	t.Run("fifo order", func(t *testing.T) {
		q := haptics.NewSampleQueue(8)
		q.Write([]int16{1, 2, 3})
		q.Write([]int16{4})

		dst := make([]int16, 3)
		require.Equal(t, 3, q.Read(dst))
		assert.Equal(t, []int16{1, 2, 3}, dst)
		assert.Equal(t, 1, q.Len())

		dst = make([]int16, 4)
		require.Equal(t, 1, q.Read(dst))
		assert.Equal(t, int16(4), dst[0])
		assert.Equal(t, 0, q.Read(dst))
	})

	t.Run("overwrites oldest when full", func(t *testing.T) {
		q := haptics.NewSampleQueue(4)
		q.Write([]int16{1, 2, 3, 4, 5, 6})
		assert.Equal(t, 4, q.Len())

		dst := make([]int16, 4)
		q.Read(dst)
		assert.Equal(t, []int16{3, 4, 5, 6}, dst)
	})

	t.Run("wraps around", func(t *testing.T) {
		q := haptics.NewSampleQueue(3)
		dst := make([]int16, 2)
		q.Write([]int16{1, 2})
		q.Read(dst)
		q.Write([]int16{3, 4, 5})

		dst = make([]int16, 3)
		require.Equal(t, 3, q.Read(dst))
		assert.Equal(t, []int16{3, 4, 5}, dst)
	})
}

func TestBell(t *testing.T) {
	var buf bytes.Buffer
	b := haptics.NewBell(&buf, haptics.BellThreshold)

	b.Emit(0.4)
	b.Emit(0.7)
	b.Emit(1)
	b.Prepare()

	assert.Equal(t, "\a\a", buf.String())
}

// countingSink records emits from the fan-out goroutine.
type countingSink struct {
	mu       sync.Mutex
	emits    []float64
	prepares int
	closed   bool
}

func (s *countingSink) Emit(i float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emits = append(s.emits, i)
}

func (s *countingSink) Prepare() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prepares++
}

func (s *countingSink) Close(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *countingSink) snapshot() ([]float64, int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]float64(nil), s.emits...), s.prepares, s.closed
}

func TestMulti(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	a, b := &countingSink{}, &countingSink{}
	m, err := haptics.NewMulti(ctx, slog.Default(), a, b)
	require.NoError(t, err)

	m.Prepare()
	m.Emit(0.4)
	m.Emit(1)

	for _, s := range []*countingSink{a, b} {
		require.Eventually(t, func() bool {
			emits, _, _ := s.snapshot()
			return len(emits) == 2
		}, time.Second, 5*time.Millisecond)
	}

	cancel()
	require.NoError(t, m.Close(context.Background()))

	emits, prepares, closed := a.snapshot()
	assert.Equal(t, []float64{0.4, 1}, emits)
	assert.Equal(t, 1, prepares)
	assert.True(t, closed)
	assert.Equal(t, []int{0, 0}, m.Dropped())

	// emitting after shutdown is harmless
	m.Emit(0.5)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := haptics.Open(ctx, haptics.Options{Kinds: "none"})
	require.NoError(t, err)
	assert.IsType(t, haptics.Nop{}, s)

	s, err = haptics.Open(ctx, haptics.Options{Kinds: "log"})
	require.NoError(t, err)
	assert.IsType(t, &haptics.Log{}, s)

	var buf bytes.Buffer
	s, err = haptics.Open(ctx, haptics.Options{Kinds: "log, bell", Bell: &buf})
	require.NoError(t, err)
	assert.IsType(t, &haptics.Multi{}, s)

	_, err = haptics.Open(ctx, haptics.Options{Kinds: "bell"})
	require.Error(t, err)

	_, err = haptics.Open(ctx, haptics.Options{Kinds: "rumble"})
	require.Error(t, err)
}
