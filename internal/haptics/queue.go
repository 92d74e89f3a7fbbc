package haptics

import "sync"

// SampleQueue is a bounded FIFO of mono samples shared between the feedback
// producer and the audio callback. When full, the oldest samples are
// overwritten so fresh clicks are never delayed behind stale ones.
type SampleQueue struct {
	mu      sync.Mutex
	samples []int16
	head    int // next read position
	count   int
}

func NewSampleQueue(capacity int) *SampleQueue {
	capacity = max(capacity, 1)

	return &SampleQueue{samples: make([]int16, capacity)}
}

// Write appends samples, dropping the oldest queued samples if needed.
func (q *SampleQueue) Write(samples []int16) {
	if len(samples) == 0 {
		return
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	capacity := len(q.samples)

	for _, s := range samples {
		tail := (q.head + q.count) % capacity
		q.samples[tail] = s

		if q.count < capacity {
			q.count++
		} else {
			q.head = (q.head + 1) % capacity
		}
	}
}

// Read moves queued samples into dst, oldest first.
// It returns how many samples were consumed.
func (q *SampleQueue) Read(dst []int16) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := min(len(dst), q.count)
	capacity := len(q.samples)

	for i := range n {
		dst[i] = q.samples[(q.head+i)%capacity]
	}

	q.head = (q.head + n) % capacity
	q.count -= n

	return n
}

// Len returns the number of queued samples.
func (q *SampleQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.count
}
