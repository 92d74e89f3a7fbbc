package control

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/alkime/knobs/internal/marker"
	"github.com/alkime/knobs/internal/store"
	"github.com/alkime/knobs/pkg/channels"
	"github.com/alkime/knobs/pkg/notify"
)

// DefaultMarkerKey is the storage key used when none is configured.
const DefaultMarkerKey = "MarkedKnob.markers"

// Binding keeps a knob's marker set in sync with a storage key. Markers are
// loaded once on Bind and written after every change. Writes are best effort:
// failures are logged and never reach the knob.
//
// Every write and clear is stamped with a sequence number when it is
// scheduled. A write that reaches storage after a newer write or clear has
// landed is dropped, so storage always ends on the latest mutation.
type Binding struct {
	ctx      context.Context
	knob     *MarkedKnob
	storage  store.Storage
	key      string
	codec    marker.Codec
	logger   *slog.Logger
	dispatch func(func())

	handle     notify.Handle
	loaded     chan struct{}
	suppressed bool
	unbound    bool

	// applied is set once the load has replaced the marker set; dirty
	// records a mutation made before that.
	applied bool
	dirty   bool

	// seq stamps scheduled writes; owned by the knob's context
	seq uint64

	// mu serializes storage writes; landed is the newest stamp written
	mu     sync.Mutex
	landed uint64

	// queue is nil unless writes are serialized
	queue chan write

	wg     sync.WaitGroup
	writes sync.WaitGroup
}

// write is one scheduled save of an encoded marker set.
type write struct {
	seq  uint64
	data []byte
}

// BindOption configures a Binding.
type BindOption func(*Binding)

func WithLogger(l *slog.Logger) BindOption {
	return func(b *Binding) { b.logger = l }
}

// WithCodec selects the record encoding. JSON is the default.
func WithCodec(c marker.Codec) BindOption {
	return func(b *Binding) { b.codec = c }
}

// WithDispatcher runs fn on the knob's owning context. The loaded marker set
// is applied through it. Without one, the load is applied from the loading
// goroutine and the caller must not touch the knob until Wait returns.
func WithDispatcher(d func(fn func())) BindOption {
	return func(b *Binding) { b.dispatch = d }
}

// WithSerializedWrites funnels writes through a single writer so they land
// in mutation order. Pending writes are coalesced: only the newest marker
// set waiting in the queue is written.
func WithSerializedWrites() BindOption {
	return func(b *Binding) { b.queue = make(chan write, 1) }
}

// Bind attaches storage to k under key and starts loading the saved markers.
// ctx bounds every storage call made by the binding.
func Bind(ctx context.Context, k *MarkedKnob, s store.Storage, key string, opts ...BindOption) *Binding {
	if key == "" {
		key = DefaultMarkerKey
	}

	b := &Binding{
		ctx:      ctx,
		knob:     k,
		storage:  s,
		key:      key,
		codec:    marker.JSONCodec{},
		logger:   slog.Default(),
		dispatch: func(fn func()) { fn() },
		loaded:   make(chan struct{}),
	}

	for _, opt := range opts {
		opt(b)
	}

	b.logger = b.logger.With("key", key)

	if b.queue != nil {
		go b.writer(b.queue)
	}

	b.handle = k.OnMarkersChanged(b.markersChanged)

	b.wg.Go(b.load)

	return b
}

// Key returns the storage key.
func (b *Binding) Key() string { return b.key }

// Loaded is closed once the saved markers have been handed to the
// dispatcher.
func (b *Binding) Loaded() <-chan struct{} { return b.loaded }

func (b *Binding) load() {
	defer close(b.loaded)

	var markers []marker.Marker

	data, err := b.storage.Get(b.ctx, b.key)
	switch {
	case errors.Is(err, store.ErrNotFound):
		b.logger.Debug("no saved markers")
	case err != nil:
		b.logger.Warn("failed to load markers", "error", err)
	default:
		markers, err = marker.Decode(data, b.codec)
		if err != nil {
			b.logger.Warn("discarding unreadable markers", "error", err)
			markers = nil
		}
	}

	b.logger.Debug("loaded markers", "count", len(markers))

	b.dispatch(func() { b.apply(markers) })
}

// apply replaces the marker set with the loaded one. A change made while
// the load was in flight has already been saved, so the loaded set is
// written back over it to keep storage and the knob in agreement.
func (b *Binding) apply(markers []marker.Marker) {
	b.quietly(func() { b.knob.Markers().Replace(markers) })
	b.applied = true

	if b.dirty {
		b.logger.Debug("markers changed while loading, saving loaded set")
		b.markersChanged(b.knob.Markers().Markers())
	}
}

// quietly mutates the marker set without scheduling a write.
func (b *Binding) quietly(fn func()) {
	b.suppressed = true
	defer func() { b.suppressed = false }()

	fn()
}

func (b *Binding) markersChanged(markers []marker.Marker) {
	if b.suppressed || b.unbound {
		return
	}

	if !b.applied {
		b.dirty = true
	}

	data, err := marker.Encode(markers, b.codec)
	if err != nil {
		b.logger.Error("failed to encode markers", "error", err)
		return
	}

	b.seq++
	w := write{seq: b.seq, data: data}

	if b.queue != nil {
		b.enqueue(w)
		return
	}

	b.writes.Go(func() { b.save(w) })
}

func (b *Binding) enqueue(w write) {
	b.writes.Add(1)

	// a newer set supersedes whatever is still waiting
	evicted, err := channels.SendEvicting(b.queue, w)
	b.writes.Add(-evicted)

	if err != nil {
		b.writes.Done()
	}
}

func (b *Binding) writer(queue <-chan write) {
	for w := range queue {
		b.save(w)
		b.writes.Done()
	}
}

func (b *Binding) save(w write) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if w.seq <= b.landed {
		b.logger.Debug("dropping stale marker write", "seq", w.seq, "landed", b.landed)
		return
	}

	// a failed write still supersedes older ones
	b.landed = w.seq

	if err := b.storage.Set(b.ctx, b.key, w.data); err != nil {
		b.logger.Warn("failed to save markers", "error", err)
		return
	}

	b.logger.Debug("saved markers", "bytes", len(w.data))
}

// Unbind stops scheduling writes. Writes already started still complete.
func (b *Binding) Unbind() {
	if b.unbound {
		return
	}

	b.unbound = true
	b.handle.Remove()

	if b.queue != nil {
		close(b.queue)
	}
}

// Clear deletes the saved record and empties the marker set. It waits for
// a write already reaching storage; writes scheduled before Clear that have
// not started are dropped, so the record stays deleted.
func (b *Binding) Clear(ctx context.Context) error {
	if !b.applied {
		b.dirty = true
	}

	b.seq++
	seq := b.seq

	b.mu.Lock()
	b.landed = seq
	err := b.storage.Delete(ctx, b.key)
	b.mu.Unlock()

	if err != nil {
		b.logger.Warn("failed to delete markers", "error", err)
	}

	b.quietly(b.knob.RemoveAllMarkers)

	return err
}

// Wait blocks until the initial load and every scheduled write finish.
func (b *Binding) Wait() {
	b.wg.Wait()
	b.writes.Wait()
}
