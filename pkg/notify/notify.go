// Package notify provides listener lists with removable registrations.
//
// A List is owned by a single execution context; it performs no locking.
// Listeners registered or removed while an Emit is in progress take effect
// from the next Emit.
package notify

// List holds the listeners for one kind of notification.
type List[T any] struct {
	entries []entry[T]
	nextID  uint64
}

type entry[T any] struct {
	id uint64
	fn func(T)
}

// Handle removes a registered listener.
type Handle struct {
	remove func()
}

// Remove unregisters the listener. Calling it more than once is a no-op.
func (h Handle) Remove() {
	if h.remove != nil {
		h.remove()
	}
}

// Add registers fn and returns a handle that unregisters it.
// A nil fn is ignored and yields a no-op handle.
func (l *List[T]) Add(fn func(T)) Handle {
	if fn == nil {
		return Handle{}
	}

	l.nextID++
	id := l.nextID
	l.entries = append(l.entries, entry[T]{id: id, fn: fn})

	return Handle{remove: func() { l.removeID(id) }}
}

// Emit calls every listener in registration order.
func (l *List[T]) Emit(v T) {
	snapshot := make([]entry[T], len(l.entries))
	copy(snapshot, l.entries)

	for _, e := range snapshot {
		e.fn(v)
	}
}

// Len returns the number of registered listeners.
func (l *List[T]) Len() int {
	return len(l.entries)
}

func (l *List[T]) removeID(id uint64) {
	for i, e := range l.entries {
		if e.id == id {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)

			return
		}
	}
}
