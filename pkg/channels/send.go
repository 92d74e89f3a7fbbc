package channels

import "time"

// SendNonBlock attempts to send a message without blocking.
// Returns error if the channel is full or closed.
func SendNonBlock[T any](ch chan<- T, msg T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ErrChannelClosed
		}
	}()

	select {
	case ch <- msg:
		return nil
	default:
		return ErrChannelFull
	}
}

// SendWithTimeout sends a message with a timeout.
// Returns error if the timeout expires or channel is closed.
func SendWithTimeout[T any](ch chan<- T, msg T, timeout time.Duration) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ErrChannelClosed
		}
	}()

	select {
	case ch <- msg:
		return nil
	case <-time.After(timeout):
		return ErrChannelTimeout
	}
}

// SendEvicting sends msg without blocking, discarding the oldest queued
// messages to make room. It returns how many messages were discarded.
// Only safe with a single producer.
func SendEvicting[T any](ch chan T, msg T) (evicted int, err error) {
	for {
		err = SendNonBlock(ch, msg)
		if err != ErrChannelFull { //nolint:errorlint // sentinel returned unwrapped
			return evicted, err
		}

		select {
		case <-ch:
			evicted++
		default:
			// a consumer made room; try again
		}
	}
}
