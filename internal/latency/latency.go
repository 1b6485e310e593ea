// Package latency provides deferred completions used by the stores to
// simulate network round trips.
package latency

import (
	"context"
	"time"
)

// Profile holds the simulated delay of every store operation.
type Profile struct {
	FileUpload    time.Duration
	FileDelete    time.Duration
	MessageSend   time.Duration
	MessageDelete time.Duration
}

// DefaultProfile returns the delays of a typical remote round trip.
func DefaultProfile() Profile {
	return Profile{
		FileUpload:    500 * time.Millisecond,
		FileDelete:    300 * time.Millisecond,
		MessageSend:   300 * time.Millisecond,
		MessageDelete: 200 * time.Millisecond,
	}
}

// Instant resolves every completion immediately.
func Instant() Profile {
	return Profile{}
}

// Completion is resolved exactly once with a value. A pending completion
// always fires, whether or not anybody waits on it.
type Completion[T any] struct {
	done  chan struct{}
	value T
}

// After returns a completion that resolves with value once delay has
// elapsed. A non-positive delay resolves before After returns.
func After[T any](value T, delay time.Duration) *Completion[T] {
	c := &Completion[T]{done: make(chan struct{}), value: value}
	if delay <= 0 {
		close(c.done)
		return c
	}
	time.AfterFunc(delay, func() { close(c.done) })
	return c
}

func (c *Completion[T]) Done() <-chan struct{} {
	return c.done
}

// Value returns the resolved value, or false while the completion is pending.
func (c *Completion[T]) Value() (T, bool) {
	select {
	case <-c.done:
		return c.value, true
	default:
		var zero T
		return zero, false
	}
}

// Wait blocks until the completion resolves or ctx ends. Ending ctx does not
// cancel the completion.
func (c *Completion[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-c.done:
		return c.value, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
