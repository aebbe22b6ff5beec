// Package event holds the producers that feed the dispatch loop and the
// unbounded queue connecting them to it.
package event

import (
	"context"
	"sync"

	"github.com/odvcencio/octyl/pkg/errors"
	"github.com/odvcencio/octyl/pkg/ui/action"
	"github.com/odvcencio/octyl/pkg/ui/terminal"
)

// Item is one queue entry: a terminal event or an action.
type Item struct {
	event    terminal.Event
	action   action.Action
	isAction bool
}

// FromEvent wraps a terminal event.
func FromEvent(ev terminal.Event) Item {
	return Item{event: ev}
}

// FromAction wraps an action.
func FromAction(a action.Action) Item {
	return Item{action: a, isAction: true}
}

// Event returns the wrapped event, if any.
func (i Item) Event() (terminal.Event, bool) {
	return i.event, !i.isAction && i.event != nil
}

// Action returns the wrapped action, if any.
func (i Item) Action() (action.Action, bool) {
	return i.action, i.isAction
}

// Sender accepts items. Queue implements it; producers only see a Sender.
type Sender interface {
	Push(item Item) error
}

// Queue is an unbounded FIFO with many producers and one consumer.
type Queue[T any] struct {
	mu     sync.Mutex
	items  []T
	closed bool
	signal chan struct{}
	done   chan struct{}
}

// NewQueue creates an empty open queue.
func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{
		signal: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Push appends v. It never blocks and fails only after Close.
func (q *Queue[T]) Push(v T) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return errors.New(errors.ErrCodeQueueClosed, "queue closed")
	}
	q.items = append(q.items, v)
	q.mu.Unlock()

	select {
	case q.signal <- struct{}{}:
	default:
	}
	return nil
}

// Pop removes the oldest item, blocking until one is available, the queue
// is closed and drained, or ctx is done.
func (q *Queue[T]) Pop(ctx context.Context) (T, error) {
	for {
		if v, ok, err := q.TryPop(); ok || err != nil {
			return v, err
		}
		select {
		case <-q.signal:
		case <-q.done:
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}
}

// TryPop removes the oldest item without blocking. Once the queue is
// closed and empty it returns a QUEUE_CLOSED error.
func (q *Queue[T]) TryPop() (T, bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var zero T
	if len(q.items) == 0 {
		if q.closed {
			return zero, false, errors.New(errors.ErrCodeQueueClosed, "queue closed")
		}
		return zero, false, nil
	}
	v := q.items[0]
	q.items[0] = zero
	q.items = q.items[1:]
	return v, true, nil
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close rejects further pushes. Items already queued can still be popped.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.done)
}

// Closed reports whether Close has been called.
func (q *Queue[T]) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}
