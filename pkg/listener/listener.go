// Package listener runs a single background worker draining a channel.
package listener

import (
	"context"
	"sync"
)

// Job is anything with a start/stop background lifecycle.
type Job interface {
	Start(ctx context.Context)
	Stop()
}

// Listener feeds every value received on in to handler, one at a time. A
// handler error is fatal: a failed durable write leaves nothing sensible to
// continue with.
type Listener[T any] struct {
	in      <-chan T
	handler func(T) error
	onStop  func()

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// New creates a stopped listener. onStop, if non-nil, runs after the worker
// has drained out during Stop.
func New[T any](in <-chan T, handler func(T) error, onStop func()) *Listener[T] {
	if onStop == nil {
		onStop = func() {}
	}
	return &Listener[T]{
		in:      in,
		handler: handler,
		onStop:  onStop,
		cancel:  func() {},
	}
}

func (l *Listener[T]) Start(ctx context.Context) {
	ctx, l.cancel = context.WithCancel(ctx)
	l.wg.Add(1)

	go func() {
		defer l.wg.Done()
		for {
			select {
			case inp := <-l.in:
				if err := l.handler(inp); err != nil {
					panic("listener handler failed: " + err.Error())
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (l *Listener[T]) Stop() {
	l.cancel()
	l.wg.Wait()
	l.onStop()
}
