package clock

import "sync/atomic"

// AtomicCounter is a monotonically increasing counter safe for concurrent
// use. Val returns the last issued value, Next issues the next one.
type AtomicCounter struct {
	atomic.Uint64
}

func NewAtomic(init uint64) *AtomicCounter {
	var ac AtomicCounter
	ac.Set(init)
	return &ac
}

func (ac *AtomicCounter) Val() uint64 {
	return ac.Load()
}

func (ac *AtomicCounter) Next() uint64 {
	return ac.Add(1)
}

func (ac *AtomicCounter) Set(v uint64) {
	ac.Store(v)
}
