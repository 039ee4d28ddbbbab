// Package idgen issues the unique, strictly increasing record identifiers.
package idgen

import (
	"fmt"
	"sync"

	"greenstore/pkg/clock"
	"greenstore/pkg/region"
	"greenstore/pkg/types"
)

// Allocator hands out record ids backed by a durable counter cell. The cell
// always holds a value >= every id ever returned, so a restarted process can
// never reissue an id.
type Allocator struct {
	mu      sync.Mutex
	counter *clock.AtomicCounter
	cell    *region.Cell
}

// Open restores the allocator from its region. A fresh cell starts at 0, so
// the first issued id is 1.
func Open(rm *region.Manager) (*Allocator, error) {
	cell, err := rm.OpenCell(region.Counter, "counter", 0)
	if err != nil {
		return nil, err
	}

	return &Allocator{
		counter: clock.NewAtomic(cell.Get()),
		cell:    cell,
	}, nil
}

// NextID issues the next id. The counter is made durable before the id is
// returned; if persistence fails the call fails and the id is not issued.
func (a *Allocator) NextID() (types.ID, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	id := a.counter.Next()
	if err := a.cell.Set(id); err != nil {
		return 0, fmt.Errorf("failed to persist id counter: %w", err)
	}

	return id, nil
}

// Last returns the most recently issued id, 0 before the first NextID.
func (a *Allocator) Last() types.ID {
	return a.counter.Val()
}

func (a *Allocator) Close() error {
	return a.cell.Close()
}
