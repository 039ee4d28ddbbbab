// Package metrics counts operations for the /metrics endpoint.
package metrics

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Collector captures named counters.
type Collector interface {
	Inc(name string)
}

// Registry is an in-memory Collector rendered as a plain-text snapshot.
type Registry struct {
	mu       sync.Mutex
	counters map[string]uint64
}

func NewRegistry() *Registry {
	return &Registry{counters: make(map[string]uint64)}
}

func (r *Registry) Inc(name string) {
	r.mu.Lock()
	r.counters[name]++
	r.mu.Unlock()
}

// Snapshot renders one "name value" line per counter, sorted by name.
func (r *Registry) Snapshot() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.counters))
	for name := range r.counters {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "%s %d\n", name, r.counters[name])
	}
	return b.String()
}
