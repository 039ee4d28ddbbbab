// Package region partitions a data directory into named durable regions.
// Each region is an independent file: regions grow independently and both
// survive process restarts.
package region

import (
	"fmt"
	"os"
	"path/filepath"
)

// ID names a durable region.
type ID uint8

const (
	// Counter holds the fixed-size id counter cell.
	Counter ID = 0
	// Records holds the record journal.
	Records ID = 1
)

// Manager maps region IDs to files under a single data directory.
type Manager struct {
	dir string
}

func NewManager(dir string) (*Manager, error) {
	if dir == "" {
		return nil, fmt.Errorf("empty data dir")
	}
	dir = filepath.Clean(dir)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &Manager{dir: dir}, nil
}

// Path returns the file backing a region. The region id is part of the file
// name so regions never collide.
func (m *Manager) Path(id ID, name string) string {
	return filepath.Join(m.dir, fmt.Sprintf("region-%d-%s", id, name))
}
