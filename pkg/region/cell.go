package region

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

// Cell is a fixed-size durable uint64. Every Set is written in place and
// synced to disk before it returns.
type Cell struct {
	mu   sync.Mutex
	file *os.File
	val  uint64
}

// OpenCell opens the cell stored in the given region. A missing or empty
// region file yields the init value without writing it.
func (m *Manager) OpenCell(id ID, name string, init uint64) (*Cell, error) {
	file, err := os.OpenFile(m.Path(id, name), os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open region %d (%s): %w", id, name, err)
	}

	c := &Cell{file: file, val: init}

	var buf [8]byte
	switch _, err := file.ReadAt(buf[:], 0); {
	case err == nil:
		c.val = binary.LittleEndian.Uint64(buf[:])
	case errors.Is(err, io.EOF):
		// fresh cell, keep init
	default:
		return nil, fmt.Errorf("failed to read cell: %w", err)
	}

	return c, nil
}

func (c *Cell) Get() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.val
}

// Set makes v durable before updating the in-memory value. On failure the
// cell keeps its previous value.
func (c *Cell) Set(v uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	if _, err := c.file.WriteAt(buf[:], 0); err != nil {
		return fmt.Errorf("failed to write cell: %w", err)
	}
	if err := c.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync cell: %w", err)
	}

	c.val = v
	return nil
}

func (c *Cell) Close() error {
	return c.file.Close()
}
