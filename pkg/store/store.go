// Package store implements the durable ordered map from id to green space.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/zhangyunhao116/skipmap"

	"greenstore/pkg/clock"
	"greenstore/pkg/greenspace"
	"greenstore/pkg/journal"
	"greenstore/pkg/listener"
	"greenstore/pkg/region"
	"greenstore/pkg/types"
)

const (
	// compact at open once the log holds this many times more entries than
	// live records
	compactionFactor = 2
	// never compact tiny logs
	compactionMinEntries = 64
)

type iJournal interface {
	listener.Job

	Append(entry journal.Entry)
	Done() <-chan types.SeqN
	Replay(callback func(journal.Entry) error) error
	Rewrite(entries []journal.Entry) error
	Close() error
}

type orderedMap = skipmap.FuncMap[uint64, greenspace.Space]

// Store keeps every record in an ordered in-memory map and writes each
// mutation through the journal before applying it. Reads are lock-free; one
// coarse mutex serializes mutations.
type Store struct {
	mu   sync.Mutex
	jr   iJournal
	seqN *clock.AtomicCounter

	mem *orderedMap

	close func()
}

// Open replays the record journal into memory and starts the background
// journal writer. A log that has accumulated enough deleted or overwritten
// entries is compacted before use.
func Open(rm *region.Manager) (*Store, error) {
	jr, err := journal.Open(rm)
	if err != nil {
		return nil, err
	}

	s := &Store{
		jr:   jr,
		seqN: clock.NewAtomic(0),
		mem:  newOrderedMap(),
	}

	replayed, err := s.restore()
	if err != nil {
		return nil, err
	}

	if replayed >= compactionMinEntries && replayed > s.mem.Len()*compactionFactor {
		if err := s.compact(); err != nil {
			return nil, err
		}
	}

	s.jr.Start(context.Background())
	s.close = func() {
		s.jr.Stop()
		if cerr := jr.Close(); cerr != nil {
			slog.Warn("failed to close record journal", "error", cerr)
		}
	}

	return s, nil
}

func newOrderedMap() *orderedMap {
	return skipmap.NewFunc[uint64, greenspace.Space](func(a, b uint64) bool {
		return a < b
	})
}

func (s *Store) restore() (int, error) {
	replayed := 0

	err := s.jr.Replay(func(entry journal.Entry) error {
		replayed++
		if entry.SeqN > s.seqN.Val() {
			s.seqN.Set(entry.SeqN)
		}

		switch entry.Op {
		case journal.OpInsert:
			space, err := greenspace.Decode(entry.Value)
			if err != nil {
				return err
			}
			s.mem.Store(entry.ID, space)
		case journal.OpDelete:
			s.mem.Delete(entry.ID)
		}
		return nil
	})

	return replayed, err
}

// compact rewrites the journal so it holds exactly the live records.
func (s *Store) compact() error {
	entries := make([]journal.Entry, 0, s.mem.Len())

	var encodeErr error
	s.mem.Range(func(id uint64, space greenspace.Space) bool {
		var data []byte
		data, encodeErr = greenspace.Encode(space)
		if encodeErr != nil {
			return false
		}
		entries = append(entries, journal.Entry{
			SeqN:  s.seqN.Next(),
			Op:    journal.OpInsert,
			ID:    id,
			Value: data,
		})
		return true
	})
	if encodeErr != nil {
		return fmt.Errorf("failed to encode record during compaction: %w", encodeErr)
	}

	return s.jr.Rewrite(entries)
}

// Insert upserts the record under its id. The journal confirms the write
// before the in-memory map is updated.
func (s *Store) Insert(space greenspace.Space) error {
	data, err := greenspace.Encode(space)
	if err != nil {
		return fmt.Errorf("failed to encode space %d: %w", space.ID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.append(journal.Entry{Op: journal.OpInsert, ID: space.ID, Value: data})
	s.mem.Store(space.ID, space)

	return nil
}

// Get returns a copy of the record; callers never alias store internals.
func (s *Store) Get(id types.ID) (greenspace.Space, bool) {
	return s.mem.Load(id)
}

// Remove deletes the record and returns the prior value.
func (s *Store) Remove(id types.ID) (greenspace.Space, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	space, ok := s.mem.Load(id)
	if !ok {
		return greenspace.Space{}, false
	}

	s.append(journal.Entry{Op: journal.OpDelete, ID: id})
	s.mem.Delete(id)

	return space, true
}

// Ascend visits every record in ascending id order until fn returns false.
func (s *Store) Ascend(fn func(id types.ID, space greenspace.Space) bool) {
	s.mem.Range(fn)
}

// Count reports the number of stored records.
func (s *Store) Count() uint64 {
	return uint64(s.mem.Len())
}

func (s *Store) append(entry journal.Entry) {
	entry.SeqN = s.seqN.Next()
	s.jr.Append(entry)
	// wait for the journal to confirm the write
	for id := <-s.jr.Done(); id != entry.SeqN; {
		id = <-s.jr.Done()
	}
}

func (s *Store) Close() {
	s.close()
}
