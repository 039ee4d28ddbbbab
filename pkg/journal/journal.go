// Package journal persists record mutations as an append-only log in the
// records region.
package journal

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"sync"

	"greenstore/pkg/listener"
	"greenstore/pkg/region"
	"greenstore/pkg/types"
)

// Op distinguishes journal entry kinds.
type Op uint8

const (
	OpInsert Op = iota
	OpDelete
)

// Entry is one durable record mutation. Value holds the encoded record for
// OpInsert and is empty for OpDelete.
type Entry struct {
	SeqN  types.SeqN
	Op    Op
	ID    types.ID
	Value []byte
}

// Journal appends entries through a single background writer; Done reports
// the seq of each entry once it has been synced to disk. Replay streams the
// log back in file order, Rewrite compacts it down to a given entry set.
type Journal struct {
	*listener.Listener[Entry]

	mu     sync.Mutex
	file   *os.File
	writer *bufio.Writer
	path   string

	inputCh chan Entry
	doneCh  chan types.SeqN
}

func Open(rm *region.Manager) (*Journal, error) {
	path := rm.Path(region.Records, "journal")
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal file: %w", err)
	}

	j := &Journal{
		file:    file,
		writer:  bufio.NewWriter(file),
		path:    path,
		inputCh: make(chan Entry, 3),
		doneCh:  make(chan types.SeqN, 3),
	}
	j.Listener = listener.New(j.inputCh, j.writeFile, j.stop)

	return j, nil
}

func (j *Journal) Append(entry Entry) {
	j.inputCh <- entry
}

func (j *Journal) Done() <-chan types.SeqN {
	return j.doneCh
}

// called by the listener for every appended entry
func (j *Journal) writeFile(entry Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.writer == nil {
		return fmt.Errorf("journal writer is nil")
	}
	if err := writeEntry(j.writer, entry); err != nil {
		return fmt.Errorf("failed to write journal entry: %w", err)
	}
	if err := j.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush journal: %w", err)
	}
	if err := j.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync journal: %w", err)
	}

	j.doneCh <- entry.SeqN

	return nil
}

// Replay streams every entry to callback in file order.
func (j *Journal) Replay(callback func(Entry) error) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := j.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush journal before replay: %w", err)
	}

	file, err := os.Open(j.path)
	if err != nil {
		return fmt.Errorf("failed to open journal for reading: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			slog.Warn("failed to close journal read file", "error", cerr)
		}
	}()

	reader := bufio.NewReader(file)
	for {
		entry, err := readEntry(reader)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("failed to read journal entry: %w", err)
		}

		if err := callback(entry); err != nil {
			return fmt.Errorf("journal replay callback failed: %w", err)
		}
	}

	return nil
}

// Rewrite replaces the journal contents with the given entries. Compaction
// writes the live records to a fresh file which then takes the journal's
// place.
func (j *Journal) Rewrite(entries []Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := j.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush journal before rewrite: %w", err)
	}

	tmpPath := j.path + ".compact"
	tmp, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to create compaction file: %w", err)
	}

	w := bufio.NewWriter(tmp)
	for _, entry := range entries {
		if err := writeEntry(w, entry); err != nil {
			_ = tmp.Close()
			return fmt.Errorf("failed to write compacted entry: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to flush compaction file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync compaction file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close compaction file: %w", err)
	}

	if err := j.file.Close(); err != nil {
		return fmt.Errorf("failed to close journal before swap: %w", err)
	}
	if err := os.Rename(tmpPath, j.path); err != nil {
		return fmt.Errorf("failed to swap compacted journal: %w", err)
	}

	file, err := os.OpenFile(j.path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("failed to reopen journal: %w", err)
	}
	j.file = file
	j.writer = bufio.NewWriter(file)

	return nil
}

func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.writer != nil {
		if err := j.writer.Flush(); err != nil {
			return fmt.Errorf("failed to flush journal on close: %w", err)
		}
		j.writer = nil
	}

	if j.file != nil {
		if err := j.file.Close(); err != nil {
			return fmt.Errorf("failed to close journal file: %w", err)
		}
		j.file = nil
	}

	return nil
}

func (j *Journal) stop() {
	close(j.inputCh)
	close(j.doneCh)
}

// entry framing: seq (8) | id (8) | op (1) | value len (4) | value

func writeEntry(w io.Writer, entry Entry) error {
	if err := binary.Write(w, binary.LittleEndian, entry.SeqN); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, entry.ID); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, entry.Op); err != nil {
		return err
	}

	if len(entry.Value) > math.MaxUint32 {
		return fmt.Errorf("value too large: %d", len(entry.Value))
	}
	valueLen := uint32(len(entry.Value))
	if err := binary.Write(w, binary.LittleEndian, valueLen); err != nil {
		return err
	}
	if _, err := w.Write(entry.Value); err != nil {
		return err
	}

	return nil
}

func readEntry(reader *bufio.Reader) (Entry, error) {
	var entry Entry

	if err := binary.Read(reader, binary.LittleEndian, &entry.SeqN); err != nil {
		return entry, err
	}
	if err := binary.Read(reader, binary.LittleEndian, &entry.ID); err != nil {
		return entry, err
	}
	if err := binary.Read(reader, binary.LittleEndian, &entry.Op); err != nil {
		return entry, err
	}

	var valueLen uint32
	if err := binary.Read(reader, binary.LittleEndian, &valueLen); err != nil {
		return entry, err
	}
	entry.Value = make([]byte, valueLen)
	if _, err := io.ReadFull(reader, entry.Value); err != nil {
		return entry, err
	}

	return entry, nil
}
