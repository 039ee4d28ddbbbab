package journal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"greenstore/pkg/region"
)

func openJournal(t *testing.T, dir string) *Journal {
	t.Helper()

	rm, err := region.NewManager(dir)
	require.NoError(t, err)

	j, err := Open(rm)
	require.NoError(t, err)
	return j
}

// append synchronously: send the entry and wait for the sync confirmation
func appendWait(t *testing.T, j *Journal, e Entry) {
	t.Helper()

	j.Append(e)
	for seq := <-j.Done(); seq != e.SeqN; {
		seq = <-j.Done()
	}
}

func TestAppendReplay(t *testing.T) {
	j := openJournal(t, t.TempDir())
	j.Start(context.Background())

	entries := []Entry{
		{SeqN: 1, Op: OpInsert, ID: 1, Value: []byte("one")},
		{SeqN: 2, Op: OpInsert, ID: 2, Value: []byte("two")},
		{SeqN: 3, Op: OpDelete, ID: 1},
	}
	for _, e := range entries {
		appendWait(t, j, e)
	}
	j.Stop()

	var got []Entry
	require.NoError(t, j.Replay(func(e Entry) error {
		got = append(got, e)
		return nil
	}))
	require.NoError(t, j.Close())

	require.Len(t, got, len(entries))
	for i, e := range entries {
		require.Equal(t, e.SeqN, got[i].SeqN)
		require.Equal(t, e.Op, got[i].Op)
		require.Equal(t, e.ID, got[i].ID)
		if len(e.Value) == 0 {
			require.Empty(t, got[i].Value)
		} else {
			require.Equal(t, e.Value, got[i].Value)
		}
	}
}

func TestReplaySurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	j := openJournal(t, dir)
	j.Start(context.Background())
	appendWait(t, j, Entry{SeqN: 1, Op: OpInsert, ID: 7, Value: []byte("persisted")})
	j.Stop()
	require.NoError(t, j.Close())

	j = openJournal(t, dir)
	var got []Entry
	require.NoError(t, j.Replay(func(e Entry) error {
		got = append(got, e)
		return nil
	}))
	require.NoError(t, j.Close())

	require.Len(t, got, 1)
	require.Equal(t, uint64(7), got[0].ID)
	require.Equal(t, []byte("persisted"), got[0].Value)
}

func TestRewriteReplacesContents(t *testing.T) {
	j := openJournal(t, t.TempDir())
	j.Start(context.Background())

	for seq := uint64(1); seq <= 5; seq++ {
		appendWait(t, j, Entry{SeqN: seq, Op: OpInsert, ID: seq, Value: []byte("v")})
	}
	j.Stop()

	compacted := []Entry{
		{SeqN: 6, Op: OpInsert, ID: 2, Value: []byte("live")},
		{SeqN: 7, Op: OpInsert, ID: 4, Value: []byte("live")},
	}
	require.NoError(t, j.Rewrite(compacted))

	var got []Entry
	require.NoError(t, j.Replay(func(e Entry) error {
		got = append(got, e)
		return nil
	}))
	require.NoError(t, j.Close())

	require.Len(t, got, 2)
	require.Equal(t, uint64(2), got[0].ID)
	require.Equal(t, uint64(4), got[1].ID)
}
