package idgen

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"greenstore/pkg/region"
)

func openAllocator(t *testing.T, dir string) *Allocator {
	t.Helper()

	rm, err := region.NewManager(dir)
	require.NoError(t, err)

	a, err := Open(rm)
	require.NoError(t, err)
	return a
}

func TestFirstIDIsOne(t *testing.T) {
	a := openAllocator(t, t.TempDir())
	defer func() { require.NoError(t, a.Close()) }()

	id, err := a.NextID()
	require.NoError(t, err)
	require.Equal(t, uint64(1), id)
	require.Equal(t, uint64(1), a.Last())
}

func TestIDsStrictlyIncreasing(t *testing.T) {
	a := openAllocator(t, t.TempDir())
	defer func() { require.NoError(t, a.Close()) }()

	prev := uint64(0)
	for i := 0; i < 100; i++ {
		id, err := a.NextID()
		require.NoError(t, err)
		require.Greater(t, id, prev)
		prev = id
	}
}

func TestIDsUniqueUnderConcurrency(t *testing.T) {
	a := openAllocator(t, t.TempDir())
	defer func() { require.NoError(t, a.Close()) }()

	const (
		workers = 8
		perWork = 50
	)

	var (
		mu  sync.Mutex
		ids = make(map[uint64]struct{})
		wg  sync.WaitGroup
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWork; i++ {
				id, err := a.NextID()
				if err != nil {
					t.Error(err)
					return
				}
				mu.Lock()
				ids[id] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Len(t, ids, workers*perWork)
}

func TestCounterSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	a := openAllocator(t, dir)
	var last uint64
	for i := 0; i < 10; i++ {
		id, err := a.NextID()
		require.NoError(t, err)
		last = id
	}
	require.NoError(t, a.Close())

	a = openAllocator(t, dir)
	defer func() { require.NoError(t, a.Close()) }()

	require.Equal(t, last, a.Last())

	id, err := a.NextID()
	require.NoError(t, err)
	require.Greater(t, id, last)
}
