package guard

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTryStartIsExclusive(t *testing.T) {
	var g Guard

	require.True(t, g.TryStart())
	require.False(t, g.TryStart(), "second start without finish must fail")

	g.Finish()
	require.True(t, g.TryStart(), "guard is reusable after finish")
}

func TestBusyReflectsState(t *testing.T) {
	var g Guard

	require.False(t, g.Busy())
	g.TryStart()
	require.True(t, g.Busy())
	g.Finish()
	require.False(t, g.Busy())
}

func TestFinishIsUnconditional(t *testing.T) {
	var g Guard

	// Finish on an idle guard is a no-op, not a panic.
	g.Finish()
	require.True(t, g.TryStart())
}

func TestConcurrentTryStartAdmitsOne(t *testing.T) {
	var g Guard
	var wg sync.WaitGroup
	var mu sync.Mutex
	started := 0

	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if g.TryStart() {
				mu.Lock()
				started++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1, started)
}
