package lrmichael

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescAlloc_NeverReturnsNil(t *testing.T) {
	d := descAlloc()
	require.NotNil(t, d)
	descRetire(d)
}

func TestDescAlloc_RecyclesRetired(t *testing.T) {
	d1 := descAlloc()
	descRetire(d1)
	d2 := descAlloc()
	assert.Same(t, d1, d2)
	descRetire(d2)
}

func TestDescAlloc_ConcurrentAllocRetireNeverAliases(t *testing.T) {
	const goroutines = 32
	const iterations = 200

	var wg sync.WaitGroup
	var live sync.Map
	seen := make(chan *Descriptor, goroutines*iterations)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				d := descAlloc()
				if _, dup := live.LoadOrStore(d, true); dup {
					t.Errorf("descriptor %p handed out while still live", d)
				}
				seen <- d
				live.Delete(d)
				descRetire(d)
			}
		}()
	}
	wg.Wait()
	close(seen)

	// No descriptor was handed out to two goroutines at once (checked
	// above), and every handed-out descriptor is non-nil.
	count := 0
	for d := range seen {
		require.NotNil(t, d)
		count++
	}
	assert.Equal(t, goroutines*iterations, count)
}
