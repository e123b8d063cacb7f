package main

import (
	"fmt"
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"github.com/ricleite/lrmichael"
)

var (
	benchThreads  int
	benchDuration time.Duration
	benchMaxSize  int
)

func init() {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Hammer Malloc/Free concurrently and report throughput",
		Long: `bench spawns a pool of goroutines, each repeatedly allocating a
randomly sized block, touching it, and freeing it, for a fixed duration.
It reports total operations and operations/sec — it does not report
live occupancy or fragmentation.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench()
		},
	}
	cmd.Flags().IntVar(&benchThreads, "threads", runtime.NumCPU(), "concurrent goroutines")
	cmd.Flags().DurationVar(&benchDuration, "duration", 2*time.Second, "how long to run")
	cmd.Flags().IntVar(&benchMaxSize, "max-size", 4096, "largest block size to allocate")
	rootCmd.AddCommand(cmd)
}

func runBench() error {
	if verbose {
		fmt.Printf("lrctl bench: %d threads, %s, max-size=%d\n", benchThreads, benchDuration, benchMaxSize)
	}

	var ops uint64
	stop := make(chan struct{})
	var wg sync.WaitGroup

	for i := 0; i < benchThreads; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
				}

				size := uintptr(rng.Intn(benchMaxSize)) + 1
				p := lrmichael.Malloc(size)
				if p == nil {
					continue
				}
				*(*byte)(p) = byte(size)
				lrmichael.Free(p)
				atomic.AddUint64(&ops, 1)
			}
		}(int64(i) + 1)
	}

	time.Sleep(benchDuration)
	close(stop)
	wg.Wait()

	total := atomic.LoadUint64(&ops)
	fmt.Printf("ops=%d duration=%s ops/sec=%.0f\n", total, benchDuration, float64(total)/benchDuration.Seconds())
	return nil
}
