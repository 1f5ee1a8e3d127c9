// Command sdm-bench measures capacity and throughput of the associative
// memories: items stored per second, recalls per second, and the mean
// Hamming distance between stored and recalled values as the store fills.
package main

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/sdm/dyadic"
	"github.com/grailbio/sdm/sdr"
	"github.com/grailbio/sdm/temporal"
	"github.com/grailbio/sdm/triadic"
	"v.io/x/lib/cmdline"
)

func opsPerSecond(n int, elapsed time.Duration) int {
	return int(float64(n) / elapsed.Seconds())
}

func newCmdDyadic() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "dyadic",
		Short: "Dyadic memory performance and capacity test",
	}
	nx := cmd.Flags.Int("nx", 1000, "Input dimension")
	ny := cmd.Flags.Int("ny", 1000, "Output dimension")
	p := cmd.Flags.Int("p", 10, "Sparse population")
	items := cmd.Flags.Int("items", 100000, "Associations per iteration")
	iterations := cmd.Flags.Int("iterations", 10, "Number of iterations")
	seed := cmd.Flags.Int64("seed", 0, "Random seed; 0 means wall clock")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 0 {
			return fmt.Errorf("dyadic takes no arguments, got %v", argv)
		}
		rng := rand.New(rand.NewSource(seedOrClock(*seed)))
		store := dyadic.NewShaped(*nx, *ny, *p)

		xs := make([]*sdr.SDR, *items)
		ys := make([]*sdr.SDR, *items)
		out := make([]*sdr.SDR, *items)
		for i := range xs {
			xs[i] = sdr.New(*nx)
			ys[i] = sdr.New(*ny)
			out[i] = sdr.New(*ny)
		}

		for iter := 1; iter <= *iterations; iter++ {
			for i := range xs {
				xs[i].Random(rng, *p)
				ys[i].Random(rng, *p)
			}

			start := time.Now()
			for i := range xs {
				store.Write(xs[i], ys[i])
			}
			writeRate := opsPerSecond(*items, time.Since(start))

			// The store is frozen during recall, so reads can fan out.
			start = time.Now()
			var mu sync.Mutex
			total := 0
			_ = traverse.Each(*items, func(i int) error {
				store.Read(out[i], xs[i])
				d := ys[i].Distance(out[i])
				mu.Lock()
				total += d
				mu.Unlock()
				return nil
			})
			readRate := opsPerSecond(*items, time.Since(start))

			fmt.Fprintf(env.Stdout,
				"| iter %.3d | nx=%d | ny=%d | p=%d | %d items | write/sec %d | read/sec %d | %.3f avg dist |\n",
				iter, *nx, *ny, *p, *items, writeRate, readRate,
				float64(total)/float64(*items))
		}
		return nil
	})
	return cmd
}

func newCmdTriadic() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "triadic",
		Short: "Triadic memory performance and capacity test",
	}
	n := cmd.Flags.Int("n", 1000, "Dimension")
	p := cmd.Flags.Int("p", 10, "Sparse population")
	items := cmd.Flags.Int("items", 100000, "Triples per iteration")
	iterations := cmd.Flags.Int("iterations", 10, "Number of iterations")
	seed := cmd.Flags.Int64("seed", 0, "Random seed; 0 means wall clock")
	packed := cmd.Flags.Bool("packed-bits", false, "Use the packed-bit representation")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 0 {
			return fmt.Errorf("triadic takes no arguments, got %v", argv)
		}
		rng := rand.New(rand.NewSource(seedOrClock(*seed)))
		store := triadic.NewOpts(*n, *p, triadic.Opts{PackedBits: *packed})

		xs := make([]*sdr.SDR, *items)
		ys := make([]*sdr.SDR, *items)
		zs := make([]*sdr.SDR, *items)
		out := make([]*sdr.SDR, *items)
		for i := range xs {
			xs[i] = sdr.New(*n)
			ys[i] = sdr.New(*n)
			zs[i] = sdr.New(*n)
			out[i] = sdr.New(*n)
		}

		for iter := 1; iter <= *iterations; iter++ {
			for i := range xs {
				xs[i].Random(rng, *p)
				ys[i].Random(rng, *p)
				zs[i].Random(rng, *p)
			}

			start := time.Now()
			for i := range xs {
				store.Write(xs[i], ys[i], zs[i])
			}
			writeRate := opsPerSecond(*items, time.Since(start))

			start = time.Now()
			var mu sync.Mutex
			total := 0
			_ = traverse.Each(*items, func(i int) error {
				store.ReadZ(out[i], xs[i], ys[i])
				d := zs[i].Distance(out[i])
				mu.Lock()
				total += d
				mu.Unlock()
				return nil
			})
			readRate := opsPerSecond(*items, time.Since(start))

			fmt.Fprintf(env.Stdout,
				"| iter %.3d | n=%d | p=%d | %d items | write/sec %d | read/sec %d | %.3f avg dist |\n",
				iter, *n, *p, *items, writeRate, readRate,
				float64(total)/float64(*items))
		}
		return nil
	})
	return cmd
}

func newCmdTemporal() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "temporal",
		Short: "Temporal memory sequence learning test",
	}
	n := cmd.Flags.Int("n", 1000, "Dimension")
	p := cmd.Flags.Int("p", 10, "Sparse population")
	length := cmd.Flags.Int("length", 100, "Sequence length")
	passes := cmd.Flags.Int("passes", 10, "Passes over the sequence")
	seed := cmd.Flags.Int64("seed", 0, "Random seed; 0 means wall clock")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 0 {
			return fmt.Errorf("temporal takes no arguments, got %v", argv)
		}
		rng := rand.New(rand.NewSource(seedOrClock(*seed)))
		mem := temporal.NewRand(*n, *p, rng)

		seq := make([]*sdr.SDR, *length)
		for i := range seq {
			seq[i] = sdr.New(*n).Random(rng, *p)
		}
		flush := sdr.New(*n)

		for pass := 1; pass <= *passes; pass++ {
			start := time.Now()
			misses := 0
			for i, item := range seq {
				pred := mem.Predict(item)
				if i+1 < len(seq) && !pred.Equal(seq[i+1]) {
					misses++
				}
			}
			mem.Predict(flush)
			fmt.Fprintf(env.Stdout,
				"| pass %.3d | n=%d | p=%d | length=%d | step/sec %d | misses %d |\n",
				pass, *n, *p, *length,
				opsPerSecond(*length, time.Since(start)), misses)
		}
		return nil
	})
	return cmd
}

func seedOrClock(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	return time.Now().UnixNano()
}

func main() {
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(&cmdline.Command{
		Name:     "sdm-bench",
		Short:    "Benchmarks for the sparse distributed memory family",
		LookPath: false,
		Children: []*cmdline.Command{
			newCmdDyadic(),
			newCmdTriadic(),
			newCmdTemporal(),
		},
	})
}
