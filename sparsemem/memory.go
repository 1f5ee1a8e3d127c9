// Package sparsemem implements a dynamically allocated hetero-associative
// memory.  Unlike the fixed-shape dyadic store it grows cell storage on
// demand, accepts values of arbitrary population, and derives its recall
// population from the running average of everything written so far.
package sparsemem

import (
	"math"

	"github.com/grailbio/base/log"
	"github.com/grailbio/sdm/sdr"
)

// NMax bounds the SDR dimension; the pair-bucket table is quadratic in n.
const NMax = 20000

// A cell entry packs a y position and its evidence counter into one word:
// the position in the high 16 bits, the counter in the low 16.  Entries in a
// bucket are sorted, so position order and word order coincide.
const (
	entryShift = 16
	countMask  = 1<<entryShift - 1
)

// Memory is a growable pair-coded associative memory.
type Memory struct {
	n  int
	ny int // highest y position written so far, plus one

	writes int
	pAvg   float64 // running mean population of written values

	buckets [][]uint32
}

// New returns a memory for SDRs of dimension up to n, n <= NMax.
func New(n int) *Memory {
	if n < 2 || n > NMax {
		log.Panicf("sparsemem.New: dimension %d out of range (max %d)", n, NMax)
	}
	return &Memory{n: n, buckets: make([][]uint32, n*(n-1)/2)}
}

// N returns the dimension.
func (m *Memory) N() int { return m.n }

// Target returns the recall population: the running mean of written value
// populations, rounded half away from zero.  Zero before the first write.
func (m *Memory) Target() int { return int(math.Round(m.pAvg)) }

func addr(i, j int) int { return i + j*(j-1)/2 }

// Write stores the association x -> y.
func (m *Memory) Write(x, y *sdr.SDR) {
	ya := y.Active()
	if len(ya) > 0 {
		m.writes++
		m.pAvg += (float64(len(ya)) - m.pAvg) / float64(m.writes)
		if top := ya[len(ya)-1] + 1; top > m.ny {
			m.ny = top
		}
	}
	xa := x.Active()
	for i := 0; i < len(xa)-1; i++ {
		for j := i + 1; j < len(xa); j++ {
			u := addr(xa[i], xa[j])
			for _, k := range ya {
				m.buckets[u] = bump(m.buckets[u], k)
			}
		}
	}
}

// bump increments the counter for position k in the sorted bucket, inserting
// a fresh entry when the position is new.  Counters saturate at 16 bits.
func bump(bucket []uint32, k int) []uint32 {
	key := uint32(k) << entryShift
	lo, hi := 0, len(bucket)
	for lo < hi {
		mid := (lo + hi) / 2
		if bucket[mid]>>entryShift < uint32(k) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(bucket) && bucket[lo]>>entryShift == uint32(k) {
		if bucket[lo]&countMask < countMask {
			bucket[lo]++
		}
		return bucket
	}
	bucket = append(bucket, 0)
	copy(bucket[lo+1:], bucket[lo:])
	bucket[lo] = key | 1
	return bucket
}

// Read recalls the value associated with x into dst and returns dst.  The
// result population tracks the running average of stored value populations.
func (m *Memory) Read(dst *sdr.SDR, x *sdr.SDR) *sdr.SDR {
	target := m.Target()
	if m.ny == 0 || target == 0 {
		return dst.Clear()
	}
	acc := make([]int, dst.N())
	xa := x.Active()
	for i := 0; i < len(xa)-1; i++ {
		for j := i + 1; j < len(xa); j++ {
			for _, e := range m.buckets[addr(xa[i], xa[j])] {
				acc[e>>entryShift] += int(e & countMask)
			}
		}
	}
	return sdr.Binarize(dst, acc, target)
}
