// Package encoder converts scalars to SDRs and back.  A value in [lo, hi] is
// encoded as a sliding window of p consecutive active bits in [0, n); the
// decoder recovers the scalar from the mean of the active positions, rounded
// to the encoder's native quantum.
package encoder

import (
	"math"

	"github.com/grailbio/base/log"
	"github.com/grailbio/sdm/sdr"
)

// Real2SDR encodes x in [lo, hi] into s as p consecutive active bits
// starting at floor((x-lo)/(hi-lo)·(n-p)).
func Real2SDR(s *sdr.SDR, x float64, n, p int, lo, hi float64) *sdr.SDR {
	if s.N() != n || p < 1 || p > n || hi <= lo {
		log.Panicf("encoder.Real2SDR: bad parameters n=%d p=%d range [%g,%g]", n, p, lo, hi)
	}
	m := int(math.Floor((x - lo) / (hi - lo) * float64(n-p)))
	idx := make([]int, p)
	for i := range idx {
		idx[i] = m + i
	}
	return s.SetActive(idx)
}

// SDR2Real decodes an SDR produced by Real2SDR.  The result is quantized to
// multiples of 1/(n-p-((n-p) mod 2)) of the value range; an empty SDR
// decodes to 0.
func SDR2Real(s *sdr.SDR, n, p int, lo, hi float64) float64 {
	if s.P() == 0 {
		return 0
	}
	// Positions are taken 1-based so that a window starting at offset m has
	// mean m + (p+1)/2.
	sum := 0
	for _, v := range s.Active() {
		sum += v + 1
	}
	mean := float64(sum) / float64(s.P())
	span := float64(n - p)
	quantum := 1 / (span - float64((n-p)%2))
	return roundTo((mean-(float64(p)+1)/2)/span, quantum)*(hi-lo) + lo
}

// Int2SDR encodes the integer v in [lo, hi] into s.  The window offset is
// computed in integer arithmetic, so grid values encode exactly.
func Int2SDR(s *sdr.SDR, v, n, p, lo, hi int) *sdr.SDR {
	if s.N() != n || p < 1 || p > n || hi <= lo {
		log.Panicf("encoder.Int2SDR: bad parameters n=%d p=%d range [%d,%d]", n, p, lo, hi)
	}
	m := (v - lo) * (n - p) / (hi - lo)
	idx := make([]int, p)
	for i := range idx {
		idx[i] = m + i
	}
	return s.SetActive(idx)
}

// SDR2Int decodes an SDR produced by Int2SDR to the nearest integer.
func SDR2Int(s *sdr.SDR, n, p, lo, hi int) int {
	return int(math.Round(SDR2Real(s, n, p, float64(lo), float64(hi))))
}

// roundTo rounds x to the nearest multiple of a, halves up.
func roundTo(x, a float64) float64 {
	if x/a-math.Floor(x/a) < 0.5 {
		return math.Floor(x/a) * a
	}
	return math.Ceil(x/a) * a
}
