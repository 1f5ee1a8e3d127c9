// Package sdr implements sparse distributed representations: binary
// hypervectors of dimension n stored as the sorted list of their active
// positions.  Typical shapes are n = 1000 with 10 to 20 active bits.
package sdr

import (
	"math/rand"
	"strconv"
	"strings"

	"github.com/grailbio/base/log"
)

// SDR is a binary vector of dimension n with p active positions.  The active
// positions are kept strictly increasing in [0, n).  The zero population SDR
// is valid and acts as the empty/flush marker throughout this repository.
type SDR struct {
	n int
	a []int
}

// New returns an empty SDR of dimension n.
func New(n int) *SDR {
	if n <= 0 {
		log.Panicf("sdr.New: nonpositive dimension %d", n)
	}
	return &SDR{n: n, a: make([]int, 0, n)}
}

// N returns the dimension.
func (s *SDR) N() int { return s.n }

// P returns the population (number of active positions).
func (s *SDR) P() int { return len(s.a) }

// Active returns the active positions in increasing order.  The slice is a
// borrow; callers must not modify it.
func (s *SDR) Active() []int { return s.a }

// Clear sets the population to zero.
func (s *SDR) Clear() *SDR {
	s.a = s.a[:0]
	return s
}

// Set copies src into s.  The two SDRs must have the same dimension.
func (s *SDR) Set(src *SDR) *SDR {
	if s.n != src.n {
		log.Panicf("sdr.Set: dimension mismatch %d != %d", s.n, src.n)
	}
	s.a = append(s.a[:0], src.a...)
	return s
}

// SetActive replaces the active positions of s with a copy of idx, which must
// be strictly increasing and in range.
func (s *SDR) SetActive(idx []int) *SDR {
	for i, v := range idx {
		if v < 0 || v >= s.n || (i > 0 && idx[i-1] >= v) {
			log.Panicf("sdr.SetActive: bad index sequence %v for dimension %d", idx, s.n)
		}
	}
	s.a = append(s.a[:0], idx...)
	return s
}

// Random fills s with k positions drawn uniformly without replacement from
// [0, n), in increasing order.
func (s *SDR) Random(r *rand.Rand, k int) *SDR {
	if k < 0 || k > s.n {
		log.Panicf("sdr.Random: population %d out of range for dimension %d", k, s.n)
	}
	// Floyd's sampling: k distinct values without materializing the range.
	picked := make(map[int]bool, k)
	s.a = s.a[:0]
	for i := s.n - k; i < s.n; i++ {
		v := r.Intn(i + 1)
		if picked[v] {
			v = i
		}
		picked[v] = true
	}
	for v := range picked {
		s.a = append(s.a, v)
	}
	sortInts(s.a)
	return s
}

// Or stores the union of x and y in s.  All three must share a dimension;
// s may alias x or y.
func (s *SDR) Or(x, y *SDR) *SDR {
	if s.n != x.n || s.n != y.n {
		log.Panicf("sdr.Or: dimension mismatch %d/%d/%d", s.n, x.n, y.n)
	}
	merged := make([]int, 0, len(x.a)+len(y.a))
	i, j := 0, 0
	for i < len(x.a) && j < len(y.a) {
		switch {
		case x.a[i] < y.a[j]:
			merged = append(merged, x.a[i])
			i++
		case x.a[i] > y.a[j]:
			merged = append(merged, y.a[j])
			j++
		default:
			merged = append(merged, x.a[i])
			i++
			j++
		}
	}
	merged = append(merged, x.a[i:]...)
	merged = append(merged, y.a[j:]...)
	s.a = append(s.a[:0], merged...)
	return s
}

// Equal reports whether x and y have identical active sets.
func (s *SDR) Equal(y *SDR) bool {
	if len(s.a) != len(y.a) {
		return false
	}
	for i, v := range s.a {
		if v != y.a[i] {
			return false
		}
	}
	return true
}

// Overlap returns the number of positions active in both x and y.
func (s *SDR) Overlap(y *SDR) int {
	i, j, overlap := 0, 0, 0
	for i < len(s.a) && j < len(y.a) {
		switch {
		case s.a[i] == y.a[j]:
			overlap++
			i++
			j++
		case s.a[i] < y.a[j]:
			i++
		default:
			j++
		}
	}
	return overlap
}

// Distance returns the Hamming distance between the dense bitmaps of x and y:
// |x| + |y| - 2|x∩y|.
func (s *SDR) Distance(y *SDR) int {
	return len(s.a) + len(y.a) - 2*s.Overlap(y)
}

// RotateRight shifts the dense bitmap circularly one position toward higher
// indices, in place.
func (s *SDR) RotateRight() *SDR {
	p := len(s.a)
	if p == 0 {
		return s
	}
	if s.a[p-1] < s.n-1 {
		for i := range s.a {
			s.a[i]++
		}
		return s
	}
	// The highest bit wraps to position 0.
	for i := p - 1; i > 0; i-- {
		s.a[i] = s.a[i-1] + 1
	}
	s.a[0] = 0
	return s
}

// RotateLeft shifts the dense bitmap circularly one position toward lower
// indices, in place.
func (s *SDR) RotateLeft() *SDR {
	p := len(s.a)
	if p == 0 {
		return s
	}
	if s.a[0] > 0 {
		for i := range s.a {
			s.a[i]--
		}
		return s
	}
	// Bit 0 wraps to position n-1.
	for i := 0; i < p-1; i++ {
		s.a[i] = s.a[i+1] - 1
	}
	s.a[p-1] = s.n - 1
	return s
}

// Noise perturbs s in place.  For k > 0 it unions in a random SDR of
// population k; for k < 0 it keeps a uniform random subset of max(0, p+k)
// positions.
func (s *SDR) Noise(r *rand.Rand, k int) *SDR {
	switch {
	case k > 0:
		extra := New(s.n).Random(r, k)
		s.Or(s, extra)
	case k < 0:
		keep := len(s.a) + k
		if keep < 0 {
			keep = 0
		}
		r.Shuffle(len(s.a), func(i, j int) {
			s.a[i], s.a[j] = s.a[j], s.a[i]
		})
		s.a = s.a[:keep]
		sortInts(s.a)
	}
	return s
}

// String renders the active positions 1-based, space separated, matching the
// wire format of the command-line tools.
func (s *SDR) String() string {
	var b strings.Builder
	for i, v := range s.a {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.Itoa(v + 1))
	}
	return b.String()
}

func sortInts(a []int) {
	// Insertion sort; populations are small (p ≪ n).
	for i := 1; i < len(a); i++ {
		for j := i; j > 0 && a[j-1] > a[j]; j-- {
			a[j-1], a[j] = a[j], a[j-1]
		}
	}
}
