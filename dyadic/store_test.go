package dyadic

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/grailbio/base/traverse"
	"github.com/grailbio/sdm/sdr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// addr must enumerate each unordered pair i < j exactly once within
// [0, n(n-1)/2).
func TestAddrExhaustive(t *testing.T) {
	for n := 2; n <= 8; n++ {
		seen := make(map[int]bool)
		for j := 1; j < n; j++ {
			for i := 0; i < j; i++ {
				u := addr(i, j)
				require.True(t, u >= 0 && u < n*(n-1)/2, "addr(%d,%d)=%d out of range for n=%d", i, j, u, n)
				require.False(t, seen[u], "addr(%d,%d)=%d collides for n=%d", i, j, u, n)
				seen[u] = true
			}
		}
		assert.Equal(t, n*(n-1)/2, len(seen))
	}
}

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	store := New(1000, 10)
	x := sdr.New(1000).Random(rng, 10)
	y := sdr.New(1000).Random(rng, 10)
	store.Write(x, y)
	out := store.ReadNew(x)
	assert.Equal(t, 0, y.Distance(out))
}

func TestRoundTripMany(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	store := New(1000, 10)
	const items = 500
	xs := make([]*sdr.SDR, items)
	ys := make([]*sdr.SDR, items)
	for i := range xs {
		xs[i] = sdr.New(1000).Random(rng, 10)
		ys[i] = sdr.New(1000).Random(rng, 10)
		store.Write(xs[i], ys[i])
	}
	// Far below rated capacity; recall should be essentially exact.
	total := 0
	for i := range xs {
		total += ys[i].Distance(store.ReadNew(xs[i]))
	}
	assert.True(t, float64(total)/items < 0.1, "mean recall distance %f", float64(total)/items)
}

func TestDeleteInverse(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	store := New(1000, 10)
	x := sdr.New(1000).Random(rng, 10)
	y := sdr.New(1000).Random(rng, 10)
	store.Write(x, y)
	store.Delete(x, y)
	assert.Equal(t, 0, store.ReadNew(x).P())
}

func TestDeleteClampsAtZero(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	store := New(100, 5)
	x := sdr.New(100).Random(rng, 5)
	y := sdr.New(100).Random(rng, 5)
	store.Delete(x, y) // nothing stored; must not underflow
	store.Write(x, y)
	assert.Equal(t, 0, y.Distance(store.ReadNew(x)))
}

func TestDegenerateWrites(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	store := New(100, 5)
	y := sdr.New(100).Random(rng, 5)

	// Inputs with fewer than two active positions have no pairs.
	store.Write(sdr.New(100), y)
	store.Write(sdr.New(100).SetActive([]int{7}), y)
	// Empty values are a no-op too.
	x := sdr.New(100).Random(rng, 5)
	store.Write(x, sdr.New(100))

	probe := sdr.New(100).Random(rng, 5)
	assert.Equal(t, 0, store.ReadNew(probe).P())
	assert.Equal(t, 0, store.ReadNew(x).P())
}

func TestShaped(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	store := NewShaped(200, 100, 4)
	x := sdr.New(200).Random(rng, 8)
	y := sdr.New(100).Random(rng, 4)
	store.Write(x, y)
	out := store.ReadNew(x)
	assert.Equal(t, 0, y.Distance(out))
	assert.Equal(t, 100, out.N())
}

func TestFixedVectors(t *testing.T) {
	// 1-based wire values 1 20 195 355 371 471 603 814 911 999 ->
	// 13 29 41 182 590 711 714 773 925 967, stored 0-based.
	x := sdr.New(1000).SetActive([]int{0, 19, 194, 354, 370, 470, 602, 813, 910, 998})
	y := sdr.New(1000).SetActive([]int{12, 28, 40, 181, 589, 710, 713, 772, 924, 966})
	store := New(1000, 10)
	store.Write(x, y)
	assert.True(t, store.ReadNew(x).Equal(y))
}

// Once writes stop, parallel recalls are safe: each Read accumulates into
// its own scratch vector, so concurrent readers must all see the stored
// associations.
func TestConcurrentReadsFrozenStore(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	store := New(1000, 10)
	const items = 100
	xs := make([]*sdr.SDR, items)
	ys := make([]*sdr.SDR, items)
	for i := range xs {
		xs[i] = sdr.New(1000).Random(rng, 10)
		ys[i] = sdr.New(1000).Random(rng, 10)
		store.Write(xs[i], ys[i])
	}
	err := traverse.Each(4*items, func(job int) error {
		i := job % items
		out := store.ReadNew(xs[i])
		if !out.Equal(ys[i]) {
			return fmt.Errorf("item %d: concurrent recall mismatch", i)
		}
		return nil
	})
	assert.NoError(t, err)
}

func BenchmarkWrite(b *testing.B) {
	rng := rand.New(rand.NewSource(7))
	store := New(1000, 10)
	x := sdr.New(1000).Random(rng, 10)
	y := sdr.New(1000).Random(rng, 10)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		store.Write(x, y)
	}
}

func BenchmarkRead(b *testing.B) {
	rng := rand.New(rand.NewSource(8))
	store := New(1000, 10)
	x := sdr.New(1000).Random(rng, 10)
	y := sdr.New(1000).Random(rng, 10)
	store.Write(x, y)
	out := sdr.New(1000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		store.Read(out, x)
	}
}
