// Package temporal implements streaming next-step predictors over SDR
// inputs.  Memory learns higher-order sequences through an invented context
// code carried across steps; DeepMemory stacks bigram encoders to capture
// several temporal scales at once.
package temporal

import (
	"math/rand"
	"time"

	"github.com/grailbio/sdm/sdr"
	"github.com/grailbio/sdm/triadic"
)

// Memory is a sequence predictor built from two triadic stores.  M1 learns a
// context code c for each (previous, current) transition; M2 learns the next
// input from the (previous, current) pair.  Writes to M2 happen only when
// the last prediction missed, so well-predicted streams are cheap.
type Memory struct {
	m1, m2 *triadic.Store
	n, p   int
	rng    *rand.Rand

	// Persistent circuit state.
	x, y, c, u, v, prediction *sdr.SDR
}

// New returns a predictor for dimension-n SDRs with population p, seeded
// from the wall clock.
func New(n, p int) *Memory {
	return NewRand(n, p, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewRand is New with an explicit random source for context creation.
func NewRand(n, p int, rng *rand.Rand) *Memory {
	return &Memory{
		m1:         triadic.New(n, p),
		m2:         triadic.New(n, p),
		n:          n,
		p:          p,
		rng:        rng,
		x:          sdr.New(n),
		y:          sdr.New(n),
		c:          sdr.New(n),
		u:          sdr.New(n),
		v:          sdr.New(n),
		prediction: sdr.New(n),
	}
}

// Predict consumes the next stream item and returns the predicted successor.
// An empty inp flushes the circuit state and acts as an end-of-sequence
// marker.
//
// The returned SDR aliases the internal prediction register: it is consumed
// by the next step and must not be modified by the caller.
func (t *Memory) Predict(inp *sdr.SDR) *sdr.SDR {
	if inp.P() == 0 {
		t.y.Clear()
		t.c.Clear()
		t.u.Clear()
		t.v.Clear()
		t.prediction.Clear()
		return t.prediction
	}

	t.x.Or(t.y, t.c)
	t.y.Set(inp)

	// The last prediction missed: store the actual successor for the pair
	// that produced it.
	if !t.prediction.Equal(t.y) {
		t.m2.Write(t.u, t.v, t.y)
	}

	t.m1.ReadZ(t.c, t.x, t.y)
	// u is a scratch probe here, not a stored axis: recovering x from (y,c)
	// checks whether c is an established context for this transition.
	t.m1.ReadX(t.u, t.y, t.c)

	if t.x.Overlap(t.u) < t.p {
		t.c.Random(t.rng, t.p)
		t.m1.Write(t.x, t.y, t.c)
	}

	t.u.Set(t.x)
	t.v.Set(t.y)
	return t.m2.ReadZ(t.prediction, t.u, t.v)
}
