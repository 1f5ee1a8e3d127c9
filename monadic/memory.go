// Package monadic implements an auto-associative clean-up memory.  A noisy
// input is mapped to the canonical form it was stored under; inputs that
// resemble nothing stored are admitted as new canonical items.
package monadic

import (
	"math/rand"
	"time"

	"github.com/grailbio/sdm/dyadic"
	"github.com/grailbio/sdm/sdr"
)

// Memory chains two dyadic stores into a denoising autoencoder: D1 maps an
// item to its random hidden code and D2 maps the code back.  Two round trips
// drive a noisy input toward the stored fixed point.
type Memory struct {
	d1, d2 *dyadic.Store
	n, p   int

	items int
	rng   *rand.Rand

	h, r *sdr.SDR
}

// New returns a clean-up memory for dimension-n SDRs with population p,
// seeded from the wall clock.
func New(n, p int) *Memory {
	return NewRand(n, p, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewRand is New with an explicit random source for the hidden codes.
func NewRand(n, p int, rng *rand.Rand) *Memory {
	return &Memory{
		d1:  dyadic.New(n, p),
		d2:  dyadic.New(n, p),
		n:   n,
		p:   p,
		rng: rng,
		h:   sdr.New(n),
		r:   sdr.New(n),
	}
}

// Items returns the number of distinct items admitted so far.
func (m *Memory) Items() int { return m.items }

// Recall maps inp to its stored canonical form, admitting it as a new item
// when nothing stored is close.  The returned SDR is a borrow of internal
// state, valid until the next call.
func (m *Memory) Recall(inp *sdr.SDR) *sdr.SDR {
	// Two clean-up round trips through the autoencoder pair.
	m.d1.Read(m.h, inp)
	m.d2.Read(m.r, m.h)
	m.d1.Read(m.h, m.r)
	m.d2.Read(m.r, m.h)

	if inp.Distance(m.r) < m.p/2 {
		return m.r
	}

	// Novel input: pair it with a fresh random hidden code and store both
	// directions.
	m.items++
	m.h.Random(m.rng, m.p)
	m.d1.Write(inp, m.h)
	m.d2.Write(m.h, inp)
	return m.r.Set(inp)
}
