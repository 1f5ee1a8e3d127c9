package temporal

import (
	"math/rand"
	"time"

	"github.com/grailbio/sdm/sdr"
	"github.com/grailbio/sdm/triadic"
)

// BigramEncoder produces a distributed code for the ordered pair of its last
// two inputs.  Feeding an encoder the output of the one before it lengthens
// the temporal span by one step at each stage.
type BigramEncoder struct {
	t   *triadic.Store
	p   int
	rng *rand.Rand

	x, y, z *sdr.SDR
	u       *sdr.SDR
}

// NewBigramEncoder returns an encoder for dimension-n SDRs with population
// p.
func NewBigramEncoder(n, p int, rng *rand.Rand) *BigramEncoder {
	return &BigramEncoder{
		t:   triadic.New(n, p),
		p:   p,
		rng: rng,
		x:   sdr.New(n),
		y:   sdr.New(n),
		z:   sdr.New(n),
		u:   sdr.New(n),
	}
}

// Encode consumes the next input and returns the bigram code.  An empty
// input flushes the encoder state.  The result aliases the internal z
// register and must not be rewritten by the caller between steps.
func (r *BigramEncoder) Encode(inp *sdr.SDR) *sdr.SDR {
	if inp.P() == 0 {
		r.x.Clear()
		r.y.Clear()
		r.z.Clear()
		return r.z
	}

	r.x.Or(r.y, r.z)
	r.y.Set(inp)

	if r.x.P() == 0 {
		return r.z
	}

	r.t.ReadZ(r.z, r.x, r.y)
	r.t.ReadX(r.u, r.y, r.z)

	if r.x.Overlap(r.u) < r.t.Px() {
		r.z.Random(r.rng, r.t.Pz())
		r.t.Write(r.x, r.y, r.z)
	}

	return r.z
}

// DeepMemory is a next-step predictor built from a chain of seven bigram
// encoders and one triadic store.  The encoder chain turns the input stream
// into codes spanning 2..8 steps; the store learns the next input from a
// fixed combination of those codes.
type DeepMemory struct {
	m   *triadic.Store
	enc [7]*BigramEncoder

	x, y, z *sdr.SDR
}

// NewDeep returns a deep predictor for dimension-n SDRs with population p,
// seeded from the wall clock.
func NewDeep(n, p int) *DeepMemory {
	return NewDeepRand(n, p, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewDeepRand is NewDeep with an explicit random source.
func NewDeepRand(n, p int, rng *rand.Rand) *DeepMemory {
	d := &DeepMemory{
		m: triadic.New(n, p),
		x: sdr.New(n),
		y: sdr.New(n),
		z: sdr.New(n),
	}
	for i := range d.enc {
		d.enc[i] = NewBigramEncoder(n, p, rng)
	}
	return d
}

// Predict consumes the next stream item and returns the predicted successor.
// An empty input flushes all encoder state within this pass.
//
// The returned SDR aliases the internal prediction register and must not be
// modified by the caller; the next step compares it against the actual
// input.
func (d *DeepMemory) Predict(inp *sdr.SDR) *sdr.SDR {
	// The previous prediction missed: associate the actual successor with
	// the readout pair that produced it.
	if !d.z.Equal(inp) {
		d.m.Write(d.x, d.y, inp)
	}

	// The encoder outputs are bigram codes over growing spans: t1 covers
	// 2 steps, t4 covers 5, t7 covers 8.
	t1 := d.enc[0].Encode(inp)
	t2 := d.enc[1].Encode(t1)
	t3 := d.enc[2].Encode(t2)
	t4 := d.enc[3].Encode(t3)
	t5 := d.enc[4].Encode(t4)
	t6 := d.enc[5].Encode(t5)
	t7 := d.enc[6].Encode(t6)

	// Readout from {t1,t4} x {t2,t7}; the same tuple feeds the writes
	// above, via the persistent x and y registers.
	d.x.Or(t1, t4)
	d.y.Or(t2, t7)

	return d.m.ReadZ(d.z, d.x, d.y)
}
