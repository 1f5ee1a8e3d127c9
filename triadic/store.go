// Package triadic implements a three-way associative memory over a dense
// nx×ny×nz tensor of cells.  A triple {x,y,z} is stored by marking every
// combination of its active positions; any one component is recalled from the
// other two by collapsing the tensor over the known axes and keeping the
// strongest positions.
package triadic

import (
	"math/rand"
	"time"

	"github.com/grailbio/base/log"
	"github.com/grailbio/sdm/sdr"
)

// counterMax is the saturation bound of a byte counter cell.
const counterMax = 255

// Opts selects the storage representation of a Store.
type Opts struct {
	// PackedBits stores one bit per cell instead of a byte counter.  Writes
	// become idempotent and the tensor shrinks 8x, but Delete and Forgetting
	// are unavailable.
	PackedBits bool
	// Forgetting performs |x||y||z| random counter decrements after each
	// write, keeping total evidence roughly constant on a saturated store.
	Forgetting bool
	// Rand is the decrement source for Forgetting.  Wall-clock seeded when
	// nil.
	Rand *rand.Rand
}

// DefaultOpts is the byte-counter representation with no forgetting.
var DefaultOpts = Opts{}

// Store is a triadic associative memory.  A Store is not safe for concurrent
// mutation; concurrent reads of a frozen store are fine.
type Store struct {
	nx, ny, nz int
	px, py, pz int

	cells []uint8 // counter representation; nil when packed
	bits  *bitCube

	forgetting bool
	rng        *rand.Rand
}

// New returns a cubic n×n×n store with per-axis recall population p, using
// DefaultOpts.
func New(n, p int) *Store { return NewOpts(n, p, DefaultOpts) }

// NewOpts is New with explicit storage options.
func NewOpts(n, p int, opts Opts) *Store {
	return NewShaped(n, n, n, p, p, p, opts)
}

// NewShaped returns a store with per-axis dimensions and recall populations.
func NewShaped(nx, ny, nz, px, py, pz int, opts Opts) *Store {
	if nx < 1 || ny < 1 || nz < 1 || px < 1 || px > nx || py < 1 || py > ny || pz < 1 || pz > nz {
		log.Panicf("triadic.NewShaped: bad shape %d/%d/%d %d/%d/%d", nx, ny, nz, px, py, pz)
	}
	t := &Store{nx: nx, ny: ny, nz: nz, px: px, py: py, pz: pz}
	if opts.PackedBits {
		if opts.Forgetting {
			log.Panicf("triadic.NewShaped: forgetting requires counter cells")
		}
		t.bits = newBitCube(nx, ny, nz)
		return t
	}
	t.cells = make([]uint8, nx*ny*nz)
	t.forgetting = opts.Forgetting
	if t.forgetting {
		t.rng = opts.Rand
		if t.rng == nil {
			t.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
		}
	}
	return t
}

// Px returns the x-axis recall population.
func (t *Store) Px() int { return t.px }

// Py returns the y-axis recall population.
func (t *Store) Py() int { return t.py }

// Pz returns the z-axis recall population.
func (t *Store) Pz() int { return t.pz }

func (t *Store) cell(i, j, k int) int { return i*t.ny*t.nz + j*t.nz + k }

// Write stores the triple {x,y,z}.
func (t *Store) Write(x, y, z *sdr.SDR) {
	if t.bits != nil {
		for _, i := range x.Active() {
			for _, j := range y.Active() {
				for _, k := range z.Active() {
					t.bits.set(i*t.ny+j, k)
				}
			}
		}
		return
	}
	for _, i := range x.Active() {
		for _, j := range y.Active() {
			base := t.cell(i, j, 0)
			for _, k := range z.Active() {
				if t.cells[base+k] < counterMax {
					t.cells[base+k]++
				}
			}
		}
	}
	if t.forgetting {
		t.forget(x.P() * y.P() * z.P())
	}
}

// Delete removes one write of {x,y,z}, clamping counters at zero.  Delete is
// unavailable on packed-bit stores.
func (t *Store) Delete(x, y, z *sdr.SDR) {
	if t.bits != nil {
		log.Panicf("triadic.Delete: packed-bit store cannot delete")
	}
	for _, i := range x.Active() {
		for _, j := range y.Active() {
			base := t.cell(i, j, 0)
			for _, k := range z.Active() {
				if t.cells[base+k] > 0 {
					t.cells[base+k]--
				}
			}
		}
	}
}

// forget decrements count random cells, clamping at zero.
func (t *Store) forget(count int) {
	for ; count > 0; count-- {
		c := t.rng.Intn(len(t.cells))
		if t.cells[c] > 0 {
			t.cells[c]--
		}
	}
}

// ReadZ recalls the third component of a triple from x and y into dst.
func (t *Store) ReadZ(dst *sdr.SDR, x, y *sdr.SDR) *sdr.SDR {
	acc := make([]int, t.nz)
	if t.bits != nil {
		for _, i := range x.Active() {
			for _, j := range y.Active() {
				t.bits.accumulateRow(acc, i*t.ny+j)
			}
		}
	} else {
		for _, i := range x.Active() {
			for _, j := range y.Active() {
				base := t.cell(i, j, 0)
				for k := 0; k < t.nz; k++ {
					acc[k] += int(t.cells[base+k])
				}
			}
		}
	}
	return sdr.Binarize(dst, acc, t.pz)
}

// ReadY recalls the second component from x and z into dst.
func (t *Store) ReadY(dst *sdr.SDR, x, z *sdr.SDR) *sdr.SDR {
	acc := make([]int, t.ny)
	if t.bits != nil {
		for _, i := range x.Active() {
			for j := 0; j < t.ny; j++ {
				row := i*t.ny + j
				if t.bits.rowEmpty(row) {
					continue
				}
				for _, k := range z.Active() {
					if t.bits.get(row, k) {
						acc[j]++
					}
				}
			}
		}
	} else {
		for _, i := range x.Active() {
			for j := 0; j < t.ny; j++ {
				base := t.cell(i, j, 0)
				for _, k := range z.Active() {
					acc[j] += int(t.cells[base+k])
				}
			}
		}
	}
	return sdr.Binarize(dst, acc, t.py)
}

// ReadX recalls the first component from y and z into dst.
func (t *Store) ReadX(dst *sdr.SDR, y, z *sdr.SDR) *sdr.SDR {
	acc := make([]int, t.nx)
	if t.bits != nil {
		for _, j := range y.Active() {
			for i := 0; i < t.nx; i++ {
				row := i*t.ny + j
				if t.bits.rowEmpty(row) {
					continue
				}
				for _, k := range z.Active() {
					if t.bits.get(row, k) {
						acc[i]++
					}
				}
			}
		}
	} else {
		for _, j := range y.Active() {
			for _, k := range z.Active() {
				for i := 0; i < t.nx; i++ {
					acc[i] += int(t.cells[t.cell(i, j, k)])
				}
			}
		}
	}
	return sdr.Binarize(dst, acc, t.px)
}
