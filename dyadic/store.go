// Package dyadic implements a hetero-associative memory storing x -> y over
// the unordered index pairs of x.  Each pair acts as an independent
// micro-address; recall accumulates evidence from all pairs of the query and
// keeps the strongest positions.
package dyadic

import (
	"github.com/grailbio/base/log"
	"github.com/grailbio/sdm/sdr"
)

// counterMax is the saturation bound of a cell counter.
const counterMax = 255

// Store is a pair-coded associative memory with saturating byte counters.
// Cells are allocated lazily per pair bucket: a store rated for nx=1000
// holds ~500k buckets of which a tiny fraction is ever touched.
type Store struct {
	nx, ny int
	p      int
	rows   [][]uint8
}

// New returns a store mapping dimension-n inputs to dimension-n outputs with
// target recall population p.
func New(n, p int) *Store { return NewShaped(n, n, p) }

// NewShaped returns a store mapping dimension-nx inputs to dimension-ny
// outputs with target recall population p.
func NewShaped(nx, ny, p int) *Store {
	if nx < 2 || ny < 1 || p < 1 || p > ny {
		log.Panicf("dyadic.NewShaped: bad shape nx=%d ny=%d p=%d", nx, ny, p)
	}
	return &Store{
		nx:   nx,
		ny:   ny,
		p:    p,
		rows: make([][]uint8, nx*(nx-1)/2),
	}
}

// Nx returns the input dimension.
func (d *Store) Nx() int { return d.nx }

// Ny returns the output dimension.
func (d *Store) Ny() int { return d.ny }

// P returns the target recall population.
func (d *Store) P() int { return d.p }

// addr maps an unordered pair i < j of input positions to its bucket.
func addr(i, j int) int { return i + j*(j-1)/2 }

// Write stores the association x -> y.  Inputs with fewer than two active
// positions have no pairs and are a no-op, as are empty values y.
func (d *Store) Write(x, y *sdr.SDR) {
	if y.P() == 0 {
		return
	}
	d.eachPair(x, func(row []uint8) {
		for _, k := range y.Active() {
			if row[k] < counterMax {
				row[k]++
			}
		}
	})
}

// Delete removes one write of the association x -> y, clamping counters
// at zero.
func (d *Store) Delete(x, y *sdr.SDR) {
	xa := x.Active()
	for i := 0; i < len(xa)-1; i++ {
		for j := i + 1; j < len(xa); j++ {
			row := d.rows[addr(xa[i], xa[j])]
			if row == nil {
				continue
			}
			for _, k := range y.Active() {
				if row[k] > 0 {
					row[k]--
				}
			}
		}
	}
}

// Read recalls the value associated with x into dst and returns dst.
func (d *Store) Read(dst *sdr.SDR, x *sdr.SDR) *sdr.SDR {
	acc := make([]int, d.ny)
	xa := x.Active()
	for i := 0; i < len(xa)-1; i++ {
		for j := i + 1; j < len(xa); j++ {
			row := d.rows[addr(xa[i], xa[j])]
			if row == nil {
				continue
			}
			for k, c := range row {
				acc[k] += int(c)
			}
		}
	}
	return sdr.Binarize(dst, acc, d.p)
}

// ReadNew is Read into a freshly allocated SDR.
func (d *Store) ReadNew(x *sdr.SDR) *sdr.SDR {
	return d.Read(sdr.New(d.ny), x)
}

func (d *Store) eachPair(x *sdr.SDR, f func(row []uint8)) {
	xa := x.Active()
	for i := 0; i < len(xa)-1; i++ {
		for j := i + 1; j < len(xa); j++ {
			u := addr(xa[i], xa[j])
			if d.rows[u] == nil {
				d.rows[u] = make([]uint8, d.ny)
			}
			f(d.rows[u])
		}
	}
}
