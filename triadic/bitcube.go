package triadic

import (
	mathbits "math/bits"

	"github.com/grailbio/base/bitset"
)

// bitCube packs the tensor one bit per cell.  Logical row r (an (i,j) pair)
// is bits[r*rowWidth:(r+1)*rowWidth], holding nz bits.  wordPops[r] counts
// the nonzero words of row r so readers can skip untouched rows without
// scanning them.
type bitCube struct {
	bits     []uintptr
	wordPops []uint16
	rowWidth int
}

func newBitCube(nx, ny, nz int) *bitCube {
	rowWidth := (nz + bitset.BitsPerWord - 1) / bitset.BitsPerWord
	return &bitCube{
		bits:     make([]uintptr, nx*ny*rowWidth),
		wordPops: make([]uint16, nx*ny),
		rowWidth: rowWidth,
	}
}

func (b *bitCube) row(r int) []uintptr {
	base := r * b.rowWidth
	return b.bits[base : base+b.rowWidth]
}

func (b *bitCube) rowEmpty(r int) bool { return b.wordPops[r] == 0 }

// set marks bit k of row r.  (Nothing bad happens if the bit was already
// set.)
func (b *bitCube) set(r, k int) {
	row := b.row(r)
	wordIdx := k / bitset.BitsPerWord
	cur := row[wordIdx]
	if cur == 0 {
		b.wordPops[r]++
	}
	row[wordIdx] = cur | (uintptr(1) << uint(k%bitset.BitsPerWord))
}

func (b *bitCube) get(r, k int) bool {
	return bitset.Test(b.row(r), k)
}

// accumulateRow adds each set bit of row r into acc.
func (b *bitCube) accumulateRow(acc []int, r int) {
	if b.wordPops[r] == 0 {
		return
	}
	for w, word := range b.row(r) {
		base := w * bitset.BitsPerWord
		for word != 0 {
			acc[base+mathbits.TrailingZeros(uint(word))]++
			word &= word - 1
		}
	}
}
