package sdr

import (
	"sort"

	"github.com/grailbio/base/log"
)

// Binarize converts the dense accumulator v into an SDR stored in dst: every
// position whose value reaches the target-th largest entry of v is kept.  A
// zero threshold is promoted to 1 so positions with no evidence are never
// returned; in particular an all-zero accumulator yields the empty SDR.  Ties
// at the threshold are all included, so the resulting population may exceed
// target.
func Binarize(dst *SDR, v []int, target int) *SDR {
	if len(v) != dst.n {
		log.Panicf("sdr.Binarize: accumulator length %d != dimension %d", len(v), dst.n)
	}
	if target < 1 || target > len(v) {
		log.Panicf("sdr.Binarize: target population %d out of range", target)
	}
	ranked := make([]int, len(v))
	copy(ranked, v)
	sort.Ints(ranked)
	threshold := ranked[len(v)-target]
	if threshold == 0 {
		threshold = 1
	}
	dst.a = dst.a[:0]
	for i, val := range v {
		if val >= threshold {
			dst.a = append(dst.a, i)
		}
	}
	return dst
}
