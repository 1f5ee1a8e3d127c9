package sdr_test

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/grailbio/sdm/sdr"
	"github.com/grailbio/testutil/expect"
	"github.com/grailbio/testutil/h"
)

func TestBinarizeTies(t *testing.T) {
	s := sdr.Binarize(sdr.New(6), []int{0, 3, 1, 3, 2, 0}, 2)
	expect.That(t, s.Active(), h.ElementsAre(1, 3))

	// A repeated threshold value keeps all ties, exceeding the target.
	s = sdr.Binarize(sdr.New(6), []int{5, 2, 2, 2, 1, 0}, 2)
	expect.That(t, s.Active(), h.ElementsAre(0, 1, 2, 3))
}

func TestBinarizeZeroPromotion(t *testing.T) {
	// Fewer nonzero entries than the target: a zero threshold would admit
	// empty positions, so it is promoted to 1.
	s := sdr.Binarize(sdr.New(5), []int{0, 7, 0, 0, 0}, 3)
	expect.That(t, s.Active(), h.ElementsAre(1))

	s = sdr.Binarize(sdr.New(5), []int{0, 0, 0, 0, 0}, 3)
	expect.EQ(t, s.P(), 0)
}

func TestBinarizeProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	for iter := 0; iter < 100; iter++ {
		n := rng.Intn(200) + 10
		target := rng.Intn(n/2) + 1
		v := make([]int, n)
		for i := range v {
			v[i] = rng.Intn(8)
		}
		s := sdr.Binarize(sdr.New(n), v, target)

		ranked := append([]int(nil), v...)
		sort.Sort(sort.Reverse(sort.IntSlice(ranked)))
		threshold := ranked[target-1]
		if threshold == 0 {
			threshold = 1
		}
		nonzero := 0
		for _, val := range v {
			if val >= threshold {
				nonzero++
			}
		}
		expect.EQ(t, s.P(), nonzero)
		for _, i := range s.Active() {
			expect.True(t, v[i] >= threshold)
		}
		if ranked[target-1] > 0 {
			expect.True(t, s.P() >= target)
		}
	}
}
