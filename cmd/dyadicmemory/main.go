// Command dyadicmemory is a line-oriented hetero-associative memory.  It
// stores associations x -> y of sparse distributed representations and
// recalls y for a given x.
//
// Usage: dyadicmemory n p
//        dyadicmemory nx ny p
//
// Protocol, one command per line, positions 1-based:
//
//	x1 x2 ... , y1 y2 ...     store x -> y
//	- x1 ... , y1 ...         delete x -> y
//	x1 x2 ...                 recall y
//	random | version | help | quit
package main

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/sdm/dyadic"
	"github.com/grailbio/sdm/repl"
	"github.com/grailbio/sdm/sdr"
)

const usage = `usage: dyadicmemory n p
       dyadicmemory nx ny p
n is the hypervector dimension, typically 1000
p is the target sparse population, typically 10
`

func main() {
	shutdown := grail.Init()
	defer shutdown()

	args := os.Args[1:]
	if len(args) != 2 && len(args) != 3 {
		fmt.Print(usage)
		os.Exit(repl.ExitUsage)
	}
	dims := make([]int, len(args))
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil || v < 1 {
			fmt.Print(usage)
			os.Exit(repl.ExitUsage)
		}
		dims[i] = v
	}

	var store *dyadic.Store
	if len(dims) == 2 {
		store = dyadic.New(dims[0], dims[1])
	} else {
		store = dyadic.NewShaped(dims[0], dims[1], dims[2])
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	sess := &repl.Session{
		N:     store.Nx(),
		Major: 1,
		Minor: 2,
		Usage: usage,
		Random: func() *sdr.SDR {
			return sdr.New(store.Ny()).Random(rng, store.P())
		},
		Query:      store.ReadNew,
		WritePair:  store.Write,
		DeletePair: store.Delete,
	}
	os.Exit(sess.Run(os.Stdin, os.Stdout))
}
