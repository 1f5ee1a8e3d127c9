// Command triadicmemory is a line-oriented triadic associative memory.  It
// stores triples {x,y,z} of sparse distributed representations and recalls
// any one part from the other two.
//
// Usage: triadicmemory n p
//
// Protocol, one command per line, positions 1-based:
//
//	{x1 ... , y1 ... , z1 ...}     store the triple
//	{_ , y1 ... , z1 ...}          recall x (likewise for y and z)
//	-{x1 ... , y1 ... , z1 ...}    delete the triple
//	random | version | help | quit
package main

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/sdm/repl"
	"github.com/grailbio/sdm/sdr"
	"github.com/grailbio/sdm/triadic"
)

const usage = `usage: triadicmemory n p
n is the hypervector dimension, typically 1000
p is the target sparse population, typically 10
`

func main() {
	shutdown := grail.Init()
	defer shutdown()

	if len(os.Args) != 3 {
		fmt.Print(usage)
		os.Exit(repl.ExitUsage)
	}
	n, err1 := strconv.Atoi(os.Args[1])
	p, err2 := strconv.Atoi(os.Args[2])
	if err1 != nil || err2 != nil || n < 1 || p < 1 || p > n {
		fmt.Print(usage)
		os.Exit(repl.ExitUsage)
	}

	store := triadic.New(n, p)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	sess := &repl.Session{
		N:     n,
		Major: 1,
		Minor: 2,
		Usage: usage,
		Random: func() *sdr.SDR {
			return sdr.New(n).Random(rng, p)
		},
		WriteTriple:  store.Write,
		DeleteTriple: store.Delete,
		QueryTriple: func(x, y, z *sdr.SDR) *sdr.SDR {
			switch {
			case x == nil:
				return store.ReadX(sdr.New(n), y, z)
			case y == nil:
				return store.ReadY(sdr.New(n), x, z)
			default:
				return store.ReadZ(sdr.New(n), x, y)
			}
		},
	}
	os.Exit(sess.Run(os.Stdin, os.Stdout))
}
