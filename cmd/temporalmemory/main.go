// Command temporalmemory is a streaming next-step predictor.  Each input
// SDR yields a prediction of the next one; an empty line flushes the
// sequence state.
//
// Usage: temporalmemory n p
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
	"github.com/grailbio/sdm/temporal"
)

const usage = `usage: temporalmemory <n> <p>
n is the hypervector dimension    (typical value 1000)
p is the target sparse population (typical value 10 to 20)
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

	mem := temporal.New(n, p)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	sess := &repl.Session{
		N:     n,
		Major: 1,
		Minor: 1,
		Usage: usage,
		Random: func() *sdr.SDR {
			return sdr.New(n).Random(rng, p)
		},
		Query: mem.Predict,
	}
	os.Exit(sess.Run(os.Stdin, os.Stdout))
}
