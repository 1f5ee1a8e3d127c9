// Command deeptemporalmemory is a streaming next-step predictor with
// higher-order context: a cascade of temporal bigram encoders feeds one
// triadic store, capturing 2-gram through 8-gram history at once.
//
// Usage: deeptemporalmemory n p
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

const usage = `usage: deeptemporalmemory <n> <p>
n is the hypervector dimension    (typical value 1000)
p is the target sparse population (typical value 5)
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

	mem := temporal.NewDeep(n, p)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	sess := &repl.Session{
		N:     n,
		Name:  "deeptemporalmemory",
		Major: 1,
		Minor: 0,
		Usage: usage,
		Random: func() *sdr.SDR {
			return sdr.New(n).Random(rng, p)
		},
		Query: mem.Predict,
	}
	os.Exit(sess.Run(os.Stdin, os.Stdout))
}
