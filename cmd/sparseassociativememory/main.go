// Command sparseassociativememory is a line-oriented hetero-associative
// memory with dynamically allocated storage.  Values of any population can
// be stored; recall population tracks the running average of stored values.
//
// Usage: sparseassociativememory [n]    (default n=20000)
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/sdm/repl"
	"github.com/grailbio/sdm/sdr"
	"github.com/grailbio/sdm/sparsemem"
)

const usage = `usage:
sparseassociativememory               dynamic SDR dimension   (n <= 20000)
sparseassociativememory <n>           fixed SDR dimension n   (n <= 20000)
`

func main() {
	shutdown := grail.Init()
	defer shutdown()

	n := sparsemem.NMax
	switch len(os.Args) {
	case 1:
	case 2:
		v, err := strconv.Atoi(os.Args[1])
		if err != nil || v < 2 {
			fmt.Print(usage)
			os.Exit(repl.ExitUsage)
		}
		n = v
	default:
		fmt.Print(usage)
		os.Exit(repl.ExitUsage)
	}
	if n > sparsemem.NMax {
		fmt.Print(usage)
		os.Exit(repl.ExitDimension)
	}

	mem := sparsemem.New(n)
	sess := &repl.Session{
		N:     n,
		Name:  "sparseassociativememory",
		Major: 1,
		Minor: 0,
		Usage: usage,
		Query: func(x *sdr.SDR) *sdr.SDR {
			return mem.Read(sdr.New(n), x)
		},
		WritePair: mem.Write,
	}
	os.Exit(sess.Run(os.Stdin, os.Stdout))
}
