package repl

import (
	"bytes"
	"strings"
	"testing"

	"github.com/grailbio/sdm/dyadic"
	"github.com/grailbio/sdm/sdr"
	"github.com/grailbio/sdm/sparsemem"
	"github.com/grailbio/sdm/triadic"
	"github.com/grailbio/testutil/expect"
)

func dyadicSession(n, p int) (*Session, *dyadic.Store) {
	store := dyadic.New(n, p)
	return &Session{
		N:          n,
		Major:      1,
		Minor:      2,
		Usage:      "usage\n",
		Query:      store.ReadNew,
		WritePair:  store.Write,
		DeletePair: store.Delete,
	}, store
}

func triadicSession(n, p int) *Session {
	store := triadic.New(n, p)
	return &Session{
		N:            n,
		Major:        1,
		Minor:        2,
		Usage:        "usage\n",
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
}

func run(t *testing.T, s *Session, input string) (string, int) {
	t.Helper()
	var out bytes.Buffer
	code := s.Run(strings.NewReader(input), &out)
	return out.String(), code
}

func TestDyadicStoreRecall(t *testing.T) {
	sess, _ := dyadicSession(1000, 10)
	out, code := run(t, sess,
		"1 20 195 355 371 471 603 814 911 999, 13 29 41 182 590 711 714 773 925 967\n"+
			"1 20 195 355 371 471 603 814 911 999\n"+
			"quit\n")
	expect.EQ(t, code, ExitOK)
	expect.EQ(t, out, "13 29 41 182 590 711 714 773 925 967\n")
}

func TestDyadicDelete(t *testing.T) {
	sess, _ := dyadicSession(100, 3)
	out, code := run(t, sess,
		"1 2 3, 4 5 6\n"+
			"- 1 2 3, 4 5 6\n"+
			"1 2 3\n")
	expect.EQ(t, code, ExitOK)
	expect.EQ(t, out, "\n")
}

func TestTriadicStoreRecall(t *testing.T) {
	sess := triadicSession(1000, 10)
	out, code := run(t, sess,
		"{1 2 3 4 5 6 7 8 9 10, 11 12 13 14 15 16 17 18 19 20, 21 22 23 24 25 26 27 28 29 30}\n"+
			"{_, 11 12 13 14 15 16 17 18 19 20, 21 22 23 24 25 26 27 28 29 30}\n"+
			"{1 2 3 4 5 6 7 8 9 10, _, 21 22 23 24 25 26 27 28 29 30}\n"+
			"{1 2 3 4 5 6 7 8 9 10, 11 12 13 14 15 16 17 18 19 20, _}\n"+
			"quit\n")
	expect.EQ(t, code, ExitOK)
	expect.EQ(t, out,
		"1 2 3 4 5 6 7 8 9 10\n"+
			"11 12 13 14 15 16 17 18 19 20\n"+
			"21 22 23 24 25 26 27 28 29 30\n")
}

func TestTriadicDelete(t *testing.T) {
	sess := triadicSession(100, 3)
	out, code := run(t, sess,
		"{1 2 3, 4 5 6, 7 8 9}\n"+
			"-{1 2 3, 4 5 6, 7 8 9}\n"+
			"{1 2 3, 4 5 6, _}\n")
	expect.EQ(t, code, ExitOK)
	expect.EQ(t, out, "\n")
}

func TestVersionHelpQuit(t *testing.T) {
	sess, _ := dyadicSession(100, 3)
	out, code := run(t, sess, "version\nhelp\nquit\nversion\n")
	expect.EQ(t, code, ExitOK)
	expect.EQ(t, out, "1.2\nusage\n")

	sess.Name = "monadicmemory"
	out, code = run(t, sess, "version\n")
	expect.EQ(t, code, ExitOK)
	expect.EQ(t, out, "monadicmemory 1.2\n")
}

func TestPositionOutOfRange(t *testing.T) {
	sess, _ := dyadicSession(100, 3)
	_, code := run(t, sess, "5 101\n")
	expect.EQ(t, code, ExitRange)

	tsess := triadicSession(100, 3)
	_, code = run(t, tsess, "{5 101, 1 2, _}\n")
	expect.EQ(t, code, ExitRange)

	_, code = run(t, tsess, "{0 1, 2 3, _}\n")
	expect.EQ(t, code, ExitRange)
}

func TestMalformedTriple(t *testing.T) {
	sess := triadicSession(100, 3)
	for _, line := range []string{
		"1 2 3\n",
		"{1 2 3, 4 5 6}\n",
		"{1 2 3, 4 5 6, 7 8 9\n",
	} {
		_, code := run(t, sess, line)
		expect.EQ(t, code, ExitBracket, "line %q", line)
	}
}

func TestInvalidQueryPattern(t *testing.T) {
	sess := triadicSession(100, 3)
	_, code := run(t, sess, "{_, _, 1 2 3}\n")
	expect.EQ(t, code, ExitQuery)

	// Deleting a query is not meaningful either.
	_, code = run(t, sess, "-{_, 1 2 3, 4 5 6}\n")
	expect.EQ(t, code, ExitQuery)
}

func TestUnparseableLine(t *testing.T) {
	sess, _ := dyadicSession(100, 3)
	_, code := run(t, sess, "1 2 oops\n")
	expect.EQ(t, code, ExitParse)

	_, code = run(t, sess, "1 3 2\n")
	expect.EQ(t, code, ExitParse)
}

func TestRandomCommand(t *testing.T) {
	sess, _ := dyadicSession(1000, 10)
	calls := 0
	sess.Random = func() *sdr.SDR {
		calls++
		return sdr.New(1000).SetActive([]int{0, 1, 2})
	}
	out, code := run(t, sess, "random\nquit\n")
	expect.EQ(t, code, ExitOK)
	expect.EQ(t, out, "1 2 3\n")
	expect.EQ(t, calls, 1)
}

func TestSparseSessionTracksPopulation(t *testing.T) {
	mem := sparsemem.New(20000)
	sess := &Session{
		N:     20000,
		Name:  "sparseassociativememory",
		Major: 1,
		Minor: 0,
		Usage: "usage\n",
		Query: func(x *sdr.SDR) *sdr.SDR {
			return mem.Read(sdr.New(20000), x)
		},
		WritePair: mem.Write,
	}
	out, code := run(t, sess,
		"1 2 3, 10 11 12 13\n"+
			"4 5 6, 20 21\n"+
			"1 2 3\n")
	expect.EQ(t, code, ExitOK)
	// Mean stored population is 3; the first value has four positions of
	// equal evidence, all tied at the threshold.
	expect.EQ(t, out, "10 11 12 13\n")
	expect.EQ(t, mem.Target(), 3)
}
