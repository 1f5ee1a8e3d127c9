// Package repl implements the line-oriented command protocol shared by the
// associative-memory command-line tools.  One command per input line; SDRs
// travel as space-separated 1-based positions and are converted to the
// 0-based internal form at the parser boundary.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/sdm/sdr"
)

// Process exit codes.  Parse and semantic failures surface here, not as
// recoverable errors.
const (
	ExitOK        = 0  // normal termination
	ExitUsage     = 1  // bad argc or dimensions
	ExitRange     = 2  // position out of range
	ExitQuery     = 3  // triple with an unrecognized query pattern
	ExitBracket   = 4  // malformed bracketed input
	ExitParse     = 5  // unparseable line
	ExitDimension = 20 // dimension exceeds the tool maximum
)

// Error is a protocol failure carrying its process exit code around a
// wrapped cause.
type Error struct {
	Code int
	Err  error
}

func (e *Error) Error() string { return e.Err.Error() }

func errorf(code int, format string, args ...interface{}) *Error {
	return &Error{Code: code, Err: errors.E(fmt.Sprintf(format, args...))}
}

// Session binds the protocol to one memory instance.  Exactly one of the
// pair grammar (Query/WritePair) or the triple grammar (Triple* callbacks)
// is active, chosen by which callbacks are set.
type Session struct {
	// N is the SDR dimension used for range checks.
	N int
	// Name prefixes the version line when nonempty.
	Name string
	// Major, Minor form the version number.
	Major, Minor int
	// Usage is printed by the help command.
	Usage string

	// Random emits a fresh random SDR of the target population.
	Random func() *sdr.SDR

	// Query handles a bare SDR line and returns the recalled SDR.
	Query func(x *sdr.SDR) *sdr.SDR
	// WritePair handles "x , y".  Nil rejects pair writes and deletes; bare
	// query lines still go to Query.
	WritePair func(x, y *sdr.SDR)
	// DeletePair handles "- x , y".  Nil rejects deletes.
	DeletePair func(x, y *sdr.SDR)

	// WriteTriple handles "{x , y , z}".  Non-nil enables the triple
	// grammar, replacing the pair grammar entirely.
	WriteTriple func(x, y, z *sdr.SDR)
	// DeleteTriple handles "-{x , y , z}".  Nil rejects deletes.
	DeleteTriple func(x, y, z *sdr.SDR)
	// QueryTriple handles a triple with exactly one queried axis; the
	// queried argument is nil.
	QueryTriple func(x, y, z *sdr.SDR) *sdr.SDR
}

// Run reads commands from in until EOF or quit, writing responses to out.
// The returned value is the process exit code; on protocol errors a message
// is printed first.
func (s *Session) Run(in io.Reader, out io.Writer) int {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 1<<16), 1<<21)
	for scanner.Scan() {
		line := scanner.Text()
		switch strings.TrimSpace(line) {
		case "":
			// An empty line is an empty SDR: meaningful for the sequence
			// memories (flush), a plain empty query elsewhere.
			if s.Query != nil {
				fmt.Fprintln(out, s.Query(sdr.New(s.N)))
				continue
			}
			continue
		case "quit":
			return ExitOK
		case "version":
			if s.Name != "" {
				fmt.Fprintf(out, "%s %d.%d\n", s.Name, s.Major, s.Minor)
			} else {
				fmt.Fprintf(out, "%d.%d\n", s.Major, s.Minor)
			}
			continue
		case "help":
			fmt.Fprint(out, s.Usage)
			continue
		case "random":
			if s.Random != nil {
				fmt.Fprintln(out, s.Random())
				continue
			}
		}

		var err *Error
		if s.WriteTriple != nil {
			err = s.evalTriple(line, out)
		} else {
			err = s.evalPair(line, out)
		}
		if err != nil {
			fmt.Fprintln(out, err)
			return err.Code
		}
	}
	return ExitOK
}

func (s *Session) evalPair(line string, out io.Writer) *Error {
	rest := line
	del := false
	if strings.HasPrefix(strings.TrimLeft(rest, " \t"), "-") {
		del = true
		rest = strings.TrimLeft(rest, " \t")[1:]
	}

	x, rest, err := s.parseSDR(rest, ",")
	if err != nil {
		return err
	}
	switch {
	case strings.HasPrefix(rest, ","):
		if s.WritePair == nil {
			return errorf(ExitParse, "invalid input: %s", line)
		}
		y, tail, err := s.parseSDR(rest[1:], "")
		if err != nil {
			return err
		}
		if tail != "" {
			return errorf(ExitParse, "invalid input: %s", line)
		}
		if del {
			if s.DeletePair == nil {
				return errorf(ExitParse, "invalid input: %s", line)
			}
			s.DeletePair(x, y)
		} else {
			s.WritePair(x, y)
		}
	case rest == "" && !del:
		fmt.Fprintln(out, s.Query(x))
	default:
		return errorf(ExitParse, "invalid input: %s", line)
	}
	return nil
}

func (s *Session) evalTriple(line string, out io.Writer) *Error {
	rest := strings.TrimLeft(line, " \t")
	del := false
	if strings.HasPrefix(rest, "-") {
		del = true
		rest = rest[1:]
	}
	if !strings.HasPrefix(rest, "{") {
		return errorf(ExitBracket, "expecting triple of the form {x,y,z}, found %s", line)
	}
	rest = rest[1:]

	parts := [3]*sdr.SDR{}
	queried := 0
	for i := 0; i < 3; i++ {
		term := ","
		if i == 2 {
			term = "}"
		}
		part, tail, err := s.parseSDRQuery(rest, ",}")
		if err != nil {
			return err
		}
		if part == nil {
			queried++
		}
		parts[i] = part
		if !strings.HasPrefix(tail, term) {
			return errorf(ExitBracket, "expecting triple of the form {x,y,z}, found %s", line)
		}
		rest = tail[1:]
	}
	if strings.TrimSpace(rest) != "" {
		return errorf(ExitBracket, "expecting triple of the form {x,y,z}, found %s", line)
	}

	x, y, z := parts[0], parts[1], parts[2]
	switch {
	case queried == 0 && del:
		if s.DeleteTriple == nil {
			return errorf(ExitParse, "invalid input: %s", line)
		}
		s.DeleteTriple(x, y, z)
	case queried == 0:
		s.WriteTriple(x, y, z)
	case queried == 1 && !del:
		fmt.Fprintln(out, s.QueryTriple(x, y, z))
	default:
		return errorf(ExitQuery, "invalid input")
	}
	return nil
}

// parseSDR consumes 1-based positions from text until end of string or a
// rune of terminators, returning the SDR and the unconsumed tail.
func (s *Session) parseSDR(text, terminators string) (*sdr.SDR, string, *Error) {
	var idx []int
	i := 0
	for i < len(text) {
		for i < len(text) && isSpace(text[i]) {
			i++
		}
		if i == len(text) || !isDigit(text[i]) {
			break
		}
		v := 0
		for i < len(text) && isDigit(text[i]) {
			v = v*10 + int(text[i]-'0')
			i++
		}
		if v < 1 || v > s.N {
			return nil, "", errorf(ExitRange, "position out of range: %d", v)
		}
		idx = append(idx, v-1)
	}
	tail := text[i:]
	if tail != "" && (terminators == "" || !strings.ContainsAny(tail[:1], terminators)) {
		return nil, "", errorf(ExitParse, "invalid input: %s", text)
	}
	out := sdr.New(s.N)
	// Wire positions are required sorted and duplicate-free; tolerate
	// neither silently.
	for k := 1; k < len(idx); k++ {
		if idx[k-1] >= idx[k] {
			return nil, "", errorf(ExitParse, "positions not strictly increasing: %s", text)
		}
	}
	return out.SetActive(idx), tail, nil
}

// parseSDRQuery is parseSDR extended with the "_" query marker, returned as
// a nil SDR.
func (s *Session) parseSDRQuery(text, terminators string) (*sdr.SDR, string, *Error) {
	trimmed := strings.TrimLeft(text, " \t")
	if strings.HasPrefix(trimmed, "_") {
		return nil, strings.TrimLeft(trimmed[1:], " \t"), nil
	}
	return s.parseSDR(text, terminators)
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }
