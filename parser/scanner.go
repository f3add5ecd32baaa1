// Package parser implements the offline (buffered, not streaming) mini
// parsers for dependency strings, captures, params, values, targets, and
// unit-file headers.
package parser

import (
	"fmt"
	"strings"
)

// scanner is a minimal hand-rolled recursive-descent cursor over a string.
// It exists because none of the vendored third-party stack includes a
// parser-combinator library; the grammars here are small enough that a
// cursor plus a handful of helper methods reads more plainly in Go than
// porting a combinator style would.
type scanner struct {
	s   string
	pos int
}

func newScanner(s string) *scanner { return &scanner{s: s} }

func (sc *scanner) eof() bool { return sc.pos >= len(sc.s) }

func (sc *scanner) rest() string { return sc.s[sc.pos:] }

func (sc *scanner) skipWS() {
	for !sc.eof() {
		switch sc.s[sc.pos] {
		case ' ', '\t', '\n', '\r':
			sc.pos++
		default:
			return
		}
	}
}

// tag consumes the literal t if present (after skipping leading whitespace)
// and reports whether it matched.
func (sc *scanner) tag(t string) bool {
	sc.skipWS()
	if strings.HasPrefix(sc.s[sc.pos:], t) {
		sc.pos += len(t)
		return true
	}
	return false
}

func isLabelByte(c byte, extra string) bool {
	if c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '_' || c == '-' || c == '.' {
		return true
	}
	return strings.IndexByte(extra, c) >= 0
}

// label consumes a run of [A-Za-z0-9_.-] characters, plus any bytes in
// extra (deps labels additionally allow '/' for script paths).
func (sc *scanner) label(extra string) (string, error) {
	sc.skipWS()
	start := sc.pos
	for !sc.eof() && isLabelByte(sc.s[sc.pos], extra) {
		sc.pos++
	}
	if sc.pos == start {
		return "", fmt.Errorf("parser: expected a label at %q", sc.rest())
	}
	name := sc.s[start:sc.pos]
	sc.skipWS()
	return name, nil
}

func (sc *scanner) checkpoint() int  { return sc.pos }
func (sc *scanner) restore(p int)    { sc.pos = p }
