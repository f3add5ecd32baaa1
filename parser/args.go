package parser

import (
	"github.com/sysu-dev/sysu/model"
)

// ParseArgs parses a comma-separated `key=value` list, as found in a
// dependency's argument list. An empty (or whitespace-only) input yields an
// empty ValueSet, not an error.
func ParseArgs(s string) (*model.ValueSet, string, error) {
	sc := newScanner(s)
	vs, err := sc.args()
	if err != nil {
		return nil, s, err
	}
	return vs, sc.rest(), nil
}

func (sc *scanner) args() (*model.ValueSet, error) {
	vs := model.NewValueSet()

	sc.skipWS()
	if !sc.looksLikeNamedValue() {
		return vs, nil
	}

	for {
		name, v, err := sc.namedValue()
		if err != nil {
			return nil, err
		}
		vs.Add(name, v)

		cp := sc.checkpoint()
		if !sc.tag(",") {
			break
		}
		if !sc.looksLikeNamedValue() {
			sc.restore(cp)
			break
		}
	}
	return vs, nil
}

// looksLikeNamedValue reports whether the scanner is positioned at
// something that could start a "label=value" pair, without consuming
// input. It's a one-token lookahead used to let args stop cleanly before
// an arrow ("->") or the end of a dependency's args list.
func (sc *scanner) looksLikeNamedValue() bool {
	cp := sc.checkpoint()
	defer sc.restore(cp)

	sc.skipWS()
	if sc.eof() {
		return false
	}
	if _, err := sc.label(""); err != nil {
		return false
	}
	return sc.tag("=")
}
