package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sysu-dev/sysu/model"
)

// ParseValue parses a single Value: quoted string, float, int, bool, or a
// bare (unquoted) token, trying each in that order and taking the first
// that matches at the current position.
func ParseValue(s string) (model.Value, string, error) {
	sc := newScanner(s)
	v, err := sc.value()
	if err != nil {
		return nil, s, err
	}
	return v, sc.rest(), nil
}

func (sc *scanner) value() (model.Value, error) {
	sc.skipWS()
	if sc.eof() {
		return nil, fmt.Errorf("parser: expected a value at end of input")
	}

	if v, ok := sc.quotedString(); ok {
		sc.skipWS()
		return v, nil
	}
	if v, ok := sc.float(); ok {
		sc.skipWS()
		return v, nil
	}
	if v, ok := sc.int_(); ok {
		sc.skipWS()
		return v, nil
	}
	if v, ok := sc.bool_(); ok {
		sc.skipWS()
		return v, nil
	}
	v, err := sc.bareString()
	if err != nil {
		return nil, err
	}
	sc.skipWS()
	return v, nil
}

func (sc *scanner) quotedString() (model.Value, bool) {
	if sc.eof() {
		return nil, false
	}
	quote := sc.s[sc.pos]
	if quote != '"' && quote != '\'' {
		return nil, false
	}
	end := strings.IndexByte(sc.s[sc.pos+1:], quote)
	if end < 0 {
		return nil, false
	}
	text := sc.s[sc.pos+1 : sc.pos+1+end]
	sc.pos = sc.pos + 1 + end + 1
	return model.StringValue(text), true
}

func (sc *scanner) float() (model.Value, bool) {
	start := sc.pos
	i := sc.pos
	for i < len(sc.s) && sc.s[i] >= '0' && sc.s[i] <= '9' {
		i++
	}
	if i == sc.pos || i >= len(sc.s) || sc.s[i] != '.' {
		return nil, false
	}
	i++
	fracStart := i
	for i < len(sc.s) && sc.s[i] >= '0' && sc.s[i] <= '9' {
		i++
	}
	if i == fracStart {
		return nil, false
	}
	text := sc.s[start:i]
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, false
	}
	sc.pos = i
	return model.FloatValue(f), true
}

func (sc *scanner) int_() (model.Value, bool) {
	start := sc.pos
	i := sc.pos
	if i < len(sc.s) && (sc.s[i] == '-' || sc.s[i] == '+') {
		i++
	}
	digitsStart := i
	for i < len(sc.s) && sc.s[i] >= '0' && sc.s[i] <= '9' {
		i++
	}
	if i == digitsStart {
		return nil, false
	}
	text := sc.s[start:i]
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, false
	}
	sc.pos = i
	return model.IntValue(n), true
}

func (sc *scanner) bool_() (model.Value, bool) {
	if sc.tag("true") {
		return model.BoolValue(true), true
	}
	if sc.tag("false") {
		return model.BoolValue(false), true
	}
	return nil, false
}

func (sc *scanner) bareString() (model.Value, error) {
	start := sc.pos
	for !sc.eof() {
		c := sc.s[sc.pos]
		if c == ' ' || c == '\t' || c == '\n' || c == ',' {
			break
		}
		sc.pos++
	}
	if sc.pos == start {
		return nil, fmt.Errorf("parser: expected a value at %q", sc.rest())
	}
	return model.StringValue(sc.s[start:sc.pos]), nil
}

// NamedValue parses "name=value", used by args lists.
func (sc *scanner) namedValue() (string, model.Value, error) {
	name, err := sc.label("")
	if err != nil {
		return "", nil, err
	}
	if !sc.tag("=") {
		return "", nil, fmt.Errorf("parser: expected '=' after %q", name)
	}
	v, err := sc.value()
	if err != nil {
		return "", nil, err
	}
	return name, v, nil
}
