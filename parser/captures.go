package parser

import (
	"fmt"

	"github.com/sysu-dev/sysu/model"
)

// ParseCaptures parses a "-> name[:alias]:type, ..." capture list, the
// suffix of a dependency that binds emitted values to local names.
func ParseCaptures(s string) ([]model.CaptureDefinition, string, error) {
	sc := newScanner(s)
	caps, err := sc.captures()
	if err != nil {
		return nil, s, err
	}
	return caps, sc.rest(), nil
}

func (sc *scanner) captures() ([]model.CaptureDefinition, error) {
	if !sc.tag("->") {
		return nil, fmt.Errorf("parser: expected '->' to begin captures")
	}

	var caps []model.CaptureDefinition
	for {
		c, err := sc.capture()
		if err != nil {
			return nil, err
		}
		caps = append(caps, c)
		if !sc.tag(",") {
			break
		}
	}
	return caps, nil
}

func (sc *scanner) capture() (model.CaptureDefinition, error) {
	name, err := sc.label("")
	if err != nil {
		return model.CaptureDefinition{}, err
	}
	if !sc.tag(":") {
		return model.CaptureDefinition{}, fmt.Errorf("parser: expected ':' after capture name %q", name)
	}

	// Ambiguous between "name:type" and "name:alias:type"; try the type
	// vocabulary first, and if that fails treat the label as an alias.
	cp := sc.checkpoint()
	if t, ok := sc.valueType(); ok {
		return model.CaptureDefinition{Name: name, Type: t}, nil
	}
	sc.restore(cp)

	alias, err := sc.label("")
	if err != nil {
		return model.CaptureDefinition{}, err
	}
	if !sc.tag(":") {
		return model.CaptureDefinition{}, fmt.Errorf("parser: expected ':' after capture alias %q", alias)
	}
	t, ok := sc.valueType()
	if !ok {
		return model.CaptureDefinition{}, fmt.Errorf("parser: expected a value type at %q", sc.rest())
	}
	return model.CaptureDefinition{Name: name, Type: t, Alias: alias}, nil
}

func (sc *scanner) valueType() (model.ValueType, bool) {
	for _, name := range []string{"string", "int", "bool", "float"} {
		cp := sc.checkpoint()
		if sc.tag(name) {
			t, _ := model.ValueTypeFromString(name)
			return t, true
		}
		sc.restore(cp)
	}
	return 0, false
}
