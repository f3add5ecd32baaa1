package parser

import (
	"fmt"

	"github.com/sysu-dev/sysu/model"
)

// ParseParams parses "[!]name:type(, ...)*", an empty input yielding a nil
// slice (no declared params).
func ParseParams(s string) ([]model.Param, error) {
	sc := newScanner(s)
	sc.skipWS()
	if sc.eof() {
		return nil, nil
	}

	var params []model.Param
	for {
		p, err := sc.param()
		if err != nil {
			return nil, err
		}
		params = append(params, p)
		if !sc.tag(",") {
			break
		}
	}
	sc.skipWS()
	if !sc.eof() {
		return nil, fmt.Errorf("parser: unexpected trailing input in params: %q", sc.rest())
	}
	return params, nil
}

func (sc *scanner) param() (model.Param, error) {
	required := sc.tag("!")
	name, err := sc.label("")
	if err != nil {
		return model.Param{}, err
	}
	if !sc.tag(":") {
		return model.Param{}, fmt.Errorf("parser: expected ':' after param name %q", name)
	}
	t, ok := sc.valueType()
	if !ok {
		return model.Param{}, fmt.Errorf("parser: expected a value type at %q", sc.rest())
	}
	return model.NewParam(name, t, required), nil
}
