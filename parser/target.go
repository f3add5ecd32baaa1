package parser

import (
	"fmt"

	"github.com/sysu-dev/sysu/model"
)

// ParseTarget parses "<proto>://[<user>@]<host>".
func ParseTarget(s string) (model.Target, string, error) {
	sc := newScanner(s)
	t, err := sc.target()
	if err != nil {
		return model.Target{}, s, err
	}
	return t, sc.rest(), nil
}

func (sc *scanner) target() (model.Target, error) {
	proto, err := sc.label("")
	if err != nil {
		return model.Target{}, err
	}
	if !sc.tag("://") {
		return model.Target{}, fmt.Errorf("parser: expected '://' after protocol %q", proto)
	}

	var user string
	cp := sc.checkpoint()
	if candidate, err := sc.label(""); err == nil && sc.tag("@") {
		user = candidate
	} else {
		sc.restore(cp)
	}

	host, err := sc.label("")
	if err != nil {
		return model.Target{}, fmt.Errorf("parser: expected a host: %w", err)
	}
	return model.NewTarget(proto, user, host), nil
}
