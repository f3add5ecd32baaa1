package parser

import (
	"fmt"

	"github.com/sysu-dev/sysu/model"
)

// ParseDeps parses a comma-separated dependency list:
//
//	[<target>:]<name>[:<versionspec>] [ <args> ] [ -> <captures> ]
func ParseDeps(s string) ([]model.Dependency, error) {
	sc := newScanner(s)
	sc.skipWS()
	if sc.eof() {
		return nil, nil
	}

	var deps []model.Dependency
	for {
		d, err := sc.dep()
		if err != nil {
			return nil, err
		}
		deps = append(deps, d)
		if !sc.tag(",") {
			break
		}
	}
	sc.skipWS()
	if !sc.eof() {
		return nil, fmt.Errorf("parser: unexpected trailing input in deps: %q", sc.rest())
	}
	return deps, nil
}

func (sc *scanner) dep() (model.Dependency, error) {
	target := sc.targetTag()

	name, err := sc.label(depLabelExtra)
	if err != nil {
		return model.Dependency{}, err
	}
	// Version specs are accepted and discarded; the core does not enforce
	// them.
	if sc.tag(":") {
		if _, err := sc.versionSpec(); err != nil {
			return model.Dependency{}, fmt.Errorf("parser: invalid version spec on %q: %w", name, err)
		}
	}

	args, err := sc.args()
	if err != nil {
		return model.Dependency{}, err
	}

	var captures []model.CaptureDefinition
	cp := sc.checkpoint()
	if sc.tag("->") {
		sc.restore(cp)
		captures, err = sc.captures()
		if err != nil {
			return model.Dependency{}, err
		}
	}

	return model.Dependency{Name: name, Args: args, Captures: captures, Target: target}, nil
}

// targetTag parses an optional "<target>:" prefix, restoring position if
// what follows isn't actually a target.
func (sc *scanner) targetTag() *model.Target {
	cp := sc.checkpoint()
	t, err := sc.target()
	if err != nil || !sc.tag(":") {
		sc.restore(cp)
		return nil
	}
	return &t
}

// dep's name label additionally allows '/' for script paths, e.g.
// "pkg/curl.sh". isLabelByte's extra-char parameter carries it ('.' is
// already part of every label's base character set).
const depLabelExtra = "/"
