package parser

import "strconv"

// Comparator is the optional relational operator prefixing a version spec.
type Comparator int

const (
	ComparatorNone Comparator = iota
	ComparatorEqual
	ComparatorGreaterThan
	ComparatorGreaterThanOrEqual
	ComparatorLessThan
	ComparatorLessThanOrEqual
)

// Version is a major[.minor[.patch]] tuple.
type Version struct {
	Major int
	Minor *int
	Patch *int
}

// VersionSpec is a Version with an optional leading comparator, e.g.
// ">=1.2.3". Version specs parse but are not enforced anywhere in the
// engine; a unit's declared dependency version is accepted without
// verifying the dependency actually satisfies it.
type VersionSpec struct {
	Comparator Comparator
	Version    Version
}

// ParseVersionSpec parses "[<cmp>]major[.minor[.patch]]".
func ParseVersionSpec(s string) (VersionSpec, string, error) {
	sc := newScanner(s)
	spec, err := sc.versionSpec()
	if err != nil {
		return VersionSpec{}, s, err
	}
	return spec, sc.rest(), nil
}

func (sc *scanner) versionSpec() (VersionSpec, error) {
	cmp := sc.comparator()
	v, err := sc.version()
	if err != nil {
		return VersionSpec{}, err
	}
	return VersionSpec{Comparator: cmp, Version: v}, nil
}

func (sc *scanner) comparator() Comparator {
	switch {
	case sc.tag(">="):
		return ComparatorGreaterThanOrEqual
	case sc.tag("<="):
		return ComparatorLessThanOrEqual
	case sc.tag(">"):
		return ComparatorGreaterThan
	case sc.tag("<"):
		return ComparatorLessThan
	case sc.tag("="):
		return ComparatorEqual
	default:
		return ComparatorNone
	}
}

func (sc *scanner) version() (Version, error) {
	major, err := sc.digits()
	if err != nil {
		return Version{}, err
	}
	v := Version{Major: major}
	if sc.tag(".") {
		minor, err := sc.digits()
		if err != nil {
			return Version{}, err
		}
		v.Minor = &minor
	}
	if v.Minor != nil && sc.tag(".") {
		patch, err := sc.digits()
		if err != nil {
			return Version{}, err
		}
		v.Patch = &patch
	}
	return v, nil
}

func (sc *scanner) digits() (int, error) {
	start := sc.pos
	for !sc.eof() && sc.s[sc.pos] >= '0' && sc.s[sc.pos] <= '9' {
		sc.pos++
	}
	n, err := strconv.Atoi(sc.s[start:sc.pos])
	if err != nil {
		return 0, err
	}
	return n, nil
}
