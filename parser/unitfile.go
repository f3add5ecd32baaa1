package parser

import (
	"fmt"
	"strings"
)

// ParseUnitHeader recognizes a `.sysu` multi-unit-file header line of the
// form "# [ name ]" (whitespace tolerant) and returns the unit name.
func ParseUnitHeader(line string) (string, bool) {
	sc := newScanner(line)
	if !sc.tag("#") {
		return "", false
	}
	if !sc.tag("[") {
		return "", false
	}
	name, err := sc.label("")
	if err != nil {
		return "", false
	}
	if !sc.tag("]") {
		return "", false
	}
	return name, true
}

// SplitUnitFile splits a `.sysu` file's contents into its named unit
// scripts: zero or more blocks, each beginning with a "# [ name ]" header
// line and containing the script body up to the next header or EOF.
// Trailing blank lines are dropped, so each body ends in a single newline.
func SplitUnitFile(contents string) (map[string]string, error) {
	units := make(map[string]string)
	var currentName string
	var body strings.Builder
	haveCurrent := false

	flush := func() {
		if haveCurrent {
			units[currentName] = strings.TrimRight(body.String(), "\n") + "\n"
		}
	}

	lines := strings.Split(contents, "\n")
	for _, line := range lines {
		if name, ok := ParseUnitHeader(line); ok {
			flush()
			currentName = name
			haveCurrent = true
			body.Reset()
			continue
		}
		if haveCurrent {
			body.WriteString(line)
			body.WriteByte('\n')
		}
	}
	flush()

	if len(units) == 0 {
		return nil, fmt.Errorf("parser: no unit headers found in unit file")
	}
	return units, nil
}
