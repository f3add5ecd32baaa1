// Package config loads a repo-level defaults file: per-unit arguments a
// team wants applied on every invocation (CI box names, shared hostnames)
// without retyping them on the command line every time.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults maps a unit name to its default KEY=VALUE args, as loaded from
// a YAML file such as:
//
//	units:
//	  deploy.sh:
//	    env: staging
//	  migrate.sh:
//	    target: db-primary
type Defaults struct {
	Units map[string]map[string]string `yaml:"units"`
}

// Load reads and parses a defaults file at path. A missing file is not an
// error: it simply yields an empty Defaults, since --defaults is optional.
func Load(path string) (*Defaults, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Defaults{Units: map[string]map[string]string{}}, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var d Defaults
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if d.Units == nil {
		d.Units = map[string]map[string]string{}
	}
	return &d, nil
}

// For returns unit's declared defaults, or nil if it has none.
func (d *Defaults) For(unit string) map[string]string {
	if d == nil {
		return nil
	}
	return d.Units[unit]
}
