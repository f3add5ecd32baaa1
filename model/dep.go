package model

// CaptureDefinition names a value a Dependency pulls out of its target
// unit's accumulated emit data, the type it must have, whether it is
// required, and the local name (alias) it is bound to.
type CaptureDefinition struct {
	Name     string
	Type     ValueType
	Required bool
	Alias    string // empty means "same as Name"
}

// EffectiveAlias returns Alias if set, else Name.
func (c CaptureDefinition) EffectiveAlias() string {
	if c.Alias != "" {
		return c.Alias
	}
	return c.Name
}

// Dependency is one edge in a unit's dependency list: the dependency's unit
// name, the args to invoke it with, the captures to pull from its emitted
// values, and an optional target override (nil inherits the parent's).
type Dependency struct {
	Name     string
	Args     *ValueSet
	Captures []CaptureDefinition
	Target   *Target
}

// FileDependency is a file to be transferred from src to dest ahead of a
// unit's execution. The wire-level detail of how "file" emissions map to
// FileDependency values is intentionally left open (see design notes); the
// type itself is part of the stable data model regardless.
type FileDependency struct {
	Src  string
	Dest string
}

// Dependencies is the parsed result of a unit's Deps operation.
type Dependencies struct {
	Units []Dependency
	Files []FileDependency
}
