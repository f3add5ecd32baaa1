package model

import "fmt"

// Unit is (name, args, optional target). Identity is name + "-" +
// args.Signature(); two Units with equal identity denote the same
// execution. A Unit is never mutated after construction.
type Unit struct {
	Name   string
	Args   *ValueSet
	Target *Target // nil means "inherit from parent at resolution time"
}

func NewUnit(name string, args *ValueSet, target *Target) *Unit {
	if args == nil {
		args = NewValueSet()
	}
	return &Unit{Name: name, Args: args, Target: target}
}

// ID returns the unit's identity string, used as its map key and as the
// resolver's node id.
func (u *Unit) ID() string {
	return fmt.Sprintf("%s-%s", u.Name, u.Args.Signature())
}

// Tag renders a short display form: name(arg=val ...).
func (u *Unit) Tag() string {
	return fmt.Sprintf("%s(%s)", u.Name, u.Args.Tag())
}

func (u *Unit) String() string { return u.ID() }

// ExecutionKey identifies a unit-execution cache slot. Per the conservative
// rule adopted for the "different targets, equal Unit identity" open
// question, identity for caching purposes is (Unit ID, Target).
type ExecutionKey struct {
	UnitID string
	Target Target
}

func (u *Unit) ExecutionKey(resolvedTarget Target) ExecutionKey {
	return ExecutionKey{UnitID: u.ID(), Target: resolvedTarget}
}
