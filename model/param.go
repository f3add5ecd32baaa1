package model

// Param is a declared unit argument: name, expected value type, and whether
// the caller must supply it.
type Param struct {
	Name     string
	Type     ValueType
	Required bool
}

func NewParam(name string, t ValueType, required bool) Param {
	return Param{Name: name, Type: t, Required: required}
}
