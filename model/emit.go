package model

import "strings"

// EmitHeader is the parsed `name[.field]` portion of a control frame header,
// e.g. "meta.author" or "status".
type EmitHeader struct {
	Name  string
	Field string // empty means no field was present
}

func (h EmitHeader) HasField() bool { return h.Field != "" }

// String renders the header back to its wire form.
func (h EmitHeader) String() string {
	if h.Field == "" {
		return h.Name
	}
	return h.Name + "." + h.Field
}

// ParseEmitHeader splits a header body on the first '.'.
func ParseEmitHeader(s string) EmitHeader {
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return EmitHeader{Name: s[:i], Field: s[i+1:]}
	}
	return EmitHeader{Name: s}
}

// EmitMessage is one control frame decoded off the wire: its header and
// the raw body text.
type EmitMessage struct {
	Header EmitHeader
	Text   string
}
