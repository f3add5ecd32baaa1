// Package wire implements the streaming emit-protocol codec: the
// SOH/STX/ETX framing unit scripts use to interleave control messages with
// ordinary stdout text.
package wire

import (
	"fmt"

	"github.com/sysu-dev/sysu/model"
)

const (
	soh byte = 0x01
	stx byte = 0x02
	etx byte = 0x03
)

// Status reports whether a buffer holds a fully-parseable unit of
// StdoutData yet.
type Status int

const (
	// Incomplete means the buffer must be refilled before re-parsing.
	Incomplete Status = iota
	// Complete means Parse produced a result (possibly an error).
	Complete
)

// Parse attempts to decode a single model.StdoutData off the front of buf.
//
// On Status == Incomplete, data and consumed are zero and err is nil; the
// caller must append more bytes and retry. On Status == Complete with a
// nil err, data is valid and consumed is the number of bytes to drop from
// the front of buf. On Status == Complete with a non-nil err, the frame was
// malformed and parsing cannot continue.
func Parse(buf []byte) (status Status, data model.StdoutData, consumed int, err error) {
	if len(buf) == 0 {
		return Incomplete, nil, 0, nil
	}

	sohIdx := indexByte(buf, soh)
	nlIdx := indexByte(buf, '\n')

	if sohIdx == 0 {
		return parseFrame(buf)
	}

	// A newline terminates a text line before any SOH is reached.
	if nlIdx >= 0 && (sohIdx < 0 || nlIdx < sohIdx) {
		return Complete, model.TextLine(string(buf[:nlIdx])), nlIdx + 1, nil
	}

	// A control frame starts mid-buffer: everything before it is a
	// complete text line in its own right (no trailing newline consumed).
	if sohIdx > 0 {
		return Complete, model.TextLine(string(buf[:sohIdx])), sohIdx, nil
	}

	// No SOH and no newline yet: could still be either once more data
	// arrives.
	return Incomplete, nil, 0, nil
}

func parseFrame(buf []byte) (Status, model.StdoutData, int, error) {
	stxIdx := indexByte(buf, stx)
	if stxIdx < 0 {
		return Incomplete, nil, 0, nil
	}

	headerBytes := buf[1:stxIdx]
	header, err := parseHeaderLabel(headerBytes)
	if err != nil {
		return Complete, nil, 0, err
	}

	rest := buf[stxIdx+1:]
	etxIdx := indexByte(rest, etx)
	if etxIdx < 0 {
		return Incomplete, nil, 0, nil
	}

	body := string(rest[:etxIdx])
	consumed := stxIdx + 1 + etxIdx + 1
	msg := model.EmitMessage{Header: header, Text: body}
	return Complete, model.MessageData{Message: msg}, consumed, nil
}

// parseHeaderLabel validates and splits "name[.field]" where both name and
// field match [A-Za-z0-9_-]+.
func parseHeaderLabel(b []byte) (model.EmitHeader, error) {
	if len(b) == 0 {
		return model.EmitHeader{}, fmt.Errorf("wire: empty frame header")
	}

	dot := indexByte(b, '.')
	if dot < 0 {
		if !isLabel(b) {
			return model.EmitHeader{}, fmt.Errorf("wire: invalid frame header %q", b)
		}
		return model.EmitHeader{Name: string(b)}, nil
	}

	name, field := b[:dot], b[dot+1:]
	if !isLabel(name) || !isLabel(field) {
		return model.EmitHeader{}, fmt.Errorf("wire: invalid frame header %q", b)
	}
	return model.EmitHeader{Name: string(name), Field: string(field)}, nil
}

func isLabel(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	for _, c := range b {
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '_', c == '-':
		default:
			return false
		}
	}
	return true
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}
