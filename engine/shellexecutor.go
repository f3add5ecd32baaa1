package engine

import (
	"context"
	_ "embed"
	"fmt"
	"strconv"
	"strings"

	"github.com/sysu-dev/sysu/model"
	"github.com/sysu-dev/sysu/parser"
	"github.com/sysu-dev/sysu/wire"
)

//go:embed shellslug.sh
var shellSlug string

// ShellExecutor drives one subprocess through the per-operation sequences
// described in the emit protocol, decoding each operation's completion
// from the messages it emits before its terminal status frame.
type ShellExecutor struct {
	sub    *Subprocess
	reader *wire.Reader
	debug  bool
}

// NewShellExecutor spawns target's subprocess via the adapter rules and
// primes it with the shell slug.
func NewShellExecutor(ctx context.Context, target *model.Target, overrides AdapterOverrides, debug bool) (*ShellExecutor, error) {
	cmd, err := BuildCommand(target, overrides)
	if err != nil {
		return nil, err
	}

	sub, err := Spawn(ctx, cmd)
	if err != nil {
		return nil, err
	}

	ex := &ShellExecutor{sub: sub, reader: wire.NewReader(sub.Stdout()), debug: debug}
	if err := ex.sub.WriteStdin(shellSlug); err != nil {
		return nil, fmt.Errorf("shellexecutor: priming shell slug: %w", err)
	}
	return ex, nil
}

// RunOp sends a composite command equivalent to
//
//	( set -e -u[ -x] ; <script> ; <args as KEY="value" lines> ; <op-name> )
//
// followed by "_emit status $?", then decodes the operation's completion.
func (e *ShellExecutor) RunOp(op model.Operation, script string, args *model.ValueSet, evh OpEventHandler) (model.OpResult, error) {
	if err := evh.Handle(StartedEvent{}); err != nil {
		return model.OpResult{}, err
	}

	if err := e.sub.WriteStdin(e.composite(op, script, args)); err != nil {
		return model.OpResult{}, fmt.Errorf("shellexecutor: running %s: %w", op, err)
	}

	return e.decode(op, evh)
}

func (e *ShellExecutor) composite(op model.Operation, script string, args *model.ValueSet) string {
	var sb strings.Builder
	sb.WriteString("( set -e -u")
	if e.debug {
		sb.WriteString(" -x")
	}
	sb.WriteString(" ; ")
	sb.WriteString(script)
	sb.WriteString(" ; ")
	if args != nil {
		for _, k := range args.Keys() {
			v, _ := args.Get(k)
			fmt.Fprintf(&sb, "%s=%q ; ", k, v.String())
		}
	}
	sb.WriteString(op.String())
	sb.WriteString(" )\n_emit status $?\n")
	return sb.String()
}

// decode consumes StdoutData from the subprocess until a "status" message,
// forwarding every intervening item as an Output OpEvent, then decodes the
// operation-specific completion from the accumulated messages.
func (e *ShellExecutor) decode(op model.Operation, evh OpEventHandler) (model.OpResult, error) {
	var messages []model.EmitMessage

	for {
		data, err := e.reader.Next()
		if err != nil {
			return model.OpResult{}, fmt.Errorf("shellexecutor: reading output for %s: %w", op, err)
		}

		if err := evh.Handle(OutputEvent{Data: data}); err != nil {
			return model.OpResult{}, err
		}

		msg, ok := data.(model.MessageData)
		if !ok {
			continue
		}
		if msg.Message.Header.Name == "status" {
			status, err := parseStatus(msg.Message.Text)
			if err != nil {
				return model.OpResult{}, fmt.Errorf("shellexecutor: %s: %w", op, err)
			}
			completion, err := decodeCompletion(op, messages)
			if err != nil {
				return model.OpResult{}, fmt.Errorf("shellexecutor: %s: %w", op, err)
			}
			return model.OpResult{Status: status, Completion: completion}, nil
		}
		messages = append(messages, msg.Message)
	}
}

func parseStatus(body string) (model.OpStatus, error) {
	code, err := strconv.Atoi(strings.TrimSpace(body))
	if err != nil || code < 0 {
		return model.OpStatus{}, fmt.Errorf("invalid status body %q", body)
	}
	return model.OpStatus{Code: code}, nil
}

func decodeCompletion(op model.Operation, messages []model.EmitMessage) (model.OpCompletion, error) {
	switch op {
	case model.OpMeta:
		return decodeMeta(messages)
	case model.OpDeps:
		return decodeDeps(messages)
	case model.OpCheck:
		return decodeCheck(messages)
	case model.OpApply:
		vs, err := decodeValues(op, messages)
		if err != nil {
			return nil, err
		}
		return model.ApplyCompletion{Emitted: vs}, nil
	case model.OpRemove:
		vs, err := decodeValues(op, messages)
		if err != nil {
			return nil, err
		}
		return model.RemoveCompletion{Emitted: vs}, nil
	default:
		return nil, fmt.Errorf("unknown operation %v", op)
	}
}

func decodeMeta(messages []model.EmitMessage) (model.OpCompletion, error) {
	var meta model.Meta
	for _, m := range messages {
		if m.Header.Name != "meta" {
			return nil, fmt.Errorf("unexpected message header for meta operation: %s", m.Header)
		}
		switch m.Header.Field {
		case "author":
			meta.Author = m.Text
		case "desc":
			meta.Desc = m.Text
		case "version":
			meta.Version = m.Text
		case "params":
			params, err := parser.ParseParams(m.Text)
			if err != nil {
				return nil, fmt.Errorf("parsing meta.params: %w", err)
			}
			meta.Params = params
		default:
			return nil, fmt.Errorf("unexpected meta header field %q", m.Header.Field)
		}
	}
	return model.MetaCompletion{Meta: meta}, nil
}

func decodeDeps(messages []model.EmitMessage) (model.OpCompletion, error) {
	var deps model.Dependencies
	for _, m := range messages {
		switch m.Header.Name {
		case "dep":
			parsed, err := parser.ParseDeps(m.Text)
			if err != nil {
				return nil, fmt.Errorf("parsing dep message: %w", err)
			}
			deps.Units = append(deps.Units, parsed...)
		default:
			return nil, fmt.Errorf("unexpected message header for deps operation: %s", m.Header)
		}
	}
	return model.DepsCompletion{Dependencies: deps}, nil
}

func decodeCheck(messages []model.EmitMessage) (model.OpCompletion, error) {
	vs := model.NewValueSet()
	present := false
	sawPresent := false

	for _, m := range messages {
		switch {
		case m.Header.Name == "present":
			if sawPresent {
				return nil, fmt.Errorf("multiple presence messages in check operation")
			}
			sawPresent = true
			switch strings.TrimSpace(m.Text) {
			case "true":
				present = true
			case "false":
				present = false
			default:
				return nil, fmt.Errorf("could not parse present message body, expected 'true' or 'false', got: %s", m.Text)
			}
		case m.Header.Name == "value":
			if !m.Header.HasField() {
				return nil, fmt.Errorf("value message missing field")
			}
			v, _, err := parser.ParseValue(m.Text)
			if err != nil {
				return nil, fmt.Errorf("could not parse emitted value: %w", err)
			}
			vs.Add(m.Header.Field, v)
		default:
			return nil, fmt.Errorf("unexpected message type for check operation: %s", m.Header)
		}
	}

	return model.CheckCompletion{Present: present, Emitted: vs}, nil
}

func decodeValues(op model.Operation, messages []model.EmitMessage) (*model.ValueSet, error) {
	vs := model.NewValueSet()
	for _, m := range messages {
		if m.Header.Name != "value" {
			return nil, fmt.Errorf("unexpected message type for %s operation: %s", op, m.Header)
		}
		if !m.Header.HasField() {
			return nil, fmt.Errorf("value message missing field")
		}
		v, _, err := parser.ParseValue(m.Text)
		if err != nil {
			return nil, fmt.Errorf("could not parse emitted value: %w", err)
		}
		vs.Add(m.Header.Field, v)
	}
	return vs, nil
}

// Finalize closes stdin, drains stderr, and waits for the subprocess to
// exit. A nonzero exit is a fatal error carrying the exit code and stderr.
func (e *ShellExecutor) Finalize() error {
	code, stderr, err := e.sub.Finalize()
	if err != nil {
		return fmt.Errorf("shellexecutor: %w", err)
	}
	if code != 0 {
		return fmt.Errorf("shellexecutor: adapter exited with status code %d: %s", code, stderr)
	}
	return nil
}
