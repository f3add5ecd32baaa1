// Package reporter implements a minimal indented-tree terminal observer
// for engine runs. It is deliberately simple: a structured, queryable
// history of a run belongs to internal/ledger, not here.
package reporter

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/sysu-dev/sysu/engine"
	"github.com/sysu-dev/sysu/model"
)

const (
	colorReset  = "\x1b[0m"
	colorGreen  = "\x1b[32m"
	colorRed    = "\x1b[31m"
	colorYellow = "\x1b[33m"
	colorDim    = "\x1b[2m"
)

// Level controls how much a Reporter prints.
type Level int

const (
	Normal  Level = iota // complete/success/error, but not per-op started/output chatter
	Quiet                // errors only
	Verbose              // every event, including per-op started/output
)

// Reporter prints engine events to an io.Writer as an indented tree:
// top-level events at column zero, per-unit operation events indented
// one level under their unit. Color is used only when out is a terminal.
type Reporter struct {
	out   io.Writer
	color bool
	level Level
}

// New builds a Reporter writing to out at Normal verbosity. Color is
// auto-detected via term.IsTerminal when out is an *os.File.
func New(out io.Writer) *Reporter {
	color := false
	if f, ok := out.(*os.File); ok {
		color = term.IsTerminal(int(f.Fd()))
	}
	return &Reporter{out: out, color: color, level: Normal}
}

// WithLevel sets the verbosity level and returns the Reporter, for
// chaining onto New.
func (r *Reporter) WithLevel(level Level) *Reporter {
	r.level = level
	return r
}

func (r *Reporter) paint(code, s string) string {
	if !r.color {
		return s
	}
	return code + s + colorReset
}

// Notify implements engine.Observer.
func (r *Reporter) Notify(ev engine.Event) error {
	if r.level == Quiet {
		switch e := ev.(type) {
		case engine.ErrorEvent:
			fmt.Fprintln(r.out, r.paint(colorRed, "ERROR: "+e.Message))
		case engine.OpNotification:
			if oe, ok := e.Event.(engine.OpErrorEvent); ok {
				r.printOpLine(e, r.paint(colorRed, "error: "+oe.Message))
			}
		}
		return nil
	}

	switch e := ev.(type) {
	case engine.ResolvingEvent:
		fmt.Fprintln(r.out, r.paint(colorDim, "resolving dependencies..."))
	case engine.ResolvedEvent:
		fmt.Fprintf(r.out, "%s (%d unit(s))\n", r.paint(colorDim, "resolved"), len(e.Units))
		for _, u := range e.Units {
			fmt.Fprintf(r.out, "  %s\n", u.Name)
		}
	case engine.DebugEvent:
		fmt.Fprintln(r.out, r.paint(colorDim, "debug: "+e.Message))
	case engine.MetaResultEvent:
		fmt.Fprintf(r.out, "author:  %s\n", e.Meta.Author)
		fmt.Fprintf(r.out, "desc:    %s\n", e.Meta.Desc)
		fmt.Fprintf(r.out, "version: %s\n", e.Meta.Version)
		for _, p := range e.Meta.Params {
			fmt.Fprintf(r.out, "param:   %s %s\n", p.Name, p.Type)
		}
	case engine.EngineSuccessEvent:
		fmt.Fprintln(r.out, r.paint(colorGreen, "OK"))
	case engine.ErrorEvent:
		fmt.Fprintln(r.out, r.paint(colorRed, "ERROR: "+e.Message))
	case engine.OpNotification:
		r.notifyOp(e)
	}
	return nil
}

func (r *Reporter) opPrefix(notif engine.OpNotification) string {
	unitName := "<nil>"
	if notif.Unit != nil {
		unitName = notif.Unit.Name
	}
	return fmt.Sprintf("  [%s] %s", unitName, notif.Operation)
}

func (r *Reporter) printOpLine(notif engine.OpNotification, line string) {
	fmt.Fprintf(r.out, "%s: %s\n", r.opPrefix(notif), line)
}

func (r *Reporter) notifyOp(notif engine.OpNotification) {
	switch oe := notif.Event.(type) {
	case engine.StartedEvent:
		if r.level == Verbose {
			r.printOpLine(notif, r.paint(colorDim, "started"))
		}
	case engine.OutputEvent:
		if r.level != Verbose {
			return
		}
		switch d := oe.Data.(type) {
		case model.TextLine:
			r.printOpLine(notif, string(d))
		case model.MessageData:
			r.printOpLine(notif, d.Message.Text)
		}
	case engine.CompleteEvent:
		r.printOpLine(notif, r.paint(colorGreen, "complete"))
	case engine.OpErrorEvent:
		r.printOpLine(notif, r.paint(colorRed, "error: "+oe.Message))
	default:
		r.printOpLine(notif, r.paint(colorYellow, "unknown event"))
	}
}
