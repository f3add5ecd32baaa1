package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/goombaio/namegenerator"

	"github.com/sysu-dev/sysu/model"
)

// Opts configures one Engine run.
type Opts struct {
	Operation   model.Operation
	Unit        *model.Unit
	RemoveDeps  bool
	SearchPaths []string
	Adapters    AdapterOverrides
	Debug       bool
}

// Engine dispatches a single top-level operation against a root unit: it
// resolves dependencies when the operation requires them, runs each unit
// in order, and always finalizes the executor pool before reporting
// success or failure to observers.
type Engine struct {
	runner *Runner
	evh    *EventHandler
	opts   Opts
	ctx    context.Context
	runID  string
}

func NewEngine(ctx context.Context, opts Opts, observers ...Observer) *Engine {
	evh := NewEventHandler(observers...)
	loader := NewLoader(opts.SearchPaths)
	pool := NewExecutorPool(opts.Adapters, opts.Debug)
	runner := NewRunner(ctx, loader, pool, evh)

	gen := namegenerator.NewNameGenerator(time.Now().UTC().UnixNano())
	runID := gen.Generate()

	return &Engine{runner: runner, evh: evh, opts: opts, ctx: ctx, runID: runID}
}

// RunID is the human-readable correlation id assigned to this run, used in
// log fields and surfaced to observers via DebugEvent.
func (e *Engine) RunID() string { return e.runID }

// AddObserver registers an additional observer before Run is called. It
// exists for observers that need the run id to initialize themselves
// (e.g. the audit ledger keys its rows on it), which isn't known until
// after NewEngine returns.
func (e *Engine) AddObserver(o Observer) { e.evh.AddObserver(o) }

// Run executes the configured operation. No error is returned: any
// failure is reported to observers as an ErrorEvent, matching the
// original engine's "errors are for observers, not callers" contract. The
// boolean result reports whether the run succeeded, for callers that need
// a process exit code.
func (e *Engine) Run() bool {
	slog.InfoContext(e.ctx, "engine.Run", "run_id", e.runID, "operation", e.opts.Operation, "unit", e.opts.Unit)
	_ = e.evh.Handle(DebugEvent{Message: fmt.Sprintf("run %s: %s %s", e.runID, e.opts.Operation, e.opts.Unit)})

	var runErr error

	switch e.opts.Operation {
	case model.OpCheck:
		_, runErr = e.runner.Check(e.opts.Unit)
	case model.OpApply:
		runErr = e.runWithDependencies(e.opts.Unit, model.OpApply)
	case model.OpRemove:
		if e.opts.RemoveDeps {
			runErr = e.runWithDependencies(e.opts.Unit, model.OpRemove)
		} else {
			runErr = e.runUnit(e.opts.Unit, model.OpRemove)
		}
	case model.OpMeta:
		var meta model.Meta
		meta, runErr = e.runner.GetMeta(e.opts.Unit)
		if runErr == nil {
			runErr = e.evh.Handle(MetaResultEvent{Unit: e.opts.Unit, Meta: meta})
		}
	default:
		runErr = fmt.Errorf("engine: operation %s can't be run directly", e.opts.Operation)
	}

	finalizeErr := e.runner.Finalize()
	if runErr == nil {
		runErr = finalizeErr
	}

	if runErr != nil {
		slog.ErrorContext(e.ctx, "engine.Run failed", "run_id", e.runID, "error", runErr)
		_ = e.evh.Handle(ErrorEvent{Message: runErr.Error()})
		return false
	}
	slog.InfoContext(e.ctx, "engine.Run succeeded", "run_id", e.runID)
	_ = e.evh.Handle(EngineSuccessEvent{})
	return true
}

func (e *Engine) runWithDependencies(unit *model.Unit, op model.Operation) error {
	if err := e.evh.Handle(ResolvingEvent{}); err != nil {
		return err
	}

	ordered, err := Resolve(unit, e.runner.Dependencies)
	if err != nil {
		return err
	}

	if err := e.evh.Handle(ResolvedEvent{Units: ordered}); err != nil {
		return err
	}

	// Apply runs dependencies before dependents, the order Resolve
	// produces. Remove runs the reverse: a dependent is torn down before
	// the dependencies it relies on, matching the CLI's documented
	// "remove them too, in reverse order" semantics.
	if op == model.OpRemove {
		for i, j := 0, len(ordered)-1; i < j; i, j = i+1, j-1 {
			ordered[i], ordered[j] = ordered[j], ordered[i]
		}
	}

	for _, u := range ordered {
		if err := e.runUnit(u, op); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) runUnit(unit *model.Unit, op model.Operation) error {
	switch op {
	case model.OpCheck:
		_, err := e.runner.Check(unit)
		return err
	case model.OpApply:
		present, err := e.runner.Check(unit)
		if err != nil {
			return err
		}
		if !present {
			return e.runner.Apply(unit)
		}
		return nil
	case model.OpRemove:
		present, err := e.runner.Check(unit)
		if err != nil {
			return err
		}
		if present {
			return e.runner.Remove(unit)
		}
		return nil
	default:
		return fmt.Errorf("engine: operation %s can't be run directly from the engine", op)
	}
}
