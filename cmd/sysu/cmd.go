package main

import (
	"fmt"
	"os"

	"github.com/sysu-dev/sysu/engine"
	"github.com/sysu-dev/sysu/internal/ledger"
	"github.com/sysu-dev/sysu/internal/reporter"
	"github.com/sysu-dev/sysu/model"
	"github.com/sysu-dev/sysu/parser"
)

// unitArgs is embedded by every operation subcommand: the positional unit
// name, an optional target, and repeatable KEY=VALUE args.
type unitArgs struct {
	Unit   string   `arg:"" help:"unit name (a script path or a name inside a .sysu file)"`
	Target string   `short:"t" optional:"" placeholder:"<proto://[user@]host>" help:"target to run against; omit to run locally"`
	Arg    []string `short:"a" placeholder:"<KEY=VALUE>" help:"unit argument, repeatable"`
}

func (u unitArgs) toUnit(defaults map[string]string) (*model.Unit, error) {
	args := model.NewValueSet()
	for k, v := range defaults {
		args.Add(k, model.StringValue(v))
	}
	for _, kv := range u.Arg {
		vs, rest, err := parser.ParseArgs(kv)
		if err != nil {
			return nil, fmt.Errorf("invalid -a %q: %w", kv, err)
		}
		if rest != "" {
			return nil, fmt.Errorf("invalid -a %q: unexpected trailing input %q", kv, rest)
		}
		for _, k := range vs.Keys() {
			v, _ := vs.Get(k)
			args.Add(k, v)
		}
	}

	target, err := parseOptionalTarget(u.Target)
	if err != nil {
		return nil, err
	}

	return model.NewUnit(u.Unit, args, target), nil
}

// run builds and drives an Engine for one CLI invocation: it wires the
// terminal reporter (and, if --audit-db is set, the SQLite ledger) as
// observers, runs the operation, and maps engine failure to a non-nil
// error so main can set a non-zero exit code.
func (c *Context) run(op model.Operation, u unitArgs, removeDeps bool) error {
	unit, err := u.toUnit(c.defaults.For(u.Unit))
	if err != nil {
		return err
	}

	rep := reporter.New(os.Stdout).WithLevel(c.reporterLevel)
	e := engine.NewEngine(c.ctx, engine.Opts{
		Operation:   op,
		Unit:        unit,
		RemoveDeps:  removeDeps,
		SearchPaths: c.searchPaths,
		Adapters:    c.adapters,
		Debug:       c.debug,
	}, rep)

	if c.auditDBPath != "" {
		l, err := ledger.Open(c.auditDBPath, e.RunID(), op, unit.Name)
		if err != nil {
			return fmt.Errorf("opening audit ledger: %w", err)
		}
		defer l.Close()
		e.AddObserver(l)
	}

	if !e.Run() {
		return fmt.Errorf("%s %s failed", op, unit.Name)
	}
	return nil
}

type CheckCmd struct {
	unitArgs
}

func (c *CheckCmd) Run(cctx *Context) error {
	return cctx.run(model.OpCheck, c.unitArgs, false)
}

type ApplyCmd struct {
	unitArgs
}

func (c *ApplyCmd) Run(cctx *Context) error {
	return cctx.run(model.OpApply, c.unitArgs, false)
}

type RemoveCmd struct {
	unitArgs
	RemoveDeps bool `short:"r" help:"resolve dependencies and remove them too, in reverse order"`
}

func (c *RemoveCmd) Run(cctx *Context) error {
	return cctx.run(model.OpRemove, c.unitArgs, c.RemoveDeps)
}

type MetaCmd struct {
	unitArgs
}

func (c *MetaCmd) Run(cctx *Context) error {
	return cctx.run(model.OpMeta, c.unitArgs, false)
}
