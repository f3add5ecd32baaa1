// Command sysu drives the sysu orchestration engine: load a unit, resolve
// its dependencies, and run check/apply/remove/meta against them.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	kongyaml "github.com/alecthomas/kong-yaml"
	kongcompletion "github.com/jotaen/kong-completion"
	"github.com/posener/complete"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/sysu-dev/sysu/engine"
	"github.com/sysu-dev/sysu/internal/config"
	"github.com/sysu-dev/sysu/internal/reporter"
)

// Context carries global CLI settings resolved in main(), passed down to
// every Cmd's Run.
type Context struct {
	ctx           context.Context
	searchPaths   []string
	adapters      engine.AdapterOverrides
	debug         bool
	auditDBPath   string
	reporterLevel reporter.Level
	defaults      *config.Defaults
}

// Globals holds the flags shared by every operation subcommand.
type Globals struct {
	Path     string   `short:"p" placeholder:"<path1:path2:...>" env:"SYSU_PATH" help:"colon-delimited unit search paths"`
	Adapter  []string `placeholder:"<PROTOCOL=COMMAND>" help:"override the external command used for a target protocol, repeatable"`
	AuditDB  string   `placeholder:"<db-path>" help:"record this run's events to a sqlite audit ledger at this path"`
	Defaults string   `placeholder:"<path>" default:".sysu-defaults.yaml" help:"YAML file of per-unit default args, overridden by -a"`
	LogFile  string   `placeholder:"<path>" help:"write JSON logs to this file instead of stderr, rotating it with lumberjack"`

	Verbose bool `short:"v" xor:"verbosity" help:"verbose reporter output"`
	Quiet   bool `short:"q" xor:"verbosity" help:"suppress all reporter output except errors"`
	Debug   bool `short:"d" xor:"verbosity" help:"debug reporter output, plus debug-level logging"`

	Config kong.ConfigFlag `help:"load flags from a YAML config file"`
}

type CLI struct {
	Globals

	Check      CheckCmd           `cmd:"" help:"check whether a unit is present"`
	Apply      ApplyCmd           `cmd:"" help:"resolve dependencies and apply a unit"`
	Remove     RemoveCmd          `cmd:"" help:"check and, if present, remove a unit"`
	Meta       MetaCmd            `cmd:"" help:"print a unit's declared metadata and params"`
	DebugShell DebugShellCmd      `cmd:"" name:"debug-shell" help:"open an interactive shell into a target, bypassing the unit protocol"`
	Version    VersionCmd         `cmd:"" help:"print build version info"`
	Completion kongcompletion.Cmd `cmd:"" help:"output shell completion scripts"`
}

func initSlog(g Globals) {
	level := slog.LevelInfo
	if g.Debug {
		level = slog.LevelDebug
	} else if g.Quiet {
		level = slog.LevelError
	}

	var out io.Writer = os.Stderr
	if g.LogFile != "" {
		out = &lumberjack.Logger{
			Filename:   g.LogFile,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		}
	}

	logger := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

func adapterOverrides(specs []string) (engine.AdapterOverrides, error) {
	overrides := engine.AdapterOverrides{}
	for _, spec := range specs {
		proto, command, ok := strings.Cut(spec, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --adapter %q, expected PROTOCOL=COMMAND", spec)
		}
		overrides[proto] = command
	}
	return overrides, nil
}

func main() {
	var cli CLI

	parser, err := kong.New(&cli,
		kong.Name("sysu"),
		kong.Description("Run shell-unit check/apply/remove/meta operations."),
		kong.Configuration(kongyaml.Loader, ".sysu.yaml", "~/.sysu.yaml"),
		kong.UsageOnError(),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sysu: %v\n", err)
		os.Exit(2)
	}
	kongcompletion.Register(parser,
		kongcompletion.WithPredictor("unit", complete.PredictFiles("*.sh")),
	)

	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	initSlog(cli.Globals)

	overrides, err := adapterOverrides(cli.Adapter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sysu: %v\n", err)
		os.Exit(2)
	}

	level := reporter.Normal
	switch {
	case cli.Quiet:
		level = reporter.Quiet
	case cli.Verbose, cli.Debug:
		level = reporter.Verbose
	}

	defaults, err := config.Load(cli.Defaults)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sysu: %v\n", err)
		os.Exit(2)
	}

	cctx := &Context{
		ctx:           context.Background(),
		searchPaths:   engine.ParseSearchPath(cli.Path),
		adapters:      overrides,
		debug:         cli.Debug,
		auditDBPath:   cli.AuditDB,
		reporterLevel: level,
		defaults:      defaults,
	}

	kctx.FatalIfErrorf(kctx.Run(cctx))
}
