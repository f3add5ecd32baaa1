package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/creack/pty"
	"golang.org/x/term"

	"github.com/sysu-dev/sysu/engine"
	"github.com/sysu-dev/sysu/model"
	"github.com/sysu-dev/sysu/parser"
)

// DebugShellCmd opens a PTY directly into a target's adapter shell,
// bypassing the emit wire protocol entirely, for interactively poking at
// a unit's environment while developing it.
type DebugShellCmd struct {
	Target string `short:"t" optional:"" placeholder:"<proto://[user@]host>" help:"target to shell into; omit for local"`
}

func (c *DebugShellCmd) Run(cctx *Context) error {
	target, err := parseOptionalTarget(c.Target)
	if err != nil {
		return err
	}

	built, err := engine.BuildCommand(target, cctx.adapters)
	if err != nil {
		return fmt.Errorf("debug-shell: %w", err)
	}
	cmd := exec.Command(built.Program, built.Args...)

	ptmx, err := pty.Start(cmd)
	if err != nil {
		return fmt.Errorf("debug-shell: starting pty: %w", err)
	}
	defer ptmx.Close()

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		oldState, err := term.MakeRaw(fd)
		if err == nil {
			defer term.Restore(fd, oldState)
		}
	}

	go io.Copy(ptmx, os.Stdin)
	io.Copy(os.Stdout, ptmx)

	return cmd.Wait()
}

func parseOptionalTarget(spec string) (*model.Target, error) {
	if spec == "" {
		return nil, nil
	}
	t, rest, err := parser.ParseTarget(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid --target %q: %w", spec, err)
	}
	if rest != "" {
		return nil, fmt.Errorf("invalid --target %q: unexpected trailing input %q", spec, rest)
	}
	return &t, nil
}
