package engine

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
)

// Command is the spawn specification an Adapter builds for a Target.
type Command struct {
	Program string
	Args    []string
	Env     []string
}

// Subprocess owns one spawned child process: its stdin (for writing),
// stdout (for the wire reader to consume), and a buffered stderr captured
// in full on Finalize.
type Subprocess struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser
	stderr *bytes.Buffer
}

// Spawn starts c as a child process with piped stdin/stdout and a buffered
// stderr.
func Spawn(ctx context.Context, c Command) (*Subprocess, error) {
	cmd := exec.CommandContext(ctx, c.Program, c.Args...)
	if len(c.Env) > 0 {
		cmd.Env = c.Env
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("subprocess: stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("subprocess: stdout pipe: %w", err)
	}
	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr

	slog.DebugContext(ctx, "subprocess: spawning", "program", c.Program, "args", c.Args)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("subprocess: could not spawn %s: %w", c.Program, err)
	}

	return &Subprocess{cmd: cmd, stdin: stdin, stdout: stdout, stderr: stderr}, nil
}

// Stdout exposes the child's stdout for the wire codec to read.
func (s *Subprocess) Stdout() io.Reader { return s.stdout }

// WriteStdin writes text to the child's stdin, flushing immediately (pipes
// are unbuffered from the caller's perspective once Write returns).
func (s *Subprocess) WriteStdin(text string) error {
	if _, err := io.WriteString(s.stdin, text); err != nil {
		return fmt.Errorf("subprocess: writing stdin: %w", err)
	}
	return nil
}

// CloseStdin signals EOF to the child.
func (s *Subprocess) CloseStdin() error {
	if err := s.stdin.Close(); err != nil {
		return fmt.Errorf("subprocess: closing stdin: %w", err)
	}
	return nil
}

// Finalize closes stdin if not already closed, drains stderr, and waits
// for the child to exit, returning its exit code. A missing exit code
// (the process was killed by a signal) is a fatal error, not silently
// coerced to 0.
func (s *Subprocess) Finalize() (int, string, error) {
	_ = s.CloseStdin()

	err := s.cmd.Wait()
	stderrText := s.stderr.String()

	if err == nil {
		return 0, stderrText, nil
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		code := exitErr.ExitCode()
		if code < 0 {
			return 0, stderrText, fmt.Errorf("subprocess: process terminated without an exit code: %w", err)
		}
		return code, stderrText, nil
	}
	return 0, stderrText, fmt.Errorf("subprocess: waiting for exit: %w", err)
}
