package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/sysu-dev/sysu/model"
)

// ExecutorPool hands out at most one ShellExecutor per Target (invariant
// I6), creating one lazily on first access. Mutation is guarded by a
// mutex even though the engine itself drives it from a single goroutine,
// so a future parallel resolver can reuse the pool safely (§5).
type ExecutorPool struct {
	mu        sync.Mutex
	overrides AdapterOverrides
	debug     bool
	executors map[model.Target]*ShellExecutor
}

func NewExecutorPool(overrides AdapterOverrides, debug bool) *ExecutorPool {
	return &ExecutorPool{
		overrides: overrides,
		debug:     debug,
		executors: make(map[model.Target]*ShellExecutor),
	}
}

// Get returns the executor for target, creating it (and spawning its
// subprocess) if this is the first request for that target.
func (p *ExecutorPool) Get(ctx context.Context, target model.Target) (*ShellExecutor, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if ex, ok := p.executors[target]; ok {
		return ex, nil
	}

	ex, err := NewShellExecutor(ctx, &target, p.overrides, p.debug)
	if err != nil {
		return nil, fmt.Errorf("executor pool: target %s: %w", target.String(), err)
	}
	instanceID := uuid.NewString()
	slog.DebugContext(ctx, "executor pool: spawned executor", "target", target.String(), "instance_id", instanceID)
	p.executors[target] = ex
	return ex, nil
}

// GetLocal returns the executor for unit executions with no explicit
// target (a nil *model.Target maps to a single well-known local slot
// distinct from any "local://localhost" target).
func (p *ExecutorPool) GetLocal(ctx context.Context) (*ShellExecutor, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := model.Target{Proto: "", Host: ""}
	if ex, ok := p.executors[key]; ok {
		return ex, nil
	}

	ex, err := NewShellExecutor(ctx, nil, p.overrides, p.debug)
	if err != nil {
		return nil, fmt.Errorf("executor pool: local target: %w", err)
	}
	instanceID := uuid.NewString()
	slog.DebugContext(ctx, "executor pool: spawned local executor", "instance_id", instanceID)
	p.executors[key] = ex
	return ex, nil
}

// Finalize drains the pool and finalizes every executor, regardless of
// outcome, so subprocess resources are always reclaimed. The first error
// encountered is returned after every executor has been finalized.
func (p *ExecutorPool) Finalize() error {
	p.mu.Lock()
	executors := p.executors
	p.executors = make(map[model.Target]*ShellExecutor)
	p.mu.Unlock()

	var firstErr error
	for target, ex := range executors {
		if err := ex.Finalize(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("executor pool: finalizing target %s: %w", target.String(), err)
		}
	}
	return firstErr
}
