package engine

import (
	"fmt"
	"strings"
)

// ResolvableNode is anything the resolver can topologically order: it
// need only report a stable identity string.
type ResolvableNode interface {
	ID() string
}

// DependencyFetcher lazily produces a node's dependencies, possibly
// performing I/O (e.g. driving a unit's Deps operation).
type DependencyFetcher[T ResolvableNode] func(node T) ([]T, error)

// CircularDependencyError reports a cycle discovered during resolution.
type CircularDependencyError struct {
	PrecedingNodes []string
	NodeID         string
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("circular dependency detected: %s. stack: %s", e.NodeID, strings.Join(e.PrecedingNodes, " -> "))
}

type nodeState int

const (
	stateUnvisited nodeState = iota
	stateVisiting
	stateVisited
)

// Resolve produces a topological order (dependencies before dependents)
// over the graph reachable from initial, fetching each node's
// dependencies lazily via fetch. It is an iterative DFS with an explicit
// stack so arbitrarily deep graphs don't recurse the Go call stack.
func Resolve[T ResolvableNode](initial T, fetch DependencyFetcher[T]) ([]T, error) {
	visitStack := []T{initial}
	states := map[string]nodeState{initial.ID(): stateUnvisited}
	var ordered []T

	for len(visitStack) > 0 {
		node := visitStack[len(visitStack)-1]
		visitStack = visitStack[:len(visitStack)-1]

		switch states[node.ID()] {
		case stateVisited:
			// A stale duplicate of a node already ordered via another path.
			continue
		case stateVisiting:
			ordered = append(ordered, node)
			states[node.ID()] = stateVisited
			continue
		}

		states[node.ID()] = stateVisiting
		visitStack = append(visitStack, node)

		deps, err := fetch(node)
		if err != nil {
			return nil, err
		}

		for _, dep := range deps {
			state, known := states[dep.ID()]
			if !known {
				states[dep.ID()] = stateUnvisited
				visitStack = append(visitStack, dep)
				continue
			}
			switch state {
			case stateVisited:
				continue
			case stateUnvisited:
				// Discovered earlier and still pending lower on the stack:
				// push it again so it is expanded before this node. The
				// older copy is skipped once it is popped as Visited.
				visitStack = append(visitStack, dep)
			case stateVisiting:
				ids := make([]string, len(ordered))
				for i, n := range ordered {
					ids[i] = n.ID()
				}
				return nil, &CircularDependencyError{PrecedingNodes: ids, NodeID: dep.ID()}
			}
		}
	}

	return ordered, nil
}
