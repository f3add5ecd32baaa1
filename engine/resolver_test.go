package engine

import "testing"

type testNode struct {
	id   string
	deps []string
}

func (n testNode) ID() string { return n.id }

func fetcherFor(graph map[string]testNode) DependencyFetcher[testNode] {
	return func(node testNode) ([]testNode, error) {
		var out []testNode
		for _, id := range node.deps {
			out = append(out, graph[id])
		}
		return out, nil
	}
}

func idsOf(nodes []testNode) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.id
	}
	return ids
}

func assertOrder(t *testing.T, got []string, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("order length = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestResolveBasic(t *testing.T) {
	graph := map[string]testNode{
		"a": {id: "a", deps: []string{"b", "c"}},
		"b": {id: "b", deps: []string{"c"}},
		"c": {id: "c"},
	}

	got, err := Resolve(graph["a"], fetcherFor(graph))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	assertOrder(t, idsOf(got), []string{"c", "b", "a"})
}

func TestResolveCycle(t *testing.T) {
	graph := map[string]testNode{
		"a": {id: "a", deps: []string{"b", "c"}},
		"b": {id: "b", deps: []string{"c"}},
		"c": {id: "c", deps: []string{"a"}},
	}

	_, err := Resolve(graph["a"], fetcherFor(graph))
	if err == nil {
		t.Fatal("expected a circular dependency error, got nil")
	}
	cycleErr, ok := err.(*CircularDependencyError)
	if !ok {
		t.Fatalf("error type = %T, want *CircularDependencyError", err)
	}
	if cycleErr.NodeID != "a" {
		t.Fatalf("NodeID = %q, want %q", cycleErr.NodeID, "a")
	}
}

func TestResolveComplex(t *testing.T) {
	graph := map[string]testNode{
		"a": {id: "a", deps: []string{"b", "c"}},
		"b": {id: "b", deps: []string{"c", "d"}},
		"c": {id: "c", deps: []string{"d"}},
		"d": {id: "d"},
	}

	got, err := Resolve(graph["a"], fetcherFor(graph))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	assertOrder(t, idsOf(got), []string{"d", "c", "b", "a"})
}

func TestResolveDiamondNoDuplicates(t *testing.T) {
	// a depends on both b and c, and both b and c depend on d. d is
	// reached twice (first via c, then again via b); it must appear
	// exactly once in the result.
	graph := map[string]testNode{
		"a": {id: "a", deps: []string{"b", "c"}},
		"b": {id: "b", deps: []string{"d"}},
		"c": {id: "c", deps: []string{"d"}},
		"d": {id: "d"},
	}

	got, err := Resolve(graph["a"], fetcherFor(graph))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("order = %v, want 4 distinct nodes", idsOf(got))
	}
	seen := make(map[string]bool)
	for _, n := range got {
		if seen[n.id] {
			t.Fatalf("node %q appeared more than once in %v", n.id, idsOf(got))
		}
		seen[n.id] = true
	}
	pos := make(map[string]int, len(got))
	for i, n := range got {
		pos[n.id] = i
	}
	if pos["d"] > pos["b"] || pos["d"] > pos["c"] || pos["b"] > pos["a"] || pos["c"] > pos["a"] {
		t.Fatalf("order %v violates dependency-before-dependent", idsOf(got))
	}
}

func TestResolveSingleNode(t *testing.T) {
	graph := map[string]testNode{"a": {id: "a"}}
	got, err := Resolve(graph["a"], fetcherFor(graph))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	assertOrder(t, idsOf(got), []string{"a"})
}

func TestResolveFetchError(t *testing.T) {
	boom := fmtErr("boom")
	fetch := func(n testNode) ([]testNode, error) { return nil, boom }
	_, err := Resolve(testNode{id: "a"}, fetch)
	if err != boom {
		t.Fatalf("err = %v, want %v", err, boom)
	}
}

type fmtErr string

func (e fmtErr) Error() string { return string(e) }
