package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sysu-dev/sysu/parser"
)

// node is one entry in the loader's lazy tree: a filesystem directory, a
// multi-unit file (parsed into a name->script table on first load), or a
// terminal script.
type node interface {
	// search resolves the next logical-path component under this node.
	search(component string) (node, error)
}

type dirNode struct {
	path string

	mu       sync.Mutex
	children map[string]node
}

func newDirNode(path string) *dirNode {
	return &dirNode{path: path, children: make(map[string]node)}
}

func (d *dirNode) search(component string) (node, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if n, ok := d.children[component]; ok {
		return n, nil
	}

	full := filepath.Join(d.path, component)
	info, err := os.Stat(full)
	if err != nil {
		return nil, nil
	}

	var n node
	switch {
	case info.IsDir():
		n = newDirNode(full)
	case strings.HasSuffix(component, ".sysu"):
		uf, err := loadUnitFile(full)
		if err != nil {
			return nil, err
		}
		n = uf
	case strings.HasSuffix(component, ".sh"):
		contents, err := os.ReadFile(full)
		if err != nil {
			return nil, fmt.Errorf("loader: reading %s: %w", full, err)
		}
		n = scriptNode(contents)
	default:
		return nil, fmt.Errorf("loader: invalid file extension on %s", full)
	}

	d.children[component] = n
	return n, nil
}

type unitFileNode struct {
	path  string
	units map[string]string
}

func loadUnitFile(path string) (*unitFileNode, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: reading %s: %w", path, err)
	}
	units, err := parser.SplitUnitFile(string(contents))
	if err != nil {
		return nil, fmt.Errorf("loader: parsing %s: %w", path, err)
	}
	return &unitFileNode{path: path, units: units}, nil
}

func (u *unitFileNode) search(component string) (node, error) {
	script, ok := u.units[component]
	if !ok {
		return nil, fmt.Errorf("loader: could not find unit %q in %s", component, u.path)
	}
	return scriptNode(script), nil
}

type scriptNode string

func (scriptNode) search(component string) (node, error) {
	return nil, fmt.Errorf("loader: a script cannot be traversed further (looking for %q)", component)
}

// Loader resolves unit names to script text across a set of search paths,
// caching results for the lifetime of the process (correctness of
// repeated lookups per the adopted open-question resolution).
type Loader struct {
	searchPaths []*dirNode
	roots       []string
}

// NewLoader builds a Loader over paths, each treated as the root of a
// lazy directory tree.
func NewLoader(paths []string) *Loader {
	roots := make([]*dirNode, len(paths))
	for i, p := range paths {
		roots[i] = newDirNode(p)
	}
	return &Loader{searchPaths: roots, roots: paths}
}

// Load resolves name (a '/'-separated logical path) to script text,
// searching each configured path in order. The same name may be requested
// repeatedly; the underlying tree caches every resolved component.
func (l *Loader) Load(name string) (string, error) {
	components := strings.Split(name, "/")

	for _, root := range l.searchPaths {
		n, err := searchFrom(root, components)
		if err != nil {
			return "", err
		}
		if n == nil {
			continue
		}
		script, ok := n.(scriptNode)
		if !ok {
			return "", fmt.Errorf("loader: %s is not a unit script", name)
		}
		return string(script), nil
	}

	return "", fmt.Errorf("loader: could not find script at location %q (search paths: %s)", name, strings.Join(l.roots, ":"))
}

func searchFrom(root node, components []string) (node, error) {
	cur := root
	for _, c := range components {
		if c == "" {
			continue
		}
		next, err := cur.search(c)
		if err != nil {
			return nil, err
		}
		if next == nil {
			return nil, nil
		}
		cur = next
	}
	return cur, nil
}

// ParseSearchPath splits a colon-delimited search-path string, as used by
// --path and SYSU_PATH.
func ParseSearchPath(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ":")
}
