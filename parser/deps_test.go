package parser

import "testing"

func TestParseDepsBasic(t *testing.T) {
	input := `curl.sh url="https://placekitten.com/200/200", output="/tmp/cat.png"`
	deps, err := ParseDeps(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(deps) != 1 {
		t.Fatalf("want 1 dep, got %d", len(deps))
	}
	d := deps[0]
	if d.Name != "curl.sh" {
		t.Fatalf("unexpected name: %q", d.Name)
	}
	if d.Args.Len() != 2 {
		t.Fatalf("want 2 args, got %d", d.Args.Len())
	}
	url, _ := d.Args.Get("url")
	if url.String() != "https://placekitten.com/200/200" {
		t.Fatalf("unexpected url: %v", url)
	}
	if len(d.Captures) != 0 {
		t.Fatalf("want no captures, got %v", d.Captures)
	}
	if d.Target != nil {
		t.Fatalf("want nil target, got %v", d.Target)
	}
}

func TestParseDepsWithCaptures(t *testing.T) {
	input := `curl.sh url="https://placekitten.com/200/200", output="/tmp/cat.png" -> size:file_size:int`
	deps, err := ParseDeps(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(deps) != 1 {
		t.Fatalf("want 1 dep, got %d", len(deps))
	}
	d := deps[0]
	if len(d.Captures) != 1 || d.Captures[0].Name != "size" || d.Captures[0].Alias != "file_size" {
		t.Fatalf("unexpected captures: %#v", d.Captures)
	}
}

func TestParseDepsWithTarget(t *testing.T) {
	deps, err := ParseDeps("ssh://jack@localhost:curl.sh")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(deps) != 1 {
		t.Fatalf("want 1 dep, got %d", len(deps))
	}
	d := deps[0]
	if d.Target == nil {
		t.Fatalf("want a target")
	}
	if d.Target.Proto != "ssh" || d.Target.User != "jack" || d.Target.Host != "localhost" {
		t.Fatalf("unexpected target: %#v", d.Target)
	}
	if d.Name != "curl.sh" {
		t.Fatalf("unexpected name: %q", d.Name)
	}
}

func TestParseDepsMultiple(t *testing.T) {
	deps, err := ParseDeps("pkg name=python, curl.sh")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(deps) != 2 {
		t.Fatalf("want 2 deps, got %d: %#v", len(deps), deps)
	}
	if deps[0].Name != "pkg" {
		t.Fatalf("unexpected first dep name: %q", deps[0].Name)
	}
	if deps[1].Name != "curl.sh" {
		t.Fatalf("unexpected second dep name: %q", deps[1].Name)
	}
}

func TestParseDepsVersioned(t *testing.T) {
	deps, err := ParseDeps("curl.sh:>2.3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(deps) != 1 || deps[0].Name != "curl.sh" {
		t.Fatalf("unexpected deps: %#v", deps)
	}
}
