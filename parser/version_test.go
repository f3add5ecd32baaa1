package parser

import "testing"

func TestParseVersionSpec(t *testing.T) {
	spec, rest, err := ParseVersionSpec(">=1.2.3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rest != "" {
		t.Fatalf("want empty rest, got %q", rest)
	}
	if spec.Comparator != ComparatorGreaterThanOrEqual {
		t.Fatalf("unexpected comparator: %v", spec.Comparator)
	}
	if spec.Version.Major != 1 || spec.Version.Minor == nil || *spec.Version.Minor != 2 {
		t.Fatalf("unexpected version: %#v", spec.Version)
	}
	if spec.Version.Patch == nil || *spec.Version.Patch != 3 {
		t.Fatalf("unexpected patch: %#v", spec.Version.Patch)
	}
}

func TestParseVersionSpecBare(t *testing.T) {
	spec, _, err := ParseVersionSpec("2.3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spec.Comparator != ComparatorNone {
		t.Fatalf("unexpected comparator: %v", spec.Comparator)
	}
	if spec.Version.Major != 2 || spec.Version.Minor == nil || *spec.Version.Minor != 3 {
		t.Fatalf("unexpected version: %#v", spec.Version)
	}
}
