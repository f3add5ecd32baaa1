package parser

import "testing"

func TestParseTargetWithUser(t *testing.T) {
	target, rest, err := ParseTarget("ssh://user@host")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rest != "" {
		t.Fatalf("want empty rest, got %q", rest)
	}
	if target.Proto != "ssh" || target.User != "user" || target.Host != "host" {
		t.Fatalf("unexpected target: %#v", target)
	}
}

func TestParseTargetWithoutUser(t *testing.T) {
	target, rest, err := ParseTarget("ssh://host")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rest != "" {
		t.Fatalf("want empty rest, got %q", rest)
	}
	if target.Proto != "ssh" || target.HasUser() || target.Host != "host" {
		t.Fatalf("unexpected target: %#v", target)
	}
}
