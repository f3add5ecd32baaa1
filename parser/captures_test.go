package parser

import (
	"testing"

	"github.com/sysu-dev/sysu/model"
)

func TestParseCapturesUnaliased(t *testing.T) {
	caps, rest, err := ParseCaptures("-> foo:string")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rest != "" {
		t.Fatalf("want empty rest, got %q", rest)
	}
	if len(caps) != 1 || caps[0].Name != "foo" || caps[0].Type != model.TypeString || caps[0].Alias != "" {
		t.Fatalf("unexpected captures: %#v", caps)
	}
}

func TestParseCapturesAliased(t *testing.T) {
	caps, _, err := ParseCaptures("-> foo:bar:string")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(caps) != 1 || caps[0].Name != "foo" || caps[0].Alias != "bar" || caps[0].Type != model.TypeString {
		t.Fatalf("unexpected captures: %#v", caps)
	}
}

func TestParseCapturesMultiple(t *testing.T) {
	caps, _, err := ParseCaptures("-> size:file_size:int, name:string")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(caps) != 2 {
		t.Fatalf("want 2 captures, got %d", len(caps))
	}
	if caps[0].Name != "size" || caps[0].EffectiveAlias() != "file_size" || caps[0].Type != model.TypeInt {
		t.Fatalf("unexpected first capture: %#v", caps[0])
	}
	if caps[1].Name != "name" || caps[1].EffectiveAlias() != "name" || caps[1].Type != model.TypeString {
		t.Fatalf("unexpected second capture: %#v", caps[1])
	}
}
