package parser

import (
	"testing"

	"github.com/sysu-dev/sysu/model"
)

func TestParseValueQuotedString(t *testing.T) {
	v, rest, err := ParseValue(`"blarp"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rest != "" {
		t.Fatalf("want empty rest, got %q", rest)
	}
	sv, ok := v.(model.StringValue)
	if !ok || string(sv) != "blarp" {
		t.Fatalf("unexpected value: %#v", v)
	}
}

func TestParseValueSingleQuoted(t *testing.T) {
	v, _, err := ParseValue(`'blarp hi world !@#'`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.String() != "blarp hi world !@#" {
		t.Fatalf("unexpected value: %v", v)
	}
}

func TestParseValueFloat(t *testing.T) {
	v, rest, err := ParseValue("123.456")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rest != "" {
		t.Fatalf("want empty rest, got %q", rest)
	}
	fv, ok := v.(model.FloatValue)
	if !ok || fv != 123.456 {
		t.Fatalf("unexpected value: %#v", v)
	}
}

func TestParseValueBool(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want bool
	}{
		{"true", true},
		{"false", false},
	} {
		v, rest, err := ParseValue(tc.in)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rest != "" {
			t.Fatalf("want empty rest, got %q", rest)
		}
		bv, ok := v.(model.BoolValue)
		if !ok || bool(bv) != tc.want {
			t.Fatalf("unexpected value: %#v", v)
		}
	}
}

func TestParseValueInt(t *testing.T) {
	v, rest, err := ParseValue("123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rest != "" {
		t.Fatalf("want empty rest, got %q", rest)
	}
	iv, ok := v.(model.IntValue)
	if !ok || iv != 123 {
		t.Fatalf("unexpected value: %#v", v)
	}
}

func TestParseValueUnquotedString(t *testing.T) {
	v, rest, err := ParseValue("hello ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rest != "" {
		t.Fatalf("want trailing whitespace trimmed, got %q", rest)
	}
	sv, ok := v.(model.StringValue)
	if !ok || string(sv) != "hello" {
		t.Fatalf("unexpected value: %#v", v)
	}
}
