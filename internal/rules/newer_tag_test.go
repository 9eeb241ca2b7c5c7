package rules

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Nash0810/docktor/internal/parser"
)

type fakeTags struct {
	tags []string
	err  error
	got  []string
}

func (f *fakeTags) Tags(_ context.Context, namespace, name string) ([]string, error) {
	f.got = append(f.got, namespace+"/"+name)
	return f.tags, f.err
}

func TestNewerTag_FindsHighestPatch(t *testing.T) {
	src := &fakeTags{tags: []string{"3.11", "3.11.2", "3.11.9-slim", "3.12.0", "latest"}}
	rule := NewerTagRule(src)

	got := rule.Check(parser.Parse("FROM python:3.11.2"))
	if len(got) != 1 {
		t.Fatalf("got %d issues, want 1", len(got))
	}
	if want := "Newer version available: python:3.11.9-slim."; got[0].Message != want {
		t.Errorf("message = %q, want %q", got[0].Message, want)
	}
	if src.got[0] != "library/python" {
		t.Errorf("queried %q, want library/python", src.got[0])
	}
}

func TestNewerTag_SkipsUnversionedAndLatest(t *testing.T) {
	src := &fakeTags{tags: []string{"9.9.9"}}
	rule := NewerTagRule(src)

	df := "FROM python:latest\nFROM python\nFROM ubuntu:jammy"
	if got := rule.Check(parser.Parse(df)); len(got) != 0 {
		t.Errorf("want no issues, got %+v", got)
	}
	if len(src.got) != 0 {
		t.Errorf("no registry calls expected, got %v", src.got)
	}
}

func TestNewerTag_LookupErrorYieldsNoFinding(t *testing.T) {
	src := &fakeTags{err: errors.New("boom")}
	rule := NewerTagRule(src)

	if got := rule.Check(parser.Parse("FROM python:3.11")); len(got) != 0 {
		t.Errorf("lookup failure must not surface, got %+v", got)
	}
}

func TestNewerTag_NamespacedImage(t *testing.T) {
	src := &fakeTags{tags: []string{"1.2.3"}}
	rule := NewerTagRule(src)

	got := rule.Check(parser.Parse("FROM myorg/app:1.2.1"))
	if len(got) != 1 || !strings.Contains(got[0].Message, "myorg/app:1.2.3") {
		t.Fatalf("got %+v", got)
	}
	if src.got[0] != "myorg/app" {
		t.Errorf("queried %q, want myorg/app", src.got[0])
	}
}

func TestVersionGreater(t *testing.T) {
	cases := []struct {
		a, b string
		want bool
	}{
		{"3.11.9", "3.11.2", true},
		{"3.11", "3.11.2", false},
		{"3.11.2", "3.11.2", false},
		{"3.12", "3.11.9", true},
		{"3.11.0", "3.11", false},
	}
	for _, tc := range cases {
		got := versionGreater(parseLeadingVersion(tc.a), parseLeadingVersion(tc.b))
		if got != tc.want {
			t.Errorf("versionGreater(%s, %s) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}
