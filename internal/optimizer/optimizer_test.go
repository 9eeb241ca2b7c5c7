package optimizer

import (
	"strings"
	"testing"

	"github.com/Nash0810/docktor/internal/ir"
	"github.com/Nash0810/docktor/internal/parser"
)

func TestOptimize_CombinesConsecutiveRuns(t *testing.T) {
	df := "FROM a:1\nRUN one\nRUN two\nRUN three\nCOPY . /app"
	res := Optimize(parser.Parse(df))

	if len(res.Instructions) != 3 {
		t.Fatalf("got %d instructions, want 3", len(res.Instructions))
	}
	run := res.Instructions[1]
	if run.Kind != ir.RunKind || run.Line != 2 {
		t.Fatalf("combined instruction = %+v", run)
	}
	want := "one \\\n    && two \\\n    && three"
	if run.Value != want {
		t.Errorf("combined value = %q, want %q", run.Value, want)
	}
	if len(res.Applied) != 1 || res.Applied[0] != "Combined 3 RUN commands starting at line 2." {
		t.Errorf("applied = %v", res.Applied)
	}
}

func TestOptimize_PinsUntaggedImage(t *testing.T) {
	res := Optimize(parser.Parse("FROM node\nCMD node server.js"))

	from := res.Instructions[0]
	if from.Value != "node:latest" || from.Original != "FROM node:latest" {
		t.Errorf("from = %+v", from)
	}
	if len(res.Applied) != 1 || res.Applied[0] != "Pinned untagged base image 'node' to 'latest' at line 1." {
		t.Errorf("applied = %v", res.Applied)
	}

	// Tagged images are left alone.
	res = Optimize(parser.Parse("FROM node:20-alpine"))
	if len(res.Applied) != 0 {
		t.Errorf("tagged image rewritten: %v", res.Applied)
	}
}

func TestOptimize_AppendsAptCleanup(t *testing.T) {
	res := Optimize(parser.Parse("FROM a:1\nRUN apt-get update && apt-get install -y curl"))

	run := res.Instructions[1]
	if !strings.HasSuffix(run.Value, "rm -rf /var/lib/apt/lists/*") {
		t.Errorf("cleanup not appended: %q", run.Value)
	}
	if len(res.Applied) != 1 || res.Applied[0] != "Appended apt-get cache cleanup to RUN at line 2." {
		t.Errorf("applied = %v", res.Applied)
	}

	// Already-clean installs are not touched.
	res = Optimize(parser.Parse("FROM a:1\nRUN apt-get install -y curl && rm -rf /var/lib/apt/lists/*"))
	if len(res.Applied) != 0 {
		t.Errorf("clean install rewritten: %v", res.Applied)
	}
}

func TestOptimize_StagesCompose(t *testing.T) {
	// Combining feeds the cleanup stage: the merged RUN installs packages,
	// so a single cleanup lands on the combined layer.
	df := "FROM ubuntu\nRUN apt-get update\nRUN apt-get install -y curl"
	res := Optimize(parser.Parse(df))

	want := []string{
		"Combined 2 RUN commands starting at line 2.",
		"Pinned untagged base image 'ubuntu' to 'latest' at line 1.",
		"Appended apt-get cache cleanup to RUN at line 2.",
	}
	if len(res.Applied) != len(want) {
		t.Fatalf("applied = %v", res.Applied)
	}
	for i := range want {
		if res.Applied[i] != want[i] {
			t.Errorf("applied[%d] = %q, want %q", i, res.Applied[i], want[i])
		}
	}
}

func TestOptimize_Idempotent(t *testing.T) {
	df := "FROM ubuntu\nRUN apt-get update\nRUN apt-get install -y curl\nEXPOSE 8080"
	first := Optimize(parser.Parse(df))
	second := Optimize(first.Instructions)

	if len(second.Applied) != 0 {
		t.Errorf("second pass reports changes: %v", second.Applied)
	}
	if len(second.Instructions) != len(first.Instructions) {
		t.Fatalf("instruction count drifted: %d vs %d", len(second.Instructions), len(first.Instructions))
	}
	for i := range first.Instructions {
		if second.Instructions[i] != first.Instructions[i] {
			t.Errorf("instruction %d drifted: %+v vs %+v", i, second.Instructions[i], first.Instructions[i])
		}
	}
}

func TestOptimize_InputUntouched(t *testing.T) {
	ins := parser.Parse("FROM a:1\nRUN one\nRUN two")
	before := make([]ir.Instruction, len(ins))
	copy(before, ins)

	Optimize(ins)

	for i := range ins {
		if ins[i] != before[i] {
			t.Fatalf("input mutated at %d: %+v", i, ins[i])
		}
	}
}

func TestRender(t *testing.T) {
	res := Optimize(parser.Parse("FROM node\nRUN a\nRUN b"))
	got := Render(res.Instructions)
	want := "FROM node:latest\nRUN a \\\n    && b\n"
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
	if Render(nil) != "" {
		t.Errorf("Render(nil) should be empty")
	}
}
