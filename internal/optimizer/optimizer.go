package optimizer

import (
	"fmt"
	"strings"

	"github.com/Nash0810/docktor/internal/ir"
)

// stage is one pure sequence-to-sequence transform.
type stage func(ins []ir.Instruction) ([]ir.Instruction, []string)

// pipeline order is fixed; change descriptions concatenate in this order.
var pipeline = []stage{
	combineRunCommands,
	pinUntaggedFromImage,
	cleanAptGetInstalls,
}

// Optimize rewrites the instruction sequence through the fixed pipeline.
// The input is left untouched; running Optimize on its own output is a
// no-op (zero further changes).
func Optimize(ins []ir.Instruction) ir.OptimizationResult {
	var applied []string
	for _, st := range pipeline {
		var changes []string
		ins, changes = st(ins)
		applied = append(applied, changes...)
	}
	return ir.OptimizationResult{Instructions: ins, Applied: applied}
}

// combineRunCommands merges every maximal run of >=2 consecutive RUN
// instructions into one layer, chaining bodies with '&&'. Detection is
// shared with the combinable-RUN lint rule via ir.RunSpans.
func combineRunCommands(ins []ir.Instruction) ([]ir.Instruction, []string) {
	spans := ir.RunSpans(ins)
	if len(spans) == 0 {
		return ins, nil
	}

	out := make([]ir.Instruction, 0, len(ins))
	var changes []string
	next := 0
	for _, span := range spans {
		out = append(out, ins[next:span.Start]...)

		bodies := make([]string, 0, span.End-span.Start)
		for _, in := range ins[span.Start:span.End] {
			bodies = append(bodies, in.Value)
		}
		combined := strings.Join(bodies, " \\\n    && ")
		first := ins[span.Start]
		out = append(out, ir.Instruction{
			Line:     first.Line,
			Kind:     ir.RunKind,
			Original: "RUN " + combined,
			Value:    combined,
		})
		changes = append(changes,
			fmt.Sprintf("Combined %d RUN commands starting at line %d.", span.End-span.Start, first.Line))
		next = span.End
	}
	out = append(out, ins[next:]...)
	return out, changes
}

// pinUntaggedFromImage appends ':latest' to FROM values carrying no tag.
func pinUntaggedFromImage(ins []ir.Instruction) ([]ir.Instruction, []string) {
	out := make([]ir.Instruction, 0, len(ins))
	var changes []string
	for _, in := range ins {
		if in.Kind != ir.From || strings.Contains(in.Value, ":") {
			out = append(out, in)
			continue
		}
		pinned := in.Value + ":latest"
		out = append(out, ir.Instruction{
			Line:     in.Line,
			Kind:     ir.From,
			Original: "FROM " + pinned,
			Value:    pinned,
		})
		changes = append(changes,
			fmt.Sprintf("Pinned untagged base image '%s' to 'latest' at line %d.", in.Value, in.Line))
	}
	return out, changes
}

// cleanAptGetInstalls appends the apt list cleanup to RUN bodies that
// install packages without already cleaning up.
func cleanAptGetInstalls(ins []ir.Instruction) ([]ir.Instruction, []string) {
	out := make([]ir.Instruction, 0, len(ins))
	var changes []string
	for _, in := range ins {
		if in.Kind != ir.RunKind ||
			!strings.Contains(in.Value, "apt-get install") ||
			strings.Contains(in.Value, "rm -rf /var/lib/apt/lists") {
			out = append(out, in)
			continue
		}
		cleaned := strings.TrimSpace(in.Value) + " \\\n    && rm -rf /var/lib/apt/lists/*"
		out = append(out, ir.Instruction{
			Line:     in.Line,
			Kind:     ir.RunKind,
			Original: "RUN " + cleaned,
			Value:    cleaned,
		})
		changes = append(changes,
			fmt.Sprintf("Appended apt-get cache cleanup to RUN at line %d.", in.Line))
	}
	return out, changes
}

// Render re-emits a sequence as Dockerfile text, one instruction per
// logical line, with a trailing newline.
func Render(ins []ir.Instruction) string {
	if len(ins) == 0 {
		return ""
	}
	var b strings.Builder
	for _, in := range ins {
		b.WriteString(in.Original)
		b.WriteByte('\n')
	}
	return b.String()
}
