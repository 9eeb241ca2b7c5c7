package fuzz

import (
	"testing"

	"github.com/Nash0810/docktor/internal/optimizer"
	"github.com/Nash0810/docktor/internal/parser"
	"github.com/Nash0810/docktor/internal/rules"
)

// Fuzz the whole analyze path with arbitrary content. The parser is total
// and every rule must tolerate whatever shape it produces, so the only
// assertion is "no panic".
func FuzzAnalyzeNoPanic(f *testing.F) {
	seeds := []string{
		"FROM python:3.11-slim\nRUN pip install x\n",
		"FROM ubuntu\nRUN a \\\nb\nEXPOSE 8080\n",
		"# comment only\n",
		"EXPOSE\nUSER\nFROM\n",
		"RUN trailing continuation \\",
		"garbage but should not panic\n",
		"\x00\xff\nFROM \t\n",
	}
	for _, s := range seeds {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, data string) {
		ins := parser.Parse(data)
		_ = rules.Evaluate(ins)
		res := optimizer.Optimize(ins)
		// Optimizing twice must be stable even on fuzz input.
		if second := optimizer.Optimize(res.Instructions); len(second.Applied) != 0 {
			t.Fatalf("optimizer not idempotent on %q: %v", data, second.Applied)
		}
	})
}
