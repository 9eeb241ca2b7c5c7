package golden

import (
	"bytes"
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/Nash0810/docktor/internal/optimizer"
	"github.com/Nash0810/docktor/internal/parser"
	"github.com/Nash0810/docktor/internal/rules"
)

var update = flag.Bool("update", false, "update golden snapshot")

const goldenFile = "expected.json"

const sampleDockerfile = `FROM ubuntu
RUN apt-get update
RUN apt-get install -y curl
EXPOSE 8080
`

type issueLite struct {
	RuleID   string `json:"rule_id"`
	Severity string `json:"severity"`
	Line     int    `json:"line"`
	Message  string `json:"message"`
}

type snapshot struct {
	Issues        []issueLite `json:"issues"`
	Optimizations []string    `json:"optimizations"`
}

func TestGolden_SampleSnapshot(t *testing.T) {
	ins := parser.Parse(sampleDockerfile)
	issues := rules.Evaluate(ins)
	opt := optimizer.Optimize(ins)

	// Normalize volatile fields (issue IDs) before snapshotting.
	snap := snapshot{Optimizations: opt.Applied}
	for _, issue := range issues {
		snap.Issues = append(snap.Issues, issueLite{
			RuleID:   issue.RuleID,
			Severity: issue.Severity,
			Line:     issue.Line,
			Message:  issue.Message,
		})
	}

	got, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		t.Fatalf("marshal got: %v", err)
	}

	if *update {
		if err := os.WriteFile(goldenFile, got, 0o644); err != nil {
			t.Fatalf("write golden: %v", err)
		}
		t.Logf("updated %s", goldenFile)
		return
	}

	want, err := os.ReadFile(goldenFile)
	if err != nil {
		t.Fatalf("read golden (%s): %v\nRun with: go test ./test/golden -run TestGolden_SampleSnapshot -args -update", goldenFile, err)
	}

	if !bytes.Equal(bytes.TrimSpace(got), bytes.TrimSpace(want)) {
		tmp := filepath.Join(t.TempDir(), "got.json")
		_ = os.WriteFile(tmp, got, 0o644)
		t.Fatalf("golden mismatch.\n  golden: %s\n  actual: %s\nTip: update with\n  go test ./test/golden -run TestGolden_SampleSnapshot -count=1 -args -update", goldenFile, tmp)
	}
}
