package reporting

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/Nash0810/docktor/internal/ir"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func TestRenderText(t *testing.T) {
	issues := []ir.Issue{
		{RuleID: "BP001", Severity: ir.SeverityWarning, Line: 1,
			Message: "Base image 'ubuntu' uses an unpinned version.",
			Explanation: "Unpinned tags drift.", FixSuggestion: "Pin the tag."},
		{RuleID: "BP004", Severity: ir.SeverityInfo, Line: 1,
			Message: "No LABEL instruction found. Consider adding metadata to your image."},
	}

	var buf bytes.Buffer
	RenderText(&buf, "Dockerfile", issues, false)
	out := buf.String()
	if !strings.Contains(out, "Dockerfile: 2 issue(s)") {
		t.Errorf("missing header: %q", out)
	}
	if !strings.Contains(out, "WARN") || !strings.Contains(out, "BP001") {
		t.Errorf("missing severity or rule id: %q", out)
	}
	if strings.Contains(out, "Pin the tag.") {
		t.Errorf("explanations rendered without explain: %q", out)
	}

	buf.Reset()
	RenderText(&buf, "Dockerfile", issues, true)
	if !strings.Contains(buf.String(), "fix: Pin the tag.") {
		t.Errorf("explain output missing fix: %q", buf.String())
	}

	buf.Reset()
	RenderText(&buf, "Dockerfile", nil, false)
	if !strings.Contains(buf.String(), "no issues found") {
		t.Errorf("clean output = %q", buf.String())
	}
}

func TestWriteJSON(t *testing.T) {
	dir := t.TempDir()
	run := &ir.Run{ID: "run-1", Source: "Dockerfile",
		Issues: []ir.Issue{{RuleID: "SEC002", Line: 3, Severity: ir.SeverityWarning, Message: "m"}}}

	path, err := WriteJSON("run-1", dir, run)
	if err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got ir.Run
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatal(err)
	}
	if got.ID != "run-1" || len(got.Issues) != 1 {
		t.Errorf("report roundtrip = %+v", got)
	}
}

func TestWriteDiffJSON(t *testing.T) {
	dir := t.TempDir()
	base := &ir.Run{Issues: []ir.Issue{
		{RuleID: "BP001", Line: 1, Severity: ir.SeverityWarning, Message: "unpinned"},
		{RuleID: "PERF001", Line: 2, Severity: ir.SeverityInfo, Message: "combine"},
		{RuleID: "SEC001", Line: 1, Severity: ir.SeverityWarning, Message: "root"},
	}}
	head := &ir.Run{Issues: []ir.Issue{
		{RuleID: "BP001", Line: 1, Severity: ir.SeverityError, Message: "unpinned"}, // severity changed
		{RuleID: "SEC001", Line: 1, Severity: ir.SeverityWarning, Message: "root"},  // unchanged
		{RuleID: "SEC002", Line: 4, Severity: ir.SeverityWarning, Message: "add"},   // new
	}}

	path, err := WriteDiffJSON("a", "b", dir, base, head)
	if err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got diffPayload
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatal(err)
	}

	if got.Summary.NewCount != 1 || got.Summary.RemovedCount != 1 || got.Summary.ChangedCount != 1 {
		t.Fatalf("summary = %+v", got.Summary)
	}
	if got.New[0].RuleID != "SEC002" || got.New[0].Line != 4 {
		t.Errorf("new = %+v", got.New)
	}
	if got.Removed[0].RuleID != "PERF001" {
		t.Errorf("removed = %+v", got.Removed)
	}
	if got.Changed[0].Key != "BP001|1" || got.Changed[0].Changed[0] != "severity" {
		t.Errorf("changed = %+v", got.Changed)
	}
}
