package rulesdsl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Nash0810/docktor/internal/parser"
	"github.com/Nash0810/docktor/internal/rules"
)

func writePack(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "pack.yaml")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadAndRegister(t *testing.T) {
	pack := `
rules:
  - id: ORG001
    summary: No curl-pipe-sh installs.
    type: SECURITY
    severity: error
    message: Piping curl into a shell is forbidden.
    where:
      instruction: RUN
      value_regex: 'curl .*\|\s*(ba)?sh'
  - id: ORG002
    summary: Every image must declare a maintainer label.
    severity: info
    message: Add a LABEL maintainer.
    where:
      instruction: LABEL
      value_regex: 'maintainer'
      absent: true
`
	n, err := LoadAndRegister(writePack(t, pack))
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("registered %d rules, want 2", n)
	}

	org1, ok := rules.Get("ORG001")
	if !ok {
		t.Fatal("ORG001 not registered")
	}
	got := org1.Check(parser.Parse("FROM a:1\nRUN curl https://x.sh | sh\nRUN make"))
	if len(got) != 1 || got[0].Line != 2 || got[0].Severity != "error" {
		t.Errorf("ORG001 issues = %+v", got)
	}

	org2, _ := rules.Get("ORG002")
	if got := org2.Check(parser.Parse("FROM a:1")); len(got) != 1 || got[0].Line != 1 {
		t.Errorf("absent rule should flag line 1, got %+v", got)
	}
	if got := org2.Check(parser.Parse("FROM a:1\nLABEL maintainer=\"x\"")); len(got) != 0 {
		t.Errorf("absent rule fired despite match: %+v", got)
	}
}

func TestLoadAndRegister_CompileErrors(t *testing.T) {
	cases := []struct {
		name, pack string
	}{
		{"missing id", "rules:\n  - severity: info\n    message: m\n    where:\n      instruction: RUN\n"},
		{"unknown instruction", "rules:\n  - id: X1\n    severity: info\n    message: m\n    where:\n      instruction: BOGUS\n"},
		{"bad regex", "rules:\n  - id: X2\n    severity: info\n    message: m\n    where:\n      instruction: RUN\n      value_regex: '('\n"},
		{"bad yaml", "rules: ["},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := LoadAndRegister(writePack(t, tc.pack)); err == nil {
				t.Fatal("want error")
			}
		})
	}
}
