// Package rulesdsl loads organization-specific lint rules from YAML packs
// and registers them alongside the built-in catalog.
package rulesdsl

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Nash0810/docktor/internal/ir"
	"github.com/Nash0810/docktor/internal/rules"
)

type dslPack struct {
	Rules []dslRule `yaml:"rules"`
}

type dslRule struct {
	ID       string `yaml:"id"`
	Summary  string `yaml:"summary"`
	Type     string `yaml:"type"`     // BEST-PRACTICE|SECURITY|PERFORMANCE
	Severity string `yaml:"severity"` // info|warning|error
	Message  string `yaml:"message"`

	Where struct {
		Instruction string `yaml:"instruction"` // keyword, e.g. "RUN"
		ValueRegex  string `yaml:"value_regex"` // regex on the body (case-insensitive)
		Absent      bool   `yaml:"absent"`      // flag when NO instruction matches
	} `yaml:"where"`
}

type compiled struct {
	rule    dslRule
	kind    ir.Kind
	reValue *regexp.Regexp
}

// LoadAndRegister parses a YAML rule pack and registers each rule.
// Compile errors are fatal (they are configuration bugs, caught at
// startup, not at analysis time).
func LoadAndRegister(path string) (int, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read rules pack: %w", err)
	}
	var pack dslPack
	if err := yaml.Unmarshal(b, &pack); err != nil {
		return 0, fmt.Errorf("parse yaml: %w", err)
	}
	var n int
	for _, r := range pack.Rules {
		cr, err := compile(r)
		if err != nil {
			return n, fmt.Errorf("compile rule %q: %w", r.ID, err)
		}
		registerCompiled(*cr)
		n++
	}
	return n, nil
}

func compile(r dslRule) (*compiled, error) {
	if r.ID == "" || r.Severity == "" || r.Message == "" {
		return nil, fmt.Errorf("missing required fields (id/severity/message)")
	}
	keyword := strings.ToUpper(strings.TrimSpace(r.Where.Instruction))
	if keyword == "" {
		return nil, fmt.Errorf("where.instruction is required")
	}
	kind, ok := ir.Kinds[keyword]
	if !ok {
		return nil, fmt.Errorf("unknown instruction %q", r.Where.Instruction)
	}
	c := &compiled{rule: r, kind: kind}
	if r.Where.ValueRegex != "" {
		re, err := regexp.Compile("(?i)" + r.Where.ValueRegex)
		if err != nil {
			return nil, fmt.Errorf("value_regex: %w", err)
		}
		c.reValue = re
	}
	return c, nil
}

func registerCompiled(c compiled) {
	ruleType := strings.ToUpper(strings.TrimSpace(c.rule.Type))
	if ruleType == "" {
		ruleType = rules.TypeBestPractice
	}
	severity := strings.ToLower(strings.TrimSpace(c.rule.Severity))

	rules.Register(rules.Rule{
		ID:              c.rule.ID,
		Summary:         c.rule.Summary,
		Type:            ruleType,
		DefaultSeverity: severity,
		Check: func(ins []ir.Instruction) []ir.Issue {
			var out []ir.Issue
			matched := false
			for _, in := range ins {
				if in.Kind != c.kind {
					continue
				}
				if c.reValue != nil && !c.reValue.MatchString(in.Value) {
					continue
				}
				matched = true
				if c.rule.Where.Absent {
					break
				}
				out = append(out, ir.Issue{
					RuleID:   c.rule.ID,
					Message:  c.rule.Message,
					Line:     in.Line,
					Severity: severity,
				})
			}
			if c.rule.Where.Absent && !matched {
				out = append(out, ir.Issue{
					RuleID:   c.rule.ID,
					Message:  c.rule.Message,
					Line:     1,
					Severity: severity,
				})
			}
			return out
		},
	})
}
