package rules

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/Nash0810/docktor/internal/ir"
)

// TagSource lists the available tags for an image repository. The hub
// package provides the Docker Hub implementation; tests supply fakes.
type TagSource interface {
	Tags(ctx context.Context, namespace, name string) ([]string, error)
}

const newerTagExplanation = "Queries the image registry to see if a higher patch version exists for " +
	"the base image tag."

// NewerTagRule builds the registry-backed rule. It is registered by the
// caller (not via init) because it only makes sense with a live TagSource;
// it therefore always runs after the built-in catalog.
func NewerTagRule(src TagSource) Rule {
	return Rule{
		ID:              "REG001",
		Summary:         "Check if a newer patch version is available for the base image.",
		Type:            TypeRegistry,
		DefaultSeverity: ir.SeverityInfo,
		Check: func(ins []ir.Instruction) []ir.Issue {
			return checkNewerTag(src, ins)
		},
	}
}

var leadingVersion = regexp.MustCompile(`^(\d+(?:\.\d+)*)`)

// checkNewerTag never surfaces a network or parse failure: any error for
// one FROM produces zero findings for it and the scan continues.
func checkNewerTag(src TagSource, ins []ir.Instruction) []ir.Issue {
	var out []ir.Issue
	for _, in := range ins {
		if in.Kind != ir.From {
			continue
		}
		image, tag := splitImageRef(in.Value)
		if tag == "" || strings.EqualFold(tag, "latest") {
			continue
		}
		current := parseLeadingVersion(tag)
		if current == nil {
			continue
		}

		namespace, name := "library", image
		if i := strings.Index(image, "/"); i >= 0 {
			namespace, name = image[:i], image[i+1:]
		}

		// Only tags sharing the major.minor prefix are candidates.
		prefix := tag
		if parts := strings.Split(tag, "."); len(parts) >= 2 {
			prefix = parts[0] + "." + parts[1]
		}

		tags, err := src.Tags(context.Background(), namespace, name)
		if err != nil {
			slog.Debug("registry lookup failed", "image", image, "err", err)
			continue
		}

		var bestTag string
		var best []int
		for _, candidate := range tags {
			if !strings.HasPrefix(candidate, prefix) {
				continue
			}
			v := parseLeadingVersion(candidate)
			if v == nil || !versionGreater(v, current) {
				continue
			}
			if best == nil || versionGreater(v, best) {
				best, bestTag = v, candidate
			}
		}
		if bestTag == "" {
			continue
		}

		out = append(out, ir.Issue{
			RuleID:      "REG001",
			Message:     fmt.Sprintf("Newer version available: %s:%s.", image, bestTag),
			Line:        in.Line,
			Severity:    ir.SeverityInfo,
			Explanation: newerTagExplanation,
		})
	}
	return out
}

func parseLeadingVersion(tag string) []int {
	m := leadingVersion.FindString(tag)
	if m == "" {
		return nil
	}
	parts := strings.Split(m, ".")
	v := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil
		}
		v[i] = n
	}
	return v
}

// versionGreater compares dot-separated numeric versions component-wise,
// zero-padding the shorter tuple.
func versionGreater(a, b []int) bool {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		av, bv := 0, 0
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}
		if av != bv {
			return av > bv
		}
	}
	return false
}
