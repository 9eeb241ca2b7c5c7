package reporting

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/Nash0810/docktor/internal/ir"
)

var (
	errColor  = color.New(color.FgRed, color.Bold).SprintFunc()
	warnColor = color.New(color.FgYellow).SprintFunc()
	infoColor = color.New(color.FgCyan).SprintFunc()
	dimColor  = color.New(color.Faint).SprintFunc()
	okColor   = color.New(color.FgGreen).SprintFunc()
)

func severityLabel(sev string) string {
	switch sev {
	case ir.SeverityError:
		return errColor("ERROR")
	case ir.SeverityWarning:
		return warnColor("WARN ")
	default:
		return infoColor("INFO ")
	}
}

// RenderText writes a human-readable issue listing to w. With explain,
// each issue includes its longer explanation and suggested fix.
func RenderText(w io.Writer, source string, issues []ir.Issue, explain bool) {
	if len(issues) == 0 {
		fmt.Fprintf(w, "%s %s: no issues found\n", okColor("OK"), source)
		return
	}
	fmt.Fprintf(w, "%s: %d issue(s)\n", source, len(issues))
	for _, issue := range issues {
		fmt.Fprintf(w, "  %s %s line %-4d %s\n",
			severityLabel(issue.Severity), dimColor(issue.RuleID), issue.Line, issue.Message)
		if explain {
			if issue.Explanation != "" {
				fmt.Fprintf(w, "        %s\n", dimColor(issue.Explanation))
			}
			if issue.FixSuggestion != "" {
				fmt.Fprintf(w, "        fix: %s\n", issue.FixSuggestion)
			}
		}
	}
}

// RenderOptimizations writes the optimizer change log to w.
func RenderOptimizations(w io.Writer, applied []string) {
	if len(applied) == 0 {
		fmt.Fprintf(w, "%s no optimizations applicable\n", okColor("OK"))
		return
	}
	fmt.Fprintf(w, "%d optimization(s) applied:\n", len(applied))
	for _, change := range applied {
		fmt.Fprintf(w, "  - %s\n", change)
	}
}
