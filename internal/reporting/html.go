package reporting

import (
	"fmt"
	"html"
	"os"
	"path/filepath"

	"github.com/Nash0810/docktor/internal/ir"
	"github.com/Nash0810/docktor/internal/rules"
)

// WriteHTML writes a standalone HTML report for a run.
func WriteHTML(runID, outDir string, run *ir.Run) (string, error) {
	path := filepath.Join(outDir, runID+".html")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	fmt.Fprintf(f, "<!doctype html><html><head><meta charset='utf-8'><title>%s</title>", html.EscapeString(runID))
	fmt.Fprint(f, "<style>body{font-family:system-ui,Arial,sans-serif;padding:20px;line-height:1.4} table{border-collapse:collapse;margin:8px 0} td,th{border:1px solid #ddd;padding:6px} h1,h2{margin:6px 0 4px} .dim{color:#666} .mono{font-family:ui-monospace,Menlo,Consolas,monospace} .sev-error{color:#b00} .sev-warning{color:#a60} .sev-info{color:#067}</style>")
	fmt.Fprint(f, "</head><body>")

	fmt.Fprintf(f, "<h1>docktor report &ndash; <span class='mono'>%s</span></h1>", html.EscapeString(runID))
	if run.Source != "" {
		fmt.Fprintf(f, "<p class='dim'>Source: <span class='mono'>%s</span></p>", html.EscapeString(run.Source))
	}
	fmt.Fprintf(f, "<p>Instructions: %d &nbsp; Issues: %d &nbsp; Optimizations: %d</p>",
		len(run.Instructions), len(run.Issues), len(run.Optimizations))

	if len(run.Issues) > 0 {
		fmt.Fprint(f, "<h2>Issues</h2><table><tr><th>Severity</th><th>Rule</th><th>Line</th><th>Message</th><th>Fix</th></tr>")
		for _, issue := range run.Issues {
			summary := issue.RuleID
			if r, ok := rules.Get(issue.RuleID); ok {
				summary = fmt.Sprintf("<abbr title='%s'>%s</abbr>",
					html.EscapeString(r.Summary), html.EscapeString(r.ID))
			}
			fmt.Fprintf(f, "<tr><td class='sev-%s'>%s</td><td class='mono'>%s</td><td>%d</td><td>%s</td><td class='dim'>%s</td></tr>",
				html.EscapeString(issue.Severity),
				html.EscapeString(issue.Severity),
				summary,
				issue.Line,
				html.EscapeString(issue.Message),
				html.EscapeString(issue.FixSuggestion),
			)
		}
		fmt.Fprint(f, "</table>")
	} else {
		fmt.Fprint(f, "<p>No issues found.</p>")
	}

	if len(run.Optimizations) > 0 {
		fmt.Fprint(f, "<h2>Applied Optimizations</h2><ul>")
		for _, change := range run.Optimizations {
			fmt.Fprintf(f, "<li>%s</li>", html.EscapeString(change))
		}
		fmt.Fprint(f, "</ul>")
	}

	fmt.Fprint(f, "</body></html>")
	return path, nil
}
