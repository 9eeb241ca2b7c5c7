package parser

import (
	"os"
	"strings"
	"unicode"

	"github.com/Nash0810/docktor/internal/ir"
)

// Parse turns raw Dockerfile text into a sequence of instructions. It is
// total: malformed input degrades to COMMENT/UNKNOWN classification and
// never produces an error. Blank lines yield no instruction.
func Parse(text string) []ir.Instruction {
	var out []ir.Instruction

	var buf []string
	startLine := 0

	for i, raw := range strings.Split(text, "\n") {
		lineNo := i + 1
		line := strings.TrimSpace(raw)

		if line == "" {
			continue
		}

		// A trailing backslash continues the instruction on the next line.
		if strings.HasSuffix(line, "\\") {
			if len(buf) == 0 {
				startLine = lineNo
			}
			buf = append(buf, strings.TrimSpace(strings.TrimSuffix(line, "\\")))
			continue
		}

		if len(buf) > 0 {
			buf = append(buf, line)
			out = append(out, classify(strings.Join(buf, " "), startLine))
			buf = nil
			continue
		}

		out = append(out, classify(line, lineNo))
	}

	// EOF with an open buffer: the trailing instruction still counts.
	if len(buf) > 0 {
		out = append(out, classify(strings.Join(buf, " "), startLine))
	}

	return out
}

// ParseFile reads a Dockerfile from disk and parses it.
func ParseFile(path string) ([]ir.Instruction, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(string(b)), nil
}

func classify(line string, lineNo int) ir.Instruction {
	if strings.HasPrefix(line, "#") {
		return ir.Instruction{
			Line:     lineNo,
			Kind:     ir.Comment,
			Original: line,
			Value:    strings.TrimSpace(line[1:]),
		}
	}

	keyword, value := splitKeyword(line)
	kind, ok := ir.Kinds[strings.ToUpper(keyword)]
	if !ok {
		kind = ir.Unknown
	}
	return ir.Instruction{
		Line:     lineNo,
		Kind:     kind,
		Original: line,
		Value:    value,
	}
}

// splitKeyword splits a line into its first whitespace-delimited token and
// the trimmed remainder ("" when the line is a bare keyword).
func splitKeyword(line string) (string, string) {
	i := strings.IndexFunc(line, unicode.IsSpace)
	if i < 0 {
		return line, ""
	}
	return line[:i], strings.TrimSpace(line[i+1:])
}
