package rules

import "github.com/Nash0810/docktor/internal/ir"

// Rule types used for reporting/metadata.
const (
	TypeBestPractice = "BEST-PRACTICE"
	TypeSecurity     = "SECURITY"
	TypePerformance  = "PERFORMANCE"
	TypeRegistry     = "REGISTRY"
)

// Rule is a single analysis rule executed over the full instruction
// sequence. Check is a pure function of its input and must not retain or
// mutate the slice it is given.
type Rule struct {
	ID              string
	Summary         string
	Type            string
	DefaultSeverity string
	Docs            string
	Check           func(ins []ir.Instruction) []ir.Issue
}
