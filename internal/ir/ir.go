package ir

import "time"

const Version = "1.0"

// Kind classifies a parsed Dockerfile instruction.
type Kind string

const (
	From        Kind = "FROM"
	RunKind     Kind = "RUN"
	Cmd         Kind = "CMD"
	Label       Kind = "LABEL"
	Expose      Kind = "EXPOSE"
	Env         Kind = "ENV"
	Add         Kind = "ADD"
	Copy        Kind = "COPY"
	Entrypoint  Kind = "ENTRYPOINT"
	Volume      Kind = "VOLUME"
	User        Kind = "USER"
	Workdir     Kind = "WORKDIR"
	Arg         Kind = "ARG"
	Onbuild     Kind = "ONBUILD"
	Stopsignal  Kind = "STOPSIGNAL"
	Healthcheck Kind = "HEALTHCHECK"
	Shell       Kind = "SHELL"
	Comment     Kind = "COMMENT"
	Unknown     Kind = "UNKNOWN"
)

// Kinds maps an upper-cased leading keyword to its Kind. Comment lines and
// unrecognized keywords are classified by the parser, not by this table.
var Kinds = map[string]Kind{
	"FROM":        From,
	"RUN":         RunKind,
	"CMD":         Cmd,
	"LABEL":       Label,
	"EXPOSE":      Expose,
	"ENV":         Env,
	"ADD":         Add,
	"COPY":        Copy,
	"ENTRYPOINT":  Entrypoint,
	"VOLUME":      Volume,
	"USER":        User,
	"WORKDIR":     Workdir,
	"ARG":         Arg,
	"ONBUILD":     Onbuild,
	"STOPSIGNAL":  Stopsignal,
	"HEALTHCHECK": Healthcheck,
	"SHELL":       Shell,
}

// Instruction is one logical Dockerfile directive. Continuation-joined
// physical lines collapse to a single Instruction whose Line is the first
// physical line of the group. Instructions are read-only once produced by
// the parser; rewriters allocate new sequences rather than mutating.
type Instruction struct {
	Line     int    `json:"line"`
	Kind     Kind   `json:"kind"`
	Original string `json:"original"`
	Value    string `json:"value"`
}

// Severity levels for issues, lowest to highest.
const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// Issue is a single rule finding.
type Issue struct {
	ID            string  `json:"id,omitempty"`
	RuleID        string  `json:"rule_id"`
	Message       string  `json:"message"`
	Line          int     `json:"line"`
	Severity      string  `json:"severity"`
	Explanation   string  `json:"explanation,omitempty"`
	FixSuggestion string  `json:"fix_suggestion,omitempty"`
	FixConfidence float64 `json:"fix_confidence,omitempty"`
}

// OptimizationResult is the output of one optimizer pipeline invocation.
type OptimizationResult struct {
	Instructions []Instruction `json:"optimized_instructions"`
	Applied      []string      `json:"applied_optimizations"`
}

// Run records one full analysis of a Dockerfile for storage and reporting.
type Run struct {
	ID        string    `json:"id"`
	StartedAt time.Time `json:"started_at"`
	Source    string    `json:"source,omitempty"`
	IRVersion string    `json:"ir_version,omitempty"`

	Instructions  []Instruction `json:"instructions,omitempty"`
	Issues        []Issue       `json:"issues"`
	Optimizations []string      `json:"optimizations,omitempty"`
}

// BenchmarkResult holds build metrics for one image build attempt.
type BenchmarkResult struct {
	ImageTag         string  `json:"image_tag"`
	BuildTimeSeconds float64 `json:"build_time_seconds,omitempty"`
	ImageSizeMB      float64 `json:"image_size_mb,omitempty"`
	LayerCount       int     `json:"layer_count,omitempty"`
	ErrorMessage     string  `json:"error_message,omitempty"`
}

// SeverityRank orders severities for threshold filtering; unknown severities
// rank as info.
func SeverityRank(sev string) int {
	switch sev {
	case SeverityError:
		return 3
	case SeverityWarning:
		return 2
	default:
		return 1
	}
}
