package ir

// Span is a half-open index range [Start, End) into an instruction
// sequence.
type Span struct {
	Start, End int
}

// RunSpans returns every maximal run of >=2 consecutive RUN instructions.
// The combinable-RUN rule and the optimizer merge stage share this
// detection so that what gets flagged and what gets merged never drift.
func RunSpans(ins []Instruction) []Span {
	var spans []Span
	i := 0
	for i < len(ins) {
		if ins[i].Kind != RunKind {
			i++
			continue
		}
		j := i
		for j < len(ins) && ins[j].Kind == RunKind {
			j++
		}
		if j-i >= 2 {
			spans = append(spans, Span{Start: i, End: j})
		}
		i = j
	}
	return spans
}
