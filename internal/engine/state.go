package engine

// SkipReason records why a keyword terminated without a merged result.
type SkipReason string

const (
	SkipNotFound     SkipReason = "not_found"
	SkipAlreadyKnown SkipReason = "already_known"
	SkipError        SkipReason = "error"
)

// RunReport summarizes one engine run. Every input keyword is accounted
// for: merged, skipped, or left in the checkpoint remainder.
type RunReport struct {
	Merged        int
	Skipped       map[SkipReason]int
	Blocked       bool
	BlockedSource string
	Remaining     int
	Resumed       bool
}

func newRunReport() *RunReport {
	return &RunReport{Skipped: make(map[SkipReason]int)}
}

func (r *RunReport) skip(reason SkipReason) {
	r.Skipped[reason]++
}
