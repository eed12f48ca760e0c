package availability

// DetectFunc is the signature of FindRuns, abstracted so the two-tier policy
// can be exercised in tests with an instrumented detector.
type DetectFunc func(slots []Slot, window TimeWindow, minRunLength int) []Run

// Thresholds holds the two-tier minimum run lengths. Primary is tried first;
// Relaxed is only consulted when the primary pass finds nothing.
type Thresholds struct {
	Primary int
	Relaxed int
}

// DetectTiered applies the two-tier threshold policy over one payload:
// a primary-length pass, then, only if it comes up empty, a relaxed-length
// pass over the same slots and window. Strict either/or, never a union.
func DetectTiered(detect DetectFunc, slots []Slot, window TimeWindow, t Thresholds) []Run {
	runs := detect(slots, window, t.Primary)
	if len(runs) > 0 {
		return runs
	}
	return detect(slots, window, t.Relaxed)
}
