package availability

import "sort"

// FindRuns scans a provider payload for runs of consecutive free slots.
//
// Slots are kept when they are available, not waitlisted, and their offset
// falls inside window (inclusive on both ends). Surviving slots are grouped
// per resource, sorted by offset, and scanned: a slot extends the current run
// only when it sits exactly one granularity unit after the previous one. Any
// other delta (a gap, or a duplicate offset) closes the run. Closed runs are
// emitted only when they hold at least minRunLength slots.
//
// Runs never span resources. Resources are emitted in first-appearance order
// of the input, runs within a resource in time order.
func FindRuns(slots []Slot, window TimeWindow, minRunLength int) []Run {
	byResource := make(map[string][]Slot)
	var order []string
	for _, s := range slots {
		if !s.Available || s.Waitlisted {
			continue
		}
		if !window.Contains(s.Offset) {
			continue
		}
		if _, seen := byResource[s.ResourceID]; !seen {
			order = append(order, s.ResourceID)
		}
		byResource[s.ResourceID] = append(byResource[s.ResourceID], s)
	}

	var runs []Run
	for _, id := range order {
		group := byResource[id]
		sort.Slice(group, func(i, j int) bool { return group[i].Offset < group[j].Offset })

		var current []Slot
		for _, s := range group {
			if len(current) > 0 && s.Offset-current[len(current)-1].Offset != GranularitySeconds {
				if len(current) >= minRunLength {
					runs = append(runs, newRun(current))
				}
				current = current[:0]
			}
			current = append(current, s)
		}
		if len(current) >= minRunLength {
			runs = append(runs, newRun(current))
		}
	}
	return runs
}

func newRun(slots []Slot) Run {
	first, last := slots[0], slots[len(slots)-1]
	r := Run{
		ResourceID:  first.ResourceID,
		StartOffset: first.Offset,
		EndOffset:   last.Offset + GranularitySeconds,
		SlotCount:   len(slots),
		StartLabel:  first.StartLabel,
		EndLabel:    last.EndLabel,
	}
	if r.StartLabel == "" {
		r.StartLabel = FormatOffset(r.StartOffset)
	}
	if r.EndLabel == "" {
		r.EndLabel = FormatOffset(r.EndOffset)
	}
	return r
}
