package availability

import (
	"fmt"
	"time"
)

// Granularity is the fixed bookable time quantum. Every provider adapter
// normalizes its payload to offsets that are whole multiples of this.
const Granularity = 30 * time.Minute

// GranularitySeconds is Granularity expressed in seconds from midnight,
// the canonical offset unit used throughout the package.
const GranularitySeconds = int(Granularity / time.Second)

// Slot is a single 30-minute bookable unit at one resource on one date.
// Offset is seconds from midnight, always a non-negative multiple of
// GranularitySeconds once a provider adapter has normalized it.
type Slot struct {
	ResourceID string
	Offset     int
	Available  bool
	Waitlisted bool

	// Optional provider display strings, e.g. "19:00" / "19:30".
	StartLabel string
	EndLabel   string
}

// Run is a maximal sequence of 2+ adjacent available slots on one resource.
// EndOffset is the last slot's offset plus one granularity unit.
type Run struct {
	ResourceID  string
	StartOffset int
	EndOffset   int
	SlotCount   int

	StartLabel string
	EndLabel   string
}

// DurationHours reports the run length in hours (each slot is half an hour).
func (r Run) DurationHours() float64 {
	return float64(r.SlotCount) * 0.5
}

// FormatOffset renders a seconds-from-midnight offset as HH:MM.
func FormatOffset(offset int) string {
	return fmt.Sprintf("%02d:%02d", offset/3600, offset%3600/60)
}

// TimeWindow is an inclusive [Start, End] range of offsets within a day.
type TimeWindow struct {
	Start int
	End   int
}

// Contains reports whether offset falls inside the window, both ends inclusive.
func (w TimeWindow) Contains(offset int) bool {
	return offset >= w.Start && offset <= w.End
}

// ParseWindow builds a TimeWindow from "HH:MM" bounds.
func ParseWindow(start, end string) (TimeWindow, error) {
	s, err := parseClock(start)
	if err != nil {
		return TimeWindow{}, fmt.Errorf("window start: %w", err)
	}
	e, err := parseClock(end)
	if err != nil {
		return TimeWindow{}, fmt.Errorf("window end: %w", err)
	}
	if e < s {
		return TimeWindow{}, fmt.Errorf("window end %s before start %s", end, start)
	}
	return TimeWindow{Start: s, End: e}, nil
}

func parseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return t.Hour()*3600 + t.Minute()*60, nil
}
