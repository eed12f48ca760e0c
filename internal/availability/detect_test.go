package availability

import (
	"reflect"
	"testing"
)

func free(resource string, offset int) Slot {
	return Slot{ResourceID: resource, Offset: offset, Available: true}
}

func TestFindRuns(t *testing.T) {
	evening := TimeWindow{Start: 18 * 3600, End: 23 * 3600}

	tests := []struct {
		name   string
		slots  []Slot
		window TimeWindow
		min    int
		want   []Run
	}{
		{
			name:   "empty input",
			slots:  nil,
			window: evening,
			min:    2,
			want:   nil,
		},
		{
			name: "three consecutive slots form one run",
			slots: []Slot{
				free("c1", 18*3600),
				free("c1", 18*3600 + 1800),
				free("c1", 19*3600),
			},
			window: evening,
			min:    3,
			want: []Run{{
				ResourceID: "c1", StartOffset: 18 * 3600, EndOffset: 19*3600 + 1800,
				SlotCount: 3, StartLabel: "18:00", EndLabel: "19:30",
			}},
		},
		{
			name: "gap splits runs and short remainder is dropped",
			slots: []Slot{
				free("c1", 18*3600),
				free("c1", 18*3600 + 1800),
				// 19:00 missing
				free("c1", 19*3600 + 1800),
			},
			window: evening,
			min:    2,
			want: []Run{{
				ResourceID: "c1", StartOffset: 18 * 3600, EndOffset: 19 * 3600,
				SlotCount: 2, StartLabel: "18:00", EndLabel: "19:00",
			}},
		},
		{
			name: "unavailable and waitlisted slots break adjacency",
			slots: []Slot{
				free("c1", 18*3600),
				{ResourceID: "c1", Offset: 18*3600 + 1800, Available: false},
				{ResourceID: "c1", Offset: 19 * 3600, Available: true, Waitlisted: true},
				free("c1", 19*3600 + 1800),
			},
			window: evening,
			min:    2,
			want:   nil,
		},
		{
			name: "window is inclusive on both ends",
			slots: []Slot{
				free("c1", 17*3600 + 1800), // excluded
				free("c1", 18*3600),
				free("c1", 18*3600 + 1800),
				free("c1", 23*3600), // included, but not adjacent
			},
			window: evening,
			min:    2,
			want: []Run{{
				ResourceID: "c1", StartOffset: 18 * 3600, EndOffset: 19 * 3600,
				SlotCount: 2, StartLabel: "18:00", EndLabel: "19:00",
			}},
		},
		{
			name: "unsorted input is sorted before scanning",
			slots: []Slot{
				free("c1", 19*3600),
				free("c1", 18*3600),
				free("c1", 18*3600 + 1800),
			},
			window: evening,
			min:    3,
			want: []Run{{
				ResourceID: "c1", StartOffset: 18 * 3600, EndOffset: 19*3600 + 1800,
				SlotCount: 3, StartLabel: "18:00", EndLabel: "19:30",
			}},
		},
		{
			name: "duplicate offsets never chain",
			slots: []Slot{
				free("c1", 18*3600),
				free("c1", 18*3600),
				free("c1", 18*3600),
			},
			window: evening,
			min:    2,
			want:   nil,
		},
		{
			name: "runs never span resources",
			slots: []Slot{
				free("c1", 18*3600),
				free("c2", 18*3600 + 1800),
				free("c1", 18*3600 + 1800),
				free("c2", 19*3600),
			},
			window: evening,
			min:    2,
			want: []Run{
				{ResourceID: "c1", StartOffset: 18 * 3600, EndOffset: 19 * 3600,
					SlotCount: 2, StartLabel: "18:00", EndLabel: "19:00"},
				{ResourceID: "c2", StartOffset: 18*3600 + 1800, EndOffset: 19*3600 + 1800,
					SlotCount: 2, StartLabel: "18:30", EndLabel: "19:30"},
			},
		},
		{
			name: "provider labels are carried onto the run",
			slots: []Slot{
				{ResourceID: "c1", Offset: 18 * 3600, Available: true, StartLabel: "6:00 PM", EndLabel: "6:30 PM"},
				{ResourceID: "c1", Offset: 18*3600 + 1800, Available: true, StartLabel: "6:30 PM", EndLabel: "7:00 PM"},
			},
			window: evening,
			min:    2,
			want: []Run{{
				ResourceID: "c1", StartOffset: 18 * 3600, EndOffset: 19 * 3600,
				SlotCount: 2, StartLabel: "6:00 PM", EndLabel: "7:00 PM",
			}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := FindRuns(tc.slots, tc.window, tc.min)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("FindRuns() = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestFindRunsIdempotent(t *testing.T) {
	slots := []Slot{
		free("c1", 18*3600),
		free("c1", 18*3600 + 1800),
		free("c1", 19*3600),
		free("c1", 20*3600),
		free("c1", 20*3600 + 1800),
	}
	window := TimeWindow{Start: 18 * 3600, End: 23 * 3600}

	first := FindRuns(slots, window, 2)
	second := FindRuns(slots, window, 2)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated detection diverged: %+v vs %+v", first, second)
	}
}

func TestFindRunsMinLengthHonored(t *testing.T) {
	slots := []Slot{
		free("c1", 18*3600),
		free("c1", 18*3600 + 1800),
		free("c1", 20*3600),
		free("c1", 20*3600 + 1800),
		free("c1", 21*3600),
	}
	window := TimeWindow{Start: 18 * 3600, End: 23 * 3600}

	for _, r := range FindRuns(slots, window, 3) {
		if r.SlotCount < 3 {
			t.Errorf("run %+v shorter than minimum", r)
		}
		if r.EndOffset-r.StartOffset != r.SlotCount*GranularitySeconds {
			t.Errorf("run %+v has an internal gap", r)
		}
	}
}
