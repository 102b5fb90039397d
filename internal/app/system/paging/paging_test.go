package paging

import (
	"net/http/httptest"
	"testing"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestParseStart(t *testing.T) {
	tests := []struct {
		url  string
		want int
	}{
		{"/members", 1},
		{"/members?start=51", 51},
		{"/members?start=0", 1},
		{"/members?start=abc", 1},
	}
	for _, tc := range tests {
		if got := ParseStart(httptest.NewRequest("GET", tc.url, nil)); got != tc.want {
			t.Errorf("ParseStart(%q) = %d, want %d", tc.url, got, tc.want)
		}
	}
}

func TestWindow(t *testing.T) {
	tests := []struct {
		name      string
		n, start  int
		wantFirst int
		wantLen   int
		wantRange Range
	}{
		{"first page", 25, 1, 1, 10, Range{Start: 1, End: 10, Total: 25, HasNext: true, PrevStart: 1, NextStart: 11}},
		{"middle page", 25, 11, 11, 10, Range{Start: 11, End: 20, Total: 25, HasPrev: true, HasNext: true, PrevStart: 1, NextStart: 21}},
		{"last partial page", 25, 21, 21, 5, Range{Start: 21, End: 25, Total: 25, HasPrev: true, PrevStart: 11, NextStart: 26}},
		{"start past end snaps back", 25, 99, 21, 5, Range{Start: 21, End: 25, Total: 25, HasPrev: true, PrevStart: 11, NextStart: 26}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rows, rng := Window(seq(tc.n), tc.start, 10)
			if len(rows) != tc.wantLen {
				t.Fatalf("len = %d, want %d", len(rows), tc.wantLen)
			}
			if rows[0] != tc.wantFirst {
				t.Errorf("first = %d, want %d", rows[0], tc.wantFirst)
			}
			if rng != tc.wantRange {
				t.Errorf("range = %+v, want %+v", rng, tc.wantRange)
			}
		})
	}
}

func TestWindow_Empty(t *testing.T) {
	rows, rng := Window([]int{}, 1, 10)
	if len(rows) != 0 || rng.Start != 0 || rng.End != 0 || rng.HasNext {
		t.Errorf("unexpected window for empty input: %v %+v", rows, rng)
	}
}
