package diffview

import (
	"fmt"
	"reflect"
	"testing"

	"critview/internal/review"
)

func numberedLines(n int) []string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d", i+1)
	}
	return lines
}

func TestCalculateContextRangesMergesNearbyThreads(t *testing.T) {
	threads := []review.Thread{
		{ID: "a", SelectionStart: 50},
		{ID: "b", SelectionStart: 58},
	}
	got := CalculateContextRanges(threads, 1, 200, nil)
	want := []LineRange{{Start: 45, End: 63}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ranges = %v, want %v", got, want)
	}
}

func TestCalculateContextRangesClampsToFile(t *testing.T) {
	threads := []review.Thread{{ID: "a", SelectionStart: 2, SelectionEnd: 3}}
	got := CalculateContextRanges(threads, 1, 5, nil)
	want := []LineRange{{Start: 1, End: 5}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ranges = %v, want %v", got, want)
	}
}

func TestCalculateContextRangesClipsExclusions(t *testing.T) {
	threads := []review.Thread{{ID: "a", SelectionStart: 50, SelectionEnd: 55}}
	exclude := []LineRange{{Start: 52, End: 53}}
	got := CalculateContextRanges(threads, 1, 200, exclude)
	want := []LineRange{{Start: 45, End: 51}, {Start: 54, End: 60}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ranges = %v, want %v", got, want)
	}
}

func TestCalculateContextRangesFullyExcluded(t *testing.T) {
	threads := []review.Thread{{ID: "a", SelectionStart: 10}}
	exclude := []LineRange{{Start: 1, End: 100}}
	if got := CalculateContextRanges(threads, 1, 100, exclude); got != nil {
		t.Fatalf("ranges = %v, want nil", got)
	}
}

func TestCalculateContextRangesNoThreads(t *testing.T) {
	if got := CalculateContextRanges(nil, 1, 100, nil); got != nil {
		t.Fatalf("ranges = %v, want nil", got)
	}
}

func TestGroupRangesByHunks(t *testing.T) {
	hunkRanges := []LineRange{{Start: 10, End: 20}, {Start: 50, End: 60}}
	ranges := []LineRange{
		{Start: 2, End: 8},
		{Start: 25, End: 30},
		{Start: 70, End: 80},
	}
	sections := GroupRangesByHunks(ranges, hunkRanges)
	if len(sections) != 3 {
		t.Fatalf("sections = %d, want 3", len(sections))
	}
	if !reflect.DeepEqual(sections[0], []LineRange{{Start: 2, End: 8}}) {
		t.Errorf("section 0 = %v", sections[0])
	}
	if !reflect.DeepEqual(sections[1], []LineRange{{Start: 25, End: 30}}) {
		t.Errorf("section 1 = %v", sections[1])
	}
	if !reflect.DeepEqual(sections[2], []LineRange{{Start: 70, End: 80}}) {
		t.Errorf("section 2 = %v", sections[2])
	}
}

func TestGroupRangesByHunksEmpty(t *testing.T) {
	sections := GroupRangesByHunks(nil, []LineRange{{Start: 1, End: 5}})
	if len(sections) != 2 {
		t.Fatalf("sections = %d, want 2", len(sections))
	}
	for i, s := range sections {
		if len(s) != 0 {
			t.Errorf("section %d = %v, want empty", i, s)
		}
	}
}

func TestBuildContextItems(t *testing.T) {
	content := &FileContent{Lines: numberedLines(40), StartLine: 1}
	threads := []review.Thread{
		{ID: "a", SelectionStart: 10},
		{ID: "b", SelectionStart: 30},
	}

	items := BuildContextItems(content, threads, nil)

	// [5,15], gap separator, [25,35].
	if len(items) != 23 {
		t.Fatalf("items = %d, want 23", len(items))
	}
	if items[0].LineNum != 5 || items[0].Content != "line 5" {
		t.Fatalf("items[0] = %+v", items[0])
	}
	sep := items[11]
	if !sep.Separator || sep.Gap != 9 {
		t.Fatalf("separator = %+v, want gap 9", sep)
	}
	if items[12].LineNum != 25 {
		t.Fatalf("items[12] = %+v", items[12])
	}
	if items[22].LineNum != 35 {
		t.Fatalf("items[22] = %+v", items[22])
	}
}

func TestBuildContextItemsNoRanges(t *testing.T) {
	content := &FileContent{Lines: numberedLines(10), StartLine: 1}
	items := BuildContextItems(content, nil, nil)
	if len(items) != 1 || !items[0].Separator {
		t.Fatalf("items = %+v, want single separator", items)
	}
}

func TestBuildContextItemsOutOfWindowLines(t *testing.T) {
	// Content window starts at line 100; a range reaching below it still
	// yields one row per line so geometry stays stable.
	content := &FileContent{Lines: numberedLines(5), StartLine: 100}
	items := buildContextItemsFromRanges(content, []LineRange{{Start: 98, End: 101}})
	if len(items) != 4 {
		t.Fatalf("items = %d, want 4", len(items))
	}
	if items[0].Content != "" || items[0].LineNum != 98 {
		t.Fatalf("items[0] = %+v, want empty content", items[0])
	}
	if items[2].Content != "line 1" {
		t.Fatalf("items[2] = %+v", items[2])
	}
}
