package diffview

import (
	"testing"

	"critview/internal/review"
)

const anchorTestDiff = "--- a/main.go\n" +
	"+++ b/main.go\n" +
	"@@ -1,3 +1,4 @@\n" +
	" alpha\n" +
	"-beta\n" +
	"+beta2\n" +
	"+gamma\n" +
	" delta"

// Display order: 0 header, 1 alpha(1/1), 2 -beta, 3 +beta2(new 2),
// 4 +gamma(new 3), 5 delta(3/4).

func TestMapThreadsToDiff(t *testing.T) {
	d := Parse(anchorTestDiff)
	threads := []review.Thread{
		{ID: "t1", FilePath: "main.go", SelectionStart: 2},
		{ID: "t2", FilePath: "main.go", SelectionStart: 1, SelectionEnd: 3},
	}

	anchors := MapThreadsToDiff(&d, threads)
	if len(anchors) != 2 {
		t.Fatalf("anchors = %d, want 2", len(anchors))
	}

	// Sorted by display line: t2 at line 1 first.
	if anchors[0].ThreadID != "t2" || anchors[0].DisplayLine != 1 {
		t.Fatalf("anchors[0] = %+v", anchors[0])
	}
	if anchors[0].CommentAfterLine != 4 {
		t.Errorf("t2 comment after = %d, want 4", anchors[0].CommentAfterLine)
	}
	if anchors[0].LineCount != 3 {
		t.Errorf("t2 line count = %d, want 3", anchors[0].LineCount)
	}

	if anchors[1].ThreadID != "t1" || anchors[1].DisplayLine != 3 {
		t.Fatalf("anchors[1] = %+v", anchors[1])
	}
	if anchors[1].CommentAfterLine != 3 {
		t.Errorf("t1 comment after = %d, want 3", anchors[1].CommentAfterLine)
	}
}

func TestMapThreadsToDiffOrphans(t *testing.T) {
	d := Parse(anchorTestDiff)
	threads := []review.Thread{
		{ID: "far", FilePath: "main.go", SelectionStart: 50},
	}
	if anchors := MapThreadsToDiff(&d, threads); len(anchors) != 0 {
		t.Fatalf("anchors = %v, want none", anchors)
	}
}

func TestMapThreadsToDiffEndOutsideDiff(t *testing.T) {
	d := Parse(anchorTestDiff)
	threads := []review.Thread{
		{ID: "t", FilePath: "main.go", SelectionStart: 2, SelectionEnd: 99},
	}
	anchors := MapThreadsToDiff(&d, threads)
	if len(anchors) != 1 {
		t.Fatalf("anchors = %d, want 1", len(anchors))
	}
	// End line not in the diff: the block falls back to the anchor line.
	if anchors[0].CommentAfterLine != anchors[0].DisplayLine {
		t.Fatalf("comment after = %d, want %d", anchors[0].CommentAfterLine, anchors[0].DisplayLine)
	}
}

func TestThreadEnd(t *testing.T) {
	if got := threadEnd(review.Thread{SelectionStart: 7}); got != 7 {
		t.Errorf("single line end = %d, want 7", got)
	}
	if got := threadEnd(review.Thread{SelectionStart: 7, SelectionEnd: 12}); got != 12 {
		t.Errorf("range end = %d, want 12", got)
	}
}

func TestLineInThreadRanges(t *testing.T) {
	ranges := buildThreadRanges([]review.Thread{
		{SelectionStart: 5, SelectionEnd: 8},
		{SelectionStart: 20},
	})

	cases := []struct {
		line int
		want bool
	}{
		{4, false}, {5, true}, {8, true}, {9, false}, {20, true}, {21, false},
	}
	for _, c := range cases {
		ln := c.line
		if got := lineInThreadRanges(&ln, ranges); got != c.want {
			t.Errorf("line %d = %v, want %v", c.line, got, c.want)
		}
	}
	if lineInThreadRanges(nil, ranges) {
		t.Error("nil line should never match")
	}
}

func TestDiffChangeCounts(t *testing.T) {
	d := Parse(anchorTestDiff)
	c := DiffChangeCounts(&d)
	if c.Added != 2 || c.Removed != 1 {
		t.Fatalf("counts = %+v, want 2 added, 1 removed", c)
	}
}
