package diffview

import (
	"reflect"
	"strings"
	"testing"

	"critview/internal/highlight"
)

func TestWrap(t *testing.T) {
	cases := []struct {
		text  string
		width int
		want  []string
	}{
		{"hello world", 5, []string{"hello", "world"}},
		{"hello world", 11, []string{"hello world"}},
		{"a bb ccc", 4, []string{"a bb", "ccc"}},
		{"", 10, []string{""}},
		{"one\ntwo", 10, []string{"one", "two"}},
		{"x\n\ny", 10, []string{"x", "", "y"}},
	}
	for _, c := range cases {
		if got := Wrap(c.text, c.width); !reflect.DeepEqual(got, c.want) {
			t.Errorf("Wrap(%q, %d) = %v, want %v", c.text, c.width, got, c.want)
		}
	}
}

func TestWrapZeroWidth(t *testing.T) {
	if got := Wrap("anything", 0); got != nil {
		t.Fatalf("Wrap width 0 = %v, want nil", got)
	}
}

func TestWrapHardSplitsLongWords(t *testing.T) {
	got := Wrap("abcdefghij", 4)
	want := []string{"abcd", "efgh", "ij"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	// A short trailing chunk packs with the next word.
	got = Wrap("abcde xy", 4)
	want = []string{"abcd", "e xy"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestWrapNeverExceedsWidth(t *testing.T) {
	text := "the quick brown fox jumps over thirteen extraordinarily lazy dogs"
	for width := 1; width <= 20; width++ {
		for _, row := range Wrap(text, width) {
			if n := len([]rune(row)); n > width {
				t.Fatalf("width %d: row %q has %d runes", width, row, n)
			}
		}
	}
}

func TestWrapPreserve(t *testing.T) {
	got := WrapPreserve("abcdefgh", 3)
	want := []string{"abc", "def", "gh"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	got = WrapPreserve("ab\ncd", 10)
	want = []string{"ab", "cd"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	if got := WrapPreserve("", 5); !reflect.DeepEqual(got, []string{""}) {
		t.Fatalf("empty = %v", got)
	}
}

func TestWrapSpansAccountingMatchesText(t *testing.T) {
	spans := []highlight.Span{
		{Text: "func ", Color: "#bb9af7"},
		{Text: "main", Color: "#7aa2f7"},
		{Text: "() { return importantValue }"},
	}
	var text strings.Builder
	for _, s := range spans {
		text.WriteString(s.Text)
	}

	for width := 1; width <= 40; width++ {
		plain := WrapPreserve(text.String(), width)
		styled := WrapSpans(spans, width)
		if len(plain) != len(styled) {
			t.Fatalf("width %d: plain %d rows, styled %d rows", width, len(plain), len(styled))
		}
		for i, row := range styled {
			var joined strings.Builder
			for _, s := range row {
				joined.WriteString(s.Text)
			}
			if joined.String() != plain[i] {
				t.Fatalf("width %d row %d: %q != %q", width, i, joined.String(), plain[i])
			}
		}
	}
}

func TestWrapSpansSplitsStylesAtBoundary(t *testing.T) {
	spans := []highlight.Span{{Text: "abcdef", Color: "#9ece6a", Bold: true}}
	rows := WrapSpans(spans, 4)
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0][0].Text != "abcd" || rows[1][0].Text != "ef" {
		t.Fatalf("texts = %q, %q", rows[0][0].Text, rows[1][0].Text)
	}
	if rows[1][0].Color != "#9ece6a" || !rows[1][0].Bold {
		t.Fatalf("style lost across boundary: %+v", rows[1][0])
	}
}

func TestWrapContentFallsBackToText(t *testing.T) {
	rows := wrapContent(nil, "abcdef", 3)
	if len(rows) != 2 || rows[0].Text != "abc" {
		t.Fatalf("rows = %+v", rows)
	}

	styled := wrapContent([]highlight.Span{{Text: "abcdef"}}, "abcdef", 3)
	if len(styled) != 2 || len(styled[0].Spans) == 0 {
		t.Fatalf("styled rows = %+v", styled)
	}

	if rows := wrapContent(nil, "x", 0); len(rows) != 1 {
		t.Fatalf("zero width rows = %d, want 1", len(rows))
	}
}

func TestWrapRows(t *testing.T) {
	if got := wrapRows("abcdefgh", 3); got != 3 {
		t.Errorf("wrapRows = %d, want 3", got)
	}
	if got := wrapRows("", 3); got != 1 {
		t.Errorf("empty wrapRows = %d, want 1", got)
	}
	if got := wrapRows("anything", 0); got != 1 {
		t.Errorf("zero width wrapRows = %d, want 1", got)
	}
}
