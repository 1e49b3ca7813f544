package highlight

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineGo(t *testing.T) {
	h := New()
	spans := h.Line("main.go", "func main() {")
	require.NotEmpty(t, spans)

	var rebuilt strings.Builder
	for _, s := range spans {
		rebuilt.WriteString(s.Text)
	}
	assert.Equal(t, "func main() {", rebuilt.String())

	kw := spans[0]
	assert.Equal(t, "func", kw.Text)
	assert.NotEmpty(t, kw.Color, "keyword should carry a color")
}

func TestLineNoLexer(t *testing.T) {
	h := New()
	assert.Nil(t, h.Line("data.bin-unknown-ext-xyz", "some content"))
}

func TestLinePreservesCharacterCount(t *testing.T) {
	h := New()
	line := `x := "hello world" // trailing comment`
	spans := h.Line("main.go", line)
	require.NotEmpty(t, spans)

	total := 0
	for _, s := range spans {
		total += len([]rune(s.Text))
	}
	assert.Equal(t, len([]rune(line)), total)
}

func TestForFileCachesLexer(t *testing.T) {
	h := New()
	f := h.ForFile("script.py")
	first := f.Line("def hello():")
	second := f.Line("    return 1")
	require.NotEmpty(t, first)
	require.NotEmpty(t, second)
	assert.Len(t, h.lexerCache, 1)
}
