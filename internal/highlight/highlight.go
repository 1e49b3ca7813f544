// Package highlight provides per-line syntax highlighting backed by chroma.
package highlight

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// Span is a run of text with one style.
type Span struct {
	Text   string
	Color  string
	Bold   bool
	Italic bool
}

// Highlighter resolves a lexer per file path and tokenizes single lines.
// Lexers are cached by path since a render pass highlights many lines of
// the same file.
type Highlighter struct {
	lexerCache map[string]chroma.Lexer
}

func New() *Highlighter {
	return &Highlighter{lexerCache: make(map[string]chroma.Lexer)}
}

func (h *Highlighter) lexerFor(path string) chroma.Lexer {
	if lexer, ok := h.lexerCache[path]; ok {
		return lexer
	}
	lexer := lexers.Match(path)
	if lexer != nil {
		lexer = chroma.Coalesce(lexer)
	}
	h.lexerCache[path] = lexer
	return lexer
}

// Line highlights a single line of code. Returns nil when no lexer matches
// the path or tokenization fails; callers fall back to unstyled text.
func (h *Highlighter) Line(path, line string) []Span {
	lexer := h.lexerFor(path)
	if lexer == nil {
		return nil
	}

	iterator, err := lexer.Tokenise(nil, line)
	if err != nil {
		return nil
	}

	var spans []Span
	for token := iterator(); token != chroma.EOF; token = iterator() {
		// Tokenizing a bare line can append a trailing newline; the
		// layout engine accounts characters exactly, so strip it.
		text := strings.TrimRight(token.Value, "\n")
		if text == "" {
			continue
		}
		st := tokenStyle(token.Type)
		spans = append(spans, Span{Text: text, Color: st.Color, Bold: st.Bold, Italic: st.Italic})
	}
	return spans
}

// ForFile returns a highlighter bound to one path, so callers in a tight
// loop skip the per-call cache lookup.
func (h *Highlighter) ForFile(path string) *FileHighlighter {
	return &FileHighlighter{h: h, path: path}
}

// FileHighlighter highlights successive lines of a single file.
type FileHighlighter struct {
	h    *Highlighter
	path string
}

func (f *FileHighlighter) Line(line string) []Span {
	return f.h.Line(f.path, line)
}

// tokenStyle maps chroma token categories to palette colors
// (Tokyo Night derived, matching the theme defaults).
func tokenStyle(tt chroma.TokenType) Span {
	switch tt.Category() {
	case chroma.Keyword:
		return Span{Color: "#bb9af7", Bold: true}
	case chroma.Comment:
		return Span{Color: "#565f89", Italic: true}
	case chroma.Operator:
		return Span{Color: "#89ddff"}
	}

	switch tt.SubCategory() {
	case chroma.LiteralString:
		return Span{Color: "#9ece6a"}
	case chroma.LiteralNumber:
		return Span{Color: "#ff9e64"}
	}

	switch tt {
	case chroma.NameFunction, chroma.NameFunctionMagic:
		return Span{Color: "#7aa2f7"}
	case chroma.NameBuiltin, chroma.NameBuiltinPseudo:
		return Span{Color: "#2ac3de"}
	case chroma.NameClass, chroma.NameNamespace:
		return Span{Color: "#2ac3de"}
	case chroma.NameConstant:
		return Span{Color: "#ff9e64"}
	case chroma.NameDecorator, chroma.NameAttribute:
		return Span{Color: "#bb9af7"}
	default:
		return Span{}
	}
}
