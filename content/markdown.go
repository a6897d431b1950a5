package content

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Span is a run of text with uniform styling, produced from markdown in
// the notes section.
type Span struct {
	Text   string
	Bold   bool
	Italic bool
}

// NotesSpans parses markdown source into a flat list of paragraphs, each a
// list of styled spans. Only paragraph-level structure and emphasis
// survive; everything else degrades to plain text.
func NotesSpans(source string) [][]Span {
	md := goldmark.New()
	src := []byte(source)
	root := md.Parser().Parse(text.NewReader(src))

	var paragraphs [][]Span
	for child := root.FirstChild(); child != nil; child = child.NextSibling() {
		switch n := child.(type) {
		case *ast.Paragraph:
			if spans := inlineSpans(n, src, false, false); len(spans) > 0 {
				paragraphs = append(paragraphs, spans)
			}
		case *ast.Heading:
			txt := strings.TrimSpace(string(n.Text(src)))
			if txt != "" {
				paragraphs = append(paragraphs, []Span{{Text: txt, Bold: true}})
			}
		case *ast.List:
			for item := n.FirstChild(); item != nil; item = item.NextSibling() {
				var spans []Span
				for b := item.FirstChild(); b != nil; b = b.NextSibling() {
					spans = append(spans, inlineSpans(b, src, false, false)...)
				}
				if len(spans) > 0 {
					spans[0].Text = "• " + spans[0].Text
					paragraphs = append(paragraphs, spans)
				}
			}
		}
	}
	return paragraphs
}

func inlineSpans(n ast.Node, src []byte, bold, italic bool) []Span {
	var spans []Span
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch c := child.(type) {
		case *ast.Text:
			txt := string(c.Segment.Value(src))
			if c.SoftLineBreak() || c.HardLineBreak() {
				txt += " "
			}
			if txt != "" {
				spans = append(spans, Span{Text: txt, Bold: bold, Italic: italic})
			}
		case *ast.Emphasis:
			b, i := bold, italic
			if c.Level >= 2 {
				b = true
			} else {
				i = true
			}
			spans = append(spans, inlineSpans(c, src, b, i)...)
		default:
			txt := string(child.Text(src))
			if txt != "" {
				spans = append(spans, Span{Text: txt, Bold: bold, Italic: italic})
			}
		}
	}
	return spans
}
