package layout

import (
	"github.com/hauspek/reportkit/geo"
	"github.com/hauspek/reportkit/text"
)

// Block is a sized, positioned element on a page. Rects are in document
// units with the origin at the page's top-left corner.
type Block interface {
	Bounds() geo.Rect
}

// TextLine is one laid-out line of text.
type TextLine struct {
	Rect  geo.Rect
	Text  string
	Size  float64
	Style text.Style
}

func (b TextLine) Bounds() geo.Rect { return b.Rect }

// ProjectCard is the centered summary card built from the labeled fields.
type ProjectCard struct {
	Rect  geo.Rect
	Title string
	Lines []TextLine
}

func (b ProjectCard) Bounds() geo.Rect { return b.Rect }

// SectionHeader introduces a location.
type SectionHeader struct {
	Rect geo.Rect
	Text string
}

func (b SectionHeader) Bounds() geo.Rect { return b.Rect }

// IssueRow is the atomic text portion of one issue: checkbox glyph plus
// wrapped description lines. Its photo grid is laid out as separate
// PhotoThumbnail blocks that may flow onto following pages.
type IssueRow struct {
	Rect     geo.Rect
	IssueID  string
	Checkbox geo.Rect
	Lines    []TextLine
}

func (b IssueRow) Bounds() geo.Rect { return b.Rect }

// PhotoThumbnail is one fixed-size photo tile in an issue's grid.
type PhotoThumbnail struct {
	Rect        geo.Rect
	IssueID     string
	PhotoIndex  int
	URL         string
	Caption     string
	CaptionRect geo.Rect
}

func (b PhotoThumbnail) Bounds() geo.Rect { return b.Rect }

// SignatureBox is a labeled signing area on the sign-off sheet.
type SignatureBox struct {
	Rect  geo.Rect
	Label string
}

func (b SignatureBox) Bounds() geo.Rect { return b.Rect }

// Page is one laid-out page.
type Page struct {
	Index  int
	Blocks []Block
}
