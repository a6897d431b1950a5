// Package layout turns structured inspection content into a tree of
// sized, positioned blocks with page breaks, and produces the hit-region
// registry as a byproduct. Composition is pure: the same content always
// yields the same pages and regions, and nothing is drawn here.
package layout

import (
	"github.com/hauspek/reportkit/content"
	"github.com/hauspek/reportkit/doc"
	"github.com/hauspek/reportkit/geo"
	"github.com/hauspek/reportkit/text"
)

// Measurer is the text-measuring surface the engine needs. *text.Measurer
// satisfies it.
type Measurer interface {
	WidthStyled(s string, size float64, style text.Style) float64
	WrapStyled(s string, size, maxWidth float64, style text.Style) []string
}

// Margins defines page margins in document units.
type Margins struct {
	Top, Bottom, Left, Right float64
}

// Engine lays out content. Configure with functional options; zero-config
// defaults produce A4 pages in millimetres.
type Engine struct {
	measurer Measurer

	pageW, pageH float64
	margins      Margins
	headerH      float64

	titleSize   float64
	sectionSize float64
	bodySize    float64
	captionSize float64
	lineHeight  float64 // multiplier

	checkboxSize float64
	checkboxGap  float64

	tileSize    float64
	tileGutter  float64
	tilesPerRow int
	captionH    float64

	cardPadding float64
}

// Option configures the engine.
type Option func(*Engine)

// WithPageSize overrides the page dimensions in document units.
func WithPageSize(w, h float64) Option {
	return func(e *Engine) { e.pageW, e.pageH = w, h }
}

// WithMargins overrides the page margins.
func WithMargins(m Margins) Option {
	return func(e *Engine) { e.margins = m }
}

// WithTileSize overrides the photo tile edge length.
func WithTileSize(size float64) Option {
	return func(e *Engine) { e.tileSize = size }
}

// WithLineHeight overrides the line-height multiplier.
func WithLineHeight(h float64) Option {
	return func(e *Engine) { e.lineHeight = h }
}

// NewEngine creates a layout engine.
func NewEngine(m Measurer, opts ...Option) *Engine {
	e := &Engine{
		measurer:     m,
		pageW:        doc.PageWidth,
		pageH:        doc.PageHeight,
		margins:      Margins{Top: 12, Bottom: 15, Left: 15, Right: 15},
		headerH:      16,
		titleSize:    6,
		sectionSize:  4.8,
		bodySize:     3.6,
		captionSize:  2.8,
		lineHeight:   1.4,
		checkboxSize: 4,
		checkboxGap:  2,
		tileSize:     40,
		tileGutter:   4,
		tilesPerRow:  4,
		captionH:     5,
		cardPadding:  5,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result is the output of one composition pass.
type Result struct {
	Kind    doc.Kind
	PageW   float64
	PageH   float64
	Project string
	Pages   []Page
	Regions *doc.Registry
}

// composer carries the mutable cursor state of one Compose call, keeping
// the Engine itself stateless and safe to share.
type composer struct {
	e       *Engine
	pages   []Page
	cursor  float64
	regions *doc.Registry
}

// Compose lays out the content into pages and hit regions.
func (e *Engine) Compose(c *content.Content, kind doc.Kind) *Result {
	co := &composer{e: e, regions: &doc.Registry{}}
	co.newPage()

	if len(c.Fields) > 0 || c.Project != "" {
		co.placeProjectCard(c)
	}

	for _, loc := range c.SortedLocations() {
		co.placeLocation(loc)
	}

	if kind == doc.KindSignOff {
		co.placeSignatures()
	}

	return &Result{
		Kind:    kind,
		PageW:   e.pageW,
		PageH:   e.pageH,
		Project: c.Project,
		Pages:   co.pages,
		Regions: co.regions,
	}
}

func (co *composer) newPage() {
	co.pages = append(co.pages, Page{Index: len(co.pages)})
	co.cursor = co.e.margins.Top + co.e.headerH
}

func (co *composer) page() *Page { return &co.pages[len(co.pages)-1] }

func (co *composer) bound() float64 { return co.e.pageH - co.e.margins.Bottom }

// fits reports whether a block of the given height fits on the current
// page; if not, a fresh page is started and the cursor resets.
func (co *composer) ensure(height float64) {
	if co.cursor+height > co.bound() {
		co.newPage()
	}
}

func (co *composer) contentWidth() float64 {
	return co.e.pageW - co.e.margins.Left - co.e.margins.Right
}

func (co *composer) placeProjectCard(c *content.Content) {
	e := co.e
	lineH := e.bodySize * e.lineHeight
	titleH := e.titleSize * e.lineHeight

	// Card width follows the longest line, clamped to the content width.
	widest := e.measurer.WidthStyled(c.Project, e.titleSize, text.Bold)
	texts := make([]string, 0, len(c.Fields))
	for _, f := range c.Fields {
		s := f.Label + ": " + content.PlainText(f.Value)
		texts = append(texts, s)
		if w := e.measurer.WidthStyled(s, e.bodySize, text.Regular); w > widest {
			widest = w
		}
	}
	cardW := widest + 2*e.cardPadding
	if max := co.contentWidth(); cardW > max {
		cardW = max
	}
	cardH := titleH + float64(len(texts))*lineH + 2*e.cardPadding

	co.ensure(cardH)
	x := (e.pageW - cardW) / 2

	card := ProjectCard{
		Rect:  geo.Rect{X: x, Y: co.cursor, W: cardW, H: cardH},
		Title: c.Project,
	}
	y := co.cursor + e.cardPadding + titleH
	for _, s := range texts {
		card.Lines = append(card.Lines, TextLine{
			Rect: geo.Rect{X: x + e.cardPadding, Y: y, W: cardW - 2*e.cardPadding, H: lineH},
			Text: s,
			Size: e.bodySize,
		})
		y += lineH
	}
	co.page().Blocks = append(co.page().Blocks, card)
	co.cursor += cardH + lineH
}

func (co *composer) placeLocation(loc content.Location) {
	e := co.e
	headH := e.sectionSize * e.lineHeight * 1.5

	// Never strand a section header at the bottom: require room for the
	// header plus one body line.
	co.ensure(headH + e.bodySize*e.lineHeight)

	co.page().Blocks = append(co.page().Blocks, SectionHeader{
		Rect: geo.Rect{X: e.margins.Left, Y: co.cursor, W: co.contentWidth(), H: headH},
		Text: loc.Name,
	})
	co.cursor += headH

	for _, issue := range loc.Issues {
		co.placeIssue(issue, loc.IsNotes())
	}
	co.cursor += e.bodySize * e.lineHeight
}

// issueLines wraps an issue description into styled lines. Notes-section
// descriptions are treated as markdown; everything else is sanitized to
// plain text.
func (co *composer) issueLines(desc string, notes bool, maxW float64) []TextLine {
	e := co.e
	var out []TextLine
	if notes {
		for _, para := range content.NotesSpans(desc) {
			style := text.Regular
			var plain string
			for i, sp := range para {
				if i == 0 {
					if sp.Bold {
						style = text.Bold
					} else if sp.Italic {
						style = text.Italic
					}
				}
				plain += sp.Text
			}
			for _, line := range e.measurer.WrapStyled(plain, e.bodySize, maxW, style) {
				out = append(out, TextLine{Text: line, Size: e.bodySize, Style: style})
			}
		}
		return out
	}
	for _, line := range e.measurer.WrapStyled(content.PlainText(desc), e.bodySize, maxW, text.Regular) {
		out = append(out, TextLine{Text: line, Size: e.bodySize})
	}
	return out
}

func (co *composer) placeIssue(issue content.Issue, notes bool) {
	e := co.e
	lineH := e.bodySize * e.lineHeight
	descX := e.margins.Left + e.checkboxSize + e.checkboxGap
	descW := e.pageW - e.margins.Right - descX

	lines := co.issueLines(issue.Description, notes, descW)
	descH := float64(len(lines)) * lineH
	if descH < e.checkboxSize {
		descH = e.checkboxSize
	}

	// The description and its checkbox are atomic: they never split
	// across a page break. Only the trailing photo grid may flow.
	co.ensure(descH)

	pageIdx := co.page().Index
	row := IssueRow{
		IssueID:  issue.ID,
		Checkbox: geo.Rect{X: e.margins.Left, Y: co.cursor, W: e.checkboxSize, H: e.checkboxSize},
	}
	var lineRects []geo.Rect
	y := co.cursor
	for i := range lines {
		lines[i].Rect = geo.Rect{
			X: descX,
			Y: y,
			W: e.measurer.WidthStyled(lines[i].Text, lines[i].Size, lines[i].Style),
			H: lineH,
		}
		lineRects = append(lineRects, lines[i].Rect)
		y += lineH
	}
	row.Lines = lines
	row.Rect = geo.Rect{X: e.margins.Left, Y: co.cursor, W: co.contentWidth(), H: descH}
	co.page().Blocks = append(co.page().Blocks, row)

	co.regions.Add(doc.HitRegion{
		ID:        doc.CheckboxRegionID(issue.ID),
		Page:      pageIdx,
		Rect:      row.Checkbox,
		Kind:      doc.RegionCheckbox,
		LineRects: lineRects,
	})
	co.cursor += descH + lineH/2

	co.placePhotoGrid(issue, descX)
}

// placePhotoGrid lays out an issue's photos, up to tilesPerRow per row,
// checking remaining space before each row so the grid can continue on
// the next page without splitting a row.
func (co *composer) placePhotoGrid(issue content.Issue, x float64) {
	e := co.e
	if len(issue.Photos) == 0 {
		return
	}

	for start := 0; start < len(issue.Photos); start += e.tilesPerRow {
		end := start + e.tilesPerRow
		if end > len(issue.Photos) {
			end = len(issue.Photos)
		}
		row := issue.Photos[start:end]

		rowH := e.tileSize
		captioned := false
		for _, p := range row {
			if p.Caption != "" {
				captioned = true
			}
		}
		if captioned {
			rowH += e.captionH
		}

		co.ensure(rowH + e.tileGutter)
		pageIdx := co.page().Index

		for i, p := range row {
			idx := start + i
			tile := geo.Rect{
				X: x + float64(i)*(e.tileSize+e.tileGutter),
				Y: co.cursor,
				W: e.tileSize,
				H: e.tileSize,
			}
			thumb := PhotoThumbnail{
				Rect:       tile,
				IssueID:    issue.ID,
				PhotoIndex: idx,
				URL:        p.URL,
				Caption:    content.PlainText(p.Caption),
			}
			if captioned {
				thumb.CaptionRect = geo.Rect{X: tile.X, Y: tile.MaxY(), W: tile.W, H: e.captionH}
			}
			co.page().Blocks = append(co.page().Blocks, thumb)

			co.regions.Add(doc.HitRegion{
				ID:   doc.PhotoRegionID(issue.ID, idx),
				Page: pageIdx,
				Rect: tile,
				Kind: doc.RegionPhoto,
			})
		}
		co.cursor += rowH + e.tileGutter
	}
}

func (co *composer) placeSignatures() {
	e := co.e
	boxH := 28.0
	lineH := e.bodySize * e.lineHeight

	co.ensure(boxH + 2*lineH)
	co.cursor += lineH

	boxW := (co.contentWidth() - e.tileGutter*2) / 2
	for i, label := range []string{"Homeowner", "Builder"} {
		co.page().Blocks = append(co.page().Blocks, SignatureBox{
			Rect: geo.Rect{
				X: e.margins.Left + float64(i)*(boxW+e.tileGutter*2),
				Y: co.cursor,
				W: boxW,
				H: boxH,
			},
			Label: label,
		})
	}
	co.cursor += boxH
}
