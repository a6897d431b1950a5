// Package render rasterizes laid-out pages, for on-screen preview and for
// the final document, burning mark-state effects into the pixels.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/hauspek/reportkit/doc"
	"github.com/hauspek/reportkit/geo"
	"github.com/hauspek/reportkit/layout"
	"github.com/hauspek/reportkit/observability"
	"github.com/hauspek/reportkit/raster"
	"github.com/hauspek/reportkit/text"

	"github.com/nfnt/resize"
)

// ErrInit is wrapped by NewRenderer failures. A renderer that cannot
// construct its drawing surface aborts the whole generation attempt.
var ErrInit = errors.New("render: initialization failed")

// PhotoSource resolves photo URLs to decoded images. Implementations are
// provided by the host (file storage, CDN client, test fixtures).
type PhotoSource interface {
	Load(url string) (image.Image, error)
}

// PhotoSourceFunc adapts a function to PhotoSource.
type PhotoSourceFunc func(url string) (image.Image, error)

func (f PhotoSourceFunc) Load(url string) (image.Image, error) { return f(url) }

var (
	colorInk     = color.RGBA{33, 37, 41, 255}
	colorAccent  = color.RGBA{31, 97, 141, 255}
	colorBorder  = color.RGBA{173, 181, 189, 255}
	colorMark    = color.RGBA{192, 57, 43, 255}
	colorMuted   = color.RGBA{108, 117, 125, 255}
	colorPlaceBG = color.RGBA{233, 236, 239, 255}
)

// Renderer turns layout pages into raster images.
type Renderer struct {
	scale    float64 // pixels per document unit
	measurer *text.Measurer
	photos   PhotoSource
	logo     image.Image
	logger   observability.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithScale sets pixels per document unit (default 4, ~840x1188 for A4).
func WithScale(s float64) Option {
	return func(r *Renderer) { r.scale = s }
}

// WithPhotoSource installs the photo resolver. Without one, photo tiles
// render as placeholders.
func WithPhotoSource(src PhotoSource) Option {
	return func(r *Renderer) { r.photos = src }
}

// WithLogo installs the branding asset drawn into page headers. A nil
// logo, like an undecodable one, just renders a header without it.
func WithLogo(img image.Image) Option {
	return func(r *Renderer) { r.logo = img }
}

// WithLogger installs a logger.
func WithLogger(l observability.Logger) Option {
	return func(r *Renderer) { r.logger = l }
}

// NewRenderer constructs a renderer. Font setup failure is fatal for the
// generation attempt and surfaces here rather than as a corrupt document.
func NewRenderer(opts ...Option) (*Renderer, error) {
	m, err := text.NewMeasurer()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInit, err)
	}
	r := &Renderer{
		scale:    4,
		measurer: m,
		logger:   observability.NopLogger{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Scale returns pixels per document unit.
func (r *Renderer) Scale() float64 { return r.scale }

// Measurer exposes the shared measurer so layout can use the same fonts.
func (r *Renderer) Measurer() *text.Measurer { return r.measurer }

func (r *Renderer) px(v float64) int { return int(math.Round(v * r.scale)) }

func (r *Renderer) pxRect(rc geo.Rect) image.Rectangle {
	return image.Rect(r.px(rc.X), r.px(rc.Y), r.px(rc.MaxX()), r.px(rc.MaxY()))
}

// RenderPage rasterizes one page. A nil markState renders the bare page
// (preview before any toggling); otherwise checked boxes get their glyph
// and strikethrough and marked photos their X.
func (r *Renderer) RenderPage(res *layout.Result, page layout.Page, marks doc.MarkState) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.px(res.PageW), r.px(res.PageH)))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	r.drawHeader(img, res, page.Index)

	for _, b := range page.Blocks {
		switch blk := b.(type) {
		case layout.ProjectCard:
			r.drawProjectCard(img, blk)
		case layout.SectionHeader:
			r.drawSectionHeader(img, blk)
		case layout.IssueRow:
			r.drawIssueRow(img, blk, res.Regions, marks)
		case layout.PhotoThumbnail:
			r.drawPhoto(img, blk, marks)
		case layout.SignatureBox:
			r.drawSignatureBox(img, blk)
		}
	}
	return img
}

func (r *Renderer) drawText(img *image.RGBA, s string, x, y float64, size float64, style text.Style, col color.Color) {
	face, err := r.measurer.Face(style, size*r.scale)
	if err != nil {
		r.logger.Warn("face unavailable", observability.Error("err", err))
		return
	}
	raster.Text(img, s, r.px(x), r.px(y), face, col)
}

// baseline converts a line rect into the baseline y for drawing.
func (r *Renderer) baseline(rc geo.Rect, size float64) float64 {
	return rc.Y + size*1.1
}

func (r *Renderer) drawHeader(img *image.RGBA, res *layout.Result, pageIndex int) {
	top, left, right := 6.0, 15.0, 15.0
	headerBottom := 24.0
	x := left
	if r.logo != nil {
		hPx := r.px(12)
		lb := r.logo.Bounds()
		if lb.Dy() > 0 {
			wPx := lb.Dx() * hPx / lb.Dy()
			scaled := resize.Resize(uint(wPx), uint(hPx), r.logo, resize.Lanczos3)
			draw.Draw(img, image.Rect(r.px(x), r.px(top), r.px(x)+wPx, r.px(top)+hPx), scaled, image.Point{}, draw.Over)
			x += float64(wPx)/r.scale + 4
		}
	}
	title := res.Project
	if res.Kind == doc.KindSignOff {
		title += " - Sign-Off Sheet"
	}
	r.drawText(img, title, x, top+9, 4.6, text.Bold, colorAccent)

	pageLabel := fmt.Sprintf("Page %d of %d", pageIndex+1, len(res.Pages))
	w := r.measurer.WidthStyled(pageLabel, 3, text.Regular)
	r.drawText(img, pageLabel, res.PageW-right-w, top+9, 3, text.Regular, colorMuted)

	y := r.px(headerBottom)
	raster.Line(img, r.px(left), y, r.px(res.PageW-right), y, colorBorder)
}

func (r *Renderer) drawProjectCard(img *image.RGBA, card layout.ProjectCard) {
	raster.StrokeRect(img, r.pxRect(card.Rect), 1, colorBorder)
	r.drawText(img, card.Title, card.Rect.X+5, card.Rect.Y+8, 6, text.Bold, colorInk)
	for _, line := range card.Lines {
		r.drawText(img, line.Text, line.Rect.X, r.baseline(line.Rect, line.Size), line.Size, line.Style, colorInk)
	}
}

func (r *Renderer) drawSectionHeader(img *image.RGBA, h layout.SectionHeader) {
	r.drawText(img, h.Text, h.Rect.X, r.baseline(h.Rect, 4.8), 4.8, text.Bold, colorAccent)
	y := r.px(h.Rect.MaxY()) - 1
	raster.Line(img, r.px(h.Rect.X), y, r.px(h.Rect.MaxX()), y, colorBorder)
}

func (r *Renderer) drawIssueRow(img *image.RGBA, row layout.IssueRow, regions *doc.Registry, marks doc.MarkState) {
	raster.StrokeRect(img, r.pxRect(row.Checkbox), 1, colorInk)

	for _, line := range row.Lines {
		r.drawText(img, line.Text, line.Rect.X, r.baseline(line.Rect, line.Size), line.Size, line.Style, colorInk)
	}

	if marks == nil || !marks.Has(doc.CheckboxRegionID(row.IssueID), doc.SymbolCheck) {
		return
	}

	// Check glyph: short stroke down-right, long stroke up-right.
	cb := r.pxRect(row.Checkbox).Inset(2)
	midX := cb.Min.X + cb.Dx()*2/5
	raster.ThickLine(img, cb.Min.X, cb.Min.Y+cb.Dy()*3/5, midX, cb.Max.Y, 2, colorMark)
	raster.ThickLine(img, midX, cb.Max.Y, cb.Max.X, cb.Min.Y, 2, colorMark)

	// Strike through the exact line rects recorded at layout time.
	if reg := regions.ByID(doc.CheckboxRegionID(row.IssueID)); reg != nil {
		for _, lr := range reg.LineRects {
			y := r.px(lr.Y + lr.H*0.55)
			raster.ThickLine(img, r.px(lr.X), y, r.px(lr.MaxX()), y, 2, colorMark)
		}
	}
}

func (r *Renderer) drawPhoto(img *image.RGBA, thumb layout.PhotoThumbnail, marks doc.MarkState) {
	tile := r.pxRect(thumb.Rect)

	var photo image.Image
	if r.photos != nil {
		var err error
		photo, err = r.photos.Load(thumb.URL)
		if err != nil {
			// Per-asset decode failure is non-fatal; the tile renders
			// as a placeholder and everything else continues.
			r.logger.Warn("photo skipped",
				observability.String("url", thumb.URL),
				observability.Error("err", err))
			photo = nil
		}
	}

	if photo == nil {
		raster.FillRect(img, tile, colorPlaceBG)
	} else {
		scaled := resize.Thumbnail(uint(tile.Dx()), uint(tile.Dy()), photo, resize.Lanczos3)
		sb := scaled.Bounds()
		off := image.Pt((tile.Dx()-sb.Dx())/2, (tile.Dy()-sb.Dy())/2)
		draw.Draw(img, sb.Add(tile.Min).Add(off), scaled, sb.Min, draw.Src)
	}
	raster.StrokeRect(img, tile, 1, colorBorder)

	if thumb.Caption != "" {
		r.drawText(img, thumb.Caption, thumb.CaptionRect.X, r.baseline(thumb.CaptionRect, 2.8), 2.8, text.Regular, colorMuted)
	}

	if marks != nil && marks.Has(doc.PhotoRegionID(thumb.IssueID, thumb.PhotoIndex), doc.SymbolX) {
		raster.ThickLine(img, tile.Min.X, tile.Min.Y, tile.Max.X, tile.Max.Y, 3, colorMark)
		raster.ThickLine(img, tile.Max.X, tile.Min.Y, tile.Min.X, tile.Max.Y, 3, colorMark)
	}
}

func (r *Renderer) drawSignatureBox(img *image.RGBA, box layout.SignatureBox) {
	raster.StrokeRect(img, r.pxRect(box.Rect), 1, colorInk)
	r.drawText(img, box.Label, box.Rect.X+3, box.Rect.Y+6, 3.6, text.Bold, colorInk)
	y := r.px(box.Rect.MaxY() - 8)
	raster.Line(img, r.px(box.Rect.X+3), y, r.px(box.Rect.MaxX()-3), y, colorInk)
	r.drawText(img, "Signature / Date", box.Rect.X+3, box.Rect.MaxY()-4, 2.8, text.Regular, colorMuted)
}
